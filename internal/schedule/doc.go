// Package schedule derives dated milestones from an episode's TX date.
//
// All date arithmetic goes through AddDays. It adds plain calendar days to a
// civil date held at midnight UTC: there is no business-day, holiday or
// timezone logic, and a deadline of TX-3 on a Monday lands on the Friday
// before. Callers that need working-day schedules should encode that in the
// template offsets.
//
// Computation is pure. Persisting milestones and applying reschedule plans is
// the store's job.
package schedule
