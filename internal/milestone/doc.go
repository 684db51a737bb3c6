// Package milestone models production milestones and their lifecycle.
//
// A milestone moves pending -> in_progress -> completed, or from either open
// state to skipped. Completed and skipped are terminal. Overdue is never
// stored: it is derived at read time from the status and the deadline date, so
// a milestone completed late still reads as not overdue.
package milestone
