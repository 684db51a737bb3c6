package milestone

import "time"

// Summary counts an episode's milestones by status.
type Summary struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
	Skipped    int
	Overdue    int
	// Next is the earliest open milestone, nil when everything is closed.
	Next *Milestone
}

// Summarize aggregates milestones as of today.
func Summarize(list []Milestone, today time.Time) Summary {
	var summary Summary
	for i := range list {
		m := list[i]
		summary.Total++
		switch m.Status {
		case StatusPending:
			summary.Pending++
		case StatusInProgress:
			summary.InProgress++
		case StatusCompleted:
			summary.Completed++
		case StatusSkipped:
			summary.Skipped++
		}
		if m.IsOverdue(today) {
			summary.Overdue++
		}
		if m.Status.Open() && (summary.Next == nil || m.DeadlineDate.Before(summary.Next.DeadlineDate)) {
			summary.Next = &list[i]
		}
	}
	return summary
}

// Progress returns the closed fraction in [0,1]; skipped milestones count as closed.
func (s Summary) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed+s.Skipped) / float64(s.Total)
}
