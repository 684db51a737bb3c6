package milestone

import (
	"strings"
	"time"
)

// Milestone is a dated production checkpoint belonging to an episode.
type Milestone struct {
	ID                     int64
	EpisodeID              int64
	MilestoneType          string
	Label                  string
	DayOffset              int
	DeadlineDate           time.Time
	DeadlineTime           string
	Status                 Status
	IsClientFacing         bool
	RequiresClientApproval bool
	CompletedAt            *time.Time
	Notes                  string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsOverdue reports whether an open milestone's deadline date is before today.
// Only calendar dates are compared; deadline times are informational.
func (m Milestone) IsOverdue(today time.Time) bool {
	if !m.Status.Open() {
		return false
	}
	return dateOnly(m.DeadlineDate).Before(dateOnly(today))
}

// Transition moves the milestone to the target status, stamping completed_at
// when it completes.
func (m *Milestone) Transition(to Status, now time.Time) error {
	if err := ValidateTransition(m.Status, to); err != nil {
		return err
	}
	m.Status = to
	if to == StatusCompleted {
		stamp := now.UTC()
		m.CompletedAt = &stamp
	}
	m.UpdatedAt = now.UTC()
	return nil
}

// Complete marks the milestone completed. Non-empty notes replace existing notes.
func (m *Milestone) Complete(now time.Time, notes string) error {
	if err := m.Transition(StatusCompleted, now); err != nil {
		return err
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		m.Notes = notes
	}
	return nil
}

// Update describes an editable subset of a milestone. The deadline date is not
// editable; it always derives from the episode TX date and the day offset.
type Update struct {
	Status       *Status
	Notes        *string
	DeadlineTime *string
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Status == nil && u.Notes == nil && u.DeadlineTime == nil
}

func dateOnly(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
