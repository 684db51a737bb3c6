package schedule

import (
	"time"

	"contentops/internal/milestone"
)

// DeadlineChange moves one milestone's deadline.
type DeadlineChange struct {
	MilestoneID int64
	OldDate     time.Time
	NewDate     time.Time
}

// ReschedulePlan is the full change set for moving an episode's TX date.
type ReschedulePlan struct {
	NewTXDate time.Time
	Changes   []DeadlineChange
	// Preserved lists completed or skipped milestones whose deadlines stay put.
	Preserved []int64
}

// PlanReschedule recomputes deadlines from newTXDate for every open milestone.
// Completed and skipped milestones keep their original deadline and status.
// Milestones whose deadline would not move are left out of Changes.
func PlanReschedule(list []milestone.Milestone, newTXDate time.Time) ReschedulePlan {
	plan := ReschedulePlan{NewTXDate: Day(newTXDate)}
	for _, m := range list {
		if !m.Status.Open() {
			plan.Preserved = append(plan.Preserved, m.ID)
			continue
		}
		next := AddDays(newTXDate, m.DayOffset)
		if next.Equal(Day(m.DeadlineDate)) {
			continue
		}
		plan.Changes = append(plan.Changes, DeadlineChange{
			MilestoneID: m.ID,
			OldDate:     Day(m.DeadlineDate),
			NewDate:     next,
		})
	}
	return plan
}

// Apply returns a copy of list with the plan's deadline changes applied.
func (p ReschedulePlan) Apply(list []milestone.Milestone) []milestone.Milestone {
	moved := make(map[int64]time.Time, len(p.Changes))
	for _, change := range p.Changes {
		moved[change.MilestoneID] = change.NewDate
	}
	out := make([]milestone.Milestone, len(list))
	copy(out, list)
	for i := range out {
		if date, ok := moved[out[i].ID]; ok {
			out[i].DeadlineDate = date
		}
	}
	return out
}
