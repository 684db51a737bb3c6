package schedule

import (
	"time"

	"contentops/internal/milestone"
	"contentops/internal/templates"
)

// TXLabel is the label of the implicit final milestone.
const TXLabel = "TX"

// Entry is a computed, unsaved milestone.
type Entry struct {
	MilestoneType          string
	Label                  string
	DayOffset              int
	CalculatedDate         time.Time
	TimeOfDay              string
	IsClientFacing         bool
	RequiresClientApproval bool
}

// ComputeMilestones returns one entry per offset, in template order, dated
// txDate + day_offset.
func ComputeMilestones(txDate time.Time, offsets []templates.MilestoneOffset) []Entry {
	entries := make([]Entry, 0, len(offsets))
	for _, offset := range offsets {
		entries = append(entries, Entry{
			MilestoneType:          offset.MilestoneType,
			Label:                  offset.Label,
			DayOffset:              offset.DayOffset,
			CalculatedDate:         AddDays(txDate, offset.DayOffset),
			TimeOfDay:              offset.TimeOfDay,
			IsClientFacing:         offset.IsClientFacing,
			RequiresClientApproval: offset.RequiresClientApproval,
		})
	}
	return entries
}

// TXMilestone is the implicit final milestone on the TX date itself.
func TXMilestone(txDate time.Time, txTime string) Entry {
	return Entry{
		MilestoneType:  templates.ReservedMilestoneType,
		Label:          TXLabel,
		CalculatedDate: Day(txDate),
		TimeOfDay:      txTime,
	}
}

// Timeline returns the computed milestones followed by the TX entry.
func Timeline(txDate time.Time, txTime string, offsets []templates.MilestoneOffset) []Entry {
	return append(ComputeMilestones(txDate, offsets), TXMilestone(txDate, txTime))
}

// NewMilestones materializes pending milestones for an episode. The TX entry
// is not persisted; it is always derivable from the episode.
func NewMilestones(episodeID int64, txDate time.Time, offsets []templates.MilestoneOffset) []milestone.Milestone {
	entries := ComputeMilestones(txDate, offsets)
	out := make([]milestone.Milestone, 0, len(entries))
	for _, entry := range entries {
		out = append(out, milestone.Milestone{
			EpisodeID:              episodeID,
			MilestoneType:          entry.MilestoneType,
			Label:                  entry.Label,
			DayOffset:              entry.DayOffset,
			DeadlineDate:           entry.CalculatedDate,
			DeadlineTime:           entry.TimeOfDay,
			Status:                 milestone.StatusPending,
			IsClientFacing:         entry.IsClientFacing,
			RequiresClientApproval: entry.RequiresClientApproval,
		})
	}
	return out
}
