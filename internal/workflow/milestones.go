package workflow

import (
	"context"
	"strings"

	"contentops/internal/logging"
	"contentops/internal/milestone"
	"contentops/internal/schedule"
	"contentops/internal/services"
	"contentops/internal/store"
	"contentops/internal/templates"
)

// UpdateMilestone applies an edit. Status changes go through the transition
// table; notes and deadline time are free-form; the deadline date is never
// edited directly.
func (e *Engine) UpdateMilestone(ctx context.Context, milestoneID int64, update milestone.Update) (MilestoneView, error) {
	if update.Empty() {
		return MilestoneView{}, services.Validation("workflow", "update milestone", "nothing to update")
	}
	m, err := e.store.GetMilestone(ctx, milestoneID)
	if err != nil {
		return MilestoneView{}, err
	}
	prior := m.Status
	now := e.now()
	if update.Status != nil {
		if err := m.Transition(*update.Status, now); err != nil {
			return MilestoneView{}, err
		}
	}
	if update.Notes != nil {
		m.Notes = strings.TrimSpace(*update.Notes)
	}
	if update.DeadlineTime != nil {
		value := strings.TrimSpace(*update.DeadlineTime)
		if value != "" && !templates.ValidTimeOfDay(value) {
			return MilestoneView{}, services.Validation("workflow", "update milestone", "deadline time %q must be HH:MM", value)
		}
		m.DeadlineTime = value
	}
	return e.saveMilestone(ctx, m, prior)
}

// CompleteMilestone marks a pending or in-progress milestone completed.
// Non-empty notes replace any existing notes.
func (e *Engine) CompleteMilestone(ctx context.Context, milestoneID int64, notes string) (MilestoneView, error) {
	m, err := e.store.GetMilestone(ctx, milestoneID)
	if err != nil {
		return MilestoneView{}, err
	}
	prior := m.Status
	if err := m.Complete(e.now(), notes); err != nil {
		return MilestoneView{}, err
	}
	return e.saveMilestone(ctx, m, prior)
}

// ListMilestones returns an episode's milestones with overdue flags.
func (e *Engine) ListMilestones(ctx context.Context, episodeID int64) ([]MilestoneView, error) {
	if _, err := e.store.GetEpisode(ctx, episodeID); err != nil {
		return nil, err
	}
	list, err := e.store.ListMilestones(ctx, store.MilestoneFilter{EpisodeID: episodeID})
	if err != nil {
		return nil, err
	}
	return e.classify(list), nil
}

// ListOverdue returns every open milestone whose deadline has passed.
func (e *Engine) ListOverdue(ctx context.Context) ([]MilestoneView, error) {
	list, err := e.store.ListMilestones(ctx, store.MilestoneFilter{
		Statuses:  []milestone.Status{milestone.StatusPending, milestone.StatusInProgress},
		DueBefore: schedule.FormatDate(e.today()),
	})
	if err != nil {
		return nil, err
	}
	return e.classify(list), nil
}

func (e *Engine) saveMilestone(ctx context.Context, m milestone.Milestone, prior milestone.Status) (MilestoneView, error) {
	saved, err := e.store.SaveMilestone(ctx, m, prior)
	if err != nil {
		return MilestoneView{}, err
	}
	if saved.Status != prior {
		logging.Event(e.log(services.WithEpisodeID(ctx, saved.EpisodeID)), "milestone "+strings.ReplaceAll(string(saved.Status), "_", " "), "milestone_"+string(saved.Status),
			logging.Int64(logging.FieldMilestoneID, saved.ID),
			logging.String("milestone_type", saved.MilestoneType),
			logging.String("from", string(prior)),
		)
	}
	return MilestoneView{Milestone: saved, Overdue: saved.IsOverdue(e.today())}, nil
}

func (e *Engine) classify(list []milestone.Milestone) []MilestoneView {
	today := e.today()
	out := make([]MilestoneView, len(list))
	for i, m := range list {
		out[i] = MilestoneView{Milestone: m, Overdue: m.IsOverdue(today)}
	}
	return out
}
