package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"contentops/internal/logging"
	"contentops/internal/milestone"
	"contentops/internal/notifications"
	"contentops/internal/schedule"
	"contentops/internal/services"
	"contentops/internal/store"
	"contentops/internal/templates"
)

// ScheduleRequest asks for a new episode. Empty TXTime and TimelineType fall
// back to the [workflow] defaults; TemplateID zero selects the timeline's
// default template.
type ScheduleRequest struct {
	ProjectID       int64
	TopicProposalID *int64
	Title           string
	TXDate          time.Time
	TXTime          string
	TimelineType    templates.TimelineType
	TemplateID      int64
}

// MilestoneView is a stored milestone with its read-time overdue flag.
type MilestoneView struct {
	milestone.Milestone
	Overdue bool
}

// EpisodeView is an episode with its milestones classified as of Today.
type EpisodeView struct {
	Episode    schedule.Episode
	Milestones []MilestoneView
	Summary    milestone.Summary
	Today      time.Time
}

// ScheduleEpisode stores the episode, registers it with the calendar
// collaborator and materializes its milestones from the selected template.
// Template selection happens first so a missing template creates nothing.
func (e *Engine) ScheduleEpisode(ctx context.Context, req ScheduleRequest) (EpisodeView, error) {
	if req.TXTime == "" {
		req.TXTime = e.cfg.Workflow.DefaultTXTime
	}
	if req.TimelineType == "" {
		req.TimelineType = templates.TimelineType(e.cfg.Workflow.DefaultTimeline)
	}
	tpl, err := e.resolveTemplate(ctx, req.TemplateID, req.TimelineType)
	if err != nil {
		return EpisodeView{}, err
	}

	ep, err := e.store.CreateEpisode(ctx, schedule.Episode{
		ProjectID:       req.ProjectID,
		TopicProposalID: req.TopicProposalID,
		Title:           strings.TrimSpace(req.Title),
		TXDate:          schedule.Day(req.TXDate),
		TXTime:          req.TXTime,
		TimelineType:    req.TimelineType,
		TemplateID:      tpl.ID,
	})
	if err != nil {
		return EpisodeView{}, err
	}
	ctx = services.WithEpisodeID(ctx, ep.ID)
	logger := e.log(ctx)

	itemID, err := e.calendar.CreateEntry(ctx, EpisodeRequest{
		ProjectID:       ep.ProjectID,
		TopicProposalID: ep.TopicProposalID,
		Title:           ep.Title,
		TXDate:          ep.TXDate,
		TXTime:          ep.TXTime,
		TimelineType:    ep.TimelineType,
		TemplateID:      ep.TemplateID,
	})
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "calendar entry not created", "calendar_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "retry from the calendar collaborator"),
			logging.String(logging.FieldImpact, "episode has no calendar item"),
		)
	case itemID != "":
		if err := e.store.SetCalendarItem(ctx, ep.ID, itemID); err != nil {
			return EpisodeView{}, e.incompleteEpisode(logger, ep, "set calendar item", err)
		}
		ep.CalendarItemID = itemID
	}

	created, err := e.store.CreateMilestones(ctx, ep.ID, schedule.NewMilestones(ep.ID, ep.TXDate, tpl.Offsets))
	if err != nil {
		return EpisodeView{}, e.incompleteEpisode(logger, ep, "create milestones", err)
	}
	if req.TopicProposalID != nil {
		e.linkProposal(ctx, *req.TopicProposalID, ep.ID)
	}

	logging.Event(logger, "episode scheduled", "episode_scheduled",
		logging.Int64(logging.FieldProjectID, ep.ProjectID),
		logging.String("tx_date", schedule.FormatDate(ep.TXDate)),
		logging.Int64("template_id", tpl.ID),
		logging.Int("milestones", len(created)),
	)
	e.publish(ctx, notifications.EventEpisodeScheduled, notifications.Payload{
		"episodeTitle": ep.Title,
		"txDate":       schedule.FormatDate(ep.TXDate),
		"milestones":   len(created),
	})
	return e.view(ep, created), nil
}

// incompleteEpisode reports an episode that was stored but has no
// milestones. The episode row stays; CreateEpisodeMilestones finishes it.
func (e *Engine) incompleteEpisode(logger *slog.Logger, ep schedule.Episode, stage string, err error) error {
	logging.WarnWithContext(logger, "episode stored without milestones", "episode_incomplete",
		logging.Int64(logging.FieldProjectID, ep.ProjectID),
		logging.String("stage", stage),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, fmt.Sprintf("run 'contentops episodes milestones %d' to create them", ep.ID)),
		logging.String(logging.FieldImpact, "episode has no milestones"),
	)
	return fmt.Errorf("episode %d stored without milestones (%s), retry with 'episodes milestones %d': %w", ep.ID, stage, ep.ID, err)
}

// CreateEpisodeMilestones materializes milestones for an episode that has
// none yet, using the episode's template or its timeline default.
func (e *Engine) CreateEpisodeMilestones(ctx context.Context, episodeID int64) (EpisodeView, error) {
	ep, err := e.store.GetEpisode(ctx, episodeID)
	if err != nil {
		return EpisodeView{}, err
	}
	tpl, err := e.resolveTemplate(ctx, ep.TemplateID, ep.TimelineType)
	if err != nil {
		return EpisodeView{}, err
	}
	created, err := e.store.CreateMilestones(ctx, ep.ID, schedule.NewMilestones(ep.ID, ep.TXDate, tpl.Offsets))
	if err != nil {
		return EpisodeView{}, err
	}
	logging.Event(e.log(services.WithEpisodeID(ctx, ep.ID)), "milestones created", "milestones_created",
		logging.Int64("template_id", tpl.ID),
		logging.Int("milestones", len(created)),
	)
	return e.view(ep, created), nil
}

// RescheduleEpisode moves the TX date. Open milestones follow it; completed
// and skipped milestones keep their deadline.
func (e *Engine) RescheduleEpisode(ctx context.Context, episodeID int64, newTXDate time.Time) (EpisodeView, schedule.ReschedulePlan, error) {
	if newTXDate.IsZero() {
		return EpisodeView{}, schedule.ReschedulePlan{}, services.Validation("workflow", "reschedule", "new tx date is required")
	}
	previous, err := e.store.GetEpisode(ctx, episodeID)
	if err != nil {
		return EpisodeView{}, schedule.ReschedulePlan{}, err
	}
	ep, plan, err := e.store.RescheduleEpisode(ctx, episodeID, newTXDate)
	if err != nil {
		return EpisodeView{}, schedule.ReschedulePlan{}, err
	}
	logging.Event(e.log(services.WithEpisodeID(ctx, episodeID)), "episode rescheduled", "episode_rescheduled",
		logging.String("old_tx_date", schedule.FormatDate(previous.TXDate)),
		logging.String("new_tx_date", schedule.FormatDate(ep.TXDate)),
		logging.Int("moved", len(plan.Changes)),
		logging.Int("preserved", len(plan.Preserved)),
	)
	list, err := e.store.ListMilestones(ctx, store.MilestoneFilter{EpisodeID: episodeID})
	if err != nil {
		return EpisodeView{}, schedule.ReschedulePlan{}, err
	}
	return e.view(ep, list), plan, nil
}

// GetEpisode loads an episode with its milestones and summary.
func (e *Engine) GetEpisode(ctx context.Context, episodeID int64) (EpisodeView, error) {
	ep, err := e.store.GetEpisode(ctx, episodeID)
	if err != nil {
		return EpisodeView{}, err
	}
	list, err := e.store.ListMilestones(ctx, store.MilestoneFilter{EpisodeID: episodeID})
	if err != nil {
		return EpisodeView{}, err
	}
	return e.view(ep, list), nil
}

// ListEpisodes returns episodes matching filter ordered by TX date.
func (e *Engine) ListEpisodes(ctx context.Context, filter store.EpisodeFilter) ([]schedule.Episode, error) {
	return e.store.ListEpisodes(ctx, filter)
}

// PreviewTimeline computes, without storing anything, the milestones an
// episode on txDate would get, TX entry included.
func (e *Engine) PreviewTimeline(ctx context.Context, txDate time.Time, txTime string, timeline templates.TimelineType, templateID int64) ([]schedule.Entry, error) {
	if txTime == "" {
		txTime = e.cfg.Workflow.DefaultTXTime
	}
	if timeline == "" {
		timeline = templates.TimelineType(e.cfg.Workflow.DefaultTimeline)
	}
	tpl, err := e.resolveTemplate(ctx, templateID, timeline)
	if err != nil {
		return nil, err
	}
	return schedule.Timeline(txDate, txTime, tpl.Offsets), nil
}

func (e *Engine) resolveTemplate(ctx context.Context, templateID int64, timeline templates.TimelineType) (templates.Template, error) {
	if templateID > 0 {
		return e.store.GetTemplate(ctx, templateID)
	}
	if !timeline.Valid() {
		return templates.Template{}, services.Validation("workflow", "select template", "unknown timeline type %q", timeline)
	}
	list, err := e.store.ListTemplates(ctx, timeline)
	if err != nil {
		return templates.Template{}, err
	}
	return templates.DefaultTemplate(list, timeline)
}

func (e *Engine) linkProposal(ctx context.Context, proposalID, episodeID int64) {
	proposal, err := e.store.GetProposal(ctx, proposalID)
	if err == nil {
		_, err = e.store.UpdateProposal(ctx, proposalID, proposal.Status, &episodeID)
	}
	if err != nil {
		eventType := "proposal_link_failed"
		if errors.Is(err, services.ErrNotFound) {
			eventType = "proposal_missing"
		}
		logging.WarnWithContext(e.log(ctx), "topic proposal not linked to episode", eventType,
			logging.Int64("proposal_id", proposalID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "episode scheduled without a proposal link"),
		)
	}
}

func (e *Engine) view(ep schedule.Episode, list []milestone.Milestone) EpisodeView {
	today := e.today()
	return EpisodeView{
		Episode:    ep,
		Milestones: e.classify(list),
		Summary:    milestone.Summarize(list, today),
		Today:      schedule.Day(today),
	}
}
