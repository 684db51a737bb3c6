package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"contentops/internal/milestone"
	"contentops/internal/notifications"
	"contentops/internal/schedule"
	"contentops/internal/services"
	"contentops/internal/store"
	"contentops/internal/templates"
	"contentops/internal/testsupport"
	"contentops/internal/workflow"
)

func TestScheduleEpisodeMaterializesMilestones(t *testing.T) {
	h := seeded(t)
	ctx := context.Background()

	view, err := h.engine.ScheduleEpisode(ctx, workflow.ScheduleRequest{
		ProjectID: 1,
		Title:     "Housing costs",
		TXDate:    date(2024, 4, 1),
	})
	if err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}
	if !strings.HasPrefix(view.Episode.CalendarItemID, "cal-") {
		t.Fatalf("expected local calendar id, got %q", view.Episode.CalendarItemID)
	}
	if view.Episode.TimelineType != templates.TimelineNormal || view.Episode.TXTime != "19:00" {
		t.Fatalf("defaults not applied: %#v", view.Episode)
	}
	if len(view.Milestones) != 9 {
		t.Fatalf("expected 9 milestones, got %d", len(view.Milestones))
	}
	first := view.Milestones[0]
	if first.MilestoneType != "topic_lock" || schedule.FormatDate(first.DeadlineDate) != "2024-03-11" {
		t.Fatalf("unexpected first milestone %#v", first.Milestone)
	}
	// Today is 2024-03-28: offsets -21, -14, -10, -7 and -5 have passed.
	if view.Summary.Overdue != 5 {
		t.Fatalf("expected 5 overdue, got %d", view.Summary.Overdue)
	}
	if h.notifier.count(notifications.EventEpisodeScheduled) != 1 {
		t.Fatal("expected one scheduling notification")
	}

	if _, err := h.engine.CreateEpisodeMilestones(ctx, view.Episode.ID); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected rerun to fail validation, got %v", err)
	}
}

func TestScheduleEpisodeWithoutTemplateCreatesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.engine.ScheduleEpisode(ctx, workflow.ScheduleRequest{
		ProjectID: 1,
		Title:     "No template",
		TXDate:    date(2024, 4, 1),
	})
	if !errors.Is(err, services.ErrNoTemplateAvailable) {
		t.Fatalf("expected no template available, got %v", err)
	}
	list, err := h.engine.ListEpisodes(ctx, store.EpisodeFilter{})
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no episodes, got %d", len(list))
	}
}

func TestScheduleEpisodeSurvivesCalendarFailure(t *testing.T) {
	h := seeded(t, workflow.WithCalendar(failingCalendar{}))

	view, err := h.engine.ScheduleEpisode(context.Background(), workflow.ScheduleRequest{
		ProjectID:    1,
		Title:        "Breaking",
		TXDate:       date(2024, 3, 30),
		TimelineType: templates.TimelineBreakingNews,
	})
	if err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}
	if view.Episode.CalendarItemID != "" {
		t.Fatalf("expected no calendar id, got %q", view.Episode.CalendarItemID)
	}
	if len(view.Milestones) == 0 {
		t.Fatal("expected milestones despite calendar failure")
	}
}

// cancellingCalendar hands back an item id after cancelling the caller's
// context, so every store write after it fails.
type cancellingCalendar struct {
	cancel context.CancelFunc
}

func (c cancellingCalendar) CreateEntry(context.Context, workflow.EpisodeRequest) (string, error) {
	c.cancel()
	return "cal-late", nil
}

func TestScheduleEpisodeReportsIncompleteEpisode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine := workflow.NewEngine(cfg, st, slog.New(slog.NewJSONHandler(&logs, nil)),
		workflow.WithNotifier(&recordingNotifier{}),
		workflow.WithCalendar(cancellingCalendar{cancel: cancel}),
		workflow.WithClock(func() time.Time { return engineNow }),
	)
	if _, err := engine.EnsureTemplates(context.Background()); err != nil {
		t.Fatalf("EnsureTemplates: %v", err)
	}

	_, err := engine.ScheduleEpisode(ctx, workflow.ScheduleRequest{ProjectID: 1, Title: "Half done", TXDate: date(2024, 4, 1)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the store failure to surface, got %v", err)
	}
	if !strings.Contains(err.Error(), "episodes milestones") {
		t.Fatalf("error should carry a retry hint, got %v", err)
	}
	for _, fragment := range []string{`"event_type":"episode_incomplete"`, `"error_hint":"run 'contentops episodes milestones`, `"episode_id":`} {
		if !strings.Contains(logs.String(), fragment) {
			t.Fatalf("expected %s in logs:\n%s", fragment, logs.String())
		}
	}

	bg := context.Background()
	list, err := engine.ListEpisodes(bg, store.EpisodeFilter{})
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected the stored episode, got %d", len(list))
	}
	stored, err := engine.GetEpisode(bg, list[0].ID)
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if len(stored.Milestones) != 0 {
		t.Fatalf("expected no milestones yet, got %d", len(stored.Milestones))
	}
	retried, err := engine.CreateEpisodeMilestones(bg, list[0].ID)
	if err != nil {
		t.Fatalf("CreateEpisodeMilestones: %v", err)
	}
	if len(retried.Milestones) != 9 {
		t.Fatalf("expected 9 milestones after retry, got %d", len(retried.Milestones))
	}
}

func TestRescheduleKeepsCompletedDeadlines(t *testing.T) {
	h := seeded(t)
	ctx := context.Background()

	view, err := h.engine.ScheduleEpisode(ctx, workflow.ScheduleRequest{ProjectID: 1, Title: "Moving", TXDate: date(2024, 4, 1)})
	if err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}
	done := view.Milestones[0]
	if _, err := h.engine.CompleteMilestone(ctx, done.ID, "locked early"); err != nil {
		t.Fatalf("CompleteMilestone: %v", err)
	}

	moved, plan, err := h.engine.RescheduleEpisode(ctx, view.Episode.ID, date(2024, 4, 15))
	if err != nil {
		t.Fatalf("RescheduleEpisode: %v", err)
	}
	if len(plan.Preserved) != 1 || len(plan.Changes) != 8 {
		t.Fatalf("unexpected plan: %d preserved, %d changes", len(plan.Preserved), len(plan.Changes))
	}
	if got := schedule.FormatDate(moved.Milestones[0].DeadlineDate); got != "2024-03-11" {
		t.Fatalf("completed milestone moved to %s", got)
	}
	if got := schedule.FormatDate(moved.Milestones[1].DeadlineDate); got != "2024-04-01" {
		t.Fatalf("research deadline = %s, want 2024-04-01", got)
	}
	if moved.Summary.Overdue != 0 {
		t.Fatalf("expected nothing overdue after moving TX, got %d", moved.Summary.Overdue)
	}
}

func TestUpdateMilestoneRules(t *testing.T) {
	h := seeded(t)
	ctx := context.Background()

	view, err := h.engine.ScheduleEpisode(ctx, workflow.ScheduleRequest{ProjectID: 1, Title: "Edits", TXDate: date(2024, 4, 1)})
	if err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}
	id := view.Milestones[2].ID

	if _, err := h.engine.UpdateMilestone(ctx, id, milestone.Update{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected empty update to fail validation, got %v", err)
	}
	badTime := "25:00"
	if _, err := h.engine.UpdateMilestone(ctx, id, milestone.Update{DeadlineTime: &badTime}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected bad time to fail validation, got %v", err)
	}

	inProgress := milestone.StatusInProgress
	notes := "  drafting  "
	updated, err := h.engine.UpdateMilestone(ctx, id, milestone.Update{Status: &inProgress, Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateMilestone: %v", err)
	}
	if updated.Status != milestone.StatusInProgress || updated.Notes != "drafting" || !updated.Overdue {
		t.Fatalf("unexpected milestone %#v", updated)
	}

	if _, err := h.engine.CompleteMilestone(ctx, id, ""); err != nil {
		t.Fatalf("CompleteMilestone: %v", err)
	}
	pending := milestone.StatusPending
	if _, err := h.engine.UpdateMilestone(ctx, id, milestone.Update{Status: &pending}); !errors.Is(err, services.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	overdue, err := h.engine.ListOverdue(ctx)
	if err != nil {
		t.Fatalf("ListOverdue: %v", err)
	}
	if len(overdue) != 4 {
		t.Fatalf("expected 4 overdue after completing one, got %d", len(overdue))
	}
}

func TestPreviewTimelineEndsWithTX(t *testing.T) {
	h := seeded(t)

	entries, err := h.engine.PreviewTimeline(context.Background(), date(2024, 4, 1), "", "", 0)
	if err != nil {
		t.Fatalf("PreviewTimeline: %v", err)
	}
	last := entries[len(entries)-1]
	if last.Label != schedule.TXLabel || !last.CalculatedDate.Equal(date(2024, 4, 1)) || last.TimeOfDay != "19:00" {
		t.Fatalf("unexpected TX entry %#v", last)
	}
}
