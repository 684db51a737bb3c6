package api

import (
	"errors"
	"testing"

	"contentops/internal/content"
	"contentops/internal/milestone"
	"contentops/internal/services"
	"contentops/internal/templates"
)

func TestScheduleEpisodeRequestToWorkflow(t *testing.T) {
	req, err := ScheduleEpisodeRequest{ProjectID: 1, Title: " Rent ", TXDate: "2024-04-01", TimelineType: "Breaking_News"}.ToWorkflow()
	if err != nil {
		t.Fatalf("ToWorkflow: %v", err)
	}
	if req.Title != "Rent" || req.TimelineType != templates.TimelineBreakingNews {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.TXDate.Day() != 1 || req.TXDate.Month() != 4 {
		t.Fatalf("unexpected tx date %v", req.TXDate)
	}

	empty, err := ScheduleEpisodeRequest{ProjectID: 1, Title: "x", TXDate: "2024-04-01"}.ToWorkflow()
	if err != nil {
		t.Fatalf("ToWorkflow: %v", err)
	}
	if empty.TimelineType != "" {
		t.Fatalf("expected empty timeline to defer to config, got %q", empty.TimelineType)
	}

	if _, err := (ScheduleEpisodeRequest{TXDate: "01/04/2024"}).ToWorkflow(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
	if _, err := (ScheduleEpisodeRequest{TXDate: "2024-04-01", TimelineType: "weekly"}).ToWorkflow(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad timeline, got %v", err)
	}
}

func TestMilestoneUpdateRequestToUpdate(t *testing.T) {
	status := "in_progress"
	update, err := MilestoneUpdateRequest{Status: &status}.ToUpdate()
	if err != nil {
		t.Fatalf("ToUpdate: %v", err)
	}
	if update.Status == nil || *update.Status != milestone.StatusInProgress {
		t.Fatalf("unexpected status %+v", update.Status)
	}
	if update.Notes != nil || update.DeadlineTime != nil {
		t.Fatal("expected omitted fields to stay nil")
	}
	bad := "late"
	if _, err := (MilestoneUpdateRequest{Status: &bad}).ToUpdate(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitRequestDraft(t *testing.T) {
	if (SubmitRequest{}).Draft() != nil {
		t.Fatal("expected nil draft for empty submit body")
	}
	draft := SubmitRequest{Body: "Final words"}.Draft()
	if draft == nil || draft.Body != "Final words" {
		t.Fatalf("unexpected draft %+v", draft)
	}
}

func TestFeedbackRequestToInput(t *testing.T) {
	input, err := FeedbackRequest{VersionID: 3, Comment: "Cut this", FeedbackType: "revision-request"}.ToInput()
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if input.FeedbackType != content.FeedbackRevisionRequest {
		t.Fatalf("unexpected type %q", input.FeedbackType)
	}
	plain, err := FeedbackRequest{Comment: "ok"}.ToInput()
	if err != nil || plain.FeedbackType != content.FeedbackComment {
		t.Fatalf("expected default comment type, got %q (%v)", plain.FeedbackType, err)
	}
}

func TestGenerateProposalsRequestRejectsBadDuration(t *testing.T) {
	zero := 0
	if _, err := (GenerateProposalsRequest{DurationSeconds: &zero}).ToOptions(1); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	opts, err := GenerateProposalsRequest{ClusterIDs: []string{"cluster-1"}, MaxProposals: 2}.ToOptions(5)
	if err != nil {
		t.Fatalf("ToOptions: %v", err)
	}
	if opts.ProjectID != 5 || opts.MaxProposals != 2 || len(opts.ClusterIDs) != 1 {
		t.Fatalf("unexpected options %+v", opts)
	}
}
