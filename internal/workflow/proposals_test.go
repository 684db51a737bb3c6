package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"contentops/internal/clustering"
	"contentops/internal/notifications"
	"contentops/internal/services"
	"contentops/internal/workflow"
)

func flagStories(t *testing.T, h harness, projectID int64, titles ...string) {
	t.Helper()
	for i, title := range titles {
		_, err := h.engine.RecordStory(context.Background(), clustering.Story{
			ProjectID: projectID,
			Title:     title,
			Category:  "housing",
			FlaggedAt: engineNow.Add(-time.Duration(i+1) * time.Hour),
		})
		if err != nil {
			t.Fatalf("RecordStory: %v", err)
		}
	}
}

func TestGenerateProposalsThenFlagDuplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	flagStories(t, h, 1, "Rent up 4%", "Landlords raise deposits", "Council housing waitlist grows")

	preview, err := h.engine.PreviewClusters(ctx, clustering.PreviewOptions{ProjectID: 1})
	if err != nil {
		t.Fatalf("PreviewClusters: %v", err)
	}
	if len(preview.Clusters) != 1 || len(preview.Clusters[0].SimilarProposals) != 0 {
		t.Fatalf("unexpected first preview %#v", preview.Clusters)
	}

	proposals, err := h.engine.GenerateProposals(ctx, clustering.GenerateOptions{ProjectID: 1, DurationType: "short"})
	if err != nil {
		t.Fatalf("GenerateProposals: %v", err)
	}
	if len(proposals) != 1 || proposals[0].Status != clustering.ProposalDraft || len(proposals[0].SourceStoryIDs) != 3 {
		t.Fatalf("unexpected proposals %#v", proposals)
	}
	if payload, ok := h.notifier.last(notifications.EventProposalsGenerated); !ok || payload["count"] != 1 {
		t.Fatalf("unexpected proposals payload %#v", payload)
	}

	again, err := h.engine.PreviewClusters(ctx, clustering.PreviewOptions{ProjectID: 1})
	if err != nil {
		t.Fatalf("second PreviewClusters: %v", err)
	}
	similar := again.Clusters[0].SimilarProposals
	if len(similar) != 1 || similar[0].ProposalID != proposals[0].ID || similar[0].OverlapPercentage != 100 {
		t.Fatalf("expected full overlap with generated proposal, got %#v", similar)
	}

	if _, err := h.engine.SetProposalStatus(ctx, proposals[0].ID, clustering.ProposalArchived); err != nil {
		t.Fatalf("SetProposalStatus: %v", err)
	}
	third, err := h.engine.PreviewClusters(ctx, clustering.PreviewOptions{ProjectID: 1})
	if err != nil {
		t.Fatalf("third PreviewClusters: %v", err)
	}
	if len(third.Clusters[0].SimilarProposals) != 0 {
		t.Fatalf("archived proposal still reported: %#v", third.Clusters[0].SimilarProposals)
	}
}

func TestPreviewClustersUsesCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	flagStories(t, h, 1, "Rent up 4%")

	for i := 0; i < 3; i++ {
		if _, err := h.engine.PreviewClusters(ctx, clustering.PreviewOptions{ProjectID: 1}); err != nil {
			t.Fatalf("PreviewClusters: %v", err)
		}
	}
	if h.oracle.previewCalls != 1 {
		t.Fatalf("expected one oracle call, got %d", h.oracle.previewCalls)
	}
	if _, err := h.engine.PreviewClusters(ctx, clustering.PreviewOptions{ProjectID: 1, ForceRefresh: true}); err != nil {
		t.Fatalf("PreviewClusters: %v", err)
	}
	if h.oracle.previewCalls != 2 {
		t.Fatalf("expected force refresh to call the oracle, got %d calls", h.oracle.previewCalls)
	}

	flagStories(t, h, 1, "Another rent story")
	if _, err := h.engine.PreviewClusters(ctx, clustering.PreviewOptions{ProjectID: 1}); err != nil {
		t.Fatalf("PreviewClusters: %v", err)
	}
	if h.oracle.previewCalls != 3 {
		t.Fatalf("expected new story to invalidate the cache, got %d calls", h.oracle.previewCalls)
	}
}

func TestScheduleEpisodeLinksProposal(t *testing.T) {
	h := seeded(t)
	ctx := context.Background()
	flagStories(t, h, 1, "Rent up 4%")

	proposals, err := h.engine.GenerateProposals(ctx, clustering.GenerateOptions{ProjectID: 1})
	if err != nil {
		t.Fatalf("GenerateProposals: %v", err)
	}
	view, err := h.engine.ScheduleEpisode(ctx, workflow.ScheduleRequest{
		ProjectID:       1,
		TopicProposalID: &proposals[0].ID,
		Title:           proposals[0].Title,
		TXDate:          date(2024, 4, 1),
	})
	if err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}
	linked, err := h.engine.ListProposals(ctx, clustering.ProposalFilter{ProjectID: 1})
	if err != nil {
		t.Fatalf("ListProposals: %v", err)
	}
	if linked[0].LinkedEpisodeID == nil || *linked[0].LinkedEpisodeID != view.Episode.ID {
		t.Fatalf("proposal not linked: %#v", linked[0])
	}
}

func TestSetProposalStatusRejectsUnknown(t *testing.T) {
	h := newHarness(t)

	_, err := h.engine.SetProposalStatus(context.Background(), 1, clustering.ProposalStatus("shelved"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStatusReportsOracle(t *testing.T) {
	h := seeded(t)

	summary := h.engine.Status(context.Background())
	if summary.DatabaseError != "" || !summary.Database.IntegrityCheck {
		t.Fatalf("unexpected database status %#v", summary)
	}
	if summary.Oracle == "" || summary.LLMConfigured {
		t.Fatalf("unexpected oracle status %#v", summary)
	}
}
