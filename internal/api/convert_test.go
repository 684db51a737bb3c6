package api

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"contentops/internal/clustering"
	"contentops/internal/content"
	"contentops/internal/milestone"
	"contentops/internal/schedule"
	"contentops/internal/templates"
	"contentops/internal/workflow"
)

func TestFromEpisodeViewFormatsDatesAndOverdue(t *testing.T) {
	tx := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	completed := time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)
	view := workflow.EpisodeView{
		Episode: schedule.Episode{
			ID:           7,
			ProjectID:    3,
			Title:        "Housing costs",
			TXDate:       tx,
			TXTime:       "19:00",
			TimelineType: templates.TimelineNormal,
		},
		Milestones: []workflow.MilestoneView{
			{Milestone: milestone.Milestone{ID: 1, EpisodeID: 7, MilestoneType: "topic_lock", DayOffset: -21, DeadlineDate: tx.AddDate(0, 0, -21), Status: milestone.StatusCompleted, CompletedAt: &completed}},
			{Milestone: milestone.Milestone{ID: 2, EpisodeID: 7, MilestoneType: "research", DayOffset: -14, DeadlineDate: tx.AddDate(0, 0, -14), Status: milestone.StatusPending}, Overdue: true},
		},
		Summary: milestone.Summary{Total: 2, Completed: 1, Pending: 1, Overdue: 1},
		Today:   time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC),
	}

	resp := FromEpisodeView(view)
	if resp.Episode.TXDate != "2024-04-01" {
		t.Fatalf("expected tx date 2024-04-01, got %q", resp.Episode.TXDate)
	}
	if resp.Episode.TimelineType != "normal" {
		t.Fatalf("expected timeline normal, got %q", resp.Episode.TimelineType)
	}
	if len(resp.Milestones) != 2 {
		t.Fatalf("expected 2 milestones, got %d", len(resp.Milestones))
	}
	if resp.Milestones[0].DeadlineDate != "2024-03-11" || resp.Milestones[0].Overdue {
		t.Fatalf("unexpected first milestone: %+v", resp.Milestones[0])
	}
	if resp.Milestones[0].CompletedAt != "2024-03-12T09:30:00.000Z" {
		t.Fatalf("unexpected completedAt %q", resp.Milestones[0].CompletedAt)
	}
	if !resp.Milestones[1].Overdue {
		t.Fatal("expected second milestone to be overdue")
	}
	if resp.Summary.Progress != 0.5 {
		t.Fatalf("expected progress 0.5, got %v", resp.Summary.Progress)
	}
	if resp.Today != "2024-03-28" {
		t.Fatalf("unexpected today %q", resp.Today)
	}
}

func TestFromRescheduleNeverReturnsNullLists(t *testing.T) {
	resp := FromReschedule(workflow.EpisodeView{}, schedule.ReschedulePlan{})
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	payload := string(data)
	if !strings.Contains(payload, `"changes":[]`) || !strings.Contains(payload, `"preserved":[]`) {
		t.Fatalf("expected empty lists, got %s", payload)
	}
}

func TestFromContentListsAvailableActions(t *testing.T) {
	c := FromContent(content.Content{ID: 4, ContentType: content.TypeVideoScript, Status: content.StatusInReview, CurrentVersion: 2})
	if c.ContentType != "video_script" || c.Status != "in_review" {
		t.Fatalf("unexpected content: %+v", c)
	}
	got := strings.Join(c.AvailableActions, ",")
	if !strings.Contains(got, "approve") || !strings.Contains(got, "request_revision") {
		t.Fatalf("expected approve and request_revision, got %q", got)
	}
	if locked := FromContent(content.Content{Status: content.StatusLocked}); len(locked.AvailableActions) != 0 {
		t.Fatalf("expected no actions for locked content, got %v", locked.AvailableActions)
	}
}

func TestFromThreadsNestsReplies(t *testing.T) {
	parent := int64(1)
	threads := []content.Thread{{
		Root: content.Feedback{ID: 1, Comment: "Tighten the intro", FeedbackType: content.FeedbackRevisionRequest,
			Highlight: &content.Highlight{Start: 0, End: 5, Text: "Hello"}},
		Replies: []content.Feedback{{ID: 2, Comment: "Done", ParentID: &parent, FeedbackType: content.FeedbackComment}},
	}}
	out := FromThreads(threads)
	if len(out) != 1 || len(out[0].Replies) != 1 {
		t.Fatalf("unexpected threads: %+v", out)
	}
	if out[0].Highlight == nil || out[0].Highlight.Text != "Hello" {
		t.Fatalf("expected highlight to be carried, got %+v", out[0].Highlight)
	}
	if out[0].Replies[0].ParentFeedbackID == nil || *out[0].Replies[0].ParentFeedbackID != 1 {
		t.Fatalf("expected reply parent 1, got %+v", out[0].Replies[0])
	}
}

func TestFromPreviewCarriesDuplicateFlags(t *testing.T) {
	preview := clustering.Preview{
		Clusters: []clustering.Cluster{{
			ID:       "cluster-1",
			Theme:    "Rent increases",
			StoryIDs: []int64{1, 2},
			SimilarProposals: []clustering.SimilarProposal{{
				ProposalID: 9, Title: "Rents", Status: clustering.ProposalApproved, OverlapPercentage: 100,
			}},
		}},
		Cached: true,
	}
	out := FromPreview(preview)
	if !out.Cached || len(out.Clusters) != 1 {
		t.Fatalf("unexpected preview: %+v", out)
	}
	similar := out.Clusters[0].SimilarProposals
	if len(similar) != 1 || similar[0].OverlapPercentage != 100 || similar[0].Status != "approved" {
		t.Fatalf("unexpected similar proposals: %+v", similar)
	}
	if out.Clusters[0].Keywords == nil {
		t.Fatal("expected keywords to be an empty list, not nil")
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(time.Time{}); got != "" {
		t.Fatalf("expected empty string for zero time, got %q", got)
	}
	ts := time.Date(2024, 3, 28, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	if got := FormatTime(ts); got != "2024-03-28T09:00:00.000Z" {
		t.Fatalf("unexpected formatted time %q", got)
	}
}
