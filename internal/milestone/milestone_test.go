package milestone_test

import (
	"errors"
	"testing"
	"time"

	"contentops/internal/milestone"
	"contentops/internal/services"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from, to milestone.Status
		ok       bool
	}{
		{milestone.StatusPending, milestone.StatusInProgress, true},
		{milestone.StatusPending, milestone.StatusCompleted, true},
		{milestone.StatusPending, milestone.StatusSkipped, true},
		{milestone.StatusInProgress, milestone.StatusCompleted, true},
		{milestone.StatusInProgress, milestone.StatusSkipped, true},
		{milestone.StatusInProgress, milestone.StatusPending, false},
		{milestone.StatusCompleted, milestone.StatusInProgress, false},
		{milestone.StatusCompleted, milestone.StatusSkipped, false},
		{milestone.StatusSkipped, milestone.StatusPending, false},
		{milestone.StatusPending, milestone.StatusPending, false},
	}
	for _, tt := range tests {
		err := milestone.ValidateTransition(tt.from, tt.to)
		if tt.ok && err != nil {
			t.Fatalf("%s -> %s: unexpected error %v", tt.from, tt.to, err)
		}
		if !tt.ok && !errors.Is(err, services.ErrInvalidTransition) {
			t.Fatalf("%s -> %s: expected invalid transition, got %v", tt.from, tt.to, err)
		}
	}
}

func TestOverdueIsDerivedAndClearsOnCompletion(t *testing.T) {
	m := milestone.Milestone{
		ID:           1,
		Status:       milestone.StatusPending,
		DeadlineDate: day(t, "2024-03-10"),
	}
	today := day(t, "2024-03-12")
	if !m.IsOverdue(today) {
		t.Fatal("expected pending milestone past deadline to be overdue")
	}
	if m.IsOverdue(day(t, "2024-03-10")) {
		t.Fatal("a milestone due today is not overdue")
	}

	now := today.Add(9 * time.Hour)
	if err := m.Complete(now, "delivered late"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if m.CompletedAt == nil || !m.CompletedAt.Equal(now) {
		t.Fatalf("expected completed_at stamp, got %v", m.CompletedAt)
	}
	if m.Notes != "delivered late" {
		t.Fatalf("unexpected notes %q", m.Notes)
	}
	for _, later := range []time.Time{today, day(t, "2025-01-01")} {
		if m.IsOverdue(later) {
			t.Fatalf("completed milestone must never read as overdue (%s)", later)
		}
	}
	if err := m.Complete(now, ""); !errors.Is(err, services.ErrInvalidTransition) {
		t.Fatalf("expected second completion to fail, got %v", err)
	}
}

func TestSkippedMilestoneIsNotOverdue(t *testing.T) {
	m := milestone.Milestone{Status: milestone.StatusInProgress, DeadlineDate: day(t, "2024-01-01")}
	if err := m.Transition(milestone.StatusSkipped, day(t, "2024-02-01")); err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if m.IsOverdue(day(t, "2024-02-01")) {
		t.Fatal("skipped milestone must not be overdue")
	}
	if m.CompletedAt != nil {
		t.Fatal("skipping must not stamp completed_at")
	}
}

func TestParseStatus(t *testing.T) {
	got, err := milestone.ParseStatus(" In_Progress ")
	if err != nil || got != milestone.StatusInProgress {
		t.Fatalf("unexpected parse %q (%v)", got, err)
	}
	if _, err := milestone.ParseStatus("overdue"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("overdue is not a stored status, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	list := []milestone.Milestone{
		{ID: 1, Status: milestone.StatusCompleted, DeadlineDate: day(t, "2024-03-01")},
		{ID: 2, Status: milestone.StatusPending, DeadlineDate: day(t, "2024-03-05")},
		{ID: 3, Status: milestone.StatusInProgress, DeadlineDate: day(t, "2024-03-04")},
		{ID: 4, Status: milestone.StatusSkipped, DeadlineDate: day(t, "2024-03-02")},
		{ID: 5, Status: milestone.StatusPending, DeadlineDate: day(t, "2024-03-20")},
	}
	summary := milestone.Summarize(list, day(t, "2024-03-10"))
	if summary.Total != 5 || summary.Pending != 2 || summary.InProgress != 1 || summary.Completed != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected counts %+v", summary)
	}
	if summary.Overdue != 2 {
		t.Fatalf("expected 2 overdue, got %d", summary.Overdue)
	}
	if summary.Next == nil || summary.Next.ID != 3 {
		t.Fatalf("expected milestone 3 next, got %+v", summary.Next)
	}
	if summary.Progress() != 0.4 {
		t.Fatalf("unexpected progress %v", summary.Progress())
	}
}
