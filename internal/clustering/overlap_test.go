package clustering_test

import (
	"errors"
	"strings"
	"testing"

	"contentops/internal/clustering"
	"contentops/internal/services"
)

func TestOverlapPercentage(t *testing.T) {
	tests := []struct {
		name     string
		cluster  []int64
		proposal []int64
		want     int
	}{
		{"scenario", []int64{1, 2, 3}, []int64{2, 3, 4}, 67},
		{"disjoint", []int64{1, 2}, []int64{3, 4}, 0},
		{"superset", []int64{1, 2, 3, 4}, []int64{2, 3}, 100},
		{"identical", []int64{5}, []int64{5}, 100},
		{"empty proposal", []int64{1}, nil, 0},
		{"empty cluster", nil, []int64{1}, 0},
		{"duplicates ignored", []int64{1, 1}, []int64{1, 1, 2}, 50},
		{"rounds down", []int64{1}, []int64{1, 2, 3}, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clustering.OverlapPercentage(tt.cluster, tt.proposal); got != tt.want {
				t.Fatalf("OverlapPercentage = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDetectDuplicatesSkipsClosedProposalsAndSorts(t *testing.T) {
	clusters := []clustering.Cluster{
		{ID: "a", Theme: "Flood defences", Keywords: []string{"flood"}, StoryIDs: []int64{1, 2, 3}},
		{ID: "b", Theme: "Rail strike", StoryIDs: []int64{9}},
	}
	proposals := []clustering.Proposal{
		{ID: 7, Title: "Barrier budget", SourceStoryIDs: []int64{3, 10}, Status: clustering.ProposalDraft},
		{ID: 1, Title: "Flood defences fail", ClusterTheme: "Flood defences", SourceStoryIDs: []int64{2, 3, 4}, Status: clustering.ProposalApproved},
		{ID: 4, Title: "Same stories", SourceStoryIDs: []int64{1, 2}, Status: clustering.ProposalArchived},
		{ID: 5, Title: "Rejected", SourceStoryIDs: []int64{1}, Status: clustering.ProposalRejected},
		{ID: 2, Title: "Tie", SourceStoryIDs: []int64{1, 11}, Status: clustering.ProposalReviewed},
	}
	got := clustering.DetectDuplicates(clusters, proposals)
	if len(got) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(got))
	}
	matches := got[0].SimilarProposals
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %+v", matches)
	}
	if matches[0].ProposalID != 1 || matches[0].OverlapPercentage != 67 {
		t.Fatalf("unexpected first match %+v", matches[0])
	}
	if matches[1].ProposalID != 2 || matches[2].ProposalID != 7 {
		t.Fatalf("ties should sort by proposal id: %+v", matches)
	}
	if matches[0].ThemeSimilarity <= matches[1].ThemeSimilarity {
		t.Fatalf("expected matching theme to score higher: %+v", matches)
	}
	if len(got[1].SimilarProposals) != 0 {
		t.Fatalf("expected no matches for second cluster, got %+v", got[1].SimilarProposals)
	}
	if clusters[0].SimilarProposals != nil {
		t.Fatal("input clusters must not be modified")
	}
}

func TestValidateClusters(t *testing.T) {
	stories := []clustering.Story{{ID: 1}, {ID: 2}, {ID: 3}}
	valid := []clustering.Cluster{
		{ID: "a", Theme: "One", RelevanceScore: 100, StoryIDs: []int64{1, 2}},
		{ID: "b", Theme: "Two", RelevanceScore: 0, StoryIDs: []int64{3}},
	}
	if err := clustering.ValidateClusters(valid, stories); err != nil {
		t.Fatalf("expected valid clusters, got %v", err)
	}
	invalid := map[string][]clustering.Cluster{
		"score high":   {{Theme: "x", RelevanceScore: 101, StoryIDs: []int64{1}}},
		"score low":    {{Theme: "x", RelevanceScore: -1, StoryIDs: []int64{1}}},
		"unknown":      {{Theme: "x", StoryIDs: []int64{42}}},
		"shared story": {{Theme: "x", StoryIDs: []int64{1}}, {Theme: "y", StoryIDs: []int64{1, 2}}},
		"no theme":     {{StoryIDs: []int64{1}}},
		"no stories":   {{Theme: "x"}},
		"duplicate id": {{ID: "a", Theme: "x", StoryIDs: []int64{1}}, {ID: "a", Theme: "y", StoryIDs: []int64{2}}},
	}
	for name, clusters := range invalid {
		if err := clustering.ValidateClusters(clusters, stories); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestSelectForGeneration(t *testing.T) {
	clusters := []clustering.Cluster{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}, {ID: "c4"}}

	got, err := clustering.SelectForGeneration(clusters, []string{"c4", "c2", "c1"}, 2)
	if err != nil {
		t.Fatalf("SelectForGeneration returned error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c1" || got[1].ID != "c2" {
		t.Fatalf("expected oracle order capped at 2, got %+v", got)
	}

	all, err := clustering.SelectForGeneration(clusters, nil, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("expected every cluster, got %d (%v)", len(all), err)
	}

	if _, err := clustering.SelectForGeneration(clusters, []string{"c9"}, 5); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown id, got %v", err)
	}
}

func TestAssignIDsFollowsStorySet(t *testing.T) {
	first := clustering.AssignIDs([]clustering.Cluster{
		{ID: "oracle-a", StoryIDs: []int64{3, 1}},
		{StoryIDs: []int64{7}},
	})
	second := clustering.AssignIDs([]clustering.Cluster{
		{StoryIDs: []int64{7}},
		{ID: "oracle-b", StoryIDs: []int64{1, 3}},
	})
	if first[0].ID != second[1].ID || first[1].ID != second[0].ID {
		t.Fatalf("ids should follow the story set, got %q/%q and %q/%q", first[0].ID, first[1].ID, second[0].ID, second[1].ID)
	}
	if first[0].ID == first[1].ID || !strings.HasPrefix(first[0].ID, "cluster-") {
		t.Fatalf("unexpected ids %q %q", first[0].ID, first[1].ID)
	}
	if first[0].ID == clustering.ClusterID([]int64{1, 3, 7}) {
		t.Fatal("a different story set must not share an id")
	}
}

func TestProposalStatus(t *testing.T) {
	if _, err := clustering.ParseProposalStatus("Approved"); err != nil {
		t.Fatalf("ParseProposalStatus returned error: %v", err)
	}
	if _, err := clustering.ParseProposalStatus("pending"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if clustering.ProposalArchived.Comparable() || clustering.ProposalRejected.Comparable() {
		t.Fatal("archived and rejected proposals are not compared")
	}
	if !clustering.ProposalReviewed.Comparable() {
		t.Fatal("reviewed proposals are compared")
	}
}
