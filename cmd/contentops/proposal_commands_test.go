package main

import (
	"strconv"
	"testing"

	"contentops/internal/api"
)

func TestStoriesClustersAndProposals(t *testing.T) {
	env := setupCLITestEnv(t)

	stories := []struct{ title, summary string }{
		{"Rents climb in city centre", "Average rent rose again as housing supply stalls"},
		{"Housing supply stalls", "Fewer new homes and rising rent across the city"},
		{"Council debates rent controls", "Rent cap proposal as housing costs climb"},
	}
	for _, s := range stories {
		if _, _, err := runCLI(t, []string{"stories", "add", "--project", "4", "--title", s.title, "--summary", s.summary, "--category", "housing"}, env.configPath); err != nil {
			t.Fatalf("stories add: %v", err)
		}
	}

	var preview api.ClusterPreview
	runJSON(t, env, &preview, "clusters", "preview", "--project", "4")
	if len(preview.Stories) != 3 {
		t.Fatalf("expected 3 stories in preview, got %d", len(preview.Stories))
	}
	if len(preview.Clusters) == 0 {
		t.Fatal("expected at least one cluster")
	}

	var generated api.ProposalListResponse
	runJSON(t, env, &generated, "clusters", "generate", "--project", "4", "--duration", "90")
	if len(generated.Proposals) == 0 {
		t.Fatal("expected generated proposals")
	}
	for _, p := range generated.Proposals {
		if p.Status != "draft" || len(p.SourceStoryIDs) == 0 {
			t.Fatalf("unexpected proposal: %+v", p)
		}
	}

	if _, _, err := runCLI(t, []string{"clusters", "generate", "--project", "4", "--duration", "0"}, env.configPath); err == nil {
		t.Fatal("expected non-positive duration to fail")
	}

	id := strconv.FormatInt(generated.Proposals[0].ID, 10)
	var approved api.Proposal
	runJSON(t, env, &approved, "proposals", "set-status", id, "approved")
	if approved.Status != "approved" {
		t.Fatalf("expected approved proposal, got %s", approved.Status)
	}

	var list api.ProposalListResponse
	runJSON(t, env, &list, "proposals", "list", "--project", "4", "--status", "approved")
	if len(list.Proposals) != 1 || list.Proposals[0].ID != approved.ID {
		t.Fatalf("unexpected approved list: %+v", list.Proposals)
	}

	out, _, err := runCLI(t, []string{"clusters", "preview", "--project", "4", "--refresh"}, env.configPath)
	if err != nil {
		t.Fatalf("clusters preview: %v", err)
	}
	requireContains(t, out, "#"+id)

	if _, _, err := runCLI(t, []string{"proposals", "set-status", id, "shelved"}, env.configPath); err == nil {
		t.Fatal("expected unknown proposal status to fail")
	}
}
