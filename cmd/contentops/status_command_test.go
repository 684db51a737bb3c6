package main

import (
	"strings"
	"testing"

	"contentops/internal/api"
)

func TestStatusReportsStoppedDaemon(t *testing.T) {
	env := setupCLITestEnv(t)

	var status api.Status
	runJSON(t, env, &status, "status")
	if status.Running || status.PID != 0 {
		t.Fatalf("expected stopped daemon, got %+v", status)
	}
	if status.Oracle != "similarity" || status.LLMConfigured {
		t.Fatalf("expected similarity oracle without an LLM key, got %+v", status)
	}
	if status.Counts["workflow_templates"] != 3 {
		t.Fatalf("expected 3 templates counted, got %v", status.Counts)
	}

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Daemon: stopped")
	requireContains(t, out, "workflow_templates")
}

func TestTestNotifyRequiresTopic(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "ntfy_topic") {
		t.Fatalf("expected missing topic error, got %v", err)
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable([]string{"ID", "Name"}, [][]string{{"7", "Rent"}, {"12"}}, []columnAlignment{alignRight, alignLeft})
	requireContains(t, out, "ID")
	requireContains(t, out, "Rent")
	if lines := strings.Count(out, "\n"); lines < 5 {
		t.Fatalf("expected framed table, got %q", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
	if highlighted := highlightRow([]string{"a"}, false); highlighted[0] != "a" {
		t.Fatalf("expected plain row without colour, got %q", highlighted[0])
	}
}
