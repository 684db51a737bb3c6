package main

import "testing"

func TestAuthIdentityFallback(t *testing.T) {
	t.Setenv("CONTENTOPS_USER", "")
	t.Setenv("USER", "tester")

	ctx := newCommandContext(nil, &identityFlags{roles: "editor"}, nil)
	if got := ctx.auth().UserID; got != "tester" {
		t.Fatalf("expected $USER fallback, got %q", got)
	}

	t.Setenv("CONTENTOPS_USER", "ops")
	if got := ctx.auth().UserID; got != "ops" {
		t.Fatalf("expected CONTENTOPS_USER to win over $USER, got %q", got)
	}

	ctx.identity.user = "ed"
	if got := ctx.auth().UserID; got != "ed" {
		t.Fatalf("expected --user to win, got %q", got)
	}
}
