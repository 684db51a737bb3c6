package services_test

import (
	"context"
	"testing"

	"contentops/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithEpisodeID(ctx, 42)
	ctx = services.WithContentID(ctx, 9)
	ctx = services.WithUserID(ctx, "editor-1")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.EpisodeIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected episode id: %v %v", id, ok)
	}
	if id, ok := services.ContentIDFromContext(ctx); !ok || id != 9 {
		t.Fatalf("unexpected content id: %v %v", id, ok)
	}
	if user, ok := services.UserIDFromContext(ctx); !ok || user != "editor-1" {
		t.Fatalf("unexpected user: %v %v", user, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithEpisodeID(ctx, 0)
	ctx = services.WithUserID(ctx, "")
	if _, ok := services.EpisodeIDFromContext(ctx); ok {
		t.Fatal("expected no episode value")
	}
	if _, ok := services.UserIDFromContext(ctx); ok {
		t.Fatal("expected no user value")
	}
}
