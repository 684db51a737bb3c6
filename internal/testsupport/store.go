package testsupport

import (
	"context"
	"testing"
	"time"

	"contentops/internal/config"
	"contentops/internal/schedule"
	"contentops/internal/store"
	"contentops/internal/templates"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewEpisode creates an episode with the given transmission date.
func NewEpisode(t testing.TB, st *store.Store, projectID int64, title string, txDate time.Time) schedule.Episode {
	t.Helper()

	ep, err := st.CreateEpisode(context.Background(), schedule.Episode{
		ProjectID:    projectID,
		Title:        title,
		TXDate:       txDate,
		TXTime:       "19:00",
		TimelineType: templates.TimelineNormal,
	})
	if err != nil {
		t.Fatalf("store.CreateEpisode: %v", err)
	}
	return ep
}

// SeedTemplates loads the built-in template catalog into the store.
func SeedTemplates(t testing.TB, st *store.Store) []templates.Template {
	t.Helper()

	ctx := context.Background()
	if _, err := st.SeedTemplates(ctx, templates.Builtin()); err != nil {
		t.Fatalf("store.SeedTemplates: %v", err)
	}
	list, err := st.ListTemplates(ctx, "")
	if err != nil {
		t.Fatalf("store.ListTemplates: %v", err)
	}
	return list
}
