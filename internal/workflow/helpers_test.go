package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"contentops/internal/clustering"
	"contentops/internal/content"
	"contentops/internal/notifications"
	"contentops/internal/store"
	"contentops/internal/testsupport"
	"contentops/internal/workflow"
)

var engineNow = time.Date(2024, 3, 28, 10, 0, 0, 0, time.UTC)

type recordedEvent struct {
	event   notifications.Event
	payload notifications.Payload
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, event notifications.Event, payload notifications.Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{event: event, payload: payload})
	return n.err
}

func (n *recordingNotifier) count(event notifications.Event) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, e := range n.events {
		if e.event == event {
			total++
		}
	}
	return total
}

func (n *recordingNotifier) last(event notifications.Event) (notifications.Payload, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.events) - 1; i >= 0; i-- {
		if n.events[i].event == event {
			return n.events[i].payload, true
		}
	}
	return nil, false
}

type failingCalendar struct{}

func (failingCalendar) CreateEntry(context.Context, workflow.EpisodeRequest) (string, error) {
	return "", errors.New("calendar offline")
}

// groupingOracle puts every story in one cluster and writes one proposal per
// requested cluster.
type groupingOracle struct {
	previewCalls int
}

func (o *groupingOracle) PreviewClusters(_ context.Context, req clustering.Request) (clustering.Preview, error) {
	o.previewCalls++
	ids := make([]int64, 0, len(req.Stories))
	for _, s := range req.Stories {
		ids = append(ids, s.ID)
	}
	return clustering.Preview{Clusters: []clustering.Cluster{{
		ID:             "housing",
		Theme:          "Housing costs",
		Keywords:       []string{"rent"},
		RelevanceScore: 80,
		StoryIDs:       ids,
	}}}, nil
}

func (o *groupingOracle) GenerateProposals(_ context.Context, req clustering.GenerateRequest) ([]clustering.ProposalCopy, error) {
	out := make([]clustering.ProposalCopy, 0, len(req.Clusters))
	for _, c := range req.Clusters {
		out = append(out, clustering.ProposalCopy{
			ClusterID:     c.ID,
			Title:         c.Theme + " explained",
			Hook:          "Why rent keeps climbing",
			TalkingPoints: []string{"numbers", "people"},
		})
	}
	return out, nil
}

type harness struct {
	engine   *workflow.Engine
	store    *store.Store
	notifier *recordingNotifier
	oracle   *groupingOracle
}

func newHarness(t *testing.T, opts ...workflow.Option) harness {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	notifier := &recordingNotifier{}
	oracle := &groupingOracle{}
	base := []workflow.Option{
		workflow.WithNotifier(notifier),
		workflow.WithOracle(oracle),
		workflow.WithClock(func() time.Time { return engineNow }),
	}
	engine := workflow.NewEngine(cfg, st, nil, append(base, opts...)...)
	return harness{engine: engine, store: st, notifier: notifier, oracle: oracle}
}

func seeded(t *testing.T, opts ...workflow.Option) harness {
	t.Helper()
	h := newHarness(t, opts...)
	if _, err := h.engine.EnsureTemplates(context.Background()); err != nil {
		t.Fatalf("EnsureTemplates: %v", err)
	}
	return h
}

var (
	editor   = content.NewAuthorization("ed", "editor")
	producer = content.NewAuthorization("pat", "producer")
	client   = content.NewAuthorization("cli", "client")
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
