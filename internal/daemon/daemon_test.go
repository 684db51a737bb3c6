package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contentops/internal/config"
	"contentops/internal/daemon"
	"contentops/internal/testsupport"
	"contentops/internal/workflow"
)

var testNow = time.Date(2024, 3, 28, 10, 0, 0, 0, time.UTC)

func newDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()
	st := testsupport.MustOpenStore(t, cfg)
	engine := workflow.NewEngine(cfg, st, nil, workflow.WithClock(func() time.Time { return testNow }))
	if _, err := engine.EnsureTemplates(context.Background()); err != nil {
		t.Fatalf("EnsureTemplates: %v", err)
	}
	d, err := daemon.New(cfg, engine, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})
	return d
}

type client struct {
	t       *testing.T
	base    string
	headers map[string]string
}

func newClient(t *testing.T, d *daemon.Daemon) *client {
	t.Helper()
	srv := httptest.NewServer(d.Handler())
	t.Cleanup(srv.Close)
	return &client{t: t, base: srv.URL, headers: map[string]string{}}
}

func (c *client) as(user, roles string) *client {
	return &client{t: c.t, base: c.base, headers: map[string]string{
		"X-User-ID":    user,
		"X-User-Roles": roles,
	}}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newDaemon(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !d.Status(ctx).Running {
		t.Fatal("expected daemon to report running")
	}
	if d.Address() == "" {
		t.Fatal("expected api listener address")
	}

	resp, err := http.Get("http://" + d.Address() + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	var status struct {
		Running bool   `json:"running"`
		Oracle  string `json:"oracle"`
		Counts  map[string]int
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	resp.Body.Close()
	if !status.Running || status.Oracle != "similarity" {
		t.Fatalf("unexpected status payload: %+v", status)
	}
	if status.Counts["workflow_templates"] != 3 {
		t.Fatalf("expected 3 seeded templates, got %v", status.Counts)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected daemon to be stopped")
	}
	if d.Address() != "" {
		t.Fatal("expected listener to be closed")
	}
}
