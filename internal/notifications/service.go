package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"contentops/internal/config"
)

const userAgent = "contentops/0.1.0"

// Event names a workflow occurrence worth telling people about.
type Event string

const (
	EventEpisodeScheduled   Event = "episode_scheduled"
	EventContentSubmitted   Event = "content_submitted"
	EventContentApproved    Event = "content_approved"
	EventContentLocked      Event = "content_locked"
	EventRevisionRequested  Event = "revision_requested"
	EventClientFeedback     Event = "client_feedback"
	EventProposalsGenerated Event = "proposals_generated"
	EventTest               Event = "test"
)

// Payload carries event details keyed by camelCase field name.
type Payload map[string]any

// Service defines the notification surface exposed to workflow components.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		toggles:  cfg.Notifications,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	toggles  config.Notifications
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled(event) {
		return nil
	}
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) enabled(event Event) bool {
	switch event {
	case EventContentSubmitted, EventContentApproved, EventContentLocked, EventRevisionRequested:
		return n.toggles.Approvals
	case EventClientFeedback:
		return n.toggles.ClientFeedback
	case EventProposalsGenerated:
		return n.toggles.Proposals
	case EventEpisodeScheduled:
		return n.toggles.Scheduling
	case EventTest:
		return true
	default:
		return false
	}
}

func format(event Event, payload Payload) (message, bool) {
	episode := payload.text("episodeTitle")
	kind := humanContentType(payload.text("contentType"))
	switch event {
	case EventEpisodeScheduled:
		return message{
			title: "contentops - Episode Scheduled",
			body:  fmt.Sprintf("Scheduled: %s for %s (%d milestones)", episode, payload.text("txDate"), payload.number("milestones")),
			tags:  []string{"contentops", "episode", "scheduled"},
		}, true
	case EventContentSubmitted:
		return message{
			title: "contentops - Ready for Review",
			body:  fmt.Sprintf("%s v%d submitted for review: %s", kind, payload.number("version"), episode),
			tags:  []string{"contentops", "review", "submitted"},
		}, true
	case EventContentApproved:
		return message{
			title: "contentops - Approved",
			body:  fmt.Sprintf("%s approved by %s: %s", kind, payload.text("actor"), episode),
			tags:  []string{"contentops", "review", "approved"},
		}, true
	case EventContentLocked:
		return message{
			title: "contentops - Locked",
			body:  fmt.Sprintf("%s locked for TX: %s", kind, episode),
			tags:  []string{"contentops", "review", "locked"},
		}, true
	case EventRevisionRequested:
		return message{
			title:    "contentops - Revision Requested",
			body:     fmt.Sprintf("%s needs revision (%d open requests): %s", kind, payload.number("unresolved"), episode),
			tags:     []string{"contentops", "review", "revision"},
			priority: "high",
		}, true
	case EventClientFeedback:
		body := fmt.Sprintf("Client feedback on %s: %s", kind, payload.text("comment"))
		if episode != "" {
			body = fmt.Sprintf("%s\nEpisode: %s", body, episode)
		}
		return message{
			title: "contentops - Client Feedback",
			body:  body,
			tags:  []string{"contentops", "feedback", "client"},
		}, true
	case EventProposalsGenerated:
		return message{
			title: "contentops - Proposals Ready",
			body:  fmt.Sprintf("%d topic proposals generated for project %d", payload.number("count"), payload.number("projectId")),
			tags:  []string{"contentops", "proposals", "generated"},
		}, true
	case EventTest:
		return message{
			title:    "contentops - Test",
			body:     "Notification system test",
			tags:     []string{"contentops", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (p Payload) text(key string) string {
	if p == nil {
		return ""
	}
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (p Payload) number(key string) int64 {
	if p == nil {
		return 0
	}
	switch v := p[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func humanContentType(value string) string {
	switch value {
	case "video_script":
		return "Video script"
	case "article":
		return "Article"
	case "":
		return "Content"
	default:
		return strings.ReplaceAll(value, "_", " ")
	}
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
