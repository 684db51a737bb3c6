package workflow

import (
	"context"
	"errors"
	"fmt"

	"contentops/internal/content"
	"contentops/internal/logging"
	"contentops/internal/notifications"
	"contentops/internal/services"
	"contentops/internal/store"
)

// ContentView is an episode's content with its full history.
type ContentView struct {
	Content         content.Content
	Latest          *content.Version
	Versions        []content.Version
	Feedback        []content.Feedback
	Threads         []content.Thread
	UnresolvedCount int
	Actions         []content.Action
}

// SaveContentVersion appends a version, creating the content on first save.
// A non-nil expectedVersion must match the stored current version.
func (e *Engine) SaveContentVersion(ctx context.Context, auth content.AuthorizationContext, episodeID int64, contentType content.Type, draft content.Draft, expectedVersion *int) (content.Content, content.Version, error) {
	if err := auth.Require(content.CapabilityEdit); err != nil {
		return content.Content{}, content.Version{}, err
	}
	c, v, err := e.store.SaveContentVersion(ctx, episodeID, contentType, draft, store.SaveOptions{
		ExpectedVersion: expectedVersion,
		Author:          auth.UserID,
	})
	if err != nil {
		return content.Content{}, content.Version{}, err
	}
	ctx = services.WithContentID(services.WithEpisodeID(ctx, episodeID), c.ID)
	logging.Event(e.log(ctx), "content version saved", "content_version_saved",
		logging.String(logging.FieldUserID, auth.UserID),
		logging.String("content_type", string(contentType)),
		logging.Int("version", v.VersionNumber),
		logging.Int("word_count", v.WordCount),
	)
	return c, v, nil
}

// GetEpisodeContent loads content with every version, its feedback and the
// count of open top-level revision requests. It never writes.
func (e *Engine) GetEpisodeContent(ctx context.Context, episodeID int64, contentType content.Type) (ContentView, error) {
	c, err := e.store.GetContent(ctx, episodeID, contentType)
	if err != nil {
		return ContentView{}, err
	}
	versions, err := e.store.ListVersions(ctx, c.ID)
	if err != nil {
		return ContentView{}, err
	}
	feedback, err := e.store.ListFeedback(ctx, c.ID)
	if err != nil {
		return ContentView{}, err
	}
	view := ContentView{
		Content:         c,
		Versions:        versions,
		Feedback:        feedback,
		Threads:         content.Threads(feedback),
		UnresolvedCount: content.UnresolvedCount(feedback),
		Actions:         content.AvailableActions(c.Status),
	}
	if n := len(versions); n > 0 {
		latest := versions[n-1]
		view.Latest = &latest
	}
	return view, nil
}

// ListEpisodeContent returns every content record of an episode.
func (e *Engine) ListEpisodeContent(ctx context.Context, episodeID int64) ([]content.Content, error) {
	if _, err := e.store.GetEpisode(ctx, episodeID); err != nil {
		return nil, err
	}
	return e.store.ListEpisodeContent(ctx, episodeID)
}

// PreviewVersion renders one version's markdown body as HTML. Version zero
// means the latest.
func (e *Engine) PreviewVersion(ctx context.Context, episodeID int64, contentType content.Type, number int) (content.Version, string, error) {
	c, err := e.store.GetContent(ctx, episodeID, contentType)
	if err != nil {
		return content.Version{}, "", err
	}
	if number <= 0 {
		number = c.CurrentVersion
	}
	if number <= 0 {
		return content.Version{}, "", services.NotFound("workflow", "content version", fmt.Sprintf("%s/%d", contentType, number))
	}
	v, err := e.store.GetVersionNumber(ctx, c.ID, number)
	if err != nil {
		return content.Version{}, "", err
	}
	html, err := content.RenderPreview(v)
	if err != nil {
		return content.Version{}, "", err
	}
	return v, html, nil
}

// Submit moves draft or needs_revision content into review. A non-nil draft
// is saved first as its own step; the transition then requires at least one
// version.
func (e *Engine) Submit(ctx context.Context, auth content.AuthorizationContext, episodeID int64, contentType content.Type, draft *content.Draft) (content.Content, error) {
	if err := auth.Require(content.CapabilitySubmit); err != nil {
		return content.Content{}, err
	}
	if draft != nil {
		if _, _, err := e.SaveContentVersion(ctx, auth, episodeID, contentType, *draft, nil); err != nil {
			return content.Content{}, err
		}
	}
	return e.transition(ctx, auth, episodeID, contentType, content.ActionSubmit)
}

// Approve moves in_review content to approved.
func (e *Engine) Approve(ctx context.Context, auth content.AuthorizationContext, episodeID int64, contentType content.Type) (content.Content, error) {
	return e.transition(ctx, auth, episodeID, contentType, content.ActionApprove)
}

// RequestRevision sends in_review content back to needs_revision. Adding a
// revision request as feedback never does this on its own.
func (e *Engine) RequestRevision(ctx context.Context, auth content.AuthorizationContext, episodeID int64, contentType content.Type) (content.Content, error) {
	return e.transition(ctx, auth, episodeID, contentType, content.ActionRequestRevision)
}

// Lock freezes approved content. Locked content accepts no further versions.
func (e *Engine) Lock(ctx context.Context, auth content.AuthorizationContext, episodeID int64, contentType content.Type) (content.Content, error) {
	return e.transition(ctx, auth, episodeID, contentType, content.ActionLock)
}

// Transition applies a named action; it backs the CLI's generic verb.
func (e *Engine) Transition(ctx context.Context, auth content.AuthorizationContext, episodeID int64, contentType content.Type, action content.Action) (content.Content, error) {
	if action == content.ActionSubmit {
		return e.Submit(ctx, auth, episodeID, contentType, nil)
	}
	return e.transition(ctx, auth, episodeID, contentType, action)
}

func (e *Engine) transition(ctx context.Context, auth content.AuthorizationContext, episodeID int64, contentType content.Type, action content.Action) (content.Content, error) {
	if err := auth.Require(content.RequiredCapability(action)); err != nil {
		return content.Content{}, err
	}
	c, err := e.store.GetContent(ctx, episodeID, contentType)
	if err != nil {
		if action == content.ActionSubmit && errors.Is(err, services.ErrNotFound) {
			return content.Content{}, services.Validation("workflow", "submit", "%s for episode %d has no saved version", contentType, episodeID)
		}
		return content.Content{}, err
	}
	if action == content.ActionSubmit && c.CurrentVersion < 1 {
		return content.Content{}, services.Validation("workflow", "submit", "%s for episode %d has no saved version", contentType, episodeID)
	}
	next, err := content.NextStatus(c.Status, action)
	if err != nil {
		return content.Content{}, err
	}
	updated, err := e.store.TransitionContent(ctx, c.ID, c.Status, next, auth.UserID)
	if err != nil {
		return content.Content{}, err
	}

	ctx = services.WithContentID(services.WithEpisodeID(ctx, episodeID), c.ID)
	eventType := transitionEvents[action]
	logging.Event(e.log(ctx), "content "+string(next), string(eventType),
		logging.String(logging.FieldUserID, auth.UserID),
		logging.String("content_type", string(contentType)),
		logging.String("from", string(c.Status)),
		logging.String("to", string(next)),
		logging.Int("version", updated.CurrentVersion),
	)
	e.publish(ctx, eventType, e.contentPayload(ctx, episodeID, updated, auth))
	return updated, nil
}

var transitionEvents = map[content.Action]notifications.Event{
	content.ActionSubmit:          notifications.EventContentSubmitted,
	content.ActionApprove:         notifications.EventContentApproved,
	content.ActionRequestRevision: notifications.EventRevisionRequested,
	content.ActionLock:            notifications.EventContentLocked,
}

func (e *Engine) contentPayload(ctx context.Context, episodeID int64, c content.Content, auth content.AuthorizationContext) notifications.Payload {
	payload := notifications.Payload{
		"contentType": string(c.ContentType),
		"version":     c.CurrentVersion,
		"actor":       auth.UserID,
	}
	if ep, err := e.store.GetEpisode(ctx, episodeID); err == nil {
		payload["episodeTitle"] = ep.Title
	}
	if c.Status == content.StatusNeedsRevision {
		if list, err := e.store.ListFeedback(ctx, c.ID); err == nil {
			payload["unresolved"] = content.UnresolvedCount(list)
		}
	}
	return payload
}
