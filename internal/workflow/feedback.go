package workflow

import (
	"context"
	"errors"

	"contentops/internal/content"
	"contentops/internal/logging"
	"contentops/internal/notifications"
	"contentops/internal/services"
)

// AddFeedback records a comment, revision request or approval note against a
// version of the content. Feedback from client-only callers is always
// flagged as client feedback.
func (e *Engine) AddFeedback(ctx context.Context, auth content.AuthorizationContext, contentID int64, input content.FeedbackInput) (content.Feedback, error) {
	if err := auth.Require(content.CapabilityComment); err != nil {
		return content.Feedback{}, err
	}
	c, err := e.store.GetContentByID(ctx, contentID)
	if err != nil {
		return content.Feedback{}, err
	}
	version, err := e.store.GetVersion(ctx, input.VersionID)
	if err != nil {
		return content.Feedback{}, err
	}
	var parent *content.Feedback
	if input.ParentID != nil {
		found, err := e.store.GetFeedback(ctx, *input.ParentID)
		switch {
		case err == nil:
			parent = &found
		case !errors.Is(err, services.ErrNotFound):
			return content.Feedback{}, err
		}
	}
	input.IsClientFeedback = input.IsClientFeedback || auth.IsClient()

	fb, err := content.BuildFeedback(c.ID, input, version, parent, auth.UserID, e.now())
	if err != nil {
		return content.Feedback{}, err
	}
	stored, err := e.store.CreateFeedback(ctx, fb)
	if err != nil {
		return content.Feedback{}, err
	}

	ctx = services.WithContentID(services.WithEpisodeID(ctx, c.EpisodeID), c.ID)
	logging.Event(e.log(ctx), "feedback added", "feedback_added",
		logging.Int64(logging.FieldFeedbackID, stored.ID),
		logging.String(logging.FieldUserID, auth.UserID),
		logging.String("feedback_type", string(stored.FeedbackType)),
		logging.Int("version", version.VersionNumber),
		logging.Bool("client", stored.IsClientFeedback),
		logging.Bool("reply", !stored.TopLevel()),
	)
	if stored.IsClientFeedback {
		payload := notifications.Payload{
			"contentType": string(c.ContentType),
			"comment":     stored.Comment,
		}
		if ep, err := e.store.GetEpisode(ctx, c.EpisodeID); err == nil {
			payload["episodeTitle"] = ep.Title
		}
		e.publish(ctx, notifications.EventClientFeedback, payload)
	}
	return stored, nil
}

// ResolveFeedback marks a revision request resolved. Other feedback types
// fail with ErrResolveNotApplicable.
func (e *Engine) ResolveFeedback(ctx context.Context, auth content.AuthorizationContext, feedbackID int64) (content.Feedback, error) {
	return e.setResolved(ctx, auth, feedbackID, true)
}

// UnresolveFeedback reopens a resolved revision request.
func (e *Engine) UnresolveFeedback(ctx context.Context, auth content.AuthorizationContext, feedbackID int64) (content.Feedback, error) {
	return e.setResolved(ctx, auth, feedbackID, false)
}

func (e *Engine) setResolved(ctx context.Context, auth content.AuthorizationContext, feedbackID int64, resolved bool) (content.Feedback, error) {
	if err := auth.Require(content.CapabilityResolve); err != nil {
		return content.Feedback{}, err
	}
	fb, err := e.store.GetFeedback(ctx, feedbackID)
	if err != nil {
		return content.Feedback{}, err
	}
	if err := content.CheckResolvable(fb); err != nil {
		return content.Feedback{}, err
	}
	updated, err := e.store.SetFeedbackResolved(ctx, feedbackID, resolved, auth.UserID)
	if err != nil {
		return content.Feedback{}, err
	}
	eventType, msg := "feedback_resolved", "feedback resolved"
	if !resolved {
		eventType, msg = "feedback_unresolved", "feedback reopened"
	}
	logging.Event(e.log(services.WithContentID(ctx, fb.ContentID)), msg, eventType,
		logging.Int64(logging.FieldFeedbackID, feedbackID),
		logging.String(logging.FieldUserID, auth.UserID),
	)
	return updated, nil
}
