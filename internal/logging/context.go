package logging

import (
	"context"
	"log/slog"

	"contentops/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEpisodeID identifies the episode an operation acts on.
	FieldEpisodeID = "episode_id"
	// FieldContentID identifies an episode content record (script or article).
	FieldContentID = "content_id"

	FieldMilestoneID = "milestone_id"
	FieldProjectID   = "project_id"
	FieldFeedbackID  = "feedback_id"

	// FieldUserID is the acting user supplied by the caller's authorization context.
	FieldUserID = "user_id"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType names the state change a log line records.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step alongside warnings and errors.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldError carries the error value.
	FieldError = "error"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.EpisodeIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldEpisodeID, id))
	}
	if id, ok := services.ContentIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldContentID, id))
	}
	if user, ok := services.UserIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldUserID, user))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
