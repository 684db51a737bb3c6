package services

import "context"

type contextKey string

const (
	episodeIDKey contextKey = "episode_id"
	contentIDKey contextKey = "content_id"
	userIDKey    contextKey = "user_id"
	requestIDKey contextKey = "request_id"
)

// WithEpisodeID annotates context with the episode identifier.
func WithEpisodeID(ctx context.Context, id int64) context.Context {
	if id <= 0 {
		return ctx
	}
	return context.WithValue(ctx, episodeIDKey, id)
}

// EpisodeIDFromContext extracts the episode identifier if present.
func EpisodeIDFromContext(ctx context.Context) (int64, bool) {
	return int64Value(ctx, episodeIDKey)
}

// WithContentID annotates context with the episode content identifier.
func WithContentID(ctx context.Context, id int64) context.Context {
	if id <= 0 {
		return ctx
	}
	return context.WithValue(ctx, contentIDKey, id)
}

// ContentIDFromContext extracts the content identifier if present.
func ContentIDFromContext(ctx context.Context) (int64, bool) {
	return int64Value(ctx, contentIDKey)
}

// WithUserID annotates context with the acting user.
func WithUserID(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the acting user if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

func int64Value(ctx context.Context, key contextKey) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	switch val := ctx.Value(key).(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
