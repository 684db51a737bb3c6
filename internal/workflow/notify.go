package workflow

import (
	"context"
	"errors"

	"contentops/internal/logging"
	"contentops/internal/notifications"
)

// publish sends a notification and logs delivery failures. Notifications never
// fail the operation that triggered them.
func (e *Engine) publish(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Publish(ctx, event, payload); err != nil {
		logger := e.log(ctx)
		if errors.Is(err, context.Canceled) {
			logger.Debug("request cancelled, notification not sent", logging.String("event", string(event)))
			return
		}
		logging.WarnWithContext(logger, "notification delivery failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "workflow change saved without a notification"),
		)
	}
}
