// Package notifications delivers workflow events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when no topic is set. Per-event toggles
// in the [notifications] section silence whole groups (approvals, client
// feedback, proposals, scheduling).
//
// Workflow code depends only on the Service interface; delivery failures are
// returned to the caller, which logs them without failing the operation.
package notifications
