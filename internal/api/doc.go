// Package api defines wire-format types and converters for the HTTP API
// layer. It translates workflow, store and clustering models into
// transport-friendly DTOs so the daemon and the CLI render the same shapes
// without coupling consumers to internal types.
//
// # Key Types
//
// Episode, Milestone, MilestoneSummary: an episode with its milestones and
// the read-time overdue classification.
//
// Content, Version, Feedback: an episode deliverable with its immutable
// version history and threaded feedback.
//
// ClusterPreview, Cluster, Proposal: story clustering output with duplicate
// flags against earlier proposals.
//
// Status: daemon runtime and database health.
//
// # Requests
//
// Request DTOs (ScheduleEpisodeRequest, SaveVersionRequest, FeedbackRequest
// and friends) parse themselves into engine inputs, returning validation
// errors for malformed dates, statuses and types.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Enums are exposed as lowercase strings.
// Civil dates use YYYY-MM-DD; timestamps use RFC3339 with milliseconds.
// StatusForError maps the error taxonomy onto HTTP status codes, and
// ErrorResponse carries the machine-readable kind next to the message.
package api
