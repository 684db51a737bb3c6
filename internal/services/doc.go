// Package services defines shared utilities consumed by the workflow engine,
// the HTTP layer, and external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper. Every failure the engine
//     surfaces carries exactly one marker (validation, not found, invalid
//     transition, content locked, ...) so callers can classify it with
//     errors.Is or Kind without parsing messages.
//   - Context helpers that stamp episode IDs, content IDs, actors, and
//     correlation identifiers for logging.
//
// Use these helpers when wiring new operations so error classification and
// observability stay uniform across the engine.
package services
