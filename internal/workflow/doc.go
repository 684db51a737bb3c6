// Package workflow is the production workflow engine.
//
// The Engine ties the SQLite store to the pure domain packages: templates and
// the scheduler turn a TX date into milestones, the milestone and content
// state machines guard every status write, and the clustering detector and
// generator turn flagged stories into draft topic proposals. Every state
// change logs one event line and, where configured, publishes a notification.
//
// Callers pass a content.AuthorizationContext to every operation that needs an
// identity; the engine never reads identity from the context. Multi-step
// operations (save then submit) are not one transaction, but each step is
// atomic and the transition step is safe to retry after a re-fetch.
package workflow
