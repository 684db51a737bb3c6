// Package content holds the rules for episode deliverables: scripts and
// articles, their immutable versions, the approval state machine, role based
// capabilities, and feedback threads.
//
// Everything here is pure. The store persists content and enforces the
// compare-and-set on status; the workflow engine sequences saves and
// transitions and checks the caller's AuthorizationContext.
//
// Approval flow:
//
//	draft|needs_revision --submit--> in_review
//	in_review --approve--> approved
//	in_review --request_revision--> needs_revision
//	approved --lock--> locked (terminal)
//
// Saving a new version is allowed in every status except locked.
package content
