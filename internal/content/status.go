package content

import (
	"fmt"
	"strings"

	"contentops/internal/services"
)

// Status is the approval state of a content record.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusInReview      Status = "in_review"
	StatusNeedsRevision Status = "needs_revision"
	StatusApproved      Status = "approved"
	StatusLocked        Status = "locked"
)

var allStatuses = []Status{StatusDraft, StatusInReview, StatusNeedsRevision, StatusApproved, StatusLocked}

// AllStatuses returns every content status in workflow order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts user input into a Status.
func ParseStatus(value string) (Status, error) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, nil
		}
	}
	return "", services.Validation("content", "parse status", "unknown content status %q", value)
}

// Editable reports whether new versions may be saved.
func (s Status) Editable() bool {
	return s != StatusLocked
}

// Action is a named approval transition.
type Action string

const (
	ActionSubmit          Action = "submit"
	ActionApprove         Action = "approve"
	ActionRequestRevision Action = "request_revision"
	ActionLock            Action = "lock"
)

type rule struct {
	from       []Status
	to         Status
	capability Capability
}

var machine = map[Action]rule{
	ActionSubmit:          {from: []Status{StatusDraft, StatusNeedsRevision}, to: StatusInReview, capability: CapabilitySubmit},
	ActionApprove:         {from: []Status{StatusInReview}, to: StatusApproved, capability: CapabilityApprove},
	ActionRequestRevision: {from: []Status{StatusInReview}, to: StatusNeedsRevision, capability: CapabilityRequestRevision},
	ActionLock:            {from: []Status{StatusApproved}, to: StatusLocked, capability: CapabilityLock},
}

// ParseAction converts user input (submit, approve, lock, request-revision) into an Action.
func ParseAction(value string) (Action, error) {
	normalized := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_"))
	if _, ok := machine[normalized]; !ok {
		return "", services.Validation("content", "parse action", "unknown content action %q", value)
	}
	return normalized, nil
}

// RequiredCapability returns the capability an actor needs to perform action.
func RequiredCapability(action Action) Capability {
	return machine[action].capability
}

// NextStatus returns the status action leads to from current, or
// ErrInvalidTransition when the action does not apply.
func NextStatus(current Status, action Action) (Status, error) {
	r, ok := machine[action]
	if !ok {
		return "", services.Validation("content", "transition", "unknown content action %q", action)
	}
	for _, from := range r.from {
		if from == current {
			return r.to, nil
		}
	}
	if current == StatusLocked {
		return "", services.Wrap(services.ErrContentLocked, "content", string(action), "content is locked", nil)
	}
	return "", services.Wrap(
		services.ErrInvalidTransition,
		"content",
		string(action),
		fmt.Sprintf("cannot %s content in status %s", strings.ReplaceAll(string(action), "_", " "), current),
		nil,
	)
}

// AvailableActions lists the transitions valid from current, in a stable order.
func AvailableActions(current Status) []Action {
	var out []Action
	for _, action := range []Action{ActionSubmit, ActionApprove, ActionRequestRevision, ActionLock} {
		if _, err := NextStatus(current, action); err == nil {
			out = append(out, action)
		}
	}
	return out
}
