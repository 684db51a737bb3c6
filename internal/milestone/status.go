package milestone

import (
	"fmt"
	"strings"

	"contentops/internal/services"
)

// Status is the lifecycle state of a milestone.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

var allStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusSkipped}

var statusSet = func() map[Status]struct{} {
	m := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		m[status] = struct{}{}
	}
	return m
}()

var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusSkipped},
	StatusInProgress: {StatusCompleted, StatusSkipped},
}

// AllStatuses returns every milestone status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts user input into a Status.
func ParseStatus(value string) (Status, error) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusSet[normalized]; !ok {
		return "", services.Validation("milestone", "parse status", "unknown milestone status %q", value)
	}
	return normalized, nil
}

// Open reports whether the status can still change.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusInProgress
}

// CanTransition reports whether from -> to is allowed. Same-state moves are not.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition for disallowed moves.
func ValidateTransition(from, to Status) error {
	if CanTransition(from, to) {
		return nil
	}
	return services.Wrap(
		services.ErrInvalidTransition,
		"milestone",
		"transition",
		fmt.Sprintf("cannot move milestone from %s to %s", from, to),
		nil,
	)
}
