package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrContentLocked        = errors.New("content locked")
	ErrNoTemplateAvailable  = errors.New("no template available")
	ErrResolveNotApplicable = errors.New("resolve not applicable")
	ErrConflict             = errors.New("conflict")
	ErrForbidden            = errors.New("forbidden")
	ErrConfiguration        = errors.New("configuration error")
	ErrTransient            = errors.New("transient failure")
)

// Error kinds returned by Kind. They double as the machine-readable error
// codes in API responses.
const (
	KindValidation           = "validation"
	KindNotFound             = "not_found"
	KindInvalidTransition    = "invalid_transition"
	KindContentLocked        = "content_locked"
	KindNoTemplateAvailable  = "no_template_available"
	KindResolveNotApplicable = "resolve_not_applicable"
	KindConflict             = "conflict"
	KindForbidden            = "forbidden"
	KindConfiguration        = "configuration"
	KindTransient            = "transient"
	KindInternal             = "internal"
)

var markerKinds = []struct {
	marker error
	kind   string
}{
	{ErrValidation, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrContentLocked, KindContentLocked},
	{ErrNoTemplateAvailable, KindNoTemplateAvailable},
	{ErrResolveNotApplicable, KindResolveNotApplicable},
	{ErrConflict, KindConflict},
	{ErrForbidden, KindForbidden},
	{ErrConfiguration, KindConfiguration},
	{ErrTransient, KindTransient},
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Validation is shorthand for Wrap(ErrValidation, ...) with a formatted message.
func Validation(component, operation, format string, args ...any) error {
	return Wrap(ErrValidation, component, operation, fmt.Sprintf(format, args...), nil)
}

// NotFound is shorthand for Wrap(ErrNotFound, ...) naming the missing entity.
func NotFound(component, entity string, id any) error {
	return Wrap(ErrNotFound, component, "lookup", fmt.Sprintf("%s %v not found", entity, id), nil)
}

// Kind classifies an error by the first marker it carries. Errors without a
// marker are reported as internal.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, mk := range markerKinds {
		if errors.Is(err, mk.marker) {
			return mk.kind
		}
	}
	return KindInternal
}

// IsRecoverable reports whether the caller can re-fetch state and retry. Lock
// and validation failures are terminal for the request that produced them.
func IsRecoverable(err error) bool {
	switch Kind(err) {
	case KindInvalidTransition, KindConflict, KindTransient:
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
