package schedule

import (
	"strings"
	"time"

	"contentops/internal/services"
	"contentops/internal/templates"
)

// Episode is a scheduled piece of content anchored on a TX date.
type Episode struct {
	ID              int64
	ProjectID       int64
	TopicProposalID *int64
	Title           string
	TXDate          time.Time
	TXTime          string
	TimelineType    templates.TimelineType
	TemplateID      int64
	CalendarItemID  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the fields required before an episode is stored.
func (e Episode) Validate() error {
	if e.ProjectID <= 0 {
		return services.Validation("schedule", "validate episode", "project id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return services.Validation("schedule", "validate episode", "title is required")
	}
	if e.TXDate.IsZero() {
		return services.Validation("schedule", "validate episode", "tx date is required")
	}
	if !e.TimelineType.Valid() {
		return services.Validation("schedule", "validate episode", "unknown timeline type %q", e.TimelineType)
	}
	if !templates.ValidTimeOfDay(e.TXTime) {
		return services.Validation("schedule", "validate episode", "tx time %q must be HH:MM", e.TXTime)
	}
	return nil
}
