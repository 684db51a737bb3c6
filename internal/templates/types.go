package templates

import (
	"strings"
	"time"

	"contentops/internal/services"
)

// TimelineType selects which offset template applies to an episode.
type TimelineType string

const (
	TimelineNormal       TimelineType = "normal"
	TimelineBreakingNews TimelineType = "breaking_news"
	TimelineEmergency    TimelineType = "emergency"
)

var allTimelineTypes = []TimelineType{TimelineNormal, TimelineBreakingNews, TimelineEmergency}

// TimelineTypes returns every supported timeline type.
func TimelineTypes() []TimelineType {
	out := make([]TimelineType, len(allTimelineTypes))
	copy(out, allTimelineTypes)
	return out
}

// ParseTimelineType normalizes a user supplied timeline type.
func ParseTimelineType(value string) (TimelineType, error) {
	normalized := TimelineType(strings.ToLower(strings.TrimSpace(value)))
	if !normalized.Valid() {
		return "", services.Validation("templates", "parse timeline", "unknown timeline type %q", value)
	}
	return normalized, nil
}

// Valid reports whether t is a known timeline type.
func (t TimelineType) Valid() bool {
	for _, candidate := range allTimelineTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// MilestoneOffset describes one production checkpoint relative to the TX date.
type MilestoneOffset struct {
	MilestoneType          string `json:"milestone_type" yaml:"type"`
	Label                  string `json:"label" yaml:"label,omitempty"`
	DayOffset              int    `json:"day_offset" yaml:"day_offset"`
	TimeOfDay              string `json:"time_of_day,omitempty" yaml:"time,omitempty"`
	IsClientFacing         bool   `json:"is_client_facing" yaml:"client_facing,omitempty"`
	RequiresClientApproval bool   `json:"requires_client_approval" yaml:"requires_client_approval,omitempty"`
}

// Template is a named, ordered list of milestone offsets.
type Template struct {
	ID           int64
	Name         string
	TimelineType TimelineType
	IsDefault    bool
	Offsets      []MilestoneOffset
	CreatedAt    time.Time
}

// ClientFacingCount returns how many offsets involve the client.
func (t Template) ClientFacingCount() int {
	count := 0
	for _, offset := range t.Offsets {
		if offset.IsClientFacing {
			count++
		}
	}
	return count
}

// Span returns the earliest and latest day offsets in the template.
func (t Template) Span() (earliest, latest int) {
	for i, offset := range t.Offsets {
		if i == 0 || offset.DayOffset < earliest {
			earliest = offset.DayOffset
		}
		if i == 0 || offset.DayOffset > latest {
			latest = offset.DayOffset
		}
	}
	return earliest, latest
}
