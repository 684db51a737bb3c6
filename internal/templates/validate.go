package templates

import (
	"strings"
	"time"

	"contentops/internal/services"
	"contentops/internal/textutil"
)

// TimeOfDayLayout is the accepted format for milestone and TX times.
const TimeOfDayLayout = "15:04"

// ReservedMilestoneType is the implicit final milestone on the TX date. Templates
// may not declare it themselves.
const ReservedMilestoneType = "tx"

// Normalize trims names, canonicalizes milestone types to snake_case and fills
// missing labels from the type.
func (t *Template) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.TimelineType = TimelineType(strings.ToLower(strings.TrimSpace(string(t.TimelineType))))
	for i := range t.Offsets {
		offset := &t.Offsets[i]
		offset.MilestoneType = textutil.SanitizeToken(offset.MilestoneType)
		offset.Label = strings.TrimSpace(offset.Label)
		if offset.Label == "" {
			offset.Label = textutil.HumanizeIdentifier(offset.MilestoneType)
		}
		offset.TimeOfDay = strings.TrimSpace(offset.TimeOfDay)
	}
}

// Validate checks the template is usable for scheduling.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return services.Validation("templates", "validate", "template name is required")
	}
	if !t.TimelineType.Valid() {
		return services.Validation("templates", "validate", "template %q: unknown timeline type %q", t.Name, t.TimelineType)
	}
	if len(t.Offsets) == 0 {
		return services.Validation("templates", "validate", "template %q: at least one milestone offset is required", t.Name)
	}
	seen := make(map[string]struct{}, len(t.Offsets))
	for i, offset := range t.Offsets {
		if offset.MilestoneType == "" {
			return services.Validation("templates", "validate", "template %q: offset %d has no milestone type", t.Name, i)
		}
		if offset.MilestoneType == ReservedMilestoneType {
			return services.Validation("templates", "validate", "template %q: milestone type %q is reserved for the TX date", t.Name, ReservedMilestoneType)
		}
		if _, dup := seen[offset.MilestoneType]; dup {
			return services.Validation("templates", "validate", "template %q: duplicate milestone type %q", t.Name, offset.MilestoneType)
		}
		seen[offset.MilestoneType] = struct{}{}
		if offset.TimeOfDay != "" {
			if _, err := time.Parse(TimeOfDayLayout, offset.TimeOfDay); err != nil {
				return services.Validation("templates", "validate", "template %q: milestone %q time %q must be HH:MM", t.Name, offset.MilestoneType, offset.TimeOfDay)
			}
		}
		if offset.RequiresClientApproval && !offset.IsClientFacing {
			return services.Validation("templates", "validate", "template %q: milestone %q requires client approval but is not client facing", t.Name, offset.MilestoneType)
		}
	}
	return nil
}

// ValidTimeOfDay reports whether value is empty or a HH:MM time.
func ValidTimeOfDay(value string) bool {
	if value == "" {
		return true
	}
	_, err := time.Parse(TimeOfDayLayout, value)
	return err == nil
}
