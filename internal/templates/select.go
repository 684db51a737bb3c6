package templates

import (
	"fmt"

	"contentops/internal/services"
)

// DefaultTemplate returns the template marked default for the timeline type.
// Without a marked default the first matching template wins; with no match at
// all it fails with ErrNoTemplateAvailable.
func DefaultTemplate(list []Template, timeline TimelineType) (Template, error) {
	var fallback *Template
	for i := range list {
		if list[i].TimelineType != timeline {
			continue
		}
		if list[i].IsDefault {
			return list[i], nil
		}
		if fallback == nil {
			fallback = &list[i]
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return Template{}, services.Wrap(
		services.ErrNoTemplateAvailable,
		"templates",
		"select default",
		fmt.Sprintf("no template for timeline %q", timeline),
		nil,
	)
}
