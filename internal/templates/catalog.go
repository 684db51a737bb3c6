package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinCatalog []byte

type catalogFile struct {
	Templates []catalogTemplate `yaml:"templates"`
}

type catalogTemplate struct {
	Name       string            `yaml:"name"`
	Timeline   string            `yaml:"timeline"`
	Default    bool              `yaml:"default"`
	Milestones []MilestoneOffset `yaml:"milestones"`
}

// Builtin returns the embedded catalog.
func Builtin() []Template {
	list, err := ParseCatalog(builtinCatalog)
	if err != nil {
		panic(fmt.Sprintf("templates: builtin catalog is invalid: %v", err))
	}
	return list
}

// LoadCatalog reads and validates a YAML template catalog.
func LoadCatalog(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	list, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("template catalog %s: %w", path, err)
	}
	return list, nil
}

// ParseCatalog decodes a YAML catalog. Every template is normalized and
// validated; at most one template per timeline may be marked default.
func ParseCatalog(data []byte) ([]Template, error) {
	var file catalogFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	defaults := make(map[TimelineType]string)
	out := make([]Template, 0, len(file.Templates))
	for _, entry := range file.Templates {
		tpl := Template{
			Name:         entry.Name,
			TimelineType: TimelineType(entry.Timeline),
			IsDefault:    entry.Default,
			Offsets:      append([]MilestoneOffset(nil), entry.Milestones...),
		}
		tpl.Normalize()
		if err := tpl.Validate(); err != nil {
			return nil, err
		}
		if tpl.IsDefault {
			if other, ok := defaults[tpl.TimelineType]; ok {
				return nil, fmt.Errorf("templates %q and %q are both default for %s", other, tpl.Name, tpl.TimelineType)
			}
			defaults[tpl.TimelineType] = tpl.Name
		}
		out = append(out, tpl)
	}
	return out, nil
}
