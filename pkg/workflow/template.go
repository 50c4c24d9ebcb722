package workflow

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TemplateFile is the YAML document format accepted by template loading.
type TemplateFile struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Category    string             `yaml:"category,omitempty"`
	Steps       []TemplateFileStep `yaml:"steps"`
}

// TemplateFileStep describes one step of a template document.
type TemplateFileStep struct {
	Title         string `yaml:"title"`
	Description   string `yaml:"description,omitempty"`
	AssigneeRole  string `yaml:"assignee_role,omitempty"`
	DueOffsetDays *int   `yaml:"due_offset_days,omitempty"`
}

// ParseTemplateFile parses and validates a template YAML document.
func ParseTemplateFile(data []byte) (*TemplateFile, error) {
	var f TemplateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid template YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that the document can be turned into a usable template.
func (f *TemplateFile) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("template name is required")
	}
	if len(f.Steps) == 0 {
		return fmt.Errorf("template %q has no steps", f.Name)
	}
	for i, s := range f.Steps {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("template %q: step %d has no title", f.Name, i+1)
		}
		if s.DueOffsetDays != nil && *s.DueOffsetDays < 0 {
			return fmt.Errorf("template %q: step %q has a negative due offset", f.Name, s.Title)
		}
	}
	return nil
}
