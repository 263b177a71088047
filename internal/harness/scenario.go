package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/neobrutal/internal/task"
	"github.com/roach88/neobrutal/internal/view"
)

// Scenario is a named sequence of store operations.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one operation. Title is the title passed to add; Ref names an
// earlier task by its current title for toggle, update and delete.
type Step struct {
	Op     string  `yaml:"op"`
	Title  string  `yaml:"title,omitempty"`
	Ref    string  `yaml:"ref,omitempty"`
	Fields Fields  `yaml:"fields,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Fields holds the optional attributes of add and the patch of update.
// Due is an RFC 3339 timestamp or a YYYY-MM-DD date.
type Fields struct {
	Title       *string `yaml:"title,omitempty"`
	Description *string `yaml:"description,omitempty"`
	Due         string  `yaml:"due,omitempty"`
	ClearDue    bool    `yaml:"clear_due,omitempty"`
	Status      string  `yaml:"status,omitempty"`
}

// Expect lists the checks made after a step. Error is a substring the step's
// error must contain; a step without it must succeed.
type Expect struct {
	Stats     *view.Stats `yaml:"stats,omitempty"`
	Removed   *int        `yaml:"removed,omitempty"`
	Error     string      `yaml:"error,omitempty"`
	Tasks     []string    `yaml:"tasks,omitempty"`
	Active    []string    `yaml:"active,omitempty"`
	Completed []string    `yaml:"completed,omitempty"`
}

// Operations accepted in a step.
const (
	OpAdd            = "add"
	OpToggle         = "toggle"
	OpUpdate         = "update"
	OpDelete         = "delete"
	OpClearCompleted = "clear_completed"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch step.Op {
		case OpAdd:
			if step.Ref != "" {
				return fmt.Errorf("steps[%d]: add takes title, not ref", i)
			}
		case OpToggle, OpUpdate, OpDelete:
			if step.Ref == "" {
				return fmt.Errorf("steps[%d]: ref is required for %s", i, step.Op)
			}
		case OpClearCompleted:
		case "":
			return fmt.Errorf("steps[%d]: op is required", i)
		default:
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}

		if step.Fields.Due != "" {
			if _, err := task.ParseDue(step.Fields.Due); err != nil {
				return fmt.Errorf("steps[%d].fields.due: %w", i, err)
			}
		}
		if step.Fields.Due != "" && step.Fields.ClearDue {
			return fmt.Errorf("steps[%d].fields: due and clear_due are mutually exclusive", i)
		}
		if step.Expect != nil && step.Expect.Removed != nil && step.Op != OpClearCompleted {
			return fmt.Errorf("steps[%d].expect: removed only applies to clear_completed", i)
		}
	}
	return nil
}

// fields converts the step's add attributes. Status is passed through
// unchecked so scenarios can exercise the store's validation.
func (f Fields) fields() task.Fields {
	out := task.Fields{Status: task.Status(f.Status)}
	if f.Description != nil {
		out.Description = *f.Description
	}
	out.DueDate = f.due()
	return out
}

func (f Fields) patch() task.Patch {
	p := task.Patch{
		Title:       f.Title,
		Description: f.Description,
		DueDate:     f.due(),
		ClearDue:    f.ClearDue,
	}
	if f.Status != "" {
		st := task.Status(f.Status)
		p.Status = &st
	}
	return p
}

func (f Fields) due() *time.Time {
	if f.Due == "" {
		return nil
	}
	// Validated by validateScenario.
	d, _ := task.ParseDue(f.Due)
	return &d
}
