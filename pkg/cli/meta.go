package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luli45/photo-filter/pkg/filter"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt    ParamType = "int"
	ParamTypeString ParamType = "string"
)

// ValidationRule is a machine-friendly representation of the constraints
// that a UI or client can use to validate input before invoking a command.
type ValidationRule struct {
	Type     ParamType `json:"type"`
	Required bool      `json:"required"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Unit     string    `json:"unit,omitempty"`
	Example  string    `json:"example,omitempty"`
	Hint     string    `json:"hint,omitempty"`
}

// GenerateTooltip produces a tooltip string from a filter.CommandSpec.
func GenerateTooltip(c filter.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" (no parameters)")
		return sb.String()
	}
	sb.WriteString("\nparameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "- %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Min != nil && a.Max != nil {
			fmt.Fprintf(&sb, " [%g..%g]", *a.Min, *a.Max)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GenerateValidationRules creates ValidationRule entries from a filter.CommandSpec.
func GenerateValidationRules(c filter.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		t := ParamTypeString
		if strings.EqualFold(a.Type, "int") {
			t = ParamTypeInt
		}
		r := ValidationRule{
			Type:     t,
			Required: a.Required,
			Min:      a.Min,
			Max:      a.Max,
			Hint:     a.Description,
			Example:  a.Default,
		}
		if a.Name == "radius" {
			r.Unit = "px"
		}
		rules[a.Name] = r
	}
	return rules
}

// MetaStore indexes the filter registry by name.
type MetaStore struct {
	Commands []filter.CommandSpec
	byName   map[string]filter.CommandSpec
}

// NewMetaStore creates a MetaStore from a command list.
func NewMetaStore(cmds []filter.CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]filter.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
	}
	return m
}

func (m *MetaStore) lookup(name string) (filter.CommandSpec, error) {
	c, ok := m.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return filter.CommandSpec{}, fmt.Errorf("unknown command: %s", name)
	}
	return c, nil
}

// GetTooltip returns the tooltip for a command.
func (m *MetaStore) GetTooltip(name string) (string, error) {
	c, err := m.lookup(name)
	if err != nil {
		return "", err
	}
	return GenerateTooltip(c), nil
}

// GetValidationRules returns validation rules for a command.
func (m *MetaStore) GetValidationRules(name string) (map[string]ValidationRule, error) {
	c, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return GenerateValidationRules(c), nil
}

// GetCommandHelp returns both tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, err := m.lookup(name)
	if err != nil {
		return "", nil, err
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// NormalizeArgs checks raw user input against the command's rules and returns
// canonical strings ready for filter.ApplyCommand. Empty optional values stay
// empty so the registry default applies.
func (m *MetaStore) NormalizeArgs(cmdName string, args []string) ([]string, error) {
	c, err := m.lookup(cmdName)
	if err != nil {
		return nil, err
	}
	if len(args) > len(c.Args) {
		return nil, fmt.Errorf("%s takes at most %d args, got %d", c.Name, len(c.Args), len(args))
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			continue
		}
		vr := rules[a.Name]
		switch vr.Type {
		case ParamTypeInt:
			if vr.Unit != "" {
				raw = strings.TrimSuffix(raw, vr.Unit)
			}
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, raw)
			}
			if vr.Min != nil && float64(v) < *vr.Min {
				return nil, fmt.Errorf("parameter %s: %d < min %v", a.Name, v, *vr.Min)
			}
			if vr.Max != nil && float64(v) > *vr.Max {
				return nil, fmt.Errorf("parameter %s: %d > max %v", a.Name, v, *vr.Max)
			}
			out[i] = strconv.FormatInt(v, 10)
		default:
			out[i] = raw
		}
	}
	return out, nil
}
