package domain

import (
	"strconv"
	"strings"
)

// FieldRule is the rule attached to a field path. It is implemented only by
// ToleranceRule and BehaviorRule.
type FieldRule interface {
	fieldRule()
	// Describe returns a short human readable form used in logs
	Describe() string
}

// ToleranceRule allows numeric values to differ within a percentage or
// absolute band. When both are set the larger band applies.
type ToleranceRule struct {
	Percentage *float64 `json:"percentage,omitempty"`
	Absolute   *float64 `json:"absolute,omitempty"`
}

// BehaviorRule controls structural handling of a field
type BehaviorRule struct {
	Required bool `json:"required"`
	Ignore   bool `json:"ignore"`
	TextOnly bool `json:"text_validation"`
}

func (ToleranceRule) fieldRule() {}
func (BehaviorRule) fieldRule()  {}

// NewToleranceRule validates and builds a tolerance rule
func NewToleranceRule(percentage, absolute *float64) (ToleranceRule, error) {
	if percentage == nil && absolute == nil {
		return ToleranceRule{}, NewConfigurationError(
			"At least one tolerance (percentage or absolute) must be specified",
			nil,
		)
	}
	if percentage != nil && *percentage < 0 {
		return ToleranceRule{}, NewConfigurationError(
			"Percentage tolerance must be non-negative",
			map[string]any{"percentage": *percentage},
		)
	}
	if absolute != nil && *absolute < 0 {
		return ToleranceRule{}, NewConfigurationError(
			"Absolute tolerance must be non-negative",
			map[string]any{"absolute": *absolute},
		)
	}
	return ToleranceRule{Percentage: copyFloat(percentage), Absolute: copyFloat(absolute)}, nil
}

// MustToleranceRule is NewToleranceRule for statically known values; it panics on error
func MustToleranceRule(percentage, absolute *float64) ToleranceRule {
	rule, err := NewToleranceRule(percentage, absolute)
	if err != nil {
		panic(err)
	}
	return rule
}

// Percent builds a percentage-only tolerance rule
func Percent(p float64) ToleranceRule {
	return MustToleranceRule(&p, nil)
}

// Absolute builds an absolute-only tolerance rule
func Absolute(a float64) ToleranceRule {
	return MustToleranceRule(nil, &a)
}

// Describe implements FieldRule
func (r ToleranceRule) Describe() string {
	parts := make([]string, 0, 2)
	if r.Percentage != nil {
		parts = append(parts, FormatDecimal(*r.Percentage)+"%")
	}
	if r.Absolute != nil {
		parts = append(parts, FormatDecimal(*r.Absolute)+" absolute")
	}
	return "tolerance " + strings.Join(parts, " or ")
}

// NewBehaviorRule validates and builds a behavior rule
func NewBehaviorRule(required, ignore, textOnly bool) (BehaviorRule, error) {
	if ignore && textOnly {
		return BehaviorRule{}, NewConfigurationError("Field cannot be both ignored and text-validated", nil)
	}
	if ignore && required {
		return BehaviorRule{}, NewConfigurationError("Field cannot be both ignored and required", nil)
	}
	if textOnly && required {
		return BehaviorRule{}, NewConfigurationError("Field cannot be both text-validated and required", nil)
	}
	return BehaviorRule{Required: required, Ignore: ignore, TextOnly: textOnly}, nil
}

// DefaultBehaviorRule is the rule applied when a path has no configuration
func DefaultBehaviorRule() BehaviorRule {
	return BehaviorRule{Required: true}
}

// Optional builds a behavior rule for a field that may be absent
func Optional() BehaviorRule {
	return BehaviorRule{}
}

// Ignored builds a behavior rule for a field that is skipped entirely
func Ignored() BehaviorRule {
	return BehaviorRule{Ignore: true}
}

// TextOnly builds a behavior rule that only checks for non-blank text
func TextOnly() BehaviorRule {
	return BehaviorRule{TextOnly: true}
}

// Describe implements FieldRule
func (r BehaviorRule) Describe() string {
	switch {
	case r.Ignore:
		return "ignore"
	case r.TextOnly:
		return "text validation"
	case r.Required:
		return "required"
	default:
		return "optional"
	}
}

// FormatDecimal renders a float with at least one decimal place (5 -> "5.0")
func FormatDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
