package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Bounds constrains a numeric value. Nil limits are open.
type Bounds struct {
	Min          *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	ExclusiveMin bool     `json:"exclusiveMin,omitempty" yaml:"exclusiveMin,omitempty"`
	ExclusiveMax bool     `json:"exclusiveMax,omitempty" yaml:"exclusiveMax,omitempty"`
}

// IsZero reports whether no limit is set.
func (b Bounds) IsZero() bool {
	return b.Min == nil && b.Max == nil
}

// Limit returns a pointer to v for use in Bounds literals.
func Limit(v float64) *float64 {
	return &v
}

// TextRules constrains a string value. Lengths count runes.
type TextRules struct {
	MinLength *int
	MaxLength *int
	Pattern   *regexp.Regexp
}

// IsZero reports whether no rule is set.
func (t TextRules) IsZero() bool {
	return t.MinLength == nil && t.MaxLength == nil && t.Pattern == nil
}

// Required fails when value is blank after trimming.
func Required(label, value string) Result {
	if strings.TrimSpace(value) == "" {
		return Failure(fmt.Sprintf("%s is required", subject(label)))
	}
	return Success()
}

// Number fails when value does not parse as a real number or falls outside
// bounds.
func Number(label, value string, bounds Bounds) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Failure(fmt.Sprintf("%s must be a number", subject(label)))
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return Failure(fmt.Sprintf("%s must be a number", subject(label)))
	}
	return InBounds(label, parsed, bounds)
}

// InBounds checks an already parsed number against bounds.
func InBounds(label string, value float64, bounds Bounds) Result {
	name := subject(label)
	if bounds.Min != nil {
		limit := *bounds.Min
		if bounds.ExclusiveMin && value <= limit {
			return Failure(fmt.Sprintf("%s must be greater than %s", name, formatNumber(limit)))
		}
		if !bounds.ExclusiveMin && value < limit {
			return Failure(fmt.Sprintf("%s must be at least %s", name, formatNumber(limit)))
		}
	}
	if bounds.Max != nil {
		limit := *bounds.Max
		if bounds.ExclusiveMax && value >= limit {
			return Failure(fmt.Sprintf("%s must be less than %s", name, formatNumber(limit)))
		}
		if !bounds.ExclusiveMax && value > limit {
			return Failure(fmt.Sprintf("%s must be at most %s", name, formatNumber(limit)))
		}
	}
	return Success()
}

// OneOf fails unless value equals one of allowed.
func OneOf(label, value string, allowed []string) Result {
	for _, candidate := range allowed {
		if candidate == value {
			return Success()
		}
	}
	return Failure(fmt.Sprintf("%s must be one of the available options", subject(label)))
}

// Text applies length and pattern rules. Blank optional values pass so the
// rules only constrain what the user actually entered.
func Text(label, value string, rules TextRules) Result {
	if rules.IsZero() || value == "" {
		return Success()
	}
	name := subject(label)
	length := utf8.RuneCountInString(value)
	if rules.MinLength != nil && length < *rules.MinLength {
		return Failure(fmt.Sprintf("%s must be at least %d characters", name, *rules.MinLength))
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		return Failure(fmt.Sprintf("%s must be at most %d characters", name, *rules.MaxLength))
	}
	if rules.Pattern != nil && !rules.Pattern.MatchString(value) {
		return Failure(fmt.Sprintf("%s has an invalid format", name))
	}
	return Success()
}

func subject(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "Value"
	}
	return label
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
