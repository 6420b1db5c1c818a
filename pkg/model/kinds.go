package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/goliatone/go-fieldset/pkg/validation"
)

// kindSpec is one row of the kind dispatch table: how a kind coerces writes,
// what it seeds when no default is declared, and how it validates.
type kindSpec struct {
	shape    Shape
	coerce   func(f *Field, raw any) (Value, error)
	zero     func(f *Field) Value
	validate func(f *Field) validation.Result
}

var kindTable = map[FieldKind]kindSpec{
	KindText: {
		shape:    ShapeString,
		coerce:   coerceString,
		zero:     emptyString,
		validate: validateText,
	},
	KindPassword: {
		shape:    ShapeString,
		coerce:   coerceString,
		zero:     emptyString,
		validate: validateText,
	},
	KindNumber: {
		shape:  ShapeString,
		coerce: coerceNumber,
		zero: func(*Field) Value {
			return StringValue("0")
		},
		validate: validateNumber,
	},
	KindDropdown: {
		shape:  ShapeString,
		coerce: coerceDropdown,
		zero: func(f *Field) Value {
			return StringValue(f.options[0].value)
		},
		validate: validateDropdown,
	},
	KindCheckbox: {
		shape:  ShapeBool,
		coerce: coerceBool,
		zero: func(*Field) Value {
			return BoolValue(false)
		},
		validate: func(*Field) validation.Result {
			return validation.Success()
		},
	},
	KindFile: {
		shape:    ShapeString,
		coerce:   coerceString,
		zero:     emptyString,
		validate: validateFile,
	},
	KindColor: {
		shape:  ShapeString,
		coerce: coerceColor,
		zero: func(*Field) Value {
			return StringValue("#000000")
		},
		validate: validateColor,
	},
}

func init() {
	for _, kind := range Kinds() {
		entry, ok := kindTable[kind]
		if !ok || entry.coerce == nil || entry.zero == nil || entry.validate == nil {
			panic(fmt.Sprintf("model: kind %q has no complete dispatch entry", kind))
		}
	}
}

// ExpectedShape reports the runtime shape values of kind must carry.
func ExpectedShape(kind FieldKind) Shape {
	return kindTable[kind].shape
}

func emptyString(*Field) Value {
	return StringValue("")
}

func coerceString(f *Field, raw any) (Value, error) {
	if v, ok := raw.(Value); ok && v.shape == ShapeBool {
		return Value{}, invalidValue(f, raw, "expected text")
	}
	s, ok := scalar(raw)
	if !ok {
		return Value{}, invalidValue(f, raw, "expected text")
	}
	return StringValue(s), nil
}

func coerceNumber(f *Field, raw any) (Value, error) {
	switch raw.(type) {
	case bool:
		return Value{}, invalidValue(f, raw, "expected a number")
	case Value:
		if raw.(Value).shape != ShapeString {
			return Value{}, invalidValue(f, raw, "expected a number")
		}
	}
	s, ok := scalar(raw)
	if !ok {
		return Value{}, invalidValue(f, raw, "expected a number")
	}
	trimmed := strings.TrimSpace(s)
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return Value{}, invalidValue(f, raw, "expected a number")
	}
	return StringValue(trimmed), nil
}

func coerceDropdown(f *Field, raw any) (Value, error) {
	s, ok := scalar(raw)
	if !ok {
		return Value{}, invalidValue(f, raw, "expected an option value")
	}
	if opt, found := f.OptionByValue(s); found {
		return StringValue(opt.value), nil
	}
	if opt, found := f.OptionByValue(strings.TrimSpace(s)); found {
		return StringValue(opt.value), nil
	}
	return Value{}, invalidValue(f, raw, "not one of the field options")
}

func coerceBool(f *Field, raw any) (Value, error) {
	switch v := raw.(type) {
	case bool:
		return BoolValue(v), nil
	case Value:
		if v.shape == ShapeBool {
			return v, nil
		}
		return coerceBool(f, v.str)
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y", "on", "checked":
			return BoolValue(true), nil
		case "false", "0", "no", "n", "off", "unchecked":
			return BoolValue(false), nil
		}
		return Value{}, invalidValue(f, raw, "expected a boolean")
	case int:
		return BoolValue(v != 0), nil
	case int64:
		return BoolValue(v != 0), nil
	case float64:
		return BoolValue(v != 0), nil
	default:
		return Value{}, invalidValue(f, raw, "expected a boolean")
	}
}

func coerceColor(f *Field, raw any) (Value, error) {
	if c, ok := raw.(colorful.Color); ok {
		return StringValue(c.Clamped().Hex()), nil
	}
	if v, ok := raw.(Value); ok && v.shape == ShapeBool {
		return Value{}, invalidValue(f, raw, "expected a hex colour")
	}
	s, ok := scalar(raw)
	if !ok {
		return Value{}, invalidValue(f, raw, "expected a hex colour")
	}
	hex, err := NormalizeHexColor(s)
	if err != nil {
		return Value{}, invalidValue(f, raw, err.Error())
	}
	return StringValue(hex), nil
}

// NormalizeHexColor accepts "#rgb", "#rrggbb" with or without the leading '#'
// and returns the lowercase "#rrggbb" form.
func NormalizeHexColor(raw string) (string, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 || strings.IndexFunc(s, func(r rune) bool {
		return !strings.ContainsRune("0123456789abcdefABCDEF", r)
	}) >= 0 {
		return "", fmt.Errorf("expected a hex colour, got %q", raw)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return "", fmt.Errorf("expected a hex colour, got %q", raw)
	}
	return c.Hex(), nil
}

func validateText(f *Field) validation.Result {
	value := f.value.String()
	return validation.First(
		func() validation.Result {
			if !f.required {
				return validation.Success()
			}
			return validation.Required(f.displayName(), value)
		},
		func() validation.Result {
			return validation.Text(f.displayName(), value, f.text)
		},
		func() validation.Result {
			if f.validator == "" || (strings.TrimSpace(value) == "" && !f.required) {
				return validation.Success()
			}
			fn, ok := validation.Lookup(f.validator)
			if !ok {
				return validation.Success()
			}
			return fn(value)
		},
	)
}

func validateNumber(f *Field) validation.Result {
	return validation.Number(f.displayName(), f.value.String(), f.bounds)
}

func validateDropdown(f *Field) validation.Result {
	allowed := make([]string, len(f.options))
	for i, opt := range f.options {
		allowed[i] = opt.value
	}
	return validation.OneOf(f.displayName(), f.value.String(), allowed)
}

func validateFile(f *Field) validation.Result {
	if !f.required {
		return validation.Success()
	}
	return validation.Required(f.displayName(), f.value.String())
}

func validateColor(f *Field) validation.Result {
	if _, err := NormalizeHexColor(f.value.String()); err != nil {
		return validation.Failure(fmt.Sprintf("%s must be a hex colour", f.displayName()))
	}
	return validation.Success()
}

// scalar converts raw to its canonical string form. Containers and nil are
// not scalars.
func scalar(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case Value:
		if !v.IsSet() {
			return "", false
		}
		return v.String(), true
	case string, bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return scalarString(v), true
	case json.Number:
		return string(v), true
	default:
		return "", false
	}
}

func invalidValue(f *Field, raw any, reason string) error {
	return fieldError(f.key, ErrInvalidFieldValue, "%s field rejected %#v: %s", f.kind, raw, reason)
}
