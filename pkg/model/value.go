package model

import (
	"fmt"
	"strconv"
)

// Shape is the runtime representation carried by a Value.
type Shape uint8

const (
	// ShapeUnset marks the zero Value. Fields never hold it once constructed.
	ShapeUnset Shape = iota
	ShapeString
	ShapeBool
)

func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "string"
	case ShapeBool:
		return "bool"
	default:
		return "unset"
	}
}

// Value is the tagged union stored by a Field. Number values are kept as
// their numeric-parsable string so the text a user typed round-trips
// unchanged.
type Value struct {
	shape Shape
	str   string
	flag  bool
}

// StringValue wraps s as a string-shaped value.
func StringValue(s string) Value {
	return Value{shape: ShapeString, str: s}
}

// BoolValue wraps b as a bool-shaped value.
func BoolValue(b bool) Value {
	return Value{shape: ShapeBool, flag: b}
}

// Shape reports the runtime shape.
func (v Value) Shape() Shape { return v.shape }

// IsSet reports whether the value carries a shape.
func (v Value) IsSet() bool { return v.shape != ShapeUnset }

// Bool returns the boolean payload; false for non-bool shapes.
func (v Value) Bool() bool {
	return v.shape == ShapeBool && v.flag
}

// String returns the value as text. Booleans render as "true"/"false".
func (v Value) String() string {
	switch v.shape {
	case ShapeString:
		return v.str
	case ShapeBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// Any unwraps the value for serialisation: string, bool or nil.
func (v Value) Any() any {
	switch v.shape {
	case ShapeString:
		return v.str
	case ShapeBool:
		return v.flag
	default:
		return nil
	}
}

// Equal is structural equality: same shape and same payload.
func (v Value) Equal(other Value) bool {
	if v.shape != other.shape {
		return false
	}
	switch v.shape {
	case ShapeString:
		return v.str == other.str
	case ShapeBool:
		return v.flag == other.flag
	default:
		return true
	}
}

func (v Value) GoString() string {
	switch v.shape {
	case ShapeString:
		return fmt.Sprintf("model.StringValue(%q)", v.str)
	case ShapeBool:
		return fmt.Sprintf("model.BoolValue(%t)", v.flag)
	default:
		return "model.Value{}"
	}
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case Value:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
