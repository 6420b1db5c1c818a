package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFieldValue is returned when a write cannot be coerced to the
	// field's shape or is not a member of its options. The prior value stays.
	ErrInvalidFieldValue = errors.New("model: invalid field value")
	// ErrUnknownFieldKind signals a kind outside the closed FieldKind set.
	ErrUnknownFieldKind = errors.New("model: unknown field kind")
	// ErrDuplicateKey is returned when a key is added twice to a group or schema.
	ErrDuplicateKey = errors.New("model: duplicate field key")
	// ErrInvalidDefinition reports constructor arguments that break a field
	// invariant (options on a non-dropdown field, empty key, ...).
	ErrInvalidDefinition = errors.New("model: invalid field definition")
)

// FieldError ties an error to the key of the field that produced it.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func fieldError(key string, sentinel error, format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	return &FieldError{Key: key, Err: fmt.Errorf("%w: %s", sentinel, detail)}
}
