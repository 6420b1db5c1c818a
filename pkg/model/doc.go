// Package model defines the settings field model: the closed FieldKind set,
// the Value tagged union every field stores, dropdown Options, the Field
// descriptor with its observer list, and the Group and Schema containers.
//
// All writes go through Field.SetValue, which coerces the input through the
// kind dispatch table in kinds.go. A write that cannot be coerced is rejected
// with ErrInvalidFieldValue and the previous value stays. A write that
// produces a value structurally equal to the current one is accepted but does
// not notify observers; the binding package relies on this to stop
// control/field update cycles.
package model
