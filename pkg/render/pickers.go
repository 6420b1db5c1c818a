package render

import (
	"context"
	"errors"
)

// ErrNoPicker is returned when a file or colour control is asked to browse
// without a picker collaborator configured.
var ErrNoPicker = errors.New("render: no picker configured")

// FilePicker is the modal file-selection collaborator. It returns ok=false
// when the user cancels.
type FilePicker interface {
	PickFile(ctx context.Context, filter string) (path string, ok bool, err error)
}

// FilePickerFunc adapts a function into a FilePicker.
type FilePickerFunc func(ctx context.Context, filter string) (string, bool, error)

// PickFile calls the underlying function.
func (fn FilePickerFunc) PickFile(ctx context.Context, filter string) (string, bool, error) {
	return fn(ctx, filter)
}

// ColorPicker is the modal colour-selection collaborator. The chosen colour
// is a hex string; ok=false means cancelled.
type ColorPicker interface {
	PickColor(ctx context.Context) (hex string, ok bool, err error)
}

// ColorPickerFunc adapts a function into a ColorPicker.
type ColorPickerFunc func(ctx context.Context) (string, bool, error)

// PickColor calls the underlying function.
func (fn ColorPickerFunc) PickColor(ctx context.Context) (string, bool, error) {
	return fn(ctx)
}
