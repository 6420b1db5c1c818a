package template

import (
	"io"
)

// TemplateRenderer renders a named template with a view built from plain
// maps, slices and scalars. The result is returned and copied to every out.
type TemplateRenderer interface {
	RenderTemplate(name string, view map[string]any, out ...io.Writer) (string, error)
}
