package render

import (
	"context"

	"github.com/goliatone/go-fieldset/pkg/model"
)

// Renderer turns a settings schema into an output representation. The
// terminal front-end edits the schema interactively; the HTML front-end
// produces a static snapshot.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema *model.Schema, options RenderOptions) ([]byte, error)
}
