package schema

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-fieldset/pkg/model"
)

//go:embed defaults/*.yaml
var embeddedDefaults embed.FS

// DefaultFS returns the bundled weighbridge settings definition.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embeddedDefaults, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}

// Default builds the bundled weighbridge settings schema.
func Default(opts ...Option) (*model.Schema, error) {
	return Load(DefaultFS(), opts...)
}
