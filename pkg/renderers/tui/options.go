package tui

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldset/pkg/render"
)

// OutputFormat controls how the edited settings are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one key=value line per setting.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the renderer applies when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	SectionPrefix string
	InfoPrefix    string
	ErrorPrefix   string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{SectionPrefix: "== ", ErrorPrefix: "! "}

// SubmitTransformer mutates the settings snapshot before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithDispatcher renders controls through d instead of a dispatcher wired to
// the prompt driver's pickers.
func WithDispatcher(d *render.Dispatcher) Option {
	return func(r *Renderer) {
		r.dispatcher = d
	}
}

// WithSubmitTransformer allows callers to mutate the snapshot prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLogger routes renderer diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}
