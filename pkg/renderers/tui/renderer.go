package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldset/internal/logger"
	"github.com/goliatone/go-fieldset/pkg/model"
	"github.com/goliatone/go-fieldset/pkg/render"
	"github.com/goliatone/go-fieldset/pkg/widgets"
)

// Renderer implements render.Renderer for terminal sessions. It renders the
// schema through a dispatcher, prompts every enabled control in group order
// and re-prompts until the control reports a valid state. The output is the
// edited snapshot.
type Renderer struct {
	driver            PromptDriver
	dispatcher        *render.Dispatcher
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	log               logrus.FieldLogger

	// prompting is the label of the control being edited; pickers use it as
	// their prompt message.
	prompting string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		log:          logger.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil, nil, nil)
	}
	if r.dispatcher == nil {
		d, err := render.NewDispatcher(
			render.WithFilePicker(filePicker{r: r}),
			render.WithColorPicker(colorPicker{r: r}),
			render.WithLogger(r.log),
		)
		if err != nil {
			return nil, err
		}
		r.dispatcher = d
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render edits schema in place and returns the serialized snapshot.
func (r *Renderer) Render(ctx context.Context, schema *model.Schema, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, errors.New("tui: schema is required")
	}

	form, err := r.dispatcher.RenderSchema(schema, opts.Subset.Groups...)
	if err != nil {
		return nil, err
	}
	defer form.Close()

	mapping := render.MapErrorPayload(schema, opts.Errors)
	for _, msg := range mapping.Form {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return nil, err
		}
	}

	for _, section := range form.Sections {
		if err := r.driver.Info(ctx, r.theme.SectionPrefix+section.Title); err != nil {
			return nil, err
		}
		for _, ctrl := range section.Controls {
			for _, msg := range mapping.For(ctrl.Field().Key()) {
				if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
					return nil, err
				}
			}
			if err := r.promptUntilValid(ctx, ctrl); err != nil {
				return nil, err
			}
		}
	}

	// Controls enabled by a later answer are prompted once more.
	for _, ctrl := range pendingControls(form) {
		if err := r.promptUntilValid(ctx, ctrl); err != nil {
			return nil, err
		}
	}
	if pending := pendingControls(form); len(pending) > 0 {
		keys := make([]string, 0, len(pending))
		for _, ctrl := range pending {
			keys = append(keys, ctrl.Field().Key())
		}
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(keys, ", "))
	}

	values := schema.Snapshot()
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	r.log.WithField("fields", len(values)).Info("tui: settings collected")
	return r.serialize(values)
}

func (r *Renderer) promptUntilValid(ctx context.Context, ctrl render.Control) error {
	for {
		if !ctrl.Attributes().Enabled {
			return nil
		}
		if err := r.promptControl(ctx, ctrl); err != nil {
			return err
		}
		state := ctrl.State()
		if !state.Invalid {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+state.Message); err != nil {
			return err
		}
	}
}

func (r *Renderer) promptControl(ctx context.Context, ctrl render.Control) error {
	field := ctrl.Field()
	label := displayLabel(field)
	help := displayHelp(ctrl)
	r.prompting = label
	defer func() { r.prompting = "" }()

	var err error
	switch c := ctrl.(type) {
	case *render.TextInput:
		err = r.promptText(ctx, c, label, help)
	case *render.Select:
		err = r.promptSelect(ctx, c, label, help)
	case *render.Toggle:
		var checked bool
		checked, err = r.driver.Confirm(ctx, ConfirmConfig{
			Message: confirmMessage(label, c.Text()),
			Default: c.Checked(),
			Help:    help,
		})
		if err == nil {
			err = c.SetChecked(checked)
		}
	case *render.FileInput:
		_, err = c.Browse(ctx)
	case *render.ColorInput:
		_, err = c.Pick(ctx)
	default:
		err = r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.InfoPrefix, label, ctrl.Display()))
	}
	return r.editError(ctrl, err)
}

func (r *Renderer) promptText(ctx context.Context, c *render.TextInput, label, help string) error {
	cfg := InputConfig{Message: label, Default: c.Text(), Help: help}
	switch {
	case c.Masked():
		cfg.Default = ""
		if c.Text() != "" {
			cfg.Help = strings.TrimSpace(help + " Leave blank to keep the current value.")
		}
		answer, err := r.driver.Password(ctx, cfg)
		if err != nil {
			return err
		}
		if answer == "" && c.Text() != "" {
			return nil
		}
		return c.SetText(answer)
	case c.Widget() == widgets.WidgetTextArea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: c.Text(), Help: help})
		if err != nil {
			return err
		}
		return c.SetText(answer)
	case c.Numeric():
		cfg.Validator = func(answer string) error {
			if render.FilterNumeric(answer) != answer {
				return errors.New("only digits, '.' and '-' are allowed")
			}
			return nil
		}
	}
	answer, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return err
	}
	return c.SetText(answer)
}

func (r *Renderer) promptSelect(ctx context.Context, c *render.Select, label, help string) error {
	options := c.Options()
	labels := make([]string, 0, len(options))
	for _, opt := range options {
		labels = append(labels, opt.DisplayText())
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      labels,
		DefaultIndex: c.SelectedIndex(),
		Help:         help,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s selection", r.theme.ErrorPrefix, label))
	}
	return c.SelectIndex(idx)
}

// editError keeps prompt failures fatal. A rejected value is already visible
// through the control state, so it is only logged.
func (r *Renderer) editError(ctrl render.Control, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, render.ErrNoPicker) {
		return err
	}
	if errors.Is(err, model.ErrInvalidFieldValue) || errors.Is(err, render.ErrDisabled) {
		r.log.WithField("key", ctrl.Field().Key()).WithError(err).Debug("tui: edit rejected")
		return nil
	}
	return err
}

// pendingControls lists enabled controls that are still invalid. Disabled
// fields keep whatever value they hold.
func pendingControls(form *render.Form) []render.Control {
	var out []render.Control
	for _, ctrl := range form.Invalid() {
		if ctrl.Attributes().Enabled {
			out = append(out, ctrl)
		}
	}
	return out
}

// message returns the label of the control being edited, or fallback.
func (r *Renderer) message(fallback string) string {
	if r.prompting != "" {
		return r.prompting
	}
	return fallback
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return jsonBytes(values)
	}
}

func displayLabel(field *model.Field) string {
	if field.Label() != "" {
		return field.Label()
	}
	return field.Key()
}

func displayHelp(ctrl render.Control) string {
	if tip := ctrl.Attributes().Tooltip; tip != "" {
		return tip
	}
	return ctrl.Field().Description()
}

func confirmMessage(label, text string) string {
	if text == "" || text == label {
		return label
	}
	return fmt.Sprintf("%s: %s", label, text)
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for key, val := range values {
		if val == nil {
			flattened.Set(key, "")
			continue
		}
		flattened.Set(key, fmt.Sprint(val))
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		val := values[key]
		if val == nil {
			val = ""
		}
		fmt.Fprintf(&b, "%s=%v\n", key, val)
	}
	return b.String()
}

func jsonBytes(values map[string]any) ([]byte, error) {
	return json.MarshalIndent(values, "", "  ")
}
