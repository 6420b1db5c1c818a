package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldset/internal/config"
	"github.com/goliatone/go-fieldset/internal/logger"
	"github.com/goliatone/go-fieldset/pkg/orchestrator"
	"github.com/goliatone/go-fieldset/pkg/render"
	"github.com/goliatone/go-fieldset/pkg/renderers/html"
	"github.com/goliatone/go-fieldset/pkg/renderers/tui"
	"github.com/goliatone/go-fieldset/pkg/store"
)

// errInvalid makes the process exit non-zero once the report is printed.
var errInvalid = errors.New("settings are invalid")

type app struct {
	configPath  string
	schemaPath  string
	storePath   string
	storeFormat string
	noColor     bool

	cfg config.Config
	// driver overrides the terminal prompt driver; tests script it.
	driver tui.PromptDriver
}

func newApp() *app {
	return &app{cfg: config.Default()}
}

// setup loads the config file, applies flag overrides and initialises the
// global logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("schema") {
		cfg.Schema.Path = a.schemaPath
	}
	if cmd.Flags().Changed("store") {
		cfg.Store.Path = a.storePath
		cfg.Store.Format = ""
	}
	if cmd.Flags().Changed("store-format") {
		cfg.Store.Format = a.storeFormat
	}
	a.cfg = cfg

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	logger.L.SetOutput(cmd.ErrOrStderr())
	if a.noColor {
		pterm.DisableColor()
	}

	entry := logrus.NewEntry(logger.L).WithField("cmd", cmd.Name())
	cmd.SetContext(logger.WithContext(contextOf(cmd), entry))
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// orchestrator assembles the pipeline for the configured schema and store,
// with every front-end registered.
func (a *app) orchestrator(ctx context.Context) (*orchestrator.Orchestrator, error) {
	log := logger.FromContext(ctx)
	st, err := store.Open(a.cfg.Store.Path, a.cfg.Store.Format, store.WithLogger(log))
	if err != nil {
		return nil, err
	}
	reg, err := a.renderers(ctx)
	if err != nil {
		return nil, err
	}
	opts := []orchestrator.Option{
		orchestrator.WithStore(st),
		orchestrator.WithRegistry(reg),
		orchestrator.WithLogger(log),
	}
	if a.cfg.Schema.Path != "" {
		opts = append(opts, orchestrator.WithSchemaPath(a.cfg.Schema.Path))
	}
	return orchestrator.New(opts...), nil
}

// loadSchema builds the configured schema, binds enablement rules and seeds
// it from the store. Stored values the schema rejects are logged and the
// defaults kept.
func (a *app) loadSchema(ctx context.Context) (*orchestrator.Session, error) {
	orch, err := a.orchestrator(ctx)
	if err != nil {
		return nil, err
	}
	session, err := orch.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"fields": session.Schema.Len(),
		"store":  a.cfg.Store.Path,
	}).Debug("settings loaded")
	return session, nil
}

// renderers registers every front-end by name.
func (a *app) renderers(ctx context.Context) (*render.Registry, error) {
	log := logger.FromContext(ctx)
	reg := render.NewRegistry()

	h, err := html.New(html.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := reg.Register(h); err != nil {
		return nil, err
	}

	driver := a.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(os.Stdin, os.Stdout, os.Stderr)
	}
	t, err := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithOutputFormat(tui.OutputFormatPrettyText),
		tui.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(t); err != nil {
		return nil, err
	}
	return reg, nil
}
