package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldset/internal/config"
	"github.com/goliatone/go-fieldset/internal/logger"
	"github.com/goliatone/go-fieldset/pkg/orchestrator"
	"github.com/goliatone/go-fieldset/pkg/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		groups     string
		output     string
		format     string
		errorsPath string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the current settings as an HTML snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			opts := render.RenderOptions{
				Subset: render.GroupSubset{Groups: render.ParseGroupList(groups)},
			}
			if errorsPath != "" {
				payload, err := readErrorPayload(errorsPath)
				if err != nil {
					return err
				}
				opts.Errors = payload
			}

			orch, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("output") {
				output = a.cfg.Render.Output
			}
			renderer, err := orch.Registry().Get(format)
			if err != nil {
				return err
			}
			if byExt, ok := orch.Registry().ForPath(output); ok && byExt.Name() != renderer.Name() {
				logger.FromContext(ctx).WithFields(logrus.Fields{
					"output":    output,
					"format":    renderer.Name(),
					"suggested": byExt.Name(),
				}).Warn("output extension does not match the render format")
			}
			out, err := orch.Generate(ctx, orchestrator.Request{Renderer: format, RenderOptions: opts})
			if err != nil {
				return err
			}

			if output == "" || output == config.DefaultRenderOutput {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			logger.FromContext(ctx).WithField("output", output).Info("snapshot written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&groups, "groups", "g", "", "comma separated group titles to render (default: all)")
	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultRenderOutput, `output file, "-" for stdout`)
	cmd.Flags().StringVarP(&format, "format", "f", "html", "renderer name")
	cmd.Flags().StringVar(&errorsPath, "errors", "", `JSON file of {"field.key": ["message"]} shown inline`)
	return cmd
}

func readErrorPayload(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read errors: %w", err)
	}
	var payload map[string][]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse errors %s: %w", path, err)
	}
	return payload, nil
}
