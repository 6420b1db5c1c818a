package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldset/internal/logger"
	"github.com/goliatone/go-fieldset/pkg/orchestrator"
	"github.com/goliatone/go-fieldset/pkg/render"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		groups string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit settings interactively and save them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			orch, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			out, err := orch.Generate(ctx, orchestrator.Request{
				Renderer: "tui",
				RenderOptions: render.RenderOptions{
					Subset: render.GroupSubset{Groups: render.ParseGroupList(groups)},
				},
				Save: !dryRun,
			})
			if err != nil {
				return err
			}

			if dryRun {
				_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
				return err
			}
			logger.FromContext(ctx).WithField("store", a.cfg.Store.Path).Info("settings saved")
			fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintln(fmt.Sprintf("Settings saved to %s", a.cfg.Store.Path)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&groups, "groups", "g", "", "comma separated group titles to edit (default: all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the edited settings instead of saving them")
	return cmd
}
