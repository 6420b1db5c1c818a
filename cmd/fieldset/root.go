package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldset/internal/config"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "fieldset",
		Short:         "Edit, render and validate weighbridge settings",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultConfigPath, "config file (TOML)")
	flags.StringVar(&a.schemaPath, "schema", "", "schema definition file or directory (default: embedded weighbridge schema)")
	flags.StringVar(&a.storePath, "store", config.DefaultStorePath, "settings file")
	flags.StringVar(&a.storeFormat, "store-format", "", "settings file format: json or toml (default: from extension)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newEditCmd(a),
		newRenderCmd(a),
		newValidateCmd(a),
		newCheckCmd(a),
	)
	return root
}
