package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldset/pkg/validation"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the stored settings against the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			session, err := a.loadSchema(ctx)
			if err != nil {
				return err
			}
			defer session.Close()

			report := session.Schema.Validate()
			if err := printReport(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Valid {
				return fmt.Errorf("%w: %d issue(s)", errInvalid, len(report.Issues))
			}
			return nil
		},
	}
}

func printReport(w io.Writer, report validation.Report) error {
	if report.Valid {
		_, err := fmt.Fprint(w, pterm.Success.Sprintln("All settings are valid"))
		return err
	}
	data := [][]string{{"Key", "Field", "Problem"}}
	for _, issue := range report.Issues {
		data = append(data, []string{issue.Key, issue.Label, issue.Message})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
