package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldset/pkg/validation"
)

func newCheckCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <validator> <value>",
		Short: "Run a domain validator on a value",
		Long: "Run a domain validator on a value. Validators: " +
			strings.Join(validation.DomainNames(), ", ") + ".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, raw := args[0], args[1]
			validate, ok := validation.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown validator %q (available: %s)", name, strings.Join(validation.DomainNames(), ", "))
			}

			res := validate(raw)
			status := pterm.Green("valid")
			if !res.Valid {
				status = pterm.Red("invalid")
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData([][]string{
				{"Validator", "Input", "Status", "Message"},
				{name, raw, status, res.Message},
			}).Srender()
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), table); err != nil {
				return err
			}
			if !res.Valid {
				return errInvalid
			}
			return nil
		},
	}
}
