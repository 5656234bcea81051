package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madeye/jbind/application/table"
	"github.com/madeye/jbind/application/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <binding-table.yaml>",
	Short: "Check a binding-table document without binding it",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !quiet {
		fmt.Printf("Validating %s\n", path)
	}

	t, err := table.ParseFile(path)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("  Classes: %d\n", len(t.Classes))
		for _, c := range t.Classes {
			fmt.Printf("  %s: %d method(s), %d field(s)\n", c.Class, len(c.Methods), len(c.Fields))
		}
	}

	res := validation.ValidateTable(t)
	if !res.Valid {
		msg := "binding table is invalid:"
		for _, e := range res.Errors {
			msg += fmt.Sprintf("\n- %s: %s", e.Field, e.Message)
		}
		return fmt.Errorf("%s", msg)
	}

	if !quiet {
		fmt.Println("OK")
	}
	return nil
}
