package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madeye/jbind/application/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the binding-table document format",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	out, err := schema.TableSchema()
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
