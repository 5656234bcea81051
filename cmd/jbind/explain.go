package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madeye/jbind/domain/descriptor"
)

var explainCmd = &cobra.Command{
	Use:   "explain <descriptor>",
	Short: "Break a type descriptor into its argument and return tokens",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	d, err := descriptor.Parse(args[0])
	if err != nil {
		return err
	}

	if d.IsField() {
		fmt.Printf("field descriptor: %s\n", tokenName(d.Return))
		return nil
	}

	fmt.Printf("method descriptor, %d argument(s)\n", len(d.Args))
	for i, t := range d.Args {
		fmt.Printf("  arg %d: %s\n", i, tokenName(t))
	}
	fmt.Printf("  returns: %s\n", tokenName(d.Return))
	return nil
}

func tokenName(t descriptor.Type) string {
	var name string
	switch t.Kind {
	case descriptor.Boolean:
		name = "boolean"
	case descriptor.Byte:
		name = "byte"
	case descriptor.Char:
		name = "char"
	case descriptor.Short:
		name = "short"
	case descriptor.Int:
		name = "int"
	case descriptor.Long:
		name = "long"
	case descriptor.Float:
		name = "float"
	case descriptor.Double:
		name = "double"
	case descriptor.Void:
		name = "void"
	case descriptor.Object:
		name = t.Class
	}
	if t.Array {
		return name + "[]"
	}
	return name
}
