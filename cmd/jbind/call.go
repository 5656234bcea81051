package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/madeye/jbind/application/table"
	"github.com/madeye/jbind/application/validation"
	"github.com/madeye/jbind/bind"
	wzadapter "github.com/madeye/jbind/infrastructure/wazero"
)

var callWasm string

var callCmd = &cobra.Command{
	Use:   "call <binding-table.yaml> <class> <member> [arg...]",
	Short: "Bind a class from a wasm module and invoke one static member",
	Long: "call loads a WebAssembly module as the foreign runtime, binds the " +
		"named class statically from the binding table, and invokes the named " +
		"member with the given arguments. Arguments are parsed as JSON scalars.",
	Args: cobra.MinimumNArgs(3),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVarP(&callWasm, "wasm", "w", "", "Path to the wasm module backing the class")
	_ = callCmd.MarkFlagRequired("wasm")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	tablePath, className, member := args[0], args[1], args[2]

	t, err := table.ParseFile(tablePath)
	if err != nil {
		return err
	}
	if res := validation.ValidateTable(t); !res.Valid {
		return fmt.Errorf("binding table is invalid: %s: %s", res.Errors[0].Field, res.Errors[0].Message)
	}
	decl, ok := t.Lookup(className)
	if !ok {
		return fmt.Errorf("class %q not declared in %s", className, tablePath)
	}

	wasmBytes, err := os.ReadFile(callWasm)
	if err != nil {
		return fmt.Errorf("reading wasm module: %w", err)
	}

	ctx := cmd.Context()
	adapter, err := wzadapter.NewAdapter(ctx)
	if err != nil {
		return err
	}
	defer adapter.Close(ctx)

	if err := adapter.LoadModule(ctx, className, wasmBytes); err != nil {
		return err
	}

	proxy, err := bind.BindStatic(ctx, adapter, decl)
	if err != nil {
		return err
	}

	callArgs := make([]any, 0, len(args)-3)
	for _, raw := range args[3:] {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw // bare words are strings
		}
		callArgs = append(callArgs, normalizeArg(v))
	}

	result, err := proxy.Call(ctx, member, callArgs...)
	if err != nil {
		return err
	}
	if result != nil {
		fmt.Println(render(result))
	}
	return nil
}

// normalizeArg maps JSON numbers (float64) to int when they are integral, so
// integer descriptors accept plain CLI literals.
func normalizeArg(v any) any {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int(f)
	}
	return v
}

func render(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
