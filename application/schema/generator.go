// Package schema provides JSON Schema generation for the binding-table
// document format.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/madeye/jbind/domain/entities"
)

// TableSchema reflects the binding-table document format into a standard
// JSON Schema (Draft 2020-12).
func TableSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	s := reflector.Reflect(&entities.BindingTable{})

	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal table schema: %w", err)
	}
	return jsonBytes, nil
}
