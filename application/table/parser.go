// Package table loads binding-table documents. Tables are written in YAML
// (JSON, being a YAML subset, parses too) and validated separately by the
// validation package.
package table

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/madeye/jbind/domain/entities"
)

// Parse unmarshals a binding-table document.
func Parse(data []byte) (*entities.BindingTable, error) {
	var t entities.BindingTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse binding table: %w", err)
	}
	return &t, nil
}

// ParseFile reads and parses a binding-table document from disk.
func ParseFile(path string) (*entities.BindingTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read binding table: %w", err)
	}
	return Parse(data)
}
