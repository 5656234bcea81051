package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSchema(t *testing.T) {
	data, err := TableSchema()
	require.NoError(t, err)

	var s map[string]any
	require.NoError(t, json.Unmarshal(data, &s))

	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", s["$schema"])

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "classes")
	assert.Contains(t, props, "name")

	required, ok := s["required"].([]any)
	require.True(t, ok)
	assert.Contains(t, required, "classes")
}
