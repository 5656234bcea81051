package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `
name: display
classes:
  - class: org/test/Hardware
    constructor: (I)V
    methods:
      - name: getDPI
        descriptor: ()I
        static: true
      - name: scale
        descriptor: (I)I
    fields:
      - name: dpi
        descriptor: I
`

func TestParse_YAML(t *testing.T) {
	tbl, err := Parse([]byte(sampleTable))
	require.NoError(t, err)

	assert.Equal(t, "display", tbl.Name)
	require.Len(t, tbl.Classes, 1)

	cls := tbl.Classes[0]
	assert.Equal(t, "org/test/Hardware", cls.Class)
	assert.Equal(t, "(I)V", cls.ConstructorDescriptor())
	require.Len(t, cls.Methods, 2)
	assert.Equal(t, "getDPI", cls.Methods[0].Name)
	assert.True(t, cls.Methods[0].Static)
	assert.False(t, cls.Methods[1].Static)
	require.Len(t, cls.Fields, 1)
	assert.Equal(t, "I", cls.Fields[0].Descriptor)
}

func TestParse_JSONDocument(t *testing.T) {
	doc := `{"classes":[{"class":"org/test/Hardware","methods":[{"name":"getDPI","descriptor":"()I","static":true}]}]}`

	tbl, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, tbl.Classes, 1)
	assert.Equal(t, "getDPI", tbl.Classes[0].Methods[0].Name)
}

func TestParse_DefaultConstructor(t *testing.T) {
	tbl, err := Parse([]byte("classes:\n  - class: a/B\n"))
	require.NoError(t, err)
	assert.Equal(t, "()V", tbl.Classes[0].ConstructorDescriptor())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(":\t not yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse binding table")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0o600))

	tbl, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "display", tbl.Name)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
