package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madeye/jbind/domain/entities"
)

func validTable() *entities.BindingTable {
	return &entities.BindingTable{
		Name: "display",
		Classes: []entities.Declaration{
			{
				Class:       "org/test/Hardware",
				Constructor: "(I)V",
				Methods: []entities.MemberDecl{
					{Name: "getDPI", Descriptor: "()I", Static: true},
					{Name: "scale", Descriptor: "(I)I"},
				},
				Fields: []entities.MemberDecl{
					{Name: "dpi", Descriptor: "I"},
				},
			},
		},
	}
}

func TestValidateTable_Valid(t *testing.T) {
	result := ValidateTable(validTable())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateTable_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*entities.BindingTable)
		message string
	}{
		{
			name:    "no classes",
			mutate:  func(tbl *entities.BindingTable) { tbl.Classes = nil },
			message: "constraint",
		},
		{
			name:    "missing class path",
			mutate:  func(tbl *entities.BindingTable) { tbl.Classes[0].Class = "" },
			message: "constraint",
		},
		{
			name:    "dotted class path",
			mutate:  func(tbl *entities.BindingTable) { tbl.Classes[0].Class = "org.test.Hardware" },
			message: "slashed class path",
		},
		{
			name:    "non-void constructor",
			mutate:  func(tbl *entities.BindingTable) { tbl.Classes[0].Constructor = "(I)I" },
			message: "void method descriptor",
		},
		{
			name:    "field-form constructor",
			mutate:  func(tbl *entities.BindingTable) { tbl.Classes[0].Constructor = "I" },
			message: "void method descriptor",
		},
		{
			name:    "malformed method descriptor",
			mutate:  func(tbl *entities.BindingTable) { tbl.Classes[0].Methods[0].Descriptor = "(Q)V" },
			message: "unrecognized type code",
		},
		{
			name:    "field-form method descriptor",
			mutate:  func(tbl *entities.BindingTable) { tbl.Classes[0].Methods[0].Descriptor = "I" },
			message: "method requires a method descriptor",
		},
		{
			name:    "method-form field descriptor",
			mutate:  func(tbl *entities.BindingTable) { tbl.Classes[0].Fields[0].Descriptor = "()I" },
			message: "field requires a field descriptor",
		},
		{
			name: "duplicate member name",
			mutate: func(tbl *entities.BindingTable) {
				tbl.Classes[0].Fields[0].Name = "scale"
			},
			message: "declared twice",
		},
		{
			name: "missing member name",
			mutate: func(tbl *entities.BindingTable) {
				tbl.Classes[0].Methods[0].Name = ""
			},
			message: "constraint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := validTable()
			tt.mutate(tbl)

			result := ValidateTable(tbl)
			require.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)

			found := false
			for _, e := range result.Errors {
				if strings.Contains(e.Message, tt.message) {
					found = true
				}
			}
			assert.True(t, found, "expected an error mentioning %q, got %v", tt.message, result.Errors)
		})
	}
}

func TestValidateDocument(t *testing.T) {
	valid := `{"classes":[{"class":"org/test/Hardware","methods":[{"name":"getDPI","descriptor":"()I","static":true}]}]}`
	result, err := ValidateDocument([]byte(valid))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// Shape violations are caught by the generated schema before the
	// semantic pass runs.
	badShape := `{"classes":"nope"}`
	result, err = ValidateDocument([]byte(badShape))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "document", result.Errors[0].Field)

	notJSON := `{`
	result, err = ValidateDocument([]byte(notJSON))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestClassPathPattern(t *testing.T) {
	valid := []string{"a", "a/B", "org/test/Hardware", "java/lang/String", "_x/$y"}
	for _, s := range valid {
		assert.True(t, classPathPattern.MatchString(s), s)
	}

	invalid := []string{"", "/a", "a/", "a//b", "org.test.Hardware", "a b", "1a"}
	for _, s := range invalid {
		assert.False(t, classPathPattern.MatchString(s), s)
	}
}
