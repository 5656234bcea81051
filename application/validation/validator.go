// Package validation checks binding-table documents before they reach the
// binder: struct-level constraints, descriptor syntax, and class path shape.
// Semantic resolution against a live runtime is the binder's job, not ours.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/madeye/jbind/application/schema"
	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/entities"
)

// validate is a package-level singleton; creating a validator per call is
// expensive.
var validate = validator.New()

// classPathPattern matches fully qualified slashed class paths.
var classPathPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(/[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// ValidateTable checks a parsed binding table: required fields, class path
// shape, descriptor syntax, member-form agreement, and duplicate names.
func ValidateTable(t *entities.BindingTable) *entities.ValidationResult {
	result := &entities.ValidationResult{Valid: true}

	fail := func(field, msg string) {
		result.Valid = false
		result.Errors = append(result.Errors, entities.ValidationError{Field: field, Message: msg})
	}

	if err := validate.Struct(t); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				fail(ve.Namespace(), fmt.Sprintf("failed %q constraint", ve.Tag()))
			}
		} else {
			fail("table", err.Error())
		}
		return result
	}

	for _, cls := range t.Classes {
		if !classPathPattern.MatchString(cls.Class) {
			fail(cls.Class, "not a fully qualified slashed class path")
		}

		ctor := cls.ConstructorDescriptor()
		if d, err := descriptor.Parse(ctor); err != nil {
			fail(cls.Class+".<init>", err.Error())
		} else if d.IsField() || d.Return.Kind != descriptor.Void || d.Return.Array {
			fail(cls.Class+".<init>", "constructor descriptor must be a void method descriptor")
		}

		seen := make(map[string]bool, len(cls.Methods)+len(cls.Fields))
		for _, m := range cls.Methods {
			field := cls.Class + "." + m.Name
			if seen[m.Name] {
				fail(field, "member declared twice")
			}
			seen[m.Name] = true
			if d, err := descriptor.Parse(m.Descriptor); err != nil {
				fail(field, err.Error())
			} else if d.IsField() {
				fail(field, "method requires a method descriptor")
			}
		}
		for _, f := range cls.Fields {
			field := cls.Class + "." + f.Name
			if seen[f.Name] {
				fail(field, "member declared twice")
			}
			seen[f.Name] = true
			if d, err := descriptor.Parse(f.Descriptor); err != nil {
				fail(field, err.Error())
			} else if !d.IsField() {
				fail(field, "field requires a field descriptor")
			}
		}
	}

	return result
}

// ValidateDocument checks a raw JSON binding-table document against the
// generated table schema, then runs the semantic checks of ValidateTable.
func ValidateDocument(data []byte) (*entities.ValidationResult, error) {
	schemaBytes, err := schema.TableSchema()
	if err != nil {
		return nil, fmt.Errorf("generating table schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("table.json", bytes.NewReader(schemaBytes)); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	sch, err := compiler.Compile("table.json")
	if err != nil {
		return nil, fmt.Errorf("compiling table schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &entities.ValidationResult{
			Errors: []entities.ValidationError{{Field: "document", Message: err.Error()}},
		}, nil
	}
	if err := sch.Validate(doc); err != nil {
		return &entities.ValidationResult{
			Errors: []entities.ValidationError{{Field: "document", Message: err.Error()}},
		}, nil
	}

	var t entities.BindingTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding binding table: %w", err)
	}
	return ValidateTable(&t), nil
}
