package entities

// MemberDecl declares one named method or field on a foreign class, with its
// descriptor string and static/instance flag.
type MemberDecl struct {
	Name       string `json:"name" yaml:"name" validate:"required"`
	Descriptor string `json:"descriptor" yaml:"descriptor" validate:"required"`
	Static     bool   `json:"static,omitempty" yaml:"static,omitempty"`
}

// Declaration is the binding declaration surface for one foreign class: the
// class path, an optional constructor descriptor, and the set of declared
// members. It is built once at definition time and never mutated.
type Declaration struct {
	// Class is the fully qualified slashed class path.
	Class string `json:"class" yaml:"class" validate:"required"`

	// Constructor is an optional constructor descriptor. Empty means the
	// no-argument constructor "()V".
	Constructor string `json:"constructor,omitempty" yaml:"constructor,omitempty"`

	Methods []MemberDecl `json:"methods,omitempty" yaml:"methods,omitempty" validate:"dive"`
	Fields  []MemberDecl `json:"fields,omitempty" yaml:"fields,omitempty" validate:"dive"`
}

// ConstructorDescriptor returns the declared constructor descriptor, or the
// no-argument default.
func (d Declaration) ConstructorDescriptor() string {
	if d.Constructor == "" {
		return "()V"
	}
	return d.Constructor
}

// Members returns all declared members, methods first, in declaration order.
func (d Declaration) Members() []MemberDecl {
	out := make([]MemberDecl, 0, len(d.Methods)+len(d.Fields))
	out = append(out, d.Methods...)
	out = append(out, d.Fields...)
	return out
}

// BindingTable is the on-disk document format consumed by the loader and the
// CLI: a named collection of class declarations.
type BindingTable struct {
	Name    string        `json:"name,omitempty" yaml:"name,omitempty"`
	Classes []Declaration `json:"classes" yaml:"classes" validate:"required,min=1,dive"`
}

// Lookup returns the declaration for a class path, if present.
func (t BindingTable) Lookup(class string) (Declaration, bool) {
	for _, d := range t.Classes {
		if d.Class == class {
			return d, true
		}
	}
	return Declaration{}, false
}
