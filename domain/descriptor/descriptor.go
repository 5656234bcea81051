// Package descriptor parses compact textual type signatures of the form
// used by the foreign runtime: method descriptors "(" {argToken} ")" retToken
// and single-token field descriptors. Parsing is pure; a Method is immutable
// once returned.
package descriptor

import (
	"strings"

	"github.com/madeye/jbind/domain/errors"
)

// Kind is a single-letter type code from the descriptor alphabet.
type Kind byte

const (
	Boolean Kind = 'Z'
	Byte    Kind = 'B'
	Char    Kind = 'C'
	Short   Kind = 'S'
	Int     Kind = 'I'
	Long    Kind = 'J'
	Float   Kind = 'F'
	Double  Kind = 'D'
	Void    Kind = 'V'
	Object  Kind = 'L'
)

// StringClass is the class path whose object token is marshalled as host text
// rather than as an opaque reference.
const StringClass = "java/lang/String"

// Type is one parsed type token: a primitive code, a class reference, or a
// one-level array of either.
type Type struct {
	Kind  Kind
	Class string // class path, set only when Kind == Object
	Array bool
}

// IsPrimitive reports whether the token is a non-void primitive code.
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case Boolean, Byte, Char, Short, Int, Long, Float, Double:
		return true
	}
	return false
}

// IsString reports whether the token is the string class reference.
func (t Type) IsString() bool {
	return t.Kind == Object && t.Class == StringClass
}

// String reconstructs the textual token, array prefix included.
func (t Type) String() string {
	var b strings.Builder
	if t.Array {
		b.WriteByte('[')
	}
	if t.Kind == Object {
		b.WriteByte('L')
		b.WriteString(t.Class)
		b.WriteByte(';')
	} else {
		b.WriteByte(byte(t.Kind))
	}
	return b.String()
}

// Method is a parsed descriptor. Args is nil for a field descriptor and
// non-nil (possibly empty) for a method descriptor; its length is fixed at
// parse time.
type Method struct {
	Raw    string
	Args   []Type
	Return Type
}

// IsField reports whether the descriptor was a single field-type token.
func (m Method) IsField() bool {
	return m.Args == nil
}

// Parse parses a descriptor string. A string that does not open with '(' is
// parsed as a single field-type token; otherwise the argument segment and the
// trailing return token are tokenized left to right.
func Parse(desc string) (Method, error) {
	if desc == "" {
		return Method{}, errors.NewMalformedDescriptor(desc, 0, "empty descriptor")
	}

	if desc[0] != '(' {
		t, next, err := scanType(desc, 0, false)
		if err != nil {
			return Method{}, err
		}
		if next != len(desc) {
			return Method{}, errors.NewMalformedDescriptor(desc, next, "trailing characters after field type")
		}
		return Method{Raw: desc, Return: t}, nil
	}

	end := strings.IndexByte(desc, ')')
	if end < 0 {
		return Method{}, errors.NewMalformedDescriptor(desc, 0, "unterminated argument segment")
	}

	args := []Type{}
	for i := 1; i < end; {
		t, next, err := scanType(desc, i, false)
		if err != nil {
			return Method{}, err
		}
		if next > end {
			return Method{}, errors.NewMalformedDescriptor(desc, i, "argument token crosses ')'")
		}
		args = append(args, t)
		i = next
	}

	if end+1 == len(desc) {
		return Method{}, errors.NewMalformedDescriptor(desc, end, "missing return type")
	}
	ret, next, err := scanType(desc, end+1, true)
	if err != nil {
		return Method{}, err
	}
	if next != len(desc) {
		return Method{}, errors.NewMalformedDescriptor(desc, next, "trailing characters after return type")
	}

	return Method{Raw: desc, Args: args, Return: ret}, nil
}

// scanType consumes one type token starting at i and returns it together with
// the index of the first byte after the token. Void is accepted only in
// return position, and only unadorned.
func scanType(desc string, i int, returnPos bool) (Type, int, error) {
	var t Type
	if i < len(desc) && desc[i] == '[' {
		t.Array = true
		i++
		if i < len(desc) && desc[i] == '[' {
			return Type{}, 0, errors.NewMalformedDescriptor(desc, i, "multi-dimensional arrays are not supported")
		}
	}
	if i >= len(desc) {
		return Type{}, 0, errors.NewMalformedDescriptor(desc, i, "truncated type token")
	}

	switch c := desc[i]; c {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
		t.Kind = Kind(c)
		return t, i + 1, nil
	case 'V':
		if !returnPos || t.Array {
			return Type{}, 0, errors.NewMalformedDescriptor(desc, i, "void is only valid as a bare return type")
		}
		t.Kind = Void
		return t, i + 1, nil
	case 'L':
		term := strings.IndexByte(desc[i:], ';')
		if term < 0 {
			return Type{}, 0, errors.NewMalformedDescriptor(desc, i, "unterminated class reference")
		}
		if term == 1 {
			return Type{}, 0, errors.NewMalformedDescriptor(desc, i, "empty class reference")
		}
		t.Kind = Object
		t.Class = desc[i+1 : i+term]
		return t, i + term + 1, nil
	default:
		return Type{}, 0, errors.NewMalformedDescriptor(desc, i, "unrecognized type code "+string(c))
	}
}
