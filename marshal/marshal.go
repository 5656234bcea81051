// Package marshal converts values bidirectionally across the host/foreign
// type boundary, keyed by parsed descriptor tokens. In produces one call slot
// from a host value; Out produces a host value from a call slot. Both issue
// foreign-runtime operations only for strings, objects, and arrays.
package marshal

import (
	"context"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/entities"
	"github.com/madeye/jbind/domain/errors"
	"github.com/madeye/jbind/domain/ports"
)

// In marshals one host value into a foreign call slot under the given type
// token.
func In(ctx context.Context, env ports.Env, t descriptor.Type, v any) (ports.Value, error) {
	if t.Array {
		return inArray(ctx, env, t, v)
	}

	switch t.Kind {
	case descriptor.Boolean:
		b, ok := v.(bool)
		if !ok {
			return ports.Value{}, &errors.TypeMismatchError{Want: "boolean", Got: fmt.Sprintf("%T", v)}
		}
		return ports.BoolValue(b), nil
	case descriptor.Byte:
		n, ok := coerceInt(v)
		if !ok {
			return ports.Value{}, &errors.TypeMismatchError{Want: "byte", Got: fmt.Sprintf("%T", v)}
		}
		return ports.Int8Value(int8(n)), nil
	case descriptor.Char:
		c, err := coerceChar(v)
		if err != nil {
			return ports.Value{}, err
		}
		return ports.CharValue(c), nil
	case descriptor.Short:
		n, ok := coerceInt(v)
		if !ok {
			return ports.Value{}, &errors.TypeMismatchError{Want: "short", Got: fmt.Sprintf("%T", v)}
		}
		return ports.Int16Value(int16(n)), nil
	case descriptor.Int:
		n, ok := coerceInt(v)
		if !ok {
			return ports.Value{}, &errors.TypeMismatchError{Want: "int", Got: fmt.Sprintf("%T", v)}
		}
		return ports.Int32Value(int32(n)), nil
	case descriptor.Long:
		n, ok := coerceInt(v)
		if !ok {
			return ports.Value{}, &errors.TypeMismatchError{Want: "long", Got: fmt.Sprintf("%T", v)}
		}
		return ports.Int64Value(n), nil
	case descriptor.Float:
		f, ok := coerceFloat(v)
		if !ok {
			return ports.Value{}, &errors.TypeMismatchError{Want: "float", Got: fmt.Sprintf("%T", v)}
		}
		return ports.Float32Value(float32(f)), nil
	case descriptor.Double:
		f, ok := coerceFloat(v)
		if !ok {
			return ports.Value{}, &errors.TypeMismatchError{Want: "double", Got: fmt.Sprintf("%T", v)}
		}
		return ports.Float64Value(f), nil
	case descriptor.Object:
		return inObject(ctx, env, t, v)
	default:
		return ports.Value{}, errors.NewInvalidDescriptor(t.String(), "not an argument type")
	}
}

// inObject marshals a class-reference token: host text for the string class,
// otherwise a null, an opaque wrapper passed through unchanged, or a bound
// value whose class path matches the token exactly.
func inObject(ctx context.Context, env ports.Env, t descriptor.Type, v any) (ports.Value, error) {
	if v == nil {
		return ports.Value{}, nil
	}

	if t.IsString() {
		if s, ok := v.(string); ok {
			obj, err := env.NewString(ctx, []byte(s))
			if err != nil {
				return ports.Value{}, &errors.AllocationError{What: "string", Size: len(s), Err: err}
			}
			return ports.RefValue(obj), nil
		}
	}

	switch x := v.(type) {
	case *entities.ObjectRef:
		return ports.RefValue(x.ForeignRef()), nil
	case entities.Bound:
		if x.ClassName() != t.Class {
			return ports.Value{}, &errors.TypeMismatchError{Want: t.Class, Got: x.ClassName()}
		}
		return ports.RefValue(x.ForeignRef()), nil
	default:
		return ports.Value{}, &errors.TypeMismatchError{Want: t.Class, Got: fmt.Sprintf("%T", v)}
	}
}

// Out unmarshals one foreign result slot into a host value under the given
// type token.
func Out(ctx context.Context, env ports.Env, t descriptor.Type, val ports.Value) (any, error) {
	if t.Array {
		return outArray(ctx, env, t, val)
	}

	switch t.Kind {
	case descriptor.Boolean:
		return val.Bool(), nil
	case descriptor.Byte:
		return val.Int8(), nil
	case descriptor.Char:
		c := val.Char()
		if utf16.IsSurrogate(rune(c)) {
			// A lone surrogate has no host text form.
			return nil, &errors.TypeMismatchError{Want: "scalar code unit", Got: fmt.Sprintf("0x%04X", c)}
		}
		return string(rune(c)), nil
	case descriptor.Short:
		return val.Int16(), nil
	case descriptor.Int:
		return val.Int32(), nil
	case descriptor.Long:
		return val.Int64(), nil
	case descriptor.Float:
		return val.Float32(), nil
	case descriptor.Double:
		return val.Float64(), nil
	case descriptor.Object:
		return outObject(ctx, env, t, val)
	default:
		return nil, errors.NewInvalidDescriptor(t.String(), "not a result type")
	}
}

// outObject unmarshals a class-reference result: string content is copied to
// host text with the foreign scratch buffer released immediately after the
// copy; any other object comes back as an opaque wrapper.
func outObject(ctx context.Context, env ports.Env, t descriptor.Type, val ports.Value) (any, error) {
	if val.Ref.IsNil() {
		return nil, nil
	}

	if t.IsString() {
		data, _, err := env.StringBytes(ctx, val.Ref)
		if err != nil {
			return nil, &errors.ForeignError{Op: "string_read", Class: t.Class, Err: err}
		}
		defer env.ReleaseStringBytes(ctx, val.Ref, data)
		return string(data), nil
	}

	return entities.NewObjectRef(val.Ref), nil
}

func coerceInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	default:
		if n, ok := coerceInt(v); ok {
			return float64(n), true
		}
		return 0, false
	}
}

// coerceChar accepts a single-code-point string or an integer code unit.
func coerceChar(v any) (uint16, error) {
	if s, ok := v.(string); ok {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || r == utf8.RuneError && size == 1 {
			return 0, &errors.TypeMismatchError{Want: "single-code-point string", Got: fmt.Sprintf("%q", s)}
		}
		if r > 0xFFFF {
			return 0, &errors.TypeMismatchError{Want: "16-bit code unit", Got: fmt.Sprintf("%q", s)}
		}
		return uint16(r), nil
	}
	if n, ok := coerceInt(v); ok {
		if n < 0 || n > 0xFFFF {
			return 0, &errors.TypeMismatchError{Want: "16-bit code unit", Got: fmt.Sprintf("%d", n)}
		}
		if utf16.IsSurrogate(rune(n)) {
			return 0, &errors.TypeMismatchError{Want: "scalar code unit", Got: fmt.Sprintf("0x%04X", n)}
		}
		return uint16(n), nil
	}
	return 0, &errors.TypeMismatchError{Want: "char", Got: fmt.Sprintf("%T", v)}
}
