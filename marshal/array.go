package marshal

import (
	"context"
	"fmt"
	"reflect"

	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/errors"
	"github.com/madeye/jbind/domain/ports"
)

// inArray marshals an ordered host sequence into a freshly allocated foreign
// array, converting elements one at a time under the element token. Elements
// that would be rejected as scalars are rejected before any write.
func inArray(ctx context.Context, env ports.Env, t descriptor.Type, v any) (ports.Value, error) {
	if v == nil {
		return ports.Value{}, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return ports.Value{}, &errors.TypeMismatchError{Want: t.String(), Got: fmt.Sprintf("%T", v)}
	}
	n := rv.Len()
	elem := descriptor.Type{Kind: t.Kind, Class: t.Class}

	var arr ports.Object
	var err error
	if elem.Kind == descriptor.Object {
		cls, ferr := env.FindClass(ctx, elem.Class)
		if ferr != nil {
			return ports.Value{}, &errors.ForeignError{Op: "class_lookup", Class: elem.Class, Err: ferr}
		}
		if cls.IsNil() {
			return ports.Value{}, &errors.ResolutionError{Kind: "class", Class: elem.Class}
		}
		arr, err = env.NewObjectArray(ctx, cls, n)
	} else {
		arr, err = env.NewPrimitiveArray(ctx, elem.Kind, n)
	}
	if err != nil {
		return ports.Value{}, &errors.AllocationError{What: t.String(), Size: n, Err: err}
	}

	for i := 0; i < n; i++ {
		ev, err := In(ctx, env, elem, hostElem(rv.Index(i)))
		if err != nil {
			return ports.Value{}, err
		}
		if err := env.SetArrayElement(ctx, arr, i, elem, ev); err != nil {
			return ports.Value{}, &errors.ForeignError{Op: "array_store", Class: t.String(), Err: err}
		}
	}

	return ports.RefValue(arr), nil
}

// outArray bulk-fetches a foreign array and copies it into a new host
// sequence, releasing the foreign buffer only when the runtime reports it
// produced a copy rather than a direct view.
func outArray(ctx context.Context, env ports.Env, t descriptor.Type, val ports.Value) (any, error) {
	if val.Ref.IsNil() {
		return nil, nil
	}

	elem := descriptor.Type{Kind: t.Kind, Class: t.Class}
	elems, copied, err := env.ArrayElements(ctx, val.Ref, elem)
	if err != nil {
		return nil, &errors.ForeignError{Op: "array_fetch", Class: t.String(), Err: err}
	}
	if copied {
		defer env.ReleaseArrayElements(ctx, val.Ref, elems)
	}

	out := make([]any, len(elems))
	for i, ev := range elems {
		hv, err := Out(ctx, env, elem, ev)
		if err != nil {
			return nil, err
		}
		out[i] = hv
	}
	return out, nil
}

// hostElem unwraps one reflected sequence element to its interface value,
// mapping a nil interface element to the null reference.
func hostElem(rv reflect.Value) any {
	if rv.Kind() == reflect.Interface && rv.IsNil() {
		return nil
	}
	return rv.Interface()
}
