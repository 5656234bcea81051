// Package invoke dispatches calls, field reads, and field writes against
// resolved member bindings. The argument-count check always precedes
// marshalling; the argument slot buffer is acquired immediately before the
// call and released on every exit path.
package invoke

import (
	"context"

	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/entities"
	"github.com/madeye/jbind/domain/errors"
	"github.com/madeye/jbind/domain/ports"
	"github.com/madeye/jbind/internal/slots"
	"github.com/madeye/jbind/marshal"
)

// ConstructorName is the member name used for constructors in diagnostics
// and runtime lookups.
const ConstructorName = "<init>"

// Call invokes a bound method with the given host arguments and returns the
// unmarshalled result, or nil for a void method.
func Call(ctx context.Context, cb entities.ClassBinding, mb entities.MemberBinding, args []any) (any, error) {
	if mb.IsField() {
		return nil, &errors.ConfigError{Field: mb.Name, Reason: "declared as a field, invoked as a method"}
	}
	if len(args) != len(mb.Descriptor.Args) {
		return nil, &errors.ArgumentCountError{
			Class:  cb.ClassName,
			Member: mb.Name,
			Want:   len(mb.Descriptor.Args),
			Got:    len(args),
		}
	}
	if !mb.Static && !cb.HasInstance() {
		return nil, &errors.ConfigError{Field: mb.Name, Reason: "instance method on a proxy with no instance"}
	}

	buf := slots.Acquire(len(args))
	defer buf.Release()
	for i, a := range args {
		v, err := marshal.In(ctx, cb.Env, mb.Descriptor.Args[i], a)
		if err != nil {
			return nil, err
		}
		buf.Values[i] = v
	}

	var (
		ret ports.Value
		err error
	)
	if mb.Static {
		ret, err = cb.Env.CallStatic(ctx, cb.Class, mb.Method, mb.Descriptor.Return, buf.Values)
	} else {
		ret, err = cb.Env.CallInstance(ctx, cb.Instance, mb.Method, mb.Descriptor.Return, buf.Values)
	}
	if err != nil {
		return nil, &errors.ForeignError{Op: "call", Class: cb.ClassName, Member: mb.Name, Err: err}
	}

	if mb.Descriptor.Return.Kind == descriptor.Void && !mb.Descriptor.Return.Array {
		return nil, nil
	}
	return marshal.Out(ctx, cb.Env, mb.Descriptor.Return, ret)
}

// Get reads a bound field and returns the unmarshalled value.
func Get(ctx context.Context, cb entities.ClassBinding, mb entities.MemberBinding) (any, error) {
	if !mb.IsField() {
		return nil, &errors.ConfigError{Field: mb.Name, Reason: "declared as a method, read as a field"}
	}
	if !mb.Static && !cb.HasInstance() {
		return nil, &errors.ConfigError{Field: mb.Name, Reason: "instance field on a proxy with no instance"}
	}

	var (
		val ports.Value
		err error
	)
	if mb.Static {
		val, err = cb.Env.GetStaticField(ctx, cb.Class, mb.Field, mb.Descriptor.Return)
	} else {
		val, err = cb.Env.GetInstanceField(ctx, cb.Instance, mb.Field, mb.Descriptor.Return)
	}
	if err != nil {
		return nil, &errors.ForeignError{Op: "field_get", Class: cb.ClassName, Member: mb.Name, Err: err}
	}
	return marshal.Out(ctx, cb.Env, mb.Descriptor.Return, val)
}

// Set marshals a host value and writes it to a bound field.
func Set(ctx context.Context, cb entities.ClassBinding, mb entities.MemberBinding, v any) error {
	if !mb.IsField() {
		return &errors.ConfigError{Field: mb.Name, Reason: "declared as a method, written as a field"}
	}
	if !mb.Static && !cb.HasInstance() {
		return &errors.ConfigError{Field: mb.Name, Reason: "instance field on a proxy with no instance"}
	}

	val, err := marshal.In(ctx, cb.Env, mb.Descriptor.Return, v)
	if err != nil {
		return err
	}

	if mb.Static {
		err = cb.Env.SetStaticField(ctx, cb.Class, mb.Field, mb.Descriptor.Return, val)
	} else {
		err = cb.Env.SetInstanceField(ctx, cb.Instance, mb.Field, mb.Descriptor.Return, val)
	}
	if err != nil {
		return &errors.ForeignError{Op: "field_set", Class: cb.ClassName, Member: mb.Name, Err: err}
	}
	return nil
}

// Construct invokes a resolved constructor and returns the new instance
// handle. A nil instance from the runtime is an instantiation failure, never
// a valid result.
func Construct(ctx context.Context, env ports.Env, cls ports.Class, className string, ctor ports.Method, d descriptor.Method, args []any) (ports.Object, error) {
	if len(args) != len(d.Args) {
		return ports.Object{}, &errors.ArgumentCountError{
			Class:  className,
			Member: ConstructorName,
			Want:   len(d.Args),
			Got:    len(args),
		}
	}

	buf := slots.Acquire(len(args))
	defer buf.Release()
	for i, a := range args {
		v, err := marshal.In(ctx, env, d.Args[i], a)
		if err != nil {
			return ports.Object{}, err
		}
		buf.Values[i] = v
	}

	obj, err := env.NewObject(ctx, cls, ctor, buf.Values)
	if err != nil {
		return ports.Object{}, &errors.InstantiationError{Class: className, Err: err}
	}
	if obj.IsNil() {
		return ports.Object{}, &errors.InstantiationError{Class: className}
	}
	return obj, nil
}
