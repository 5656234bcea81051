package bind

import (
	"context"

	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/entities"
	"github.com/madeye/jbind/domain/errors"
	"github.com/madeye/jbind/domain/ports"
)

// Resolution is strict: the descriptor handed to the runtime is exactly the
// string the parser validated, and a null lookup result is always an error,
// never a usable handle. Each declared member is resolved once, at proxy
// construction time, against the proxy's own class handle.

// ResolveClass resolves a foreign class by its fully qualified path.
func ResolveClass(ctx context.Context, env ports.Env, path string) (ports.Class, error) {
	cls, err := env.FindClass(ctx, path)
	if err != nil {
		return ports.Class{}, &errors.ForeignError{Op: "class_lookup", Class: path, Err: err}
	}
	if cls.IsNil() {
		return ports.Class{}, &errors.ResolutionError{Kind: "class", Class: path}
	}
	return cls, nil
}

// ResolveConstructor parses and resolves a constructor descriptor against a
// resolved class.
func ResolveConstructor(ctx context.Context, env ports.Env, cls ports.Class, className, desc string) (ports.Method, descriptor.Method, error) {
	d, err := descriptor.Parse(desc)
	if err != nil {
		return ports.Method{}, descriptor.Method{}, err
	}
	if d.IsField() {
		return ports.Method{}, descriptor.Method{}, errors.NewInvalidDescriptor(desc, "constructor requires a method descriptor")
	}

	m, err := env.GetMethod(ctx, cls, constructorName, desc, false)
	if err != nil {
		return ports.Method{}, descriptor.Method{}, &errors.ForeignError{Op: "member_lookup", Class: className, Member: constructorName, Err: err}
	}
	if m.IsNil() {
		return ports.Method{}, descriptor.Method{}, &errors.ResolutionError{Kind: "constructor", Class: className, Descriptor: desc}
	}
	return m, d, nil
}

// ResolveMethod parses and resolves one declared method into a member
// binding.
func ResolveMethod(ctx context.Context, env ports.Env, cls ports.Class, className string, decl entities.MemberDecl) (entities.MemberBinding, error) {
	d, err := descriptor.Parse(decl.Descriptor)
	if err != nil {
		return entities.MemberBinding{}, err
	}
	if d.IsField() {
		return entities.MemberBinding{}, errors.NewInvalidDescriptor(decl.Descriptor, "method "+decl.Name+" requires a method descriptor")
	}

	m, err := env.GetMethod(ctx, cls, decl.Name, decl.Descriptor, decl.Static)
	if err != nil {
		return entities.MemberBinding{}, &errors.ForeignError{Op: "member_lookup", Class: className, Member: decl.Name, Err: err}
	}
	if m.IsNil() {
		return entities.MemberBinding{}, &errors.ResolutionError{Kind: "method", Class: className, Member: decl.Name, Descriptor: decl.Descriptor}
	}
	return entities.MemberBinding{Name: decl.Name, Descriptor: d, Method: m, Static: decl.Static}, nil
}

// ResolveField parses and resolves one declared field into a member binding.
func ResolveField(ctx context.Context, env ports.Env, cls ports.Class, className string, decl entities.MemberDecl) (entities.MemberBinding, error) {
	d, err := descriptor.Parse(decl.Descriptor)
	if err != nil {
		return entities.MemberBinding{}, err
	}
	if !d.IsField() {
		return entities.MemberBinding{}, errors.NewInvalidDescriptor(decl.Descriptor, "field "+decl.Name+" requires a field descriptor")
	}

	f, err := env.GetField(ctx, cls, decl.Name, decl.Descriptor, decl.Static)
	if err != nil {
		return entities.MemberBinding{}, &errors.ForeignError{Op: "member_lookup", Class: className, Member: decl.Name, Err: err}
	}
	if f.IsNil() {
		return entities.MemberBinding{}, &errors.ResolutionError{Kind: "field", Class: className, Member: decl.Name, Descriptor: decl.Descriptor}
	}
	return entities.MemberBinding{Name: decl.Name, Descriptor: d, Field: f, Static: decl.Static}, nil
}
