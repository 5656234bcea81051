package entities

import (
	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/ports"
)

// ClassBinding ties one proxy instance to its resolved foreign class and,
// once constructed or adopted, its foreign instance. It is populated during
// the initial resolve/construct phase and read-only for the life of the
// proxy afterward.
type ClassBinding struct {
	Env       ports.Env
	ClassName string
	Class     ports.Class
	Instance  ports.Object // zero until an instance is built or adopted
}

// HasInstance reports whether an instance handle is present.
func (b ClassBinding) HasInstance() bool {
	return !b.Instance.IsNil()
}

// MemberBinding is one resolved method or field. It is bound exactly once,
// at proxy-construction time, and never re-resolved; a binding whose handle
// is the zero value never escapes construction.
type MemberBinding struct {
	Name       string
	Descriptor descriptor.Method
	Method     ports.Method // set for methods and constructors
	Field      ports.Field  // set for fields
	Static     bool
}

// IsField reports whether the binding is a field rather than a method.
func (m MemberBinding) IsField() bool {
	return m.Descriptor.IsField()
}

// Bound is a host value backed by a foreign instance of a known class. Bound
// values are accepted as object arguments when their class path matches the
// descriptor's class token exactly.
type Bound interface {
	ClassName() string
	ForeignRef() ports.Object
}

// ObjectRef wraps a borrowed foreign object handle for values the marshaller
// does not convert to a native host type (non-string objects, raw array
// elements). It carries no type information and is never dereferenced by the
// engine; it can only be re-passed to later calls. The foreign runtime owns
// the underlying object, so an ObjectRef carries no cleanup obligation.
type ObjectRef struct {
	ref ports.Object
}

// NewObjectRef wraps a foreign object handle.
func NewObjectRef(o ports.Object) *ObjectRef {
	return &ObjectRef{ref: o}
}

// ForeignRef returns the wrapped handle.
func (r *ObjectRef) ForeignRef() ports.Object {
	return r.ref
}

// IsNil reports whether the wrapper carries the null reference.
func (r *ObjectRef) IsNil() bool {
	return r == nil || r.ref.IsNil()
}
