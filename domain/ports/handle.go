// Package ports defines the boundary between the binding engine and the
// foreign object runtime. Env is the invocation interface; the handle types
// are opaque references into the runtime's object space.
package ports

// handle is an opaque borrowed reference owned by the foreign runtime. A
// handle is thread-affine: it is only valid on the thread whose environment
// attachment produced it, and only for the lifetime of that attachment. The
// engine never dereferences a handle; it only passes it back to the runtime.
type handle struct {
	ref any
}

// Raw returns the runtime-private reference. Only Env implementations may
// interpret it.
func (h handle) Raw() any {
	return h.ref
}

// IsNil reports whether the handle is the null reference.
func (h handle) IsNil() bool {
	return h.ref == nil
}

// Class is a resolved foreign class reference.
type Class struct{ handle }

// NewClass wraps a runtime-private class reference. For Env implementations.
func NewClass(ref any) Class {
	return Class{handle{ref: ref}}
}

// Object is a foreign object instance reference (including strings and
// arrays, which the runtime represents as objects).
type Object struct{ handle }

// NewObject wraps a runtime-private object reference. For Env implementations.
func NewObject(ref any) Object {
	return Object{handle{ref: ref}}
}

// Method is a resolved constructor or method identifier. Method identifiers
// are fetched per class, never per instance.
type Method struct{ handle }

// NewMethod wraps a runtime-private method identifier. For Env implementations.
func NewMethod(ref any) Method {
	return Method{handle{ref: ref}}
}

// Field is a resolved field identifier.
type Field struct{ handle }

// NewField wraps a runtime-private field identifier. For Env implementations.
func NewField(ref any) Field {
	return Field{handle{ref: ref}}
}
