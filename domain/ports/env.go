package ports

import (
	"context"

	"github.com/madeye/jbind/domain/descriptor"
)

// Env is the foreign runtime's invocation interface, supplied already
// attached for the calling thread by an external collaborator. All calls are
// synchronous and blocking; an Env must not be migrated across goroutines,
// and the engine performs no locking of its own on top of it.
//
// Lookup methods return the zero handle plus a nil error when the runtime
// reports "not found"; the engine translates that into a resolution failure.
// A non-nil error from any method means the foreign runtime itself raised.
type Env interface {
	// FindClass resolves a class by its fully qualified slashed path.
	FindClass(ctx context.Context, name string) (Class, error)

	// GetMethod resolves a method (or constructor, under the runtime's
	// constructor name) by exact name and descriptor string.
	GetMethod(ctx context.Context, cls Class, name, desc string, static bool) (Method, error)

	// GetField resolves a field by exact name and field descriptor.
	GetField(ctx context.Context, cls Class, name, desc string, static bool) (Field, error)

	// NewObject invokes a constructor and returns the new instance.
	NewObject(ctx context.Context, cls Class, ctor Method, args []Value) (Object, error)

	// CallStatic and CallInstance invoke a resolved method. ret tells the
	// runtime which call variant to issue; for void returns the result
	// Value is meaningless.
	CallStatic(ctx context.Context, cls Class, m Method, ret descriptor.Type, args []Value) (Value, error)
	CallInstance(ctx context.Context, obj Object, m Method, ret descriptor.Type, args []Value) (Value, error)

	// Field access, static and instance.
	GetStaticField(ctx context.Context, cls Class, f Field, t descriptor.Type) (Value, error)
	SetStaticField(ctx context.Context, cls Class, f Field, t descriptor.Type, v Value) error
	GetInstanceField(ctx context.Context, obj Object, f Field, t descriptor.Type) (Value, error)
	SetInstanceField(ctx context.Context, obj Object, f Field, t descriptor.Type, v Value) error

	// NewString creates a foreign string from UTF-8 bytes.
	NewString(ctx context.Context, data []byte) (Object, error)

	// StringBytes exposes a foreign string's byte content. copied reports
	// whether the runtime produced a scratch copy; the caller must call
	// ReleaseStringBytes before the string handle goes out of scope.
	StringBytes(ctx context.Context, s Object) (data []byte, copied bool, err error)
	ReleaseStringBytes(ctx context.Context, s Object, data []byte)

	// Array allocation. Object element classes are resolved by the caller
	// before allocation.
	NewPrimitiveArray(ctx context.Context, elem descriptor.Kind, n int) (Object, error)
	NewObjectArray(ctx context.Context, elemClass Class, n int) (Object, error)

	// ArrayLength returns the element count of a foreign array.
	ArrayLength(ctx context.Context, arr Object) (int, error)

	// SetArrayElement stores one element, primitive or reference.
	SetArrayElement(ctx context.Context, arr Object, i int, elem descriptor.Type, v Value) error

	// ArrayElements bulk-fetches a foreign array's backing storage. copied
	// reports whether the runtime produced a copy rather than a direct
	// view; the caller releases the buffer only when copied is true.
	ArrayElements(ctx context.Context, arr Object, elem descriptor.Type) (elems []Value, copied bool, err error)
	ReleaseArrayElements(ctx context.Context, arr Object, elems []Value)
}
