// Package memruntime is an in-memory foreign object runtime implementing
// ports.Env. Classes are registered with Go-function method bodies; objects,
// strings, and arrays live on the Go heap. It backs the engine's test suite
// and serves as an embeddable stub runtime.
package memruntime

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/ports"
)

// Func is a method or constructor body. recv is nil for static methods; for
// constructors it is the object under construction.
type Func func(ctx context.Context, recv *Object, args []ports.Value) (ports.Value, error)

type memberKey struct {
	name   string
	desc   string
	static bool
}

type methodSpec struct {
	key memberKey
	fn  Func
}

type fieldSpec struct {
	key memberKey
}

// Class is a registered in-memory class: a name, member tables, and static
// field storage.
type Class struct {
	Name    string
	methods map[memberKey]*methodSpec
	fields  map[memberKey]*fieldSpec
	statics map[string]ports.Value
}

// NewClass creates an empty class definition.
func NewClass(name string) *Class {
	return &Class{
		Name:    name,
		methods: make(map[memberKey]*methodSpec),
		fields:  make(map[memberKey]*fieldSpec),
		statics: make(map[string]ports.Value),
	}
}

// Constructor registers a constructor body under the given descriptor. A nil
// body yields a plain field-initialized object.
func (c *Class) Constructor(desc string, fn Func) *Class {
	key := memberKey{name: "<init>", desc: desc}
	c.methods[key] = &methodSpec{key: key, fn: fn}
	return c
}

// Method registers an instance method.
func (c *Class) Method(name, desc string, fn Func) *Class {
	key := memberKey{name: name, desc: desc}
	c.methods[key] = &methodSpec{key: key, fn: fn}
	return c
}

// Static registers a static method.
func (c *Class) Static(name, desc string, fn Func) *Class {
	key := memberKey{name: name, desc: desc, static: true}
	c.methods[key] = &methodSpec{key: key, fn: fn}
	return c
}

// Field registers an instance field.
func (c *Class) Field(name, desc string) *Class {
	key := memberKey{name: name, desc: desc}
	c.fields[key] = &fieldSpec{key: key}
	return c
}

// StaticField registers a static field with an initial value.
func (c *Class) StaticField(name, desc string, init ports.Value) *Class {
	key := memberKey{name: name, desc: desc, static: true}
	c.fields[key] = &fieldSpec{key: key}
	c.statics[name] = init
	return c
}

// Object is an in-memory instance: its class plus named field storage.
type Object struct {
	Class  *Class
	Fields map[string]ports.Value
}

type stringObj struct {
	data []byte
}

type arrayObj struct {
	elemKind  descriptor.Kind // zero for object arrays
	elemClass *Class          // set for object arrays
	vals      []ports.Value
}

// Stats counts scratch-buffer traffic so tests can verify the engine's
// release discipline.
type Stats struct {
	StringReads    int64
	StringReleases int64
	ArrayFetches   int64
	ArrayReleases  int64
}

// Runtime implements ports.Env over registered in-memory classes.
type Runtime struct {
	classes    map[string]*Class
	arrayViews bool

	stringReads    atomic.Int64
	stringReleases atomic.Int64
	arrayFetches   atomic.Int64
	arrayReleases  atomic.Int64
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithArrayViews makes bulk array fetches hand out direct views instead of
// copies, exercising the caller's release-only-if-copied rule.
func WithArrayViews() Option {
	return func(r *Runtime) {
		r.arrayViews = true
	}
}

// New creates an empty runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{classes: make(map[string]*Class)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a class. Registering the same name twice is an error.
func (r *Runtime) Register(c *Class) error {
	if _, exists := r.classes[c.Name]; exists {
		return fmt.Errorf("class %q already registered", c.Name)
	}
	r.classes[c.Name] = c
	return nil
}

// MustRegister is Register for test setup; it panics on a duplicate.
func (r *Runtime) MustRegister(c *Class) *Runtime {
	if err := r.Register(c); err != nil {
		panic(err)
	}
	return r
}

// Stats returns a snapshot of scratch-buffer counters.
func (r *Runtime) Stats() Stats {
	return Stats{
		StringReads:    r.stringReads.Load(),
		StringReleases: r.stringReleases.Load(),
		ArrayFetches:   r.arrayFetches.Load(),
		ArrayReleases:  r.arrayReleases.Load(),
	}
}

// StringValue builds a foreign string slot for use inside method bodies.
func (r *Runtime) StringValue(s string) ports.Value {
	return ports.RefValue(ports.NewObject(&stringObj{data: []byte(s)}))
}
