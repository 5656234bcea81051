package memruntime

import (
	"context"
	"fmt"

	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/ports"
)

// ports.Env implementation. Lookup misses return the zero handle with a nil
// error; non-nil errors stand for failures raised by the runtime itself.
var _ ports.Env = (*Runtime)(nil)

// FindClass implements ports.Env.
func (r *Runtime) FindClass(_ context.Context, name string) (ports.Class, error) {
	c, ok := r.classes[name]
	if !ok {
		return ports.Class{}, nil
	}
	return ports.NewClass(c), nil
}

// GetMethod implements ports.Env.
func (r *Runtime) GetMethod(_ context.Context, cls ports.Class, name, desc string, static bool) (ports.Method, error) {
	c, err := r.class(cls)
	if err != nil {
		return ports.Method{}, err
	}
	m, ok := c.methods[memberKey{name: name, desc: desc, static: static}]
	if !ok {
		return ports.Method{}, nil
	}
	return ports.NewMethod(m), nil
}

// GetField implements ports.Env.
func (r *Runtime) GetField(_ context.Context, cls ports.Class, name, desc string, static bool) (ports.Field, error) {
	c, err := r.class(cls)
	if err != nil {
		return ports.Field{}, err
	}
	f, ok := c.fields[memberKey{name: name, desc: desc, static: static}]
	if !ok {
		return ports.Field{}, nil
	}
	return ports.NewField(f), nil
}

// NewObject implements ports.Env.
func (r *Runtime) NewObject(ctx context.Context, cls ports.Class, ctor ports.Method, args []ports.Value) (ports.Object, error) {
	c, err := r.class(cls)
	if err != nil {
		return ports.Object{}, err
	}
	m, err := r.method(ctor)
	if err != nil {
		return ports.Object{}, err
	}

	obj := &Object{Class: c, Fields: make(map[string]ports.Value)}
	if m.fn != nil {
		if _, err := m.fn(ctx, obj, args); err != nil {
			return ports.Object{}, err
		}
	}
	return ports.NewObject(obj), nil
}

// CallStatic implements ports.Env.
func (r *Runtime) CallStatic(ctx context.Context, cls ports.Class, m ports.Method, _ descriptor.Type, args []ports.Value) (ports.Value, error) {
	if _, err := r.class(cls); err != nil {
		return ports.Value{}, err
	}
	spec, err := r.method(m)
	if err != nil {
		return ports.Value{}, err
	}
	if spec.fn == nil {
		return ports.Value{}, nil
	}
	return spec.fn(ctx, nil, args)
}

// CallInstance implements ports.Env.
func (r *Runtime) CallInstance(ctx context.Context, obj ports.Object, m ports.Method, _ descriptor.Type, args []ports.Value) (ports.Value, error) {
	recv, err := r.object(obj)
	if err != nil {
		return ports.Value{}, err
	}
	spec, err := r.method(m)
	if err != nil {
		return ports.Value{}, err
	}
	if spec.fn == nil {
		return ports.Value{}, nil
	}
	return spec.fn(ctx, recv, args)
}

// GetStaticField implements ports.Env.
func (r *Runtime) GetStaticField(_ context.Context, cls ports.Class, f ports.Field, _ descriptor.Type) (ports.Value, error) {
	c, err := r.class(cls)
	if err != nil {
		return ports.Value{}, err
	}
	spec, err := r.field(f)
	if err != nil {
		return ports.Value{}, err
	}
	return c.statics[spec.key.name], nil
}

// SetStaticField implements ports.Env.
func (r *Runtime) SetStaticField(_ context.Context, cls ports.Class, f ports.Field, _ descriptor.Type, v ports.Value) error {
	c, err := r.class(cls)
	if err != nil {
		return err
	}
	spec, err := r.field(f)
	if err != nil {
		return err
	}
	c.statics[spec.key.name] = v
	return nil
}

// GetInstanceField implements ports.Env.
func (r *Runtime) GetInstanceField(_ context.Context, obj ports.Object, f ports.Field, _ descriptor.Type) (ports.Value, error) {
	recv, err := r.object(obj)
	if err != nil {
		return ports.Value{}, err
	}
	spec, err := r.field(f)
	if err != nil {
		return ports.Value{}, err
	}
	return recv.Fields[spec.key.name], nil
}

// SetInstanceField implements ports.Env.
func (r *Runtime) SetInstanceField(_ context.Context, obj ports.Object, f ports.Field, _ descriptor.Type, v ports.Value) error {
	recv, err := r.object(obj)
	if err != nil {
		return err
	}
	spec, err := r.field(f)
	if err != nil {
		return err
	}
	recv.Fields[spec.key.name] = v
	return nil
}

// NewString implements ports.Env.
func (r *Runtime) NewString(_ context.Context, data []byte) (ports.Object, error) {
	buf := make([]byte, len(data))
	copy(buf, data)
	return ports.NewObject(&stringObj{data: buf}), nil
}

// StringBytes implements ports.Env. The returned buffer is always a scratch
// copy, so copied is always true and every read expects a matching release.
func (r *Runtime) StringBytes(_ context.Context, s ports.Object) ([]byte, bool, error) {
	so, ok := s.Raw().(*stringObj)
	if !ok {
		return nil, false, fmt.Errorf("not a string object: %T", s.Raw())
	}
	r.stringReads.Add(1)
	buf := make([]byte, len(so.data))
	copy(buf, so.data)
	return buf, true, nil
}

// ReleaseStringBytes implements ports.Env.
func (r *Runtime) ReleaseStringBytes(_ context.Context, _ ports.Object, _ []byte) {
	r.stringReleases.Add(1)
}

// NewPrimitiveArray implements ports.Env.
func (r *Runtime) NewPrimitiveArray(_ context.Context, elem descriptor.Kind, n int) (ports.Object, error) {
	if n < 0 {
		return ports.Object{}, fmt.Errorf("negative array length %d", n)
	}
	return ports.NewObject(&arrayObj{elemKind: elem, vals: make([]ports.Value, n)}), nil
}

// NewObjectArray implements ports.Env.
func (r *Runtime) NewObjectArray(_ context.Context, elemClass ports.Class, n int) (ports.Object, error) {
	c, err := r.class(elemClass)
	if err != nil {
		return ports.Object{}, err
	}
	if n < 0 {
		return ports.Object{}, fmt.Errorf("negative array length %d", n)
	}
	return ports.NewObject(&arrayObj{elemClass: c, vals: make([]ports.Value, n)}), nil
}

// ArrayLength implements ports.Env.
func (r *Runtime) ArrayLength(_ context.Context, arr ports.Object) (int, error) {
	a, err := r.array(arr)
	if err != nil {
		return 0, err
	}
	return len(a.vals), nil
}

// SetArrayElement implements ports.Env.
func (r *Runtime) SetArrayElement(_ context.Context, arr ports.Object, i int, _ descriptor.Type, v ports.Value) error {
	a, err := r.array(arr)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(a.vals) {
		return fmt.Errorf("array index %d out of range [0,%d)", i, len(a.vals))
	}
	a.vals[i] = v
	return nil
}

// ArrayElements implements ports.Env. By default the backing storage is
// copied and copied reports true; with WithArrayViews the runtime hands out
// the live slice and expects no release.
func (r *Runtime) ArrayElements(_ context.Context, arr ports.Object, _ descriptor.Type) ([]ports.Value, bool, error) {
	a, err := r.array(arr)
	if err != nil {
		return nil, false, err
	}
	r.arrayFetches.Add(1)
	if r.arrayViews {
		return a.vals, false, nil
	}
	buf := make([]ports.Value, len(a.vals))
	copy(buf, a.vals)
	return buf, true, nil
}

// ReleaseArrayElements implements ports.Env.
func (r *Runtime) ReleaseArrayElements(_ context.Context, _ ports.Object, _ []ports.Value) {
	r.arrayReleases.Add(1)
}

func (r *Runtime) class(cls ports.Class) (*Class, error) {
	c, ok := cls.Raw().(*Class)
	if !ok {
		return nil, fmt.Errorf("not a memruntime class handle: %T", cls.Raw())
	}
	return c, nil
}

func (r *Runtime) object(obj ports.Object) (*Object, error) {
	o, ok := obj.Raw().(*Object)
	if !ok {
		return nil, fmt.Errorf("not a memruntime object handle: %T", obj.Raw())
	}
	return o, nil
}

func (r *Runtime) method(m ports.Method) (*methodSpec, error) {
	spec, ok := m.Raw().(*methodSpec)
	if !ok {
		return nil, fmt.Errorf("not a memruntime method handle: %T", m.Raw())
	}
	return spec, nil
}

func (r *Runtime) field(f ports.Field) (*fieldSpec, error) {
	spec, ok := f.Raw().(*fieldSpec)
	if !ok {
		return nil, fmt.Errorf("not a memruntime field handle: %T", f.Raw())
	}
	return spec, nil
}

func (r *Runtime) array(arr ports.Object) (*arrayObj, error) {
	a, ok := arr.Raw().(*arrayObj)
	if !ok {
		return nil, fmt.Errorf("not a memruntime array handle: %T", arr.Raw())
	}
	return a, nil
}
