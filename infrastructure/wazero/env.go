package wazero

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero/api"

	"github.com/madeye/jbind/domain/descriptor"
	"github.com/madeye/jbind/domain/ports"
)

var _ ports.Env = (*Adapter)(nil)

var errNoInstances = fmt.Errorf("wasm classes have no instances; bind them statically")

// FindClass implements ports.Env: a class is a loaded wasm module.
func (a *Adapter) FindClass(_ context.Context, name string) (ports.Class, error) {
	mod, ok := a.modules[name]
	if !ok {
		return ports.Class{}, nil
	}
	return ports.NewClass(&moduleClass{name: name, mod: mod}), nil
}

// GetMethod implements ports.Env: a static method is an exported function
// whose parameter count matches the descriptor's argument count. Instance
// methods and constructors never resolve.
func (a *Adapter) GetMethod(_ context.Context, cls ports.Class, name, desc string, static bool) (ports.Method, error) {
	mc, err := a.moduleClass(cls)
	if err != nil {
		return ports.Method{}, err
	}
	if !static {
		return ports.Method{}, nil
	}

	d, err := descriptor.Parse(desc)
	if err != nil || d.IsField() {
		return ports.Method{}, nil
	}

	fn := mc.mod.ExportedFunction(name)
	if fn == nil {
		return ports.Method{}, nil
	}
	if got := len(fn.Definition().ParamTypes()); got != len(d.Args) {
		slog.Debug("export arity does not match descriptor",
			"module", mc.name, "function", name, "params", got, "descriptor", desc)
		return ports.Method{}, nil
	}
	return ports.NewMethod(&wasmMethod{name: name, fn: fn}), nil
}

// GetField implements ports.Env: a static field is an exported global.
func (a *Adapter) GetField(_ context.Context, cls ports.Class, name, _ string, static bool) (ports.Field, error) {
	mc, err := a.moduleClass(cls)
	if err != nil {
		return ports.Field{}, err
	}
	if !static {
		return ports.Field{}, nil
	}
	g := mc.mod.ExportedGlobal(name)
	if g == nil {
		return ports.Field{}, nil
	}
	return ports.NewField(&wasmField{name: name, global: g}), nil
}

// NewObject implements ports.Env. Wasm modules expose no constructors.
func (a *Adapter) NewObject(context.Context, ports.Class, ports.Method, []ports.Value) (ports.Object, error) {
	return ports.Object{}, errNoInstances
}

// CallStatic implements ports.Env.
func (a *Adapter) CallStatic(ctx context.Context, cls ports.Class, m ports.Method, ret descriptor.Type, args []ports.Value) (ports.Value, error) {
	mc, err := a.moduleClass(cls)
	if err != nil {
		return ports.Value{}, err
	}
	wm, ok := m.Raw().(*wasmMethod)
	if !ok {
		return ports.Value{}, fmt.Errorf("not a wasm method handle: %T", m.Raw())
	}

	params := make([]uint64, len(args))
	for i, v := range args {
		w, err := callWord(v)
		if err != nil {
			return ports.Value{}, err
		}
		params[i] = w
	}

	results, err := wm.fn.Call(ctx, params...)
	if err != nil {
		return ports.Value{}, err
	}

	if ret.Kind == descriptor.Void && !ret.Array {
		return ports.Value{}, nil
	}
	if len(results) == 0 {
		return ports.Value{}, fmt.Errorf("export %q returned no results", wm.name)
	}
	return a.resultValue(mc.mod, ret, results[0]), nil
}

// CallInstance implements ports.Env.
func (a *Adapter) CallInstance(context.Context, ports.Object, ports.Method, descriptor.Type, []ports.Value) (ports.Value, error) {
	return ports.Value{}, errNoInstances
}

// GetStaticField implements ports.Env.
func (a *Adapter) GetStaticField(_ context.Context, cls ports.Class, f ports.Field, t descriptor.Type) (ports.Value, error) {
	mc, err := a.moduleClass(cls)
	if err != nil {
		return ports.Value{}, err
	}
	wf, ok := f.Raw().(*wasmField)
	if !ok {
		return ports.Value{}, fmt.Errorf("not a wasm field handle: %T", f.Raw())
	}
	return a.resultValue(mc.mod, t, wf.global.Get()), nil
}

// SetStaticField implements ports.Env. Only mutable globals are writable.
func (a *Adapter) SetStaticField(_ context.Context, _ ports.Class, f ports.Field, _ descriptor.Type, v ports.Value) error {
	wf, ok := f.Raw().(*wasmField)
	if !ok {
		return fmt.Errorf("not a wasm field handle: %T", f.Raw())
	}
	mg, ok := wf.global.(api.MutableGlobal)
	if !ok {
		return fmt.Errorf("global %q is immutable", wf.name)
	}
	w, err := callWord(v)
	if err != nil {
		return err
	}
	mg.Set(w)
	return nil
}

// GetInstanceField implements ports.Env.
func (a *Adapter) GetInstanceField(context.Context, ports.Object, ports.Field, descriptor.Type) (ports.Value, error) {
	return ports.Value{}, errNoInstances
}

// SetInstanceField implements ports.Env.
func (a *Adapter) SetInstanceField(context.Context, ports.Object, ports.Field, descriptor.Type, ports.Value) error {
	return errNoInstances
}

// NewString implements ports.Env: the bytes are copied into guest memory of
// the allocator module.
func (a *Adapter) NewString(ctx context.Context, data []byte) (ports.Object, error) {
	mod, err := a.allocator()
	if err != nil {
		return ports.Object{}, err
	}
	ptr, err := allocGuest(ctx, mod, uint32(len(data)))
	if err != nil {
		return ports.Object{}, err
	}
	if len(data) > 0 && !mod.Memory().Write(ptr, data) {
		return ports.Object{}, fmt.Errorf("failed to write string to guest memory")
	}
	return ports.NewObject(&guestRef{mod: mod, ptr: ptr, size: uint32(len(data))}), nil
}

// StringBytes implements ports.Env. The read is always a host-side copy.
func (a *Adapter) StringBytes(_ context.Context, s ports.Object) ([]byte, bool, error) {
	g, err := a.guestRef(s)
	if err != nil {
		return nil, false, err
	}
	if g.size == 0 {
		return nil, true, nil
	}
	data, ok := g.mod.Memory().Read(g.ptr, g.size)
	if !ok {
		return nil, false, fmt.Errorf("failed to read string from guest memory")
	}
	buf := make([]byte, g.size)
	copy(buf, data)
	return buf, true, nil
}

// ReleaseStringBytes implements ports.Env: the guest-side region is returned
// to the guest allocator.
func (a *Adapter) ReleaseStringBytes(ctx context.Context, s ports.Object, _ []byte) {
	if g, err := a.guestRef(s); err == nil {
		freeGuest(ctx, g.mod, g.ptr, g.size)
	}
}

// NewPrimitiveArray implements ports.Env.
func (a *Adapter) NewPrimitiveArray(ctx context.Context, elem descriptor.Kind, n int) (ports.Object, error) {
	return a.newArray(ctx, descriptor.Type{Kind: elem}, n)
}

// NewObjectArray implements ports.Env: object elements are stored as packed
// ptr/len words.
func (a *Adapter) NewObjectArray(ctx context.Context, _ ports.Class, n int) (ports.Object, error) {
	return a.newArray(ctx, descriptor.Type{Kind: descriptor.Object}, n)
}

func (a *Adapter) newArray(ctx context.Context, elem descriptor.Type, n int) (ports.Object, error) {
	if n < 0 {
		return ports.Object{}, fmt.Errorf("negative array length %d", n)
	}
	mod, err := a.allocator()
	if err != nil {
		return ports.Object{}, err
	}
	width := elemWidth(elem)
	ptr := uint32(0)
	if n > 0 {
		ptr, err = allocGuest(ctx, mod, uint32(n)*width)
		if err != nil {
			return ports.Object{}, err
		}
	}
	return ports.NewObject(&guestRef{mod: mod, ptr: ptr, size: uint32(n) * width, elemWidth: width}), nil
}

// ArrayLength implements ports.Env.
func (a *Adapter) ArrayLength(_ context.Context, arr ports.Object) (int, error) {
	g, err := a.guestRef(arr)
	if err != nil {
		return 0, err
	}
	if g.elemWidth == 0 {
		return 0, fmt.Errorf("not an array reference")
	}
	return int(g.size / g.elemWidth), nil
}

// SetArrayElement implements ports.Env.
func (a *Adapter) SetArrayElement(_ context.Context, arr ports.Object, i int, _ descriptor.Type, v ports.Value) error {
	g, err := a.guestRef(arr)
	if err != nil {
		return err
	}
	if g.elemWidth == 0 || i < 0 || uint32(i) >= g.size/g.elemWidth {
		return fmt.Errorf("array index %d out of range", i)
	}
	w, err := callWord(v)
	if err != nil {
		return err
	}
	if !writeElem(g.mod.Memory(), g.ptr+uint32(i)*g.elemWidth, g.elemWidth, w) {
		return fmt.Errorf("failed to write array element to guest memory")
	}
	return nil
}

// ArrayElements implements ports.Env: the backing storage is decoded into a
// host-side copy, so copied always reports true.
func (a *Adapter) ArrayElements(_ context.Context, arr ports.Object, elem descriptor.Type) ([]ports.Value, bool, error) {
	g, err := a.guestRef(arr)
	if err != nil {
		return nil, false, err
	}
	if g.elemWidth == 0 {
		return nil, false, fmt.Errorf("not an array reference")
	}
	n := g.size / g.elemWidth
	out := make([]ports.Value, n)
	for i := uint32(0); i < n; i++ {
		bits, ok := readElem(g.mod.Memory(), g.ptr+i*g.elemWidth, g.elemWidth)
		if !ok {
			return nil, false, fmt.Errorf("failed to read array element from guest memory")
		}
		out[i] = a.resultValue(g.mod, elem, bits)
	}
	return out, true, nil
}

// ReleaseArrayElements implements ports.Env. The fetch produced a host copy;
// there is nothing guest-side to return until the array itself is freed.
func (a *Adapter) ReleaseArrayElements(context.Context, ports.Object, []ports.Value) {}

// callWord flattens a slot to the wasm call word: reference slots become
// packed ptr/len words, primitive slots pass their bits through. A reference
// minted by a different environment is an error, never a silent null.
func callWord(v ports.Value) (uint64, error) {
	if !v.Ref.IsNil() {
		g, ok := v.Ref.Raw().(*guestRef)
		if !ok {
			return 0, fmt.Errorf("not a guest memory reference: %T", v.Ref.Raw())
		}
		return g.packed(), nil
	}
	return v.Bits, nil
}

// resultValue lifts a wasm result word to a slot under the given type token.
func (a *Adapter) resultValue(mod api.Module, t descriptor.Type, word uint64) ports.Value {
	if t.Array || t.Kind == descriptor.Object {
		ptr, size := unpack(word)
		if ptr == 0 && size == 0 {
			return ports.Value{}
		}
		width := uint32(0)
		if t.Array {
			width = elemWidth(descriptor.Type{Kind: t.Kind, Class: t.Class})
		}
		return ports.RefValue(ports.NewObject(&guestRef{mod: mod, ptr: ptr, size: size, elemWidth: width}))
	}
	return ports.Value{Bits: word}
}

func (a *Adapter) moduleClass(cls ports.Class) (*moduleClass, error) {
	mc, ok := cls.Raw().(*moduleClass)
	if !ok {
		return nil, fmt.Errorf("not a wasm class handle: %T", cls.Raw())
	}
	return mc, nil
}

func (a *Adapter) guestRef(o ports.Object) (*guestRef, error) {
	g, ok := o.Raw().(*guestRef)
	if !ok {
		return nil, fmt.Errorf("not a guest memory reference: %T", o.Raw())
	}
	return g, nil
}

// allocator returns the module whose memory backs strings and arrays: the
// designated one, or the only loaded module.
func (a *Adapter) allocator() (api.Module, error) {
	if a.alloc != nil {
		return a.alloc, nil
	}
	if len(a.modules) == 1 {
		for _, mod := range a.modules {
			return mod, nil
		}
	}
	return nil, fmt.Errorf("no allocator module designated; call SetAllocator")
}
