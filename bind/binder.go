// Package bind owns the lifecycle of one host-side proxy instance: it
// resolves the declared class, constructs or adopts the foreign instance,
// then resolves and binds every declared member. Binding is all-or-nothing; a
// partially bound proxy is never observable.
package bind

import (
	"context"
	"log/slog"

	"github.com/madeye/jbind/domain/entities"
	"github.com/madeye/jbind/domain/errors"
	"github.com/madeye/jbind/domain/ports"
	"github.com/madeye/jbind/invoke"
)

const constructorName = invoke.ConstructorName

// State is a proxy's position in the binding lifecycle. Construction moves
// strictly forward; Failed is terminal and reachable from any state. The
// order class → instance → members is a precondition, not an optimization: a
// member handle obtained against a stale or absent class handle is unsafe to
// keep.
type State int

const (
	Unbound State = iota
	ClassResolved
	Constructed
	MembersBound
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case ClassResolved:
		return "class_resolved"
	case Constructed:
		return "constructed"
	case MembersBound:
		return "members_bound"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Bind resolves the declaration, constructs a new foreign instance with the
// given constructor arguments, and binds all declared members.
func Bind(ctx context.Context, env ports.Env, decl entities.Declaration, ctorArgs ...any) (*Proxy, error) {
	p, err := begin(ctx, env, decl)
	if err != nil {
		return nil, err
	}
	if err := p.construct(ctx, ctorArgs); err != nil {
		p.state = Failed
		return nil, err
	}
	if err := p.bindMembers(ctx, decl); err != nil {
		p.state = Failed
		return nil, err
	}
	p.state = Ready
	return p, nil
}

// Adopt binds a declaration around an already-existing foreign instance
// instead of constructing one.
func Adopt(ctx context.Context, env ports.Env, decl entities.Declaration, instance ports.Object) (*Proxy, error) {
	if instance.IsNil() {
		return nil, &errors.InstantiationError{Class: decl.Class}
	}
	p, err := begin(ctx, env, decl)
	if err != nil {
		return nil, err
	}
	p.cb.Instance = instance
	p.state = Constructed
	if err := p.bindMembers(ctx, decl); err != nil {
		p.state = Failed
		return nil, err
	}
	p.state = Ready
	return p, nil
}

// BindStatic binds a declaration without building an instance. Static
// members are immediately callable; instance members become callable after
// Construct.
func BindStatic(ctx context.Context, env ports.Env, decl entities.Declaration) (*Proxy, error) {
	p, err := begin(ctx, env, decl)
	if err != nil {
		return nil, err
	}
	p.state = Constructed // no instance to build; members bind against the class
	if err := p.bindMembers(ctx, decl); err != nil {
		p.state = Failed
		return nil, err
	}
	p.state = Ready
	return p, nil
}

// begin runs the Unbound → ClassResolved transition.
func begin(ctx context.Context, env ports.Env, decl entities.Declaration) (*Proxy, error) {
	if env == nil {
		return nil, &errors.ConfigError{Field: "env", Reason: "no foreign environment supplied"}
	}
	if decl.Class == "" {
		return nil, &errors.ConfigError{Field: "class", Reason: "no foreign class path declared"}
	}

	cls, err := ResolveClass(ctx, env, decl.Class)
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved foreign class", "class", decl.Class)

	return &Proxy{
		cb:      entities.ClassBinding{Env: env, ClassName: decl.Class, Class: cls},
		members: make(map[string]entities.MemberBinding, len(decl.Methods)+len(decl.Fields)),
		decl:    decl,
		state:   ClassResolved,
	}, nil
}

// construct runs the ClassResolved → Constructed transition.
func (p *Proxy) construct(ctx context.Context, args []any) error {
	ctor, d, err := ResolveConstructor(ctx, p.cb.Env, p.cb.Class, p.cb.ClassName, p.decl.ConstructorDescriptor())
	if err != nil {
		return err
	}
	obj, err := invoke.Construct(ctx, p.cb.Env, p.cb.Class, p.cb.ClassName, ctor, d, args)
	if err != nil {
		return err
	}
	p.cb.Instance = obj
	p.state = Constructed
	return nil
}

// bindMembers runs the Constructed → MembersBound transition: every declared
// member is resolved against the now-complete class binding, and any single
// failure aborts the whole construction.
func (p *Proxy) bindMembers(ctx context.Context, decl entities.Declaration) error {
	for _, md := range decl.Methods {
		if _, dup := p.members[md.Name]; dup {
			return &errors.ConfigError{Field: md.Name, Reason: "member declared twice"}
		}
		mb, err := ResolveMethod(ctx, p.cb.Env, p.cb.Class, p.cb.ClassName, md)
		if err != nil {
			return err
		}
		p.members[md.Name] = mb
	}
	for _, fd := range decl.Fields {
		if _, dup := p.members[fd.Name]; dup {
			return &errors.ConfigError{Field: fd.Name, Reason: "member declared twice"}
		}
		mb, err := ResolveField(ctx, p.cb.Env, p.cb.Class, p.cb.ClassName, fd)
		if err != nil {
			return err
		}
		p.members[fd.Name] = mb
	}
	p.state = MembersBound
	slog.Debug("bound declared members", "class", p.cb.ClassName, "members", len(p.members))
	return nil
}
