package bind

import (
	"context"

	"github.com/madeye/jbind/domain/entities"
	"github.com/madeye/jbind/domain/errors"
	"github.com/madeye/jbind/domain/ports"
	"github.com/madeye/jbind/invoke"
)

// Proxy is one bound host-side view of a foreign class. Its class and member
// bindings are immutable once Ready; a marshalling failure during a single
// invocation aborts only that invocation and leaves the proxy reusable.
type Proxy struct {
	cb      entities.ClassBinding
	members map[string]entities.MemberBinding
	decl    entities.Declaration
	state   State
}

// ClassName returns the declared foreign class path.
// Together with ForeignRef it implements entities.Bound, so a proxy can be
// passed as an object argument wherever its class is declared.
func (p *Proxy) ClassName() string {
	return p.cb.ClassName
}

// ForeignRef returns the proxy's foreign instance handle (the zero handle
// for a static-only proxy).
func (p *Proxy) ForeignRef() ports.Object {
	return p.cb.Instance
}

// State returns the proxy's lifecycle state.
func (p *Proxy) State() State {
	return p.state
}

// HasInstance reports whether a foreign instance is bound.
func (p *Proxy) HasInstance() bool {
	return p.cb.HasInstance()
}

// Construct builds the foreign instance on a proxy created by BindStatic.
// It may be called at most once; the instance handle is immutable afterward.
// The proxy was already Ready and stays Ready; a failed build aborts only
// this call.
func (p *Proxy) Construct(ctx context.Context, args ...any) error {
	if p.cb.HasInstance() {
		return &errors.ConfigError{Field: "constructor", Reason: "instance already built"}
	}
	if err := p.construct(ctx, args); err != nil {
		return err
	}
	p.state = Ready
	return nil
}

// Call invokes a declared method by name.
func (p *Proxy) Call(ctx context.Context, name string, args ...any) (any, error) {
	mb, err := p.member(name)
	if err != nil {
		return nil, err
	}
	return invoke.Call(ctx, p.cb, mb, args)
}

// Get reads a declared field by name.
func (p *Proxy) Get(ctx context.Context, name string) (any, error) {
	mb, err := p.member(name)
	if err != nil {
		return nil, err
	}
	return invoke.Get(ctx, p.cb, mb)
}

// Set writes a declared field by name.
func (p *Proxy) Set(ctx context.Context, name string, v any) error {
	mb, err := p.member(name)
	if err != nil {
		return err
	}
	return invoke.Set(ctx, p.cb, mb, v)
}

func (p *Proxy) member(name string) (entities.MemberBinding, error) {
	mb, ok := p.members[name]
	if !ok {
		return entities.MemberBinding{}, &errors.ConfigError{Field: name, Reason: "member not declared"}
	}
	return mb, nil
}
