package anvil

import "sync"

// The standard components below are seeded into every registry's core tier.
// They are the framework's own bootstrap services: child registries resolve
// their own copies locally and cannot override or remove them.

// ConstructorScorer ranks candidate constructors for a component type. The
// kernel's planning pipeline asks for it when it has to pick between several
// declared constructors.
type ConstructorScorer interface {
	Component

	// Score returns the rank of a constructor; higher wins.
	Score(c *Constructor) int
}

// StandardScorer scores constructors by arity, preferring the one with the
// most resolvable parameters.
type StandardScorer struct {
	ComponentBase
}

func NewStandardScorer() *StandardScorer {
	return &StandardScorer{}
}

func (s *StandardScorer) Score(c *Constructor) int {
	if c == nil {
		return -1
	}
	return c.Arity()
}

// BindingSelector picks the binding to activate among the candidates bound to
// one abstraction.
type BindingSelector interface {
	Component

	// Select returns the binding to activate, or nil when candidates is empty.
	Select(candidates []*Binding) *Binding
}

// FirstMatchSelector picks the earliest-registered candidate. Combined with
// child-before-parent aggregation this makes a child scope's override win.
type FirstMatchSelector struct {
	ComponentBase
}

func NewFirstMatchSelector() *FirstMatchSelector {
	return &FirstMatchSelector{}
}

func (s *FirstMatchSelector) Select(candidates []*Binding) *Binding {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// ActivationCache remembers which instances have already been run through the
// kernel's activation pipeline so strategies are not applied twice.
type ActivationCache interface {
	Component

	// Remember marks an instance as activated.
	Remember(instance any)

	// IsActivated reports whether an instance has been activated.
	IsActivated(instance any) bool

	// Forget drops an instance from the cache.
	Forget(instance any)

	// Clear drops every remembered instance.
	Clear()
}

// StandardActivationCache tracks activated instances by identity under a
// single lock.
type StandardActivationCache struct {
	ComponentBase

	mu        sync.Mutex
	activated map[any]struct{}
}

func NewActivationCache() *StandardActivationCache {
	return &StandardActivationCache{activated: make(map[any]struct{})}
}

func (c *StandardActivationCache) Remember(instance any) {
	if instance == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activated[instance] = struct{}{}
}

func (c *StandardActivationCache) IsActivated(instance any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.activated[instance]
	return ok
}

func (c *StandardActivationCache) Forget(instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.activated, instance)
}

func (c *StandardActivationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activated = make(map[any]struct{})
}

// defaultComponents returns the bootstrap seed for a new registry's core
// tier. Each call builds fresh Binding records so registries never share
// table entries.
func defaultComponents() []*Binding {
	return []*Binding{
		{
			Abstraction: TypeOf[ConstructorScorer](),
			Component:   MustImplement[*StandardScorer](NewStandardScorer),
		},
		{
			Abstraction: TypeOf[BindingSelector](),
			Component:   MustImplement[*FirstMatchSelector](NewFirstMatchSelector),
		},
		{
			Abstraction: TypeOf[ActivationCache](),
			Component:   MustImplement[*StandardActivationCache](NewActivationCache),
		},
	}
}
