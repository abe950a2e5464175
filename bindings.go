package anvil

import (
	"reflect"
	"sync"
)

// Binding associates an abstraction with one implementation descriptor.
// Transient bindings construct a fresh instance on every resolution; all
// others cache a singleton per implementation type.
type Binding struct {
	Abstraction reflect.Type
	Component   *ComponentType
	Transient   bool
}

// bindingTable is an ordered multimap from abstraction type to bindings,
// split in two tiers. The core tier is frozen when the table is built and
// holds the registry's bootstrap bindings; the override tier takes every
// later Add. A type present in the core tier rejects all mutation, so the
// two key sets stay disjoint and lookup order is unambiguous.
type bindingTable struct {
	mu        sync.RWMutex
	core      map[reflect.Type][]*Binding
	overrides map[reflect.Type][]*Binding
}

// newBindingTable freezes seed into the core tier. The inherited types are an
// ancestor's core abstractions: they enter the tier as empty entries, which
// blocks mutation without shadowing the ancestor's bindings during lookup.
func newBindingTable(seed []*Binding, inherited []reflect.Type) *bindingTable {
	t := &bindingTable{
		core:      make(map[reflect.Type][]*Binding, len(seed)+len(inherited)),
		overrides: make(map[reflect.Type][]*Binding),
	}
	for _, b := range seed {
		t.core[b.Abstraction] = append(t.core[b.Abstraction], b)
	}
	for _, abstraction := range inherited {
		if _, ok := t.core[abstraction]; !ok {
			t.core[abstraction] = nil
		}
	}
	return t
}

// coreTypes returns the abstractions frozen in this table, for inheritance by
// child registries.
func (t *bindingTable) coreTypes() []reflect.Type {
	t.mu.RLock()
	defer t.mu.RUnlock()
	types := make([]reflect.Type, 0, len(t.core))
	for abstraction := range t.core {
		types = append(types, abstraction)
	}
	return types
}

// isCore reports whether abstraction belongs to the frozen tier.
func (t *bindingTable) isCore(abstraction reflect.Type) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.core[abstraction]
	return ok
}

// add appends a binding to the override tier in insertion order.
func (t *bindingTable) add(b *Binding) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.core[b.Abstraction]; ok {
		return ImmutableBindingError{Abstraction: b.Abstraction}
	}

	t.overrides[b.Abstraction] = append(t.overrides[b.Abstraction], b)
	return nil
}

// remove deletes the binding pairing abstraction with implType. The removed
// binding is returned so the caller can evict its instance; nil when no such
// pair was bound.
func (t *bindingTable) remove(abstraction, implType reflect.Type) (*Binding, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.core[abstraction]; ok {
		return nil, ImmutableBindingError{Abstraction: abstraction}
	}

	bindings := t.overrides[abstraction]
	for i, b := range bindings {
		if b.Component.Type() == implType {
			t.overrides[abstraction] = append(bindings[:i:i], bindings[i+1:]...)
			if len(t.overrides[abstraction]) == 0 {
				delete(t.overrides, abstraction)
			}
			return b, nil
		}
	}

	return nil, nil
}

// removeAll deletes every binding for abstraction and returns them in their
// insertion order.
func (t *bindingTable) removeAll(abstraction reflect.Type) ([]*Binding, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.core[abstraction]; ok {
		return nil, ImmutableBindingError{Abstraction: abstraction}
	}

	removed := t.overrides[abstraction]
	delete(t.overrides, abstraction)
	return removed, nil
}

// all returns the bindings for abstraction in insertion order. Overrides and
// core never share a key, so at most one tier contributes.
func (t *bindingTable) all(abstraction reflect.Type) []*Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var src []*Binding
	if bs, ok := t.overrides[abstraction]; ok {
		src = bs
	} else {
		src = t.core[abstraction]
	}
	if len(src) == 0 {
		return nil
	}

	out := make([]*Binding, len(src))
	copy(out, src)
	return out
}

// first returns the earliest-inserted binding for abstraction.
func (t *bindingTable) first(abstraction reflect.Type) (*Binding, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if bs, ok := t.overrides[abstraction]; ok && len(bs) > 0 {
		return bs[0], true
	}
	if bs, ok := t.core[abstraction]; ok && len(bs) > 0 {
		return bs[0], true
	}
	return nil, false
}

// clear drops both tiers. Only registry disposal calls this; the immutable
// guard does not outlive the registry.
func (t *bindingTable) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.core = make(map[reflect.Type][]*Binding)
	t.overrides = make(map[reflect.Type][]*Binding)
}
