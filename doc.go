// Package anvil implements the internal component registry of the anvil
// dependency-injection runtime. A kernel owns a Registry and uses it to bind
// its own framework services (selection strategies, scorers, caches, and the
// like) to implementations, construct them on demand, and share them across
// nested kernel scopes.
//
// This package manages framework-internal services only. Application types
// are bound and resolved through the kernel's public binding API, which sits
// on top of this registry but is not part of it.
//
// # Bindings
//
// An abstraction may have any number of implementations; insertion order is
// preserved and the earliest binding wins for Get. Implementations are
// described by constructor descriptors rather than runtime type inspection:
//
//	planner, err := anvil.Implement[*StandardScorer](NewStandardScorer)
//	if err != nil {
//	    return err
//	}
//	if err := anvil.Add[ConstructorScorer](registry, planner); err != nil {
//	    return err
//	}
//
// When a descriptor declares several constructors the registry invokes the
// one with the most parameters, resolving each parameter recursively through
// itself. A []T parameter receives every implementation of T along the
// registry chain.
//
// # Lifecycles
//
// Bindings added with Add cache one instance per implementation type; two
// abstractions bound to the same implementation share that instance.
// AddTransient bindings construct a fresh instance on every resolution and
// are never cached.
//
// # Scope chaining
//
// A registry created with Child falls back to its parent whenever a local
// lookup misses, and GetAll lists local implementations before the parent's.
// A child can add or override bindings freely without affecting its parent:
//
//	child, err := registry.Child()
//	if err != nil {
//	    return err
//	}
//	defer child.Close()
//
// # Core bindings
//
// The bootstrap components seeded at construction form a frozen core: any
// attempt to add, remove, or replace a binding for a core abstraction fails
// with ImmutableBindingError, so a child scope cannot silently break the
// framework underneath itself.
//
// # Disposal
//
// Close disposes every cached singleton in reverse creation order and is
// idempotent. Components receive the owning kernel's settings right after
// construction and are expected to satisfy the Component contract; embed
// ComponentBase for the common case.
//
// Resolution is synchronous and safe for concurrent use. Constructing a
// cached component holds that implementation type's lock while its
// dependencies resolve, so a dependency cycle among cached bindings
// deadlocks; bindings must be arranged acyclically.
package anvil
