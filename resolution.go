package anvil

import "reflect"

// Typed wrappers over the reflect.Type surface of Registry. They exist for
// call sites that know the abstraction statically; the kernel's own plumbing
// uses the type-valued methods directly.

// Add binds abstraction A to the implementation described by component.
func Add[A any](r *Registry, component *ComponentType) error {
	return r.Add(TypeOf[A](), component)
}

// AddTransient binds abstraction A to component with transient lifecycle.
func AddTransient[A any](r *Registry, component *ComponentType) error {
	return r.AddTransient(TypeOf[A](), component)
}

// Remove deletes the binding pairing abstraction A with implementation I.
func Remove[A, I any](r *Registry) error {
	return r.Remove(TypeOf[A](), TypeOf[I]())
}

// RemoveAll deletes every binding for abstraction A.
func RemoveAll[A any](r *Registry) error {
	return r.RemoveAll(TypeOf[A]())
}

// Get resolves a single instance of abstraction A.
func Get[A any](r *Registry) (A, error) {
	var zero A

	instance, err := r.Get(TypeOf[A]())
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(A)
	if !ok {
		return zero, TypeMismatchError{
			Abstraction:    TypeOf[A](),
			Implementation: reflect.TypeOf(instance),
		}
	}
	return typed, nil
}

// GetAll resolves every implementation of abstraction A along the registry
// chain, child bindings first.
func GetAll[A any](r *Registry) ([]A, error) {
	instances, err := r.GetAll(TypeOf[A]())
	if err != nil {
		return nil, err
	}

	typed := make([]A, 0, len(instances))
	for _, instance := range instances {
		v, ok := instance.(A)
		if !ok {
			return nil, TypeMismatchError{
				Abstraction:    TypeOf[A](),
				Implementation: reflect.TypeOf(instance),
			}
		}
		typed = append(typed, v)
	}
	return typed, nil
}
