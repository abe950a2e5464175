package anvil

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors. These are wrapped in typed errors where the failure has
// useful context; bare comparisons with errors.Is work either way.
var (
	// Resolution errors.
	ErrComponentNotFound = errors.New("component not found")
	ErrTypeNil           = errors.New("component type cannot be nil")

	// Lifecycle errors.
	ErrRegistryDisposed = errors.New("registry has been disposed")
	ErrParentNil        = errors.New("parent registry cannot be nil")

	// Descriptor errors.
	ErrConstructorNil     = errors.New("constructor cannot be nil")
	ErrComponentTypeNil   = errors.New("component descriptor cannot be nil")
	ErrNotAFunction       = errors.New("constructor must be a function")
	ErrBadConstructorForm = errors.New("constructor must return (T) or (T, error)")
)

var (
	_ error = ImmutableBindingError{}
	_ error = NoConstructorError{}
	_ error = TypeMismatchError{}
	_ error = ResolutionError{}
	_ error = InvalidConstructorError{}
)

// ImmutableBindingError indicates an attempt to add or remove a binding for a
// core abstraction that was frozen when the registry was built. The binding
// table is never mutated when this error is returned.
type ImmutableBindingError struct {
	Abstraction reflect.Type
}

func (e ImmutableBindingError) Error() string {
	return fmt.Sprintf("binding for %s is part of the registry core and cannot be modified", formatType(e.Abstraction))
}

// NoConstructorError indicates a component descriptor declares no
// constructors, so the implementation cannot be built.
type NoConstructorError struct {
	Implementation reflect.Type
}

func (e NoConstructorError) Error() string {
	return fmt.Sprintf("no constructor available for %s", formatType(e.Implementation))
}

// TypeMismatchError indicates an implementation type does not satisfy the
// abstraction it is being bound to.
type TypeMismatchError struct {
	Abstraction    reflect.Type
	Implementation reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s does not satisfy %s", formatType(e.Implementation), formatType(e.Abstraction))
}

// ResolutionError indicates a component could not be resolved anywhere along
// the registry chain. It is minted at the end of the chain; registries in
// between forward it unchanged.
type ResolutionError struct {
	Component reflect.Type
	Cause     error
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %s: %v", formatType(e.Component), e.Cause)
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// InvalidConstructorError indicates a function passed as a constructor does
// not have a usable signature.
type InvalidConstructorError struct {
	Func  reflect.Type // nil when the value was not a function
	Cause error
}

func (e InvalidConstructorError) Error() string {
	if e.Func == nil {
		return fmt.Sprintf("invalid constructor: %v", e.Cause)
	}
	return fmt.Sprintf("invalid constructor %s: %v", e.Func.String(), e.Cause)
}

func (e InvalidConstructorError) Unwrap() error {
	return e.Cause
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + formatType(t.Elem())
	case reflect.Slice:
		return "[]" + formatType(t.Elem())
	case reflect.Map:
		return "map[" + formatType(t.Key()) + "]" + formatType(t.Elem())
	case reflect.Interface:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}

// formatTypes joins formatted type names for log fields and errors.
func formatTypes(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = formatType(t)
	}
	return strings.Join(names, ", ")
}
