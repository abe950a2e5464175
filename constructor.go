package anvil

import (
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor describes one way to build a component: a function whose
// parameters are resolved through the registry and whose first return value
// is the instance. An optional trailing error return is supported.
type Constructor struct {
	fn       reflect.Value
	fnType   reflect.Type
	params   []reflect.Type
	produces reflect.Type
	hasError bool
}

// newConstructor analyzes fn and extracts its descriptor. Accepted shapes are
// func(deps...) T and func(deps...) (T, error).
func newConstructor(fn any) (*Constructor, error) {
	if fn == nil {
		return nil, InvalidConstructorError{Cause: ErrConstructorNil}
	}

	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()
	if fnType.Kind() != reflect.Func {
		return nil, InvalidConstructorError{Func: fnType, Cause: ErrNotAFunction}
	}

	numOut := fnType.NumOut()
	if numOut == 0 || numOut > 2 {
		return nil, InvalidConstructorError{Func: fnType, Cause: ErrBadConstructorForm}
	}

	hasError := false
	if numOut == 2 {
		if fnType.Out(1) != errorType {
			return nil, InvalidConstructorError{Func: fnType, Cause: ErrBadConstructorForm}
		}
		hasError = true
	}

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	return &Constructor{
		fn:       fnValue,
		fnType:   fnType,
		params:   params,
		produces: fnType.Out(0),
		hasError: hasError,
	}, nil
}

// Arity returns the number of parameters the constructor takes.
func (c *Constructor) Arity() int {
	return len(c.params)
}

// Params returns the constructor's parameter types in declaration order.
func (c *Constructor) Params() []reflect.Type {
	out := make([]reflect.Type, len(c.params))
	copy(out, c.params)
	return out
}

// Produces returns the type the constructor builds.
func (c *Constructor) Produces() reflect.Type {
	return c.produces
}

// String returns the constructor's signature for logs and errors.
func (c *Constructor) String() string {
	return c.fnType.String()
}

// ComponentType is the descriptor for a concrete implementation: its type and
// the constructors able to produce it, in declaration order. The registry
// never inspects the implementation itself; everything it needs to build an
// instance is declared here.
type ComponentType struct {
	implType reflect.Type
	ctors    []*Constructor
}

// NewComponentType builds a descriptor for implType from the given
// constructor functions. Every constructor must produce a value assignable to
// implType. A descriptor with no constructors is valid to register but fails
// resolution with NoConstructorError.
func NewComponentType(implType reflect.Type, ctors ...any) (*ComponentType, error) {
	if implType == nil {
		return nil, ErrTypeNil
	}

	ct := &ComponentType{implType: implType}
	for _, fn := range ctors {
		c, err := newConstructor(fn)
		if err != nil {
			return nil, err
		}

		if !c.produces.AssignableTo(implType) {
			return nil, TypeMismatchError{Abstraction: implType, Implementation: c.produces}
		}

		ct.ctors = append(ct.ctors, c)
	}

	return ct, nil
}

// Implement builds a descriptor for the implementation type I.
//
//	scorer, err := anvil.Implement[*StandardScorer](NewStandardScorer)
func Implement[I any](ctors ...any) (*ComponentType, error) {
	return NewComponentType(TypeOf[I](), ctors...)
}

// MustImplement is Implement but panics on error. Intended for bootstrap
// tables built from known-good constructors.
func MustImplement[I any](ctors ...any) *ComponentType {
	ct, err := Implement[I](ctors...)
	if err != nil {
		panic(err)
	}
	return ct
}

// Type returns the concrete implementation type.
func (ct *ComponentType) Type() reflect.Type {
	return ct.implType
}

// Constructors returns the declared constructors in declaration order.
func (ct *ComponentType) Constructors() []*Constructor {
	out := make([]*Constructor, len(ct.ctors))
	copy(out, ct.ctors)
	return out
}

// preferred picks the constructor with the greatest arity. Ties go to the
// earliest declared. Returns nil when no constructors are declared.
func (ct *ComponentType) preferred() *Constructor {
	var best *Constructor
	for _, c := range ct.ctors {
		if best == nil || c.Arity() > best.Arity() {
			best = c
		}
	}
	return best
}

// TypeOf returns the reflect.Type for a type parameter. Interfaces yield the
// interface type itself, not the type of a nil value.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
