package anvil

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParentResolver is the read surface a registry requires of its parent.
// Errors returned by a parent propagate to the child's caller unchanged.
type ParentResolver interface {
	Get(abstraction reflect.Type) (any, error)
	GetAll(abstraction reflect.Type) ([]any, error)
}

// terminal ends every registry chain. It holds no bindings: Get reports the
// component as not found and GetAll contributes nothing.
type terminal struct{}

func (terminal) Get(abstraction reflect.Type) (any, error) {
	return nil, ResolutionError{Component: abstraction, Cause: ErrComponentNotFound}
}

func (terminal) GetAll(abstraction reflect.Type) ([]any, error) {
	return nil, nil
}

// Registry is the component container of a kernel. It binds framework
// service abstractions to implementation descriptors, constructs instances on
// demand, caches singletons per implementation type, and falls back to its
// parent for anything it does not bind locally.
//
// Every registry has exactly one parent: another registry, or the terminal
// resolver for a root. Disposal never touches the parent.
type Registry struct {
	id     string
	parent ParentResolver
	table  *bindingTable
	cache  *instanceCache
	logger *zap.Logger

	kernelMu sync.RWMutex
	kernel   Kernel

	disposed atomic.Bool
}

// Registries delegate through the same read surface they expose.
var _ ParentResolver = (*Registry)(nil)

// New creates a root registry. The standard bootstrap components, plus any
// bindings supplied via WithCoreComponent, form the frozen core tier.
func New(opts ...Option) (*Registry, error) {
	return newRegistry(terminal{}, buildOptions(opts), nil)
}

// Child creates a registry that falls back to r for unbound abstractions.
// The child seeds its own core tier the same way a root does and additionally
// inherits r's core abstractions as frozen, so a child scope can neither
// replace its own bootstrap components nor unbind an ancestor's.
func (r *Registry) Child(opts ...Option) (*Registry, error) {
	if r.IsDisposed() {
		return nil, ErrRegistryDisposed
	}
	return newRegistry(r, buildOptions(opts), r.table.coreTypes())
}

func newRegistry(parent ParentResolver, options *registryOptions, inherited []reflect.Type) (*Registry, error) {
	if parent == nil {
		return nil, ErrParentNil
	}

	var seed []*Binding
	if !options.noDefaults {
		seed = defaultComponents()
	}
	seed = append(seed, options.extraCore...)

	for _, b := range seed {
		if err := checkBinding(b.Abstraction, b.Component); err != nil {
			return nil, err
		}
	}

	r := &Registry{
		id:     uuid.NewString(),
		parent: parent,
		table:  newBindingTable(seed, inherited),
		cache:  newInstanceCache(),
		logger: options.logger,
	}

	r.logger.Debug("registry created",
		zap.String("registry", r.id),
		zap.Int("core_bindings", len(seed)))

	return r, nil
}

// ID returns the unique ID of this registry.
func (r *Registry) ID() string {
	return r.id
}

// Parent returns the delegate consulted when a local lookup misses.
func (r *Registry) Parent() ParentResolver {
	return r.parent
}

// Kernel returns the owning kernel, or nil when none has been set.
func (r *Registry) Kernel() Kernel {
	r.kernelMu.RLock()
	defer r.kernelMu.RUnlock()
	return r.kernel
}

// SetKernel associates the registry with its owning kernel. Requests for the
// Kernel type resolve to it, and its settings are propagated into every
// component constructed afterwards.
func (r *Registry) SetKernel(k Kernel) {
	r.kernelMu.Lock()
	defer r.kernelMu.Unlock()
	r.kernel = k
}

// IsDisposed reports whether Close has been called.
func (r *Registry) IsDisposed() bool {
	return r.disposed.Load()
}

// Add binds abstraction to the implementation described by component.
// Instances are cached as singletons keyed by implementation type.
func (r *Registry) Add(abstraction reflect.Type, component *ComponentType) error {
	return r.addBinding(abstraction, component, false)
}

// AddTransient binds abstraction to component with a fresh instance
// constructed on every resolution.
func (r *Registry) AddTransient(abstraction reflect.Type, component *ComponentType) error {
	return r.addBinding(abstraction, component, true)
}

func (r *Registry) addBinding(abstraction reflect.Type, component *ComponentType, transient bool) error {
	if r.IsDisposed() {
		return ErrRegistryDisposed
	}
	if err := checkBinding(abstraction, component); err != nil {
		return err
	}

	b := &Binding{Abstraction: abstraction, Component: component, Transient: transient}
	if err := r.table.add(b); err != nil {
		return err
	}

	r.logger.Debug("binding added",
		zap.String("registry", r.id),
		zap.String("abstraction", formatType(abstraction)),
		zap.String("implementation", formatType(component.Type())),
		zap.Bool("transient", transient))

	return nil
}

// Remove deletes the binding pairing abstraction with implementation,
// disposing and evicting any instance cached for the implementation type.
func (r *Registry) Remove(abstraction, implementation reflect.Type) error {
	if r.IsDisposed() {
		return ErrRegistryDisposed
	}
	if abstraction == nil || implementation == nil {
		return ErrTypeNil
	}

	if _, err := r.table.remove(abstraction, implementation); err != nil {
		return err
	}

	err := r.evict(implementation)

	r.logger.Debug("binding removed",
		zap.String("registry", r.id),
		zap.String("abstraction", formatType(abstraction)),
		zap.String("implementation", formatType(implementation)))

	return err
}

// RemoveAll deletes every binding for abstraction, disposing and evicting the
// cached instance of each bound implementation.
func (r *Registry) RemoveAll(abstraction reflect.Type) error {
	if r.IsDisposed() {
		return ErrRegistryDisposed
	}
	if abstraction == nil {
		return ErrTypeNil
	}

	removed, err := r.table.removeAll(abstraction)
	if err != nil {
		return err
	}

	var errs []error
	for _, b := range removed {
		if err := r.evict(b.Component.Type()); err != nil {
			errs = append(errs, err)
		}
	}

	r.logger.Debug("bindings cleared",
		zap.String("registry", r.id),
		zap.String("abstraction", formatType(abstraction)),
		zap.Int("removed", len(removed)))

	return errors.Join(errs...)
}

// Get resolves a single instance for abstraction. Requests for the Kernel
// type return the owning kernel directly. With no local binding the call is
// delegated verbatim to the parent, including its errors.
func (r *Registry) Get(abstraction reflect.Type) (any, error) {
	if r.IsDisposed() {
		return nil, ErrRegistryDisposed
	}
	if abstraction == nil {
		return nil, ErrTypeNil
	}

	if abstraction == kernelType {
		if k := r.Kernel(); k != nil {
			return k, nil
		}
	}

	b, ok := r.table.first(abstraction)
	if !ok {
		return r.parent.Get(abstraction)
	}

	return r.resolveBinding(b)
}

// GetAll resolves every implementation bound to abstraction: local bindings
// in insertion order, then the parent's own GetAll results. A child's
// overrides therefore come before the parent's defaults. An abstraction with
// no bindings anywhere yields an empty slice, not an error.
func (r *Registry) GetAll(abstraction reflect.Type) ([]any, error) {
	if r.IsDisposed() {
		return nil, ErrRegistryDisposed
	}
	if abstraction == nil {
		return nil, ErrTypeNil
	}

	bindings := r.table.all(abstraction)
	instances := make([]any, 0, len(bindings))
	for _, b := range bindings {
		instance, err := r.resolveBinding(b)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	inherited, err := r.parent.GetAll(abstraction)
	if err != nil {
		return nil, err
	}

	return append(instances, inherited...), nil
}

// Close disposes every cached singleton in reverse creation order, then
// clears the binding table and cache. A second call is a no-op. The parent
// is never disposed; its ownership lies elsewhere.
func (r *Registry) Close() error {
	if !r.disposed.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	for _, instance := range r.cache.drain() {
		if err := dispose(instance); err != nil {
			errs = append(errs, err)
		}
	}
	r.table.clear()

	r.logger.Debug("registry disposed", zap.String("registry", r.id))

	return errors.Join(errs...)
}

// resolveBinding runs the instance/construction path for one binding.
func (r *Registry) resolveBinding(b *Binding) (any, error) {
	if b.Transient {
		return r.construct(b.Component)
	}

	return r.cache.resolve(b.Component.Type(), func() (any, error) {
		return r.construct(b.Component)
	})
}

// construct builds a fresh instance from the descriptor's preferred
// constructor, resolving each parameter through this registry. A slice
// parameter is a many-request and receives GetAll of its element type. An
// error returned by the constructor body is passed through with its original
// identity.
func (r *Registry) construct(component *ComponentType) (any, error) {
	ctor := component.preferred()
	if ctor == nil {
		return nil, NoConstructorError{Implementation: component.Type()}
	}

	args := make([]reflect.Value, len(ctor.params))
	for i, param := range ctor.params {
		value, err := r.resolveParam(param)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}

	out := ctor.fn.Call(args)
	if ctor.hasError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	instance := out[0].Interface()

	if c, ok := instance.(Component); ok {
		if k := r.Kernel(); k != nil {
			c.SetSettings(k.Settings())
		}
	}

	r.logger.Debug("component constructed",
		zap.String("registry", r.id),
		zap.String("implementation", formatType(component.Type())),
		zap.String("constructor", ctor.String()))

	return instance, nil
}

func (r *Registry) resolveParam(param reflect.Type) (reflect.Value, error) {
	if param.Kind() == reflect.Slice {
		instances, err := r.GetAll(param.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		slice := reflect.MakeSlice(param, 0, len(instances))
		for _, instance := range instances {
			slice = reflect.Append(slice, reflect.ValueOf(instance))
		}
		return slice, nil
	}

	instance, err := r.Get(param)
	if err != nil {
		return reflect.Value{}, err
	}

	value := reflect.ValueOf(instance)
	if !value.IsValid() {
		value = reflect.Zero(param)
	}
	return value, nil
}

// evict removes the cached instance for an implementation type and disposes
// it.
func (r *Registry) evict(implementation reflect.Type) error {
	instance, ok := r.cache.evict(implementation)
	if !ok {
		return nil
	}
	return dispose(instance)
}

// checkBinding validates a binding's shape before it enters the table.
func checkBinding(abstraction reflect.Type, component *ComponentType) error {
	if abstraction == nil {
		return ErrTypeNil
	}
	if component == nil {
		return ErrComponentTypeNil
	}
	if !component.Type().AssignableTo(abstraction) {
		return TypeMismatchError{Abstraction: abstraction, Implementation: component.Type()}
	}
	return nil
}

// dispose releases an instance that satisfies the Component contract.
func dispose(instance any) error {
	if c, ok := instance.(Component); ok {
		return c.Close()
	}
	return nil
}
