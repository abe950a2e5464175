package anvil

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// TStrategy is a framework-service abstraction for testing.
type TStrategy interface {
	Component
	Name() string
}

// TFirstStrategy is the default TStrategy implementation.
type TFirstStrategy struct {
	ComponentBase
}

func NewTFirstStrategy() *TFirstStrategy { return &TFirstStrategy{} }

func (s *TFirstStrategy) Name() string { return "first" }

// TSecondStrategy is an alternative TStrategy implementation.
type TSecondStrategy struct {
	ComponentBase
}

func NewTSecondStrategy() *TSecondStrategy { return &TSecondStrategy{} }

func (s *TSecondStrategy) Name() string { return "second" }

// THandler is a multi-implementation extension point for ordering tests.
type THandler interface {
	Component
	Handle() string
}

type TChildHandler struct {
	ComponentBase
	label string
}

func NewTChildHandler() *TChildHandler { return &TChildHandler{label: "child"} }

func (h *TChildHandler) Handle() string { return h.label }

type TSecondChildHandler struct {
	ComponentBase
}

func NewTSecondChildHandler() *TSecondChildHandler { return &TSecondChildHandler{} }

func (h *TSecondChildHandler) Handle() string { return "child-2" }

type TParentHandler struct {
	ComponentBase
}

func NewTParentHandler() *TParentHandler { return &TParentHandler{} }

func (h *TParentHandler) Handle() string { return "parent" }

// TResource is a disposable framework-service abstraction.
type TResource interface {
	Component
	CloseCount() int
}

// TDisposable counts Close calls.
type TDisposable struct {
	ComponentBase
	closes   atomic.Int32
	closeErr error
}

func NewTDisposable() *TDisposable { return &TDisposable{} }

func (d *TDisposable) Close() error {
	d.closes.Add(1)
	return d.closeErr
}

func (d *TDisposable) CloseCount() int {
	return int(d.closes.Load())
}

// TComposite declares two constructors; the registry must prefer the wired
// one and resolve both parameters recursively.
type TComposite struct {
	ComponentBase
	Strategy TStrategy
	Handler  THandler
	Wired    bool
}

func NewTCompositeBare() *TComposite {
	return &TComposite{}
}

func NewTCompositeWired(strategy TStrategy, handler THandler) *TComposite {
	return &TComposite{Strategy: strategy, Handler: handler, Wired: true}
}

// TAggregator depends on every bound THandler.
type TAggregator struct {
	ComponentBase
	Handlers []THandler
}

func NewTAggregator(handlers []THandler) *TAggregator {
	return &TAggregator{Handlers: handlers}
}

// TCounting tracks how many instances its constructor produced.
type TCounting struct {
	ComponentBase
	Instance int
}

var tCountingInstances atomic.Int64

func NewTCounting() *TCounting {
	return &TCounting{Instance: int(tCountingInstances.Add(1))}
}

// Error-returning constructor types.

var errTConstructor = errors.New("constructor blew up")

type TFailing struct {
	ComponentBase
}

func NewTFailing() (*TFailing, error) {
	return nil, errTConstructor
}

// TBare declares no constructors.
type TBare struct {
	ComponentBase
}

// TSlow counts constructions for race tests.
type TSlow struct {
	ComponentBase
	Instance int
}

var tSlowInstances atomic.Int64

func NewTSlow() *TSlow {
	return &TSlow{Instance: int(tSlowInstances.Add(1))}
}

// TPlain is a component that does not satisfy the Component contract.
type TPlain struct {
	Value string
}

func NewTPlain() *TPlain { return &TPlain{Value: "plain"} }

// ============================================================================
// Fake Kernel
// ============================================================================

type TKernel struct {
	mu       sync.Mutex
	registry *Registry
	settings *Settings
}

func NewTKernel(registry *Registry) *TKernel {
	k := &TKernel{registry: registry, settings: NewSettings()}
	registry.SetKernel(k)
	return k
}

func (k *TKernel) Components() *Registry {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.registry
}

func (k *TKernel) Settings() *Settings {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.settings
}

// ============================================================================
// Test Helpers
// ============================================================================

// BuildRegistry creates a root registry and registers cleanup.
func BuildRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	r, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// BuildChild creates a child registry over parent and registers cleanup.
func BuildChild(t *testing.T, parent *Registry, opts ...Option) *Registry {
	t.Helper()
	c, err := parent.Child(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// RequireImplement builds a descriptor or fails the test.
func RequireImplement[I any](t *testing.T, ctors ...any) *ComponentType {
	t.Helper()
	ct, err := Implement[I](ctors...)
	require.NoError(t, err)
	return ct
}

// RequireGet resolves abstraction A or fails the test.
func RequireGet[A any](t *testing.T, r *Registry) A {
	t.Helper()
	v, err := Get[A](r)
	require.NoError(t, err)
	return v
}
