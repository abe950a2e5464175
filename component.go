package anvil

import (
	"reflect"
	"sync"
)

// Component is the contract every framework-internal service is expected to
// satisfy. The registry injects the owning kernel's settings into each newly
// constructed instance and calls Close when the instance is evicted or the
// registry is disposed.
//
// Embed ComponentBase to get a conforming implementation for free.
type Component interface {
	// SetSettings stores the shared settings reference. Called once by the
	// registry right after construction.
	SetSettings(*Settings)

	// Close releases any resources held by the component.
	Close() error
}

// Kernel is the surface the registry needs from its owner. A request for the
// Kernel type resolves to the owner directly, and Settings is the source of
// the value propagated into constructed components.
type Kernel interface {
	// Components returns the kernel's component registry.
	Components() *Registry

	// Settings returns the kernel's shared settings.
	Settings() *Settings
}

// kernelType is matched against resolution requests to special-case the
// owning kernel.
var kernelType = reflect.TypeOf((*Kernel)(nil)).Elem()

// ComponentBase provides the settings slot and a no-op Close. Framework
// components embed it so they only implement what they actually need.
type ComponentBase struct {
	mu       sync.RWMutex
	settings *Settings
}

func (b *ComponentBase) SetSettings(s *Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = s
}

// Settings returns the settings injected by the registry, or nil if the
// component was constructed outside a kernel.
func (b *ComponentBase) Settings() *Settings {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.settings
}

func (b *ComponentBase) Close() error {
	return nil
}

// Settings is the shared configuration value a kernel propagates into its
// components. The registry treats it as opaque and copies it by reference.
type Settings struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewSettings creates an empty settings bag.
func NewSettings() *Settings {
	return &Settings{values: make(map[string]any)}
}

// Get returns the value for key, or def when the key is absent.
func (s *Settings) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Set stores a value under key.
func (s *Settings) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
