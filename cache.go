package anvil

import (
	"reflect"
	"sync"
)

// instanceCache holds the singleton instance per implementation type. The
// read-check-then-create-and-store sequence for one type runs under that
// type's own lock, so goroutines racing to resolve the same implementation
// observe a single winner. Construction of different types proceeds in
// parallel, and recursive resolution of a dependency takes the dependency's
// lock; a dependency cycle among cached bindings therefore deadlocks.
type instanceCache struct {
	mu        sync.Mutex
	instances map[reflect.Type]any
	order     []reflect.Type
	locks     map[reflect.Type]*sync.Mutex
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[reflect.Type]any),
		locks:     make(map[reflect.Type]*sync.Mutex),
	}
}

// lockFor returns the construction lock for t, creating it on first use.
func (c *instanceCache) lockFor(t reflect.Type) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lk, ok := c.locks[t]
	if !ok {
		lk = &sync.Mutex{}
		c.locks[t] = lk
	}
	return lk
}

// get retrieves the cached instance for t.
func (c *instanceCache) get(t reflect.Type) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	instance, ok := c.instances[t]
	return instance, ok
}

// put stores the instance for t and records creation order for disposal.
func (c *instanceCache) put(t reflect.Type, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.instances[t]; !ok {
		c.order = append(c.order, t)
	}
	c.instances[t] = instance
}

// resolve returns the cached instance for t, building and storing it under
// t's construction lock when absent.
func (c *instanceCache) resolve(t reflect.Type, build func() (any, error)) (any, error) {
	lk := c.lockFor(t)
	lk.Lock()
	defer lk.Unlock()

	if instance, ok := c.get(t); ok {
		return instance, nil
	}

	instance, err := build()
	if err != nil {
		return nil, err
	}

	c.put(t, instance)
	return instance, nil
}

// evict removes and returns the cached instance for t so the caller can
// dispose it.
func (c *instanceCache) evict(t reflect.Type) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	instance, ok := c.instances[t]
	if !ok {
		return nil, false
	}

	delete(c.instances, t)
	for i, ot := range c.order {
		if ot == t {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return instance, true
}

// drain empties the cache and returns every instance in reverse creation
// order, the order they should be disposed in.
func (c *instanceCache) drain() []any {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]any, 0, len(c.order))
	for i := len(c.order) - 1; i >= 0; i-- {
		if instance, ok := c.instances[c.order[i]]; ok {
			out = append(out, instance)
		}
	}

	c.instances = make(map[reflect.Type]any)
	c.order = nil
	return out
}

// len reports the number of cached instances.
func (c *instanceCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.instances)
}
