// Package types provides the named type registry used by the caster to
// resolve type names such as "integer" or "url" into casting functions.
//
// NewRegistry pre-registers the built-in types; applications add their own
// with Register. Names are kept in a B-tree so listings are ordered.
package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/argmesh/core"
	"github.com/tidwall/btree"
)

// Registry maps type names to casting functions. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types *btree.Map[string, core.CastFunc]
}

var _ core.TypeResolver = (*Registry)(nil)

// NewRegistry creates a registry pre-populated with the built-in types.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for name, fn := range builtins() {
		r.types.Set(name, fn)
	}
	return r
}

// NewEmptyRegistry creates a registry without built-in types.
func NewEmptyRegistry() *Registry {
	return &Registry{types: btree.NewMap[string, core.CastFunc](0)}
}

// Register adds or replaces the casting function for name.
func (r *Registry) Register(name string, fn core.CastFunc) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("type name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("type %q: casting function must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types.Set(name, fn)
	return nil
}

// Remove deletes a registered type and reports whether it existed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.types.Delete(name)
	return ok
}

// Lookup implements core.TypeResolver.
func (r *Registry) Lookup(name string) (core.CastFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types.Get(name)
}

// Names returns every registered type name in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, r.types.Len())
	r.types.Scan(func(name string, _ core.CastFunc) bool {
		names = append(names, name)
		return true
	})
	return names
}
