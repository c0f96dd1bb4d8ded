// Package fsm is the state machine engine: one machine definition per
// type-key prefix, guard predicates evaluated before a transition
// commits, and best-effort actions executed after it.
package fsm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/praxis-works/onto/pkg/types"
)

// Registry maps type-key prefixes to machine definitions. Unknown
// prefixes are a hard error, never a silent default machine.
type Registry struct {
	mu       sync.RWMutex
	machines map[string]*types.Machine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{machines: make(map[string]*types.Machine)}
}

// DefaultRegistry creates a registry seeded with the built-in machines
// for every standard kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, m := range builtinMachines() {
		// Built-in machines are validated by their tests; a registration
		// failure here is a programming error.
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
	return r
}

// Register validates and installs a machine. Registering a prefix again
// replaces the previous definition, which is how YAML-declared machines
// override built-ins.
func (r *Registry) Register(m *types.Machine) error {
	if err := m.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines[m.Prefix] = m
	return nil
}

// Resolve returns the machine bound to a type key's prefix. Returns
// ErrInvalidTypeKey when no machine is registered.
func (r *Registry) Resolve(typeKey string) (*types.Machine, error) {
	prefix := types.KindFromTypeKey(typeKey)

	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.machines[prefix]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidTypeKey, typeKey)
	}
	return m, nil
}

// Prefixes returns the registered prefixes in sorted order.
func (r *Registry) Prefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.machines))
	for p := range r.machines {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
