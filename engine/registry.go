package engine

import (
	"sort"
	"sync"
)

// Registry provides named step lookup for dynamic graph execution.
// It is read-only from the engine's perspective during a run.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]Step)}
}

// Register adds a step under its name.
func (r *Registry) Register(step Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[step.Name()] = step
}

// Get retrieves a step by name.
func (r *Registry) Get(name string) (Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.steps[name]
	return s, ok
}

// List returns sorted names of all registered steps.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
