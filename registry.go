package quantity

import (
	"fmt"
	"sort"
	"sync"
)

// Registry interns frames by name. It is safe for concurrent use.
type Registry struct {
	parent *Registry
	mu     sync.RWMutex
	frames map[string]*Frame
}

// NewRegistry returns a registry holding ECR and ECI.
func NewRegistry() *Registry {
	return &Registry{frames: map[string]*Frame{
		ECR.name: ECR,
		ECI.name: ECI,
	}}
}

// Child returns an empty registry scoped under r. Lookups fall through to r;
// frames registered in the child are not visible in r.
func (r *Registry) Child() *Registry {
	return &Registry{parent: r, frames: map[string]*Frame{}}
}

// Register adds f under its name. Registering the same frame twice is a
// no-op; registering a different frame under a taken name fails with
// ErrDuplicateFrame.
func (r *Registry) Register(f *Frame) error {
	if f == nil || f.name == "" {
		return fmt.Errorf("register frame: %w", ErrNotSet)
	}
	if r.parent != nil {
		if old, ok := r.parent.Lookup(f.name); ok {
			if old == f {
				return nil
			}
			return fmt.Errorf("register frame %q: %w", f.name, ErrDuplicateFrame)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.frames[f.name]; ok {
		if old == f {
			return nil
		}
		return fmt.Errorf("register frame %q: %w", f.name, ErrDuplicateFrame)
	}
	r.frames[f.name] = f
	return nil
}

// Lookup returns the frame registered under name.
func (r *Registry) Lookup(name string) (*Frame, bool) {
	r.mu.RLock()
	f, ok := r.frames[name]
	r.mu.RUnlock()
	if !ok && r.parent != nil {
		return r.parent.Lookup(name)
	}
	return f, ok
}

// Names returns the registered frame names, including those of parent
// registries, sorted.
func (r *Registry) Names() []string {
	var names []string
	if r.parent != nil {
		names = r.parent.Names()
	}
	r.mu.RLock()
	for n := range r.frames {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
