package rotator

import (
	"sync"

	"golang.org/x/exp/slices"

	"github.com/systmms/lcdrotator/internal/logging"
)

// Registry maps instance names to their Rotator. The first reference to a
// name creates the instance and every later reference shares it. Entries are
// never removed.
type Registry struct {
	mu       sync.Mutex
	rotators map[string]*Rotator
	logger   *logging.Logger
	onRotate func(name, key string)
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(logger *logging.Logger) *Registry {
	return &Registry{
		rotators: make(map[string]*Rotator),
		logger:   logger,
	}
}

// OnRotate installs a hook called each time any rotator in the registry
// dequeues a new key. It only applies to rotators created afterwards, so it
// should be set before the first GetOrCreate.
func (r *Registry) OnRotate(fn func(name, key string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRotate = fn
}

// GetOrCreate returns the rotator registered under name, creating it first
// if this is the first reference.
func (r *Registry) GetOrCreate(name string) *Rotator {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rot, ok := r.rotators[name]; ok {
		return rot
	}

	rot := New(r.logger)
	rot.onRotate = r.onRotate
	r.rotators[name] = rot
	if r.logger != nil {
		r.logger.Debug("created rotator %q (%d registered)", name, len(r.rotators))
	}
	return rot
}

// Lookup returns the rotator registered under name without creating one
func (r *Registry) Lookup(name string) (*Rotator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rot, ok := r.rotators[name]
	return rot, ok
}

// Names returns the registered instance names in sorted order
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.rotators))
	for name := range r.rotators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered rotators
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rotators)
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns a process-wide registry, created on first use. Hosts that
// own their registry should prefer NewRegistry and pass it explicitly.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(nil)
	})
	return defaultRegistry
}
