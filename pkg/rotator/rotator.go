package rotator

import (
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/systmms/lcdrotator/internal/logging"
)

// Rotator holds the rotation state of one named key/value set.
//
// Keys are served front to back: a key request dequeues the front key,
// enqueues it at the back and marks it pending. The paired value request
// returns the value of the pending key and clears it. Name, keys and values
// are adopted once and never replaced.
type Rotator struct {
	mu sync.Mutex

	name   string
	keys   []string
	values map[string]string

	// pending is the key issued by the last key request whose value has
	// not been served yet. Valid only while hasPending is true.
	pending    string
	hasPending bool

	logger    *logging.Logger
	onRotate  func(name, key string)
	rotations int
}

// State is a point-in-time copy of a Rotator. HasPending distinguishes a
// pending empty key from no pending key.
type State struct {
	Name       string            `json:"name" yaml:"name"`
	Keys       []string          `json:"keys" yaml:"keys"`
	Values     map[string]string `json:"values" yaml:"values"`
	Pending    string            `json:"pending,omitempty" yaml:"pending,omitempty"`
	HasPending bool              `json:"has_pending" yaml:"has_pending"`
	Rotations  int               `json:"rotations" yaml:"rotations"`
}

// Redacted returns a copy of s with every value listed in secrets masked
func (s State) Redacted(secrets []string) State {
	if len(secrets) == 0 || len(s.Values) == 0 {
		return s
	}
	hidden := make(map[string]bool, len(secrets))
	for _, secret := range secrets {
		hidden[secret] = true
	}

	values := make(map[string]string, len(s.Values))
	for key, value := range s.Values {
		if hidden[value] {
			values[key] = logging.Secret(value).String()
			continue
		}
		values[key] = value
	}
	s.Values = values
	return s
}

// New creates an uninitialized rotator. A nil logger disables logging.
func New(logger *logging.Logger) *Rotator {
	return &Rotator{logger: logger}
}

// Initialize adopts name, keys and values the first time each is available.
// Keys and values are adopted independently, and only when the rotator has
// none yet and the caller supplies a non-empty set. Everything else is
// silently ignored. The rotator keeps its own copies of keys and values.
func (r *Rotator) Initialize(name string, keys []string, values map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.name == "" {
		r.name = name
	}

	if len(r.keys) == 0 && len(keys) > 0 {
		r.keys = slices.Clone(keys)
		r.debug("rotator %q adopted %d keys", r.name, len(r.keys))
	} else if len(keys) > 0 {
		r.debug("rotator %q already has keys, ignoring %d supplied", r.name, len(keys))
	}

	if len(r.values) == 0 && len(values) > 0 {
		r.values = maps.Clone(values)
	}
}

// Request returns the next string for kind.
//
// For KindKey it returns the pending key, rotating a new one in if none is
// pending. For KindValue it returns the value of the pending key and clears
// it. Any other kind returns an empty string and leaves the state untouched.
func (r *Rotator) Request(kind Kind) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch kind {
	case KindKey:
		return r.nextKey()
	case KindValue:
		return r.pendingValue()
	default:
		r.debug("rotator %q ignoring unsupported request kind %q", r.name, kind)
		return "", nil
	}
}

func (r *Rotator) nextKey() (string, error) {
	if r.hasPending {
		return r.pending, nil
	}
	if len(r.keys) == 0 {
		return "", fmt.Errorf("rotator %q: %w", r.name, ErrExhausted)
	}

	key := r.keys[0]
	// Shift in place so the backing array is reused across rotations.
	copy(r.keys, r.keys[1:])
	r.keys[len(r.keys)-1] = key

	r.pending = key
	r.hasPending = true
	r.rotations++
	if r.onRotate != nil {
		r.onRotate(r.name, key)
	}
	return key, nil
}

func (r *Rotator) pendingValue() (string, error) {
	if !r.hasPending {
		return "", fmt.Errorf("rotator %q: %w", r.name, ErrNoPendingKey)
	}

	value, ok := r.values[r.pending]
	if !ok {
		return "", fmt.Errorf("rotator %q: %w %q", r.name, ErrValueNotFound, r.pending)
	}

	r.pending = ""
	r.hasPending = false
	return value, nil
}

// Name returns the adopted instance name
func (r *Rotator) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// Keys returns the keys in current rotation order, next key first
func (r *Rotator) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.keys)
}

// Values returns a copy of the key to value mapping
func (r *Rotator) Values() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.values)
}

// Pending returns the key awaiting its value request, if any
func (r *Rotator) Pending() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending, r.hasPending
}

// Initialized reports whether the rotator has keys to rotate
func (r *Rotator) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys) > 0
}

// Snapshot returns a copy of the full rotator state
func (r *Rotator) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return State{
		Name:       r.name,
		Keys:       slices.Clone(r.keys),
		Values:     maps.Clone(r.values),
		Pending:    r.pending,
		HasPending: r.hasPending,
		Rotations:  r.rotations,
	}
}

func (r *Rotator) debug(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(format, args...)
	}
}
