package rotator

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/lcdrotator/internal/logging"
)

func newDisks(t *testing.T) *Rotator {
	t.Helper()
	r := New(logging.New(false, true))
	r.Initialize("Disks", []string{"a", "b", "c"}, map[string]string{"a": "1", "b": "2", "c": "3"})
	return r
}

func TestRotator_DisksScenario(t *testing.T) {
	r := newDisks(t)

	steps := []struct {
		kind Kind
		want string
	}{
		{KindKey, "a"}, {KindValue, "1"},
		{KindKey, "b"}, {KindValue, "2"},
		{KindKey, "c"}, {KindValue, "3"},
		{KindKey, "a"}, {KindValue, "1"},
	}

	for i, step := range steps {
		got, err := r.Request(step.kind)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.want, got, "step %d (%s)", i, step.kind)
	}
}

func TestRotator_RotationOrder(t *testing.T) {
	keys := []string{"k1", "k2", "k3", "k4"}
	values := map[string]string{"k1": "v1", "k2": "v2", "k3": "v3", "k4": "v4"}

	r := New(nil)
	r.Initialize("order", keys, values)

	for i := 0; i < len(keys)*3; i++ {
		key, err := r.Request(KindKey)
		require.NoError(t, err)
		assert.Equal(t, keys[i%len(keys)], key)

		value, err := r.Request(KindValue)
		require.NoError(t, err)
		assert.Equal(t, values[key], value, "value must pair with the key just issued")
	}
}

func TestRotator_RepeatedKeyReturnsPending(t *testing.T) {
	r := newDisks(t)

	first, err := r.Request(KindKey)
	require.NoError(t, err)
	again, err := r.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "a", first)
	assert.Equal(t, first, again)

	value, err := r.Request(KindValue)
	require.NoError(t, err)
	assert.Equal(t, "1", value)

	next, err := r.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "b", next)
}

func TestRotator_ValueWithoutKey(t *testing.T) {
	r := newDisks(t)

	_, err := r.Request(KindValue)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPendingKey))
	assert.True(t, errors.Is(err, ErrLookup))

	// The failed request did not rotate anything.
	key, err := r.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "a", key)
}

func TestRotator_ValueMissingFromMapping(t *testing.T) {
	r := New(nil)
	r.Initialize("partial", []string{"a", "b"}, map[string]string{"b": "2"})

	key, err := r.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "a", key)

	_, err = r.Request(KindValue)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValueNotFound))
	assert.True(t, errors.Is(err, ErrLookup))
	assert.False(t, errors.Is(err, ErrNoPendingKey))
	assert.Contains(t, err.Error(), `"a"`)

	pending, ok := r.Pending()
	assert.True(t, ok)
	assert.Equal(t, "a", pending)
}

func TestRotator_Exhausted(t *testing.T) {
	r := New(nil)
	r.Initialize("empty", nil, nil)

	_, err := r.Request(KindKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.False(t, errors.Is(err, ErrLookup))
	assert.False(t, r.Initialized())
}

func TestRotator_UnsupportedKind(t *testing.T) {
	r := newDisks(t)

	_, err := r.Request(KindKey)
	require.NoError(t, err)
	before := r.Snapshot()

	got, err := r.Request(ParseKind("count"))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, before, r.Snapshot())

	value, err := r.Request(KindValue)
	require.NoError(t, err)
	assert.Equal(t, "1", value)

	key, err := r.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "b", key)
}

func TestRotator_InitializeIsIdempotent(t *testing.T) {
	r := newDisks(t)

	r.Initialize("Other", []string{"x", "y"}, map[string]string{"x": "9", "y": "8"})

	assert.Equal(t, "Disks", r.Name())
	assert.Equal(t, []string{"a", "b", "c"}, r.Keys())
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, r.Values())

	key, err := r.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "a", key)
}

func TestRotator_InitializeKeysAndValuesIndependently(t *testing.T) {
	r := New(nil)

	r.Initialize("late", nil, nil)
	assert.Equal(t, "late", r.Name())
	assert.False(t, r.Initialized())

	r.Initialize("ignored", []string{"a"}, map[string]string{"a": "1"})
	assert.Equal(t, "late", r.Name())
	assert.True(t, r.Initialized())

	key, err := r.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "a", key)
}

func TestRotator_DoesNotAliasCallerContainers(t *testing.T) {
	keys := []string{"a", "b"}
	values := map[string]string{"a": "1", "b": "2"}

	r := New(nil)
	r.Initialize("alias", keys, values)

	keys[0] = "mutated"
	values["a"] = "mutated"

	key, err := r.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "a", key)
	assert.Equal(t, []string{"b", "a"}, r.Keys())

	value, err := r.Request(KindValue)
	require.NoError(t, err)
	assert.Equal(t, "1", value)

	// Accessors hand out copies too.
	r.Keys()[0] = "changed"
	r.Values()["b"] = "changed"
	assert.Equal(t, []string{"b", "a"}, r.Keys())
	assert.Equal(t, "2", r.Values()["b"])
}

func TestRotator_Snapshot(t *testing.T) {
	r := newDisks(t)

	_, err := r.Request(KindKey)
	require.NoError(t, err)

	assert.Equal(t, State{
		Name:      "Disks",
		Keys:      []string{"b", "c", "a"},
		Values:    map[string]string{"a": "1", "b": "2", "c": "3"},
		Pending:    "a",
		HasPending: true,
		Rotations:  1,
	}, r.Snapshot())
}

func TestRotator_SnapshotEmptyPendingKey(t *testing.T) {
	r := New(nil)
	r.Initialize("E", []string{""}, map[string]string{"": "v"})

	assert.False(t, r.Snapshot().HasPending)

	key, err := r.Request(KindKey)
	require.NoError(t, err)
	assert.Empty(t, key)

	state := r.Snapshot()
	assert.True(t, state.HasPending)
	assert.Empty(t, state.Pending)

	_, err = r.Request(KindValue)
	require.NoError(t, err)
	assert.False(t, r.Snapshot().HasPending)
}

func TestState_Redacted(t *testing.T) {
	state := State{
		Name:   "Tok",
		Keys:   []string{"api", "host"},
		Values: map[string]string{"api": "s3cr3t", "host": "db01"},
	}

	redacted := state.Redacted([]string{"s3cr3t"})
	assert.Equal(t, map[string]string{"api": "[REDACTED]", "host": "db01"}, redacted.Values)
	assert.Equal(t, "s3cr3t", state.Values["api"], "the original state must not change")

	assert.Equal(t, state, state.Redacted(nil))
}

func TestRotator_ConcurrentPairs(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	values := map[string]string{"a": "1", "b": "2", "c": "3", "d": "4", "e": "5"}

	r := New(nil)
	r.Initialize("concurrent", keys, values)

	const workers = 8
	const perWorker = 50

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key, err := r.Request(KindKey)
				assert.NoError(t, err)
				mu.Lock()
				seen[key]++
				mu.Unlock()
				// Another worker may consume the pending value first.
				_, _ = r.Request(KindValue)
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, n := range seen {
		total += n
	}
	assert.Equal(t, workers*perWorker, total)
	assert.ElementsMatch(t, keys, r.Keys())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in        string
		want      Kind
		supported bool
	}{
		{"key", KindKey, true},
		{"KEY", KindKey, true},
		{"Value", KindValue, true},
		{"count", Kind("count"), false},
		{"", Kind(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k := ParseKind(tt.in)
			assert.Equal(t, tt.want, k)
			assert.Equal(t, tt.supported, k.Supported())
		})
	}
}
