package rotator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/lcdrotator/internal/logging"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	reg := NewRegistry(logging.New(false, true))

	first := reg.GetOrCreate("Disks")
	require.NotNil(t, first)
	second := reg.GetOrCreate("Disks")

	assert.Same(t, first, second)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_PerNameIsolation(t *testing.T) {
	reg := NewRegistry(nil)

	disks := reg.GetOrCreate("Disks")
	disks.Initialize("Disks", []string{"a", "b"}, map[string]string{"a": "1", "b": "2"})
	temps := reg.GetOrCreate("Temps")
	temps.Initialize("Temps", []string{"cpu", "gpu"}, map[string]string{"cpu": "40", "gpu": "55"})

	assert.NotSame(t, disks, temps)

	for i := 0; i < 3; i++ {
		_, err := disks.Request(KindKey)
		require.NoError(t, err)
		_, err = disks.Request(KindValue)
		require.NoError(t, err)
	}

	key, err := temps.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "cpu", key)

	key, err = disks.Request(KindKey)
	require.NoError(t, err)
	assert.Equal(t, "b", key)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry(nil)

	_, ok := reg.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())

	created := reg.GetOrCreate("present")
	found, ok := reg.Lookup("present")
	assert.True(t, ok)
	assert.Same(t, created, found)
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry(nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		reg.GetOrCreate(name)
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Names())
}

func TestRegistry_OnRotate(t *testing.T) {
	reg := NewRegistry(nil)

	var rotated []string
	reg.OnRotate(func(name, key string) {
		rotated = append(rotated, name+"/"+key)
	})

	rot := reg.GetOrCreate("Disks")
	rot.Initialize("Disks", []string{"a", "b"}, map[string]string{"a": "1", "b": "2"})

	_, err := rot.Request(KindKey)
	require.NoError(t, err)
	// A pending key is not a new rotation.
	_, err = rot.Request(KindKey)
	require.NoError(t, err)
	_, err = rot.Request(KindValue)
	require.NoError(t, err)
	_, err = rot.Request(KindKey)
	require.NoError(t, err)

	assert.Equal(t, []string{"Disks/a", "Disks/b"}, rotated)
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	reg := NewRegistry(nil)

	const goroutines = 32
	results := make([]*Rotator, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = reg.GetOrCreate("shared")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, 1, reg.Len())
}

func TestDefault(t *testing.T) {
	a := Default()
	b := Default()
	require.NotNil(t, a)
	assert.Same(t, a, b)
	assert.Same(t, a.GetOrCreate("default-test"), b.GetOrCreate("default-test"))
}
