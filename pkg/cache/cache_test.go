package cache

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Basic(t *testing.T) {
	s := New(Options{MaxEntries: 3})

	s.Put("a", "render_a")
	s.Put("b", "render_b")
	s.Put("c", "render_c")

	assert.Equal(t, 3, s.Len())

	out, found := s.Get("a")
	require.True(t, found)
	assert.Equal(t, "render_a", out)

	out, found = s.Get("b")
	require.True(t, found)
	assert.Equal(t, "render_b", out)
}

func TestStore_LRU_Eviction(t *testing.T) {
	s := New(Options{MaxEntries: 3})

	s.Put("a", "render_a")
	s.Put("b", "render_b")
	s.Put("c", "render_c")

	// Access 'a' to make it most recently used
	s.Get("a")

	// Add new item - should evict 'b' (least recently used)
	s.Put("d", "render_d")

	assert.Equal(t, 3, s.Len())

	_, found := s.Get("b")
	assert.False(t, found, "b should have been evicted")

	_, found = s.Get("a")
	assert.True(t, found, "a should still be present")

	_, found = s.Get("c")
	assert.True(t, found, "c should still be present")

	_, found = s.Get("d")
	assert.True(t, found, "d should be present")
}

func TestStore_OnEvict(t *testing.T) {
	var evicted []string
	s := New(Options{
		MaxEntries: 2,
		OnEvict:    func(key string) { evicted = append(evicted, key) },
	})

	s.Put("a", "render_a")
	s.Put("b", "render_b")
	s.Put("c", "render_c")

	assert.Equal(t, []string{"a"}, evicted)
}

func TestStore_Delete(t *testing.T) {
	s := New(Options{MaxEntries: 10})

	s.Put("a", "render_a")
	s.Put("b", "render_b")

	s.Delete("a")

	assert.Equal(t, 1, s.Len())

	_, found := s.Get("a")
	assert.False(t, found)

	out, found := s.Get("b")
	require.True(t, found)
	assert.Equal(t, "render_b", out)
}

func TestStore_Clear(t *testing.T) {
	s := New(Options{MaxEntries: 10})

	s.Put("a", "render_a")
	s.Put("b", "render_b")

	s.Clear()

	assert.Equal(t, 0, s.Len())
}

func TestStore_Update(t *testing.T) {
	s := New(Options{MaxEntries: 10})

	s.Put("a", "old")
	s.Put("a", "new")

	assert.Equal(t, 1, s.Len())

	out, found := s.Get("a")
	require.True(t, found)
	assert.Equal(t, "new", out)
}

func TestStore_SaveLoad(t *testing.T) {
	s := New(Options{MaxEntries: 10})
	s.Put("key1", "render1")
	s.Put("key2", "render2")

	var buf bytes.Buffer
	err := s.Save(&buf)
	require.NoError(t, err)

	s2 := New(Options{MaxEntries: 10})
	err = s2.Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, 2, s2.Len())

	out, found := s2.Get("key1")
	require.True(t, found)
	assert.Equal(t, "render1", out)
}

func TestStore_SaveLoad_PreservesRecency(t *testing.T) {
	s := New(Options{MaxEntries: 10})
	s.Put("old", "render_old")
	s.Put("new", "render_new")

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	// Reload into a store that only has room for one more entry: the
	// least recently used key must be the one evicted.
	s2 := New(Options{MaxEntries: 2})
	require.NoError(t, s2.Load(&buf))
	s2.Put("extra", "render_extra")

	_, found := s2.Get("old")
	assert.False(t, found, "old should have been evicted")
	_, found = s2.Get("new")
	assert.True(t, found)
}

func TestPersistToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.cache")

	s := New(Options{MaxEntries: 10})
	s.Put("digest1", "output1")

	require.NoError(t, PersistToFile(s, path))

	s2 := New(Options{MaxEntries: 10})
	require.NoError(t, LoadFromFile(s2, path))

	out, found := s2.Get("digest1")
	require.True(t, found)
	assert.Equal(t, "output1", out)
}

func TestLoadFromFile_Missing(t *testing.T) {
	s := New(Options{MaxEntries: 10})
	err := LoadFromFile(s, filepath.Join(t.TempDir(), "nope.cache"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}
