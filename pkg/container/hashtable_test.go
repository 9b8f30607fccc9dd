package container

import (
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func TestHashTablePutGet(t *testing.T) {
	h := NewHashTable[string, int](hashString)

	h.Put("a", 1)
	h.Put("b", 2)

	v, ok := h.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = h.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	assert.Equal(t, 2, h.Len())
}

func TestHashTableGetMissing(t *testing.T) {
	h := NewHashTable[string, int](hashString)
	_, ok := h.Get("missing")
	assert.False(t, ok)
}

func TestHashTablePutReplacesExisting(t *testing.T) {
	h := NewHashTable[string, int](hashString)
	h.Put("a", 1)
	h.Put("a", 2)

	v, ok := h.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, h.Len())
}

func TestHashTableGrowsPastInitialCapacity(t *testing.T) {
	h := NewHashTable[int, int](func(k int) uint64 { return uint64(k) })

	for i := 0; i < 100; i++ {
		h.Put(i, i*i)
	}
	assert.Equal(t, 100, h.Len())

	for i := 0; i < 100; i++ {
		v, ok := h.Get(i)
		assert.True(t, ok)
		assert.Equal(t, i*i, v)
	}
}
