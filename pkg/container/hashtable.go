package container

// HashTable is a small open-addressed (linear-probing) hash table used by
// in-memory helpers that need key lookup without pulling in a stdlib map's
// iteration-order guarantees (mutation planning cares about none of that,
// only O(1) expected lookup while it dedups a batch of changeset keys).
type HashTable[K comparable, V any] struct {
	keys    []K
	vals    []V
	used    []bool
	count   int
	hashFn  func(K) uint64
}

const initialBuckets = 16

// NewHashTable returns an empty table. hashFn must be a stable hash of K;
// callers typically pass a small FNV-1a wrapper for string/[]byte-derived keys.
func NewHashTable[K comparable, V any](hashFn func(K) uint64) *HashTable[K, V] {
	return &HashTable[K, V]{
		keys:   make([]K, initialBuckets),
		vals:   make([]V, initialBuckets),
		used:   make([]bool, initialBuckets),
		hashFn: hashFn,
	}
}

func (h *HashTable[K, V]) indexFor(k K, bucketCount int) int {
	return int(h.hashFn(k) % uint64(bucketCount))
}

// Put inserts or replaces the value for k.
func (h *HashTable[K, V]) Put(k K, v V) {
	if h.count*2 >= len(h.used) {
		h.grow()
	}
	i := h.indexFor(k, len(h.used))
	for {
		if !h.used[i] {
			h.used[i] = true
			h.keys[i] = k
			h.vals[i] = v
			h.count++
			return
		}
		if h.keys[i] == k {
			h.vals[i] = v
			return
		}
		i = (i + 1) % len(h.used)
	}
}

// Get reports the value stored for k, if any.
func (h *HashTable[K, V]) Get(k K) (v V, ok bool) {
	if len(h.used) == 0 {
		return v, false
	}
	i := h.indexFor(k, len(h.used))
	for probes := 0; probes < len(h.used); probes++ {
		if !h.used[i] {
			return v, false
		}
		if h.keys[i] == k {
			return h.vals[i], true
		}
		i = (i + 1) % len(h.used)
	}
	return v, false
}

// Len reports the number of stored keys.
func (h *HashTable[K, V]) Len() int {
	return h.count
}

func (h *HashTable[K, V]) grow() {
	oldKeys, oldVals, oldUsed := h.keys, h.vals, h.used
	newSize := len(oldUsed) * 2
	h.keys = make([]K, newSize)
	h.vals = make([]V, newSize)
	h.used = make([]bool, newSize)
	h.count = 0
	for i, u := range oldUsed {
		if u {
			h.Put(oldKeys[i], oldVals[i])
		}
	}
}
