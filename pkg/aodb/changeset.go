package aodb

import (
	"hash/fnv"

	"github.com/ssargent/aodb/pkg/container"
)

// Changeset is an ordered list of (modify key->value | remove key)
// operations, built up by a caller and applied atomically as a single new
// version via Apply. Built on pkg/container.List, matching the teacher's
// own choice of a doubly-linked list for append-ordered scratch state.
type Changeset struct {
	ops *container.List[ChangesetOp]
}

// NewChangeset returns an empty changeset.
func NewChangeset() *Changeset {
	return &Changeset{ops: container.NewList[ChangesetOp]()}
}

// Modify appends a "set key to value" operation.
func (c *Changeset) Modify(key, value []byte) {
	c.ops.PushBack(ChangesetOp{Kind: OpModify, Key: key, Value: value})
}

// Remove appends a "delete key" operation.
func (c *Changeset) Remove(key []byte) {
	c.ops.PushBack(ChangesetOp{Kind: OpRemove, Key: key})
}

// Len reports the number of operations queued.
func (c *Changeset) Len() int {
	return c.ops.Len()
}

func hashChangesetKey(k string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k))
	return h.Sum64()
}

// dedupedOps collapses cs down to its last operation per key, keeping each
// surviving operation at the position of its key's first appearance. A
// caller that queues several edits to the same key in one changeset (e.g.
// a set followed by a correcting set) should only pay for one new version
// per key, not one per queued operation.
func (c *Changeset) dedupedOps() []ChangesetOp {
	ops := c.ops.Slice()
	latest := container.NewHashTable[string, int](hashChangesetKey)
	order := make([]string, 0, len(ops))
	for i, op := range ops {
		key := string(op.Key)
		if _, exists := latest.Get(key); !exists {
			order = append(order, key)
		}
		latest.Put(key, i)
	}

	result := make([]ChangesetOp, 0, len(order))
	for _, key := range order {
		idx, _ := latest.Get(key)
		result = append(result, ops[idx])
	}
	return result
}

// Apply runs cs against v, deduplicated to one operation per key (the last
// queued for that key), producing one new version. A remove of an absent
// key is a no-op for that operation, same as calling Del directly.
func (db *DB) Apply(v Version, cs *Changeset) (Version, error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	current := v
	var err error
	for _, op := range cs.dedupedOps() {
		switch op.Kind {
		case OpModify:
			current, err = db.setInternal(current, op.Key, op.Value)
		case OpRemove:
			current, err = db.delInternal(current, op.Key)
		}
		if err != nil {
			return 0, err
		}
	}
	return current, nil
}
