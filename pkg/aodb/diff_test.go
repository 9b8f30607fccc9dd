package aodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opsByKey(ops []ChangesetOp) map[string]ChangesetOp {
	m := make(map[string]ChangesetOp, len(ops))
	for _, op := range ops {
		m[string(op.Key)] = op
	}
	return m
}

func TestDiffAddsModifiesRemoves(t *testing.T) {
	db := openTestDB(t, 4)

	a, err := db.Set(0, []byte("a"), []byte("1"))
	require.NoError(t, err)
	a, err = db.Set(a, []byte("b"), []byte("2"))
	require.NoError(t, err)
	a, err = db.Set(a, []byte("c"), []byte("3"))
	require.NoError(t, err)

	// b is a distinct lineage off of a: update b, remove c, add d.
	b, err := db.Set(a, []byte("b"), []byte("2-updated"))
	require.NoError(t, err)
	b, err = db.Del(b, []byte("c"))
	require.NoError(t, err)
	b, err = db.Set(b, []byte("d"), []byte("4"))
	require.NoError(t, err)

	ops, err := db.Diff(a, b)
	require.NoError(t, err)
	require.Len(t, ops, 3)

	byKey := opsByKey(ops)

	modB, ok := byKey["b"]
	require.True(t, ok)
	assert.Equal(t, OpModify, modB.Kind)
	assert.Equal(t, "2-updated", string(modB.Value))

	remC, ok := byKey["c"]
	require.True(t, ok)
	assert.Equal(t, OpRemove, remC.Kind)

	addD, ok := byKey["d"]
	require.True(t, ok)
	assert.Equal(t, OpModify, addD.Kind)
	assert.Equal(t, "4", string(addD.Value))
}

func TestDiffIdenticalVersionsIsEmpty(t *testing.T) {
	db := openTestDB(t, 4)

	v, err := db.Set(0, []byte("a"), []byte("1"))
	require.NoError(t, err)

	ops, err := db.Diff(v, v)
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestDiffFromEmptyVersion(t *testing.T) {
	db := openTestDB(t, 4)

	v, err := db.Set(0, []byte("a"), []byte("1"))
	require.NoError(t, err)
	v, err = db.Set(v, []byte("b"), []byte("2"))
	require.NoError(t, err)

	ops, err := db.Diff(0, v)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	for _, op := range ops {
		assert.Equal(t, OpModify, op.Kind)
	}
}

func TestApplyChangesetRoundTripsDiff(t *testing.T) {
	db := openTestDB(t, 4)

	a, err := db.Set(0, []byte("a"), []byte("1"))
	require.NoError(t, err)
	a, err = db.Set(a, []byte("b"), []byte("2"))
	require.NoError(t, err)

	b, err := db.Set(a, []byte("b"), []byte("2-updated"))
	require.NoError(t, err)
	b, err = db.Set(b, []byte("c"), []byte("3"))
	require.NoError(t, err)

	ops, err := db.Diff(a, b)
	require.NoError(t, err)

	cs := NewChangeset()
	for _, op := range ops {
		switch op.Kind {
		case OpModify:
			cs.Modify(op.Key, op.Value)
		case OpRemove:
			cs.Remove(op.Key)
		}
	}
	assert.Equal(t, len(ops), cs.Len())

	result, err := db.Apply(a, cs)
	require.NoError(t, err)

	finalOps, err := db.Diff(result, b)
	require.NoError(t, err)
	assert.Empty(t, finalOps, "applying a's diff against b should reproduce b exactly")
}

func TestApplyChangesetWithRemove(t *testing.T) {
	db := openTestDB(t, 4)

	v, err := db.Set(0, []byte("a"), []byte("1"))
	require.NoError(t, err)
	v, err = db.Set(v, []byte("b"), []byte("2"))
	require.NoError(t, err)

	cs := NewChangeset()
	cs.Remove([]byte("a"))
	cs.Modify([]byte("c"), []byte("3"))

	result, err := db.Apply(v, cs)
	require.NoError(t, err)

	has, err := db.Has(result, []byte("a"))
	require.NoError(t, err)
	assert.False(t, has)

	val, found, err := db.Get(result, []byte("c"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("3"), val)

	val, found, err = db.Get(result, []byte("b"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("2"), val)
}

func TestApplyChangesetDedupesRepeatedKey(t *testing.T) {
	db := openTestDB(t, 4)

	cs := NewChangeset()
	cs.Modify([]byte("a"), []byte("1"))
	cs.Modify([]byte("a"), []byte("2"))
	cs.Modify([]byte("a"), []byte("3"))

	result, err := db.Apply(0, cs)
	require.NoError(t, err)

	val, found, err := db.Get(result, []byte("a"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("3"), val, "only the last queued operation per key should survive")
}
