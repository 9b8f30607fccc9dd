package aodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, it *Iterator) ([]string, []string) {
	t.Helper()
	var keys, vals []string
	for it.Next() {
		k, v := it.Record()
		keys = append(keys, string(k))
		vals = append(vals, string(v))
	}
	require.NoError(t, it.Err())
	return keys, vals
}

func TestIterateEmptyVersion(t *testing.T) {
	db := openTestDB(t, 4)

	it, err := db.Iterate(0)
	require.NoError(t, err)

	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestIterateOrdersKeysAcrossSplit(t *testing.T) {
	db := openTestDB(t, 4)

	v := Version(0)
	var err error
	for _, kv := range [][2]string{{"d", "4"}, {"b", "2"}, {"e", "5"}, {"a", "1"}, {"c", "3"}} {
		v, err = db.Set(v, []byte(kv[0]), []byte(kv[1]))
		require.NoError(t, err)
	}

	it, err := db.Iterate(v)
	require.NoError(t, err)

	keys, vals := collect(t, it)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, keys)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, vals)
}

func TestIterateFromStartsAtKey(t *testing.T) {
	db := openTestDB(t, 4)

	v := Version(0)
	var err error
	for _, kv := range [][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}, {"d", "4"}, {"e", "5"}} {
		v, err = db.Set(v, []byte(kv[0]), []byte(kv[1]))
		require.NoError(t, err)
	}

	it, err := db.IterateFrom(v, []byte("c"))
	require.NoError(t, err)

	keys, _ := collect(t, it)
	assert.Equal(t, []string{"c", "d", "e"}, keys)
}

func TestIterateFromKeyBetweenRecords(t *testing.T) {
	db := openTestDB(t, 4)

	v := Version(0)
	var err error
	for _, kv := range [][2]string{{"a", "1"}, {"c", "3"}, {"e", "5"}} {
		v, err = db.Set(v, []byte(kv[0]), []byte(kv[1]))
		require.NoError(t, err)
	}

	it, err := db.IterateFrom(v, []byte("b"))
	require.NoError(t, err)

	keys, _ := collect(t, it)
	assert.Equal(t, []string{"c", "e"}, keys)
}
