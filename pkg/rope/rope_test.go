package rope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendAndBytes(t *testing.T) {
	r := New()
	r.Append([]byte("abc"))
	r.Append([]byte("def"))

	assert.Equal(t, 6, r.Len())
	assert.Equal(t, []byte("abcdef"), r.Bytes())
}

func TestAppendEmptyFragmentIsNoOp(t *testing.T) {
	r := New()
	r.Append([]byte("abc"))
	r.Append(nil)
	r.Append([]byte{})

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []byte("abc"), r.Bytes())
}

func TestAppendRopeMergesFragmentsInOrder(t *testing.T) {
	a := New()
	a.Append([]byte("ab"))

	b := New()
	b.Append([]byte("cd"))
	b.Append([]byte("ef"))

	a.AppendRope(b)

	assert.Equal(t, 6, a.Len())
	assert.Equal(t, []byte("abcdef"), a.Bytes())
}

func TestAppendRopeWithNilIsNoOp(t *testing.T) {
	a := New()
	a.Append([]byte("ab"))
	a.AppendRope(nil)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []byte("ab"), a.Bytes())
}

func TestEmptyRope(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, []byte{}, r.Bytes())
}
