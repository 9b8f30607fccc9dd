package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackPushPopOrder(t *testing.T) {
	s := NewStack[int]()
	assert.True(t, s.Empty())

	s.Push(1)
	s.Push(2)
	s.Push(3)
	assert.Equal(t, 3, s.Len())

	v, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	for _, want := range []int{3, 2, 1} {
		v, ok := s.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}

	assert.True(t, s.Empty())
}

func TestStackPopEmpty(t *testing.T) {
	s := NewStack[string]()
	v, ok := s.Pop()
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestStackPeekDoesNotRemove(t *testing.T) {
	s := NewStack[int]()
	s.Push(42)

	v, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, s.Len())
}
