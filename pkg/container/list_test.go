package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListPushBackOrder(t *testing.T) {
	l := NewList[string]()
	l.PushBack("a")
	l.PushBack("b")
	l.PushBack("c")

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"a", "b", "c"}, l.Slice())
}

func TestListEmpty(t *testing.T) {
	l := NewList[int]()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Slice())
}

func TestListEachStopsEarly(t *testing.T) {
	l := NewList[int]()
	l.PushBack(1)
	l.PushBack(2)
	l.PushBack(3)

	var seen []int
	l.Each(func(v int) bool {
		seen = append(seen, v)
		return v != 2
	})

	assert.Equal(t, []int{1, 2}, seen)
}
