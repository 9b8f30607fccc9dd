package container

// listNode is one element of a List.
type listNode[T any] struct {
	val  T
	prev *listNode[T]
	next *listNode[T]
}

// List is a doubly-linked list used to hold an ordered changeset of
// operations. Ordering and O(1) append are the only properties callers
// depend on; it is not meant as a general-purpose container.
type List[T any] struct {
	head *listNode[T]
	tail *listNode[T]
	size int
}

// NewList returns an empty list.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// PushBack appends v to the end of the list.
func (l *List[T]) PushBack(v T) {
	n := &listNode[T]{val: v, prev: l.tail}
	if l.tail != nil {
		l.tail.next = n
	} else {
		l.head = n
	}
	l.tail = n
	l.size++
}

// Len reports the number of elements in the list.
func (l *List[T]) Len() int {
	return l.size
}

// Each calls fn for every element in order, front to back. Stops early if
// fn returns false.
func (l *List[T]) Each(fn func(T) bool) {
	for n := l.head; n != nil; n = n.next {
		if !fn(n.val) {
			return
		}
	}
}

// Slice materializes the list into a plain slice in order.
func (l *List[T]) Slice() []T {
	out := make([]T, 0, l.size)
	l.Each(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}
