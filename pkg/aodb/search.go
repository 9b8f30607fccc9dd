package aodb

import (
	"bytes"

	"github.com/ssargent/aodb/pkg/container"
)

// pathEntry is one (separator-key, node-offset) pair visited while
// descending toward a search key.
type pathEntry struct {
	separator []byte
	offset    int64
}

// searchLeaf descends from root looking for key, returning the offset of
// the leaf that would own it. Iterative, per spec §9 (recursion bounded by
// an explicit loop, not call-stack depth).
func searchLeaf(r blockReader, root int64, key []byte, maxNodeSize int) (int64, error) {
	offset := root
	for {
		t, err := nodeType(r, offset)
		if err != nil {
			return 0, err
		}
		switch t {
		case nodeTypeLeaf:
			return offset, nil
		case nodeTypeBranch:
			branch, err := decodeBranch(r, offset+1, maxNodeSize)
			if err != nil {
				return 0, err
			}
			offset = descendChild(branch, key)
		default:
			return 0, wrapCorruption("searchLeaf", "unknown node type byte")
		}
	}
}

// descendChild finds the least i such that key < Ki and returns Ci, or CN
// if no such separator exists.
func descendChild(branch branchNode, key []byte) int64 {
	next := branch.leadingChild
	for _, e := range branch.entries {
		if bytes.Compare(key, e.key) < 0 {
			break
		}
		next = e.childOff
	}
	return next
}

// searchPath descends from root, pushing (separator, offset) for every
// visited node onto path, and returns the path with the target leaf on top.
// The root's separator is the empty byte slice, the sentinel for "no
// separator restricts this descent yet".
func searchPath(r blockReader, root int64, key []byte, maxNodeSize int) (*container.Stack[pathEntry], error) {
	path := container.NewStack[pathEntry]()
	offset := root
	separator := []byte{}

	for {
		path.Push(pathEntry{separator: separator, offset: offset})

		t, err := nodeType(r, offset)
		if err != nil {
			return nil, err
		}
		if t == nodeTypeLeaf {
			return path, nil
		}
		if t != nodeTypeBranch {
			return nil, wrapCorruption("searchPath", "unknown node type byte")
		}

		branch, err := decodeBranch(r, offset+1, maxNodeSize)
		if err != nil {
			return nil, err
		}

		nextSeparator := separator
		nextOffset := branch.leadingChild
		for _, e := range branch.entries {
			if bytes.Compare(key, e.key) < 0 {
				break
			}
			nextSeparator = e.key
			nextOffset = e.childOff
		}
		separator = nextSeparator
		offset = nextOffset
	}
}
