package aodb

import (
	"bytes"

	"github.com/ssargent/aodb/pkg/container"
)

// frame is one branch ancestor on an iterator's ascent path: the decoded
// branch plus the index of its next not-yet-visited child.
type frame struct {
	branch    branchNode
	nextChild int
}

// Iterator walks the records of one version in increasing key order. The
// zero value is not usable; construct one with DB.Iterate or
// DB.IterateFrom. Call Next before the first Record.
type Iterator struct {
	r           blockReader
	maxNodeSize int
	frames      *container.Stack[frame]

	leaf leafNode
	idx  int

	curKey, curVal []byte
	done           bool
	err            error
}

// Err returns the first error encountered during iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Record returns the key and value most recently yielded by Next.
func (it *Iterator) Record() ([]byte, []byte) {
	return it.curKey, it.curVal
}

// Next advances to the next record and reports whether one is available.
func (it *Iterator) Next() bool {
	if it.err != nil || it.done {
		return false
	}
	for {
		if it.idx < len(it.leaf.records) {
			rec := it.leaf.records[it.idx]
			it.idx++
			it.curKey, it.curVal = rec.key, rec.value
			return true
		}
		if !it.ascend() {
			it.done = true
			return false
		}
	}
}

// ascend pops exhausted frames, then descends the next unvisited child of
// the first frame with one left, landing on a new leaf. Returns false once
// the whole tree has been visited.
func (it *Iterator) ascend() bool {
	for {
		f, ok := it.frames.Pop()
		if !ok {
			return false
		}
		children := f.branch.children()
		if f.nextChild >= len(children) {
			continue
		}
		childOffset := children[f.nextChild]
		f.nextChild++
		it.frames.Push(f)
		if !it.descendLeftmost(childOffset) {
			return false
		}
		return true
	}
}

// descendLeftmost walks from offset down to a leaf, always taking the
// leading child, pushing a frame for every branch passed through.
func (it *Iterator) descendLeftmost(offset int64) bool {
	for {
		t, err := nodeType(it.r, offset)
		if err != nil {
			it.err = err
			return false
		}
		if t == nodeTypeLeaf {
			leaf, err := decodeLeaf(it.r, offset+1, it.maxNodeSize)
			if err != nil {
				it.err = err
				return false
			}
			it.leaf = leaf
			it.idx = 0
			return true
		}
		branch, err := decodeBranch(it.r, offset+1, it.maxNodeSize)
		if err != nil {
			it.err = err
			return false
		}
		it.frames.Push(frame{branch: branch, nextChild: 1})
		offset = branch.leadingChild
	}
}

// newIterator builds an iterator positioned at the leftmost record of
// root (key == nil) or at the first record >= key.
func newIterator(r blockReader, root int64, key []byte, maxNodeSize int) (*Iterator, error) {
	it := &Iterator{r: r, maxNodeSize: maxNodeSize, frames: container.NewStack[frame]()}
	if root == 0 {
		it.done = true
		return it, nil
	}

	offset := root
	for {
		t, err := nodeType(r, offset)
		if err != nil {
			return nil, err
		}
		if t == nodeTypeLeaf {
			leaf, err := decodeLeaf(r, offset+1, maxNodeSize)
			if err != nil {
				return nil, err
			}
			it.leaf = leaf
			if key == nil {
				it.idx = 0
			} else {
				idx, _ := findKey(leaf.records, key)
				it.idx = idx
			}
			return it, nil
		}

		branch, err := decodeBranch(r, offset+1, maxNodeSize)
		if err != nil {
			return nil, err
		}
		childIdx := 0
		if key != nil {
			for i, e := range branch.entries {
				if bytes.Compare(key, e.key) < 0 {
					break
				}
				childIdx = i + 1
			}
		}
		children := branch.children()
		it.frames.Push(frame{branch: branch, nextChild: childIdx + 1})
		offset = children[childIdx]
	}
}

// Iterate returns an iterator over every record of version v, in
// increasing key order.
func (db *DB) Iterate(v Version) (*Iterator, error) {
	return newIterator(db.reader, int64(v), nil, db.maxNodeSize)
}

// IterateFrom returns an iterator over version v starting at the first
// record with a key >= key.
func (db *DB) IterateFrom(v Version, key []byte) (*Iterator, error) {
	return newIterator(db.reader, int64(v), key, db.maxNodeSize)
}
