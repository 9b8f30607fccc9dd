package aodb

import (
	"bytes"
	"encoding/binary"

	"github.com/ssargent/aodb/pkg/container"
	"github.com/ssargent/aodb/pkg/rope"
)

// spineItem is one newly produced node awaiting a slot in the output rope:
// its separator key (the key a parent branch should use to reach it) and
// its fully encoded on-disk bytes.
type spineItem struct {
	key   []byte
	bytes []byte
}

// branchChildItem is one (key, child-offset) pair while a branch's children
// are being rebuilt; the first entry in a final list is always promoted to
// the rebuilt branch's leading child, and its key (if any) is discarded.
type branchChildItem struct {
	key      []byte
	offset   int64
	isLeader bool
}

func compareChildKey(a, b branchChildItem) int {
	if a.isLeader {
		return -1
	}
	if b.isLeader {
		return 1
	}
	return bytes.Compare(a.key, b.key)
}

func insertChildSorted(items []branchChildItem, item branchChildItem) []branchChildItem {
	idx := len(items)
	for i, existing := range items {
		if compareChildKey(item, existing) < 0 {
			idx = i
			break
		}
	}
	out := make([]branchChildItem, 0, len(items)+1)
	out = append(out, items[:idx]...)
	out = append(out, item)
	out = append(out, items[idx:]...)
	return out
}

// rebuildBranchChildren excludes the child at oldChildOffset from branch and
// inserts the (1 or 2) replacement items at their sorted positions,
// following spec §4.G step 2.
func rebuildBranchChildren(branch branchNode, oldChildOffset int64, items []spineItem, itemOffsets []int64) []branchChildItem {
	children := make([]branchChildItem, 0, len(branch.entries)+1)
	children = append(children, branchChildItem{offset: branch.leadingChild, isLeader: true})
	for _, e := range branch.entries {
		children = append(children, branchChildItem{key: e.key, offset: e.childOff})
	}

	filtered := children[:0:0]
	for _, c := range children {
		if c.offset != oldChildOffset {
			filtered = append(filtered, c)
		}
	}

	for i, it := range items {
		filtered = insertChildSorted(filtered, branchChildItem{key: it.key, offset: itemOffsets[i]})
	}
	return filtered
}

// encodeBranchLevel turns a rebuilt children list into one or two branch
// spineItems, splitting if the list exceeds MAX+1 children (MAX separators).
func encodeBranchLevel(final []branchChildItem, maxNodeSize int) []spineItem {
	if len(final) == 0 {
		return nil
	}
	if len(final) <= maxNodeSize+1 {
		entries := make([]branchEntry, 0, len(final)-1)
		for _, c := range final[1:] {
			entries = append(entries, branchEntry{key: c.key, childOff: c.offset})
		}
		return []spineItem{{bytes: encodeBranch(final[0].offset, entries)}}
	}

	mid := len(final) / 2
	left := final[:mid]
	right := final[mid:]

	leftEntries := make([]branchEntry, 0, len(left)-1)
	for _, c := range left[1:] {
		leftEntries = append(leftEntries, branchEntry{key: c.key, childOff: c.offset})
	}
	rightEntries := make([]branchEntry, 0, len(right)-1)
	for _, c := range right[1:] {
		rightEntries = append(rightEntries, branchEntry{key: c.key, childOff: c.offset})
	}

	return []spineItem{
		{bytes: encodeBranch(left[0].offset, leftEntries)},
		{key: right[0].key, bytes: encodeBranch(right[0].offset, rightEntries)},
	}
}

// findKey returns the index of a record with the given key, and whether it
// was found, in a slice of records kept in strictly increasing key order.
func findKey(records []record, key []byte) (int, bool) {
	for i, r := range records {
		c := bytes.Compare(r.key, key)
		if c == 0 {
			return i, true
		}
		if c > 0 {
			return i, false
		}
	}
	return len(records), false
}

// leafSetItems plans the result of inserting/replacing (k,v) in leaf,
// following spec §4.G's leaf insertion rules including the MAX-sized split
// tie-break (a same-key replace never grows past MAX even when full).
func leafSetItems(leaf leafNode, maxNodeSize int, k, v []byte) []spineItem {
	idx, exists := findKey(leaf.records, k)

	if exists {
		newRecords := make([]record, len(leaf.records))
		copy(newRecords, leaf.records)
		newRecords[idx] = record{key: k, value: v}
		return []spineItem{{key: newRecords[0].key, bytes: encodeLeaf(newRecords)}}
	}

	if len(leaf.records) < maxNodeSize {
		newRecords := make([]record, 0, len(leaf.records)+1)
		newRecords = append(newRecords, leaf.records[:idx]...)
		newRecords = append(newRecords, record{key: k, value: v})
		newRecords = append(newRecords, leaf.records[idx:]...)
		return []spineItem{{key: newRecords[0].key, bytes: encodeLeaf(newRecords)}}
	}

	merged := make([]record, 0, len(leaf.records)+1)
	merged = append(merged, leaf.records[:idx]...)
	merged = append(merged, record{key: k, value: v})
	merged = append(merged, leaf.records[idx:]...)

	half := maxNodeSize / 2
	aRecords := merged[:half]
	bRecords := merged[half:]
	return []spineItem{
		{key: aRecords[0].key, bytes: encodeLeaf(aRecords)},
		{key: bRecords[0].key, bytes: encodeLeaf(bRecords)},
	}
}

// leafDelItems plans the result of removing k from leaf. found is false if
// k was absent (the caller must treat this as a no-op returning V unchanged).
func leafDelItems(leaf leafNode, k []byte) (items []spineItem, found bool) {
	idx, exists := findKey(leaf.records, k)
	if !exists {
		return nil, false
	}
	remaining := make([]record, 0, len(leaf.records)-1)
	remaining = append(remaining, leaf.records[:idx]...)
	remaining = append(remaining, leaf.records[idx+1:]...)
	if len(remaining) == 0 {
		return nil, true
	}
	return []spineItem{{key: remaining[0].key, bytes: encodeLeaf(remaining)}}, true
}

// runMutation drives the shared spine-rebuild walk used by both Set and
// Del: given the leaf-level result items and the search path (with the
// leaf already popped), it rebuilds branches bottom-up, emitting new nodes
// into out as soon as a parent needs their offsets, and returns the final
// root's bytes ready to be appended last (with the predecessor field
// immediately preceding it, per the format decision in DESIGN.md).
func runMutation(r blockReader, path *container.Stack[pathEntry], leafOffset int64, items []spineItem, maxNodeSize int, out *rope.Rope, appendPos int64) ([]byte, error) {
	oldChildOffset := leafOffset
	pending := items

	for {
		entry, ok := path.Pop()
		if !ok {
			break
		}

		branch, err := decodeBranch(r, entry.offset+1, maxNodeSize)
		if err != nil {
			return nil, err
		}

		offsets := make([]int64, len(pending))
		for i, it := range pending {
			offsets[i] = appendPos + int64(out.Len())
			out.Append(it.bytes)
		}

		final := rebuildBranchChildren(branch, oldChildOffset, pending, offsets)
		nextItems := encodeBranchLevel(final, maxNodeSize)

		replacingLeading := oldChildOffset == branch.leadingChild
		for i := range nextItems {
			if i == 0 && replacingLeading && len(pending) > 0 {
				nextItems[0].key = pending[0].key
			} else if i == 0 {
				nextItems[0].key = entry.separator
			}
		}

		pending = nextItems
		oldChildOffset = entry.offset
	}

	switch len(pending) {
	case 0:
		pending = []spineItem{{bytes: encodeLeaf(nil)}}
	case 2:
		offsets := make([]int64, 2)
		offsets[0] = appendPos + int64(out.Len())
		out.Append(pending[0].bytes)
		offsets[1] = appendPos + int64(out.Len())
		out.Append(pending[1].bytes)
		combined := encodeBranch(offsets[0], []branchEntry{{key: pending[1].key, childOff: offsets[1]}})
		pending = []spineItem{{bytes: combined}}
	}

	return pending[0].bytes, nil
}

func encodePredecessor(v Version) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

// planSet produces the complete new data-block payload for Set(V,k,v) and
// the new version identifier (the root's offset within the file), without
// touching the file log itself.
func planSet(r blockReader, root int64, hasRoot bool, maxNodeSize int, v Version, k, val []byte, appendPos int64) ([]byte, Version, error) {
	out := rope.New()

	var items []spineItem
	var path *container.Stack[pathEntry]
	var leafOffset int64

	if !hasRoot {
		items = []spineItem{{key: k, bytes: encodeLeaf([]record{{key: k, value: val}})}}
		path = container.NewStack[pathEntry]()
	} else {
		p, err := searchPath(r, root, k, maxNodeSize)
		if err != nil {
			return nil, 0, err
		}
		leafEntry, _ := p.Pop()
		leafOffset = leafEntry.offset
		leaf, err := decodeLeaf(r, leafOffset+1, maxNodeSize)
		if err != nil {
			return nil, 0, err
		}
		items = leafSetItems(leaf, maxNodeSize, k, val)
		path = p
	}

	rootBytes, err := runMutation(r, path, leafOffset, items, maxNodeSize, out, appendPos)
	if err != nil {
		return nil, 0, err
	}

	payload := out.Bytes()
	payload = append(payload, encodePredecessor(v)...)
	rootOffset := appendPos + int64(len(payload))
	payload = append(payload, rootBytes...)

	return payload, Version(rootOffset), nil
}

// planDel produces the complete new data-block payload for Del(V,k) and
// the new version identifier. found reports whether k was present; if not,
// the caller must return V unchanged without writing anything.
func planDel(r blockReader, root int64, maxNodeSize int, v Version, k []byte, appendPos int64) (payload []byte, newVersion Version, found bool, err error) {
	out := rope.New()

	path, err := searchPath(r, root, k, maxNodeSize)
	if err != nil {
		return nil, 0, false, err
	}
	leafEntry, _ := path.Pop()
	leafOffset := leafEntry.offset
	leaf, err := decodeLeaf(r, leafOffset+1, maxNodeSize)
	if err != nil {
		return nil, 0, false, err
	}

	items, ok := leafDelItems(leaf, k)
	if !ok {
		return nil, v, false, nil
	}

	rootBytes, err := runMutation(r, path, leafOffset, items, maxNodeSize, out, appendPos)
	if err != nil {
		return nil, 0, false, err
	}

	payload = out.Bytes()
	payload = append(payload, encodePredecessor(v)...)
	rootOffset := appendPos + int64(len(payload))
	payload = append(payload, rootBytes...)

	return payload, Version(rootOffset), true, nil
}
