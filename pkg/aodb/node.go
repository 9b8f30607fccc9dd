package aodb

import (
	"encoding/binary"

	"github.com/ssargent/aodb/pkg/rope"
)

// record is one (key, value) pair held in a leaf, decoded from or destined
// for the on-disk leaf body.
type record struct {
	key   []byte
	value []byte
}

// leafNode is the in-memory decoding of a leaf node's on-disk body, used
// transiently during search and mutation planning.
type leafNode struct {
	records []record
}

// branchEntry is one (separator key, child offset) pair in a branch, after
// the branch's leading child.
type branchEntry struct {
	key      []byte
	childOff int64
}

// branchNode is the in-memory decoding of a branch node's on-disk body.
type branchNode struct {
	leadingChild int64
	entries      []branchEntry // len(entries) separators, len(entries)+1 total children
}

// makeBlock emits (len(dat):u32, dat), the length-prefixed framing used for
// every key and value inside a node body.
func makeBlock(dat []byte) []byte {
	out := make([]byte, 4+len(dat))
	binary.BigEndian.PutUint32(out, uint32(len(dat)))
	copy(out[4:], dat)
	return out
}

// makeRecord emits makeBlock(k) ++ makeBlock(v).
func makeRecord(k, v []byte) []byte {
	out := make([]byte, 0, 4+len(k)+4+len(v))
	out = append(out, makeBlock(k)...)
	out = append(out, makeBlock(v)...)
	return out
}

// encodeLeaf serializes records as a complete leaf node: ('l', count:u32,
// records...).
func encodeLeaf(records []record) []byte {
	r := rope.New()
	header := make([]byte, 5)
	header[0] = nodeTypeLeaf
	binary.BigEndian.PutUint32(header[1:], uint32(len(records)))
	r.Append(header)
	for _, rec := range records {
		r.Append(makeRecord(rec.key, rec.value))
	}
	return r.Bytes()
}

// encodeBranch serializes a leading child offset and separator entries as a
// complete branch node: ('b', count:u32, leadingChild:u64, (key,child)...).
func encodeBranch(leadingChild int64, entries []branchEntry) []byte {
	r := rope.New()
	header := make([]byte, 13)
	header[0] = nodeTypeBranch
	binary.BigEndian.PutUint32(header[1:5], uint32(len(entries)))
	binary.BigEndian.PutUint64(header[5:], uint64(leadingChild))
	r.Append(header)
	for _, e := range entries {
		block := make([]byte, 0, 4+len(e.key)+8)
		block = append(block, makeBlock(e.key)...)
		childBuf := make([]byte, 8)
		binary.BigEndian.PutUint64(childBuf, uint64(e.childOff))
		block = append(block, childBuf...)
		r.Append(block)
	}
	return r.Bytes()
}

// nodeType reads the single header byte at off, through the block reader.
func nodeType(r blockReader, off int64) (byte, error) {
	b, err := r.readBytes(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// decodeLeaf reads a leaf node's body (the reader must already be
// positioned past the 'l' header byte, i.e. off points at the count field).
// maxNodeSize bounds the accepted record count; a larger count is treated
// as corruption rather than an unbounded allocation.
func decodeLeaf(r blockReader, off int64, maxNodeSize int) (leafNode, error) {
	count, err := readU32(r, off)
	if err != nil {
		return leafNode{}, err
	}
	if count > uint32(maxNodeSize) {
		return leafNode{}, wrapCorruption("decodeLeaf", "record count exceeds MAX")
	}
	cursor := off + 4
	records := make([]record, 0, count)
	for i := uint32(0); i < count; i++ {
		key, err := readData(r, cursor)
		if err != nil {
			return leafNode{}, err
		}
		cursor += 4 + int64(len(key))
		val, err := readData(r, cursor)
		if err != nil {
			return leafNode{}, err
		}
		cursor += 4 + int64(len(val))
		records = append(records, record{key: key, value: val})
	}
	return leafNode{records: records}, nil
}

// decodeBranch reads a branch node's body (off points at the count field,
// past the 'b' header byte). maxNodeSize bounds the accepted separator
// count (MAX+1 children); a larger count is treated as corruption rather
// than an unbounded allocation.
func decodeBranch(r blockReader, off int64, maxNodeSize int) (branchNode, error) {
	count, err := readU32(r, off)
	if err != nil {
		return branchNode{}, err
	}
	if count > uint32(maxNodeSize) {
		return branchNode{}, wrapCorruption("decodeBranch", "separator count exceeds MAX")
	}
	leading, err := readU64(r, off+4)
	if err != nil {
		return branchNode{}, err
	}
	cursor := off + 12
	entries := make([]branchEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		key, err := readData(r, cursor)
		if err != nil {
			return branchNode{}, err
		}
		cursor += 4 + int64(len(key))
		childOff, err := readU64(r, cursor)
		if err != nil {
			return branchNode{}, err
		}
		cursor += 8
		entries = append(entries, branchEntry{key: key, childOff: int64(childOff)})
	}
	return branchNode{leadingChild: int64(leading), entries: entries}, nil
}

// children returns, in order, all N+1 child offsets of a branch.
func (b branchNode) children() []int64 {
	out := make([]int64, 0, len(b.entries)+1)
	out = append(out, b.leadingChild)
	for _, e := range b.entries {
		out = append(out, e.childOff)
	}
	return out
}
