// Package rope implements the append-only fragment builder used while
// planning a single write: a new spine is assembled fragment by fragment
// and materialized into one contiguous buffer exactly once, right before
// it is flushed as a single data block.
package rope

// Rope is an ordered sequence of byte-string fragments. Unlike the
// reference implementation's linked list of fragments, this is a plain
// vector of slices plus a running length counter: appends never allocate
// more than the fragment itself, and materialization allocates exactly
// once, sized from the counter.
type Rope struct {
	fragments [][]byte
	length    int
}

// New returns an empty rope.
func New() *Rope {
	return &Rope{}
}

// Append adds b as the next fragment. The rope does not copy b; callers
// must not mutate a slice after appending it.
func (r *Rope) Append(b []byte) {
	if len(b) == 0 {
		return
	}
	r.fragments = append(r.fragments, b)
	r.length += len(b)
}

// AppendRope merges another rope's fragments onto the end of this one in
// order; O(1) in the number of the other rope's fragments.
func (r *Rope) AppendRope(other *Rope) {
	if other == nil {
		return
	}
	r.fragments = append(r.fragments, other.fragments...)
	r.length += other.length
}

// Len reports the total byte length of all fragments appended so far. This
// is used to compute the absolute file offset of the next fragment before
// it is written, as append_pos + rope.Len().
func (r *Rope) Len() int {
	return r.length
}

// Bytes materializes the rope into a single contiguous buffer. This is the
// rope's one allowed allocation; callers should call it exactly once, right
// before flushing.
func (r *Rope) Bytes() []byte {
	out := make([]byte, 0, r.length)
	for _, f := range r.fragments {
		out = append(out, f...)
	}
	return out
}
