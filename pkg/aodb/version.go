package aodb

// previousVersion reads the predecessor version stored immediately before
// v's root node. Every mutation places its 8-byte predecessor field right
// before the new root's bytes (see planSet/planDel in mutate.go), so this
// is always a fixed 8-byte read at v-8, regardless of how many other nodes
// the same data block also contains.
func previousVersion(r blockReader, v Version) (Version, error) {
	if v == 0 {
		return 0, nil
	}
	u, err := readU64(r, int64(v)-8)
	if err != nil {
		return 0, err
	}
	return Version(u), nil
}

// isBasedOn reports whether a is reachable from b by following predecessor
// links: true if b==0; false if a==0; false if a<b; true if a==b; else
// recurse on previous(a). Implemented iteratively per spec §9.
func isBasedOn(r blockReader, a, b Version) (bool, error) {
	if b == 0 {
		return true, nil
	}
	for {
		if a == 0 {
			return false, nil
		}
		if a < b {
			return false, nil
		}
		if a == b {
			return true, nil
		}
		next, err := previousVersion(r, a)
		if err != nil {
			return false, err
		}
		a = next
	}
}

// commonAncestor walks the larger of a, b back via predecessor links until
// the two meet.
func commonAncestor(r blockReader, a, b Version) (Version, error) {
	for a != b {
		if a == 0 || b == 0 {
			return 0, nil
		}
		if a > b {
			next, err := previousVersion(r, a)
			if err != nil {
				return 0, err
			}
			a = next
		} else {
			next, err := previousVersion(r, b)
			if err != nil {
				return 0, err
			}
			b = next
		}
	}
	return a, nil
}
