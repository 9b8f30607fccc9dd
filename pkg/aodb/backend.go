package aodb

import "encoding/binary"

// blockReader serves random reads over file offsets. Two implementations
// exist: backendStdio (always available) and backendMmap (Linux, opt-in via
// Options.UseMmap). Both must be safe for concurrent use by many readers
// and the single writer.
type blockReader interface {
	// readBytes returns exactly n bytes starting at off. A short read
	// inside a committed region is corruption, never a partial result.
	readBytes(off int64, n int) ([]byte, error)

	// grow is called by the writer after extending the file, so an mmap
	// backend can remap to cover the new bytes. The stdio backend ignores it.
	grow(newSize int64) error

	// close releases any backend-held resources (e.g. an active mapping).
	close() error
}

func readU32(r blockReader, off int64) (uint32, error) {
	b, err := r.readBytes(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func readU64(r blockReader, off int64) (uint64, error) {
	b, err := r.readBytes(off, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// readData reads a 4-byte big-endian length prefix at off, then that many
// bytes immediately following, and returns the payload.
func readData(r blockReader, off int64) ([]byte, error) {
	l, err := readU32(r, off)
	if err != nil {
		return nil, err
	}
	return r.readBytes(off+4, int(l))
}
