//go:build unix

package aodb

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// backendMmap maintains a read-only mapping covering the first
// pageAligned(fileSize) bytes of the file. Reads entirely inside the
// mapping are served by copying out of it under the shared side of mu;
// reads beyond it fall through to the stdio backend. Growing the mapping
// takes the exclusive side of mu, following the writer-starvation-free
// semantics of sync.RWMutex's own implementation.
type backendMmap struct {
	file  *os.File
	stdio *backendStdio

	mu      sync.RWMutex
	mapping []byte
}

func newBackendMmap(f *os.File, initialSize int64) (*backendMmap, error) {
	b := &backendMmap{file: f, stdio: newBackendStdio(f)}
	if initialSize > 0 {
		if err := b.grow(initialSize); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func pageAligned(n int64) int64 {
	pageSize := int64(os.Getpagesize())
	if n <= 0 {
		return 0
	}
	rem := n % pageSize
	if rem == 0 {
		return n
	}
	return n + (pageSize - rem)
}

func (b *backendMmap) readBytes(off int64, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b.mu.RLock()
	if off >= 0 && off+int64(n) <= int64(len(b.mapping)) {
		out := make([]byte, n)
		copy(out, b.mapping[off:off+int64(n)])
		b.mu.RUnlock()
		return out, nil
	}
	b.mu.RUnlock()
	return b.stdio.readBytes(off, n)
}

func (b *backendMmap) grow(newSize int64) error {
	aligned := pageAligned(newSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if aligned <= int64(len(b.mapping)) {
		return nil
	}
	if b.mapping != nil {
		if err := unix.Munmap(b.mapping); err != nil {
			return wrapIO("mmap.grow", err)
		}
		b.mapping = nil
	}
	if aligned == 0 {
		return nil
	}
	m, err := unix.Mmap(int(b.file.Fd()), 0, int(aligned), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return wrapIO("mmap.grow", err)
	}
	b.mapping = m
	return nil
}

func (b *backendMmap) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mapping == nil {
		return nil
	}
	err := unix.Munmap(b.mapping)
	b.mapping = nil
	if err != nil {
		return wrapIO("mmap.close", err)
	}
	return nil
}
