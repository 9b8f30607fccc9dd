//go:build !unix

package aodb

import "os"

// backendMmap falls back to the stdio backend on platforms without a
// golang.org/x/sys/unix mmap implementation wired (Windows). Options.UseMmap
// is honored best-effort: it degrades silently to stdio reads rather than
// failing Open.
type backendMmap struct {
	*backendStdio
}

func newBackendMmap(f *os.File, _ int64) (*backendMmap, error) {
	return &backendMmap{backendStdio: newBackendStdio(f)}, nil
}

func (b *backendMmap) grow(int64) error {
	return nil
}
