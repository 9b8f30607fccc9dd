package aodb

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to callers. Logical no-ops (absent key, failed
// commit CAS) are reported through return values, never through these.
var (
	// ErrCorruption reports a fatal on-disk inconsistency: an unknown
	// header byte at a well-formed position, a size frame pointing past
	// EOF, or a node with an out-of-range record count.
	ErrCorruption = errors.New("aodb: corrupt file")

	// ErrIO reports an operating-system read/write/seek/map failure.
	ErrIO = errors.New("aodb: i/o error")

	// ErrClosed is declared for callers; no DB method returns it, since a
	// DB does not record whether Close has been called.
	ErrClosed = errors.New("aodb: db is closed")
)

// EngineError wraps an underlying error with the operation that produced
// it, following the teacher's own KVError{Message string} sentinel-error
// shape, but composable with errors.Is/errors.As via Unwrap.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("aodb: %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func wrapCorruption(op string, detail string) error {
	return &EngineError{Op: op, Err: fmt.Errorf("%w: %s", ErrCorruption, detail)}
}

func wrapIO(op string, err error) error {
	return &EngineError{Op: op, Err: fmt.Errorf("%w: %v", ErrIO, err)}
}
