package aodb

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"sync"
)

// scanResult is what the open-time recovery scan learns from the file.
type scanResult struct {
	size           int64
	currentVersion Version
}

// recoverLog scans f from offset 0, validating that every record is a
// complete 'v' or 'd' frame. It truncates the file back to the start of the
// first incomplete trailing frame (a crash mid-write) and reports the
// last-seen version record, following spec §4.C exactly.
func recoverLog(f *os.File) (scanResult, error) {
	actual, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return scanResult{}, wrapIO("recoverLog", err)
	}

	var (
		offset  int64
		current Version
		header  [1]byte
	)

	for offset < actual {
		if _, err := f.ReadAt(header[:], offset); err != nil {
			// Cut off inside the header byte itself.
			break
		}

		switch header[0] {
		case recordTypeVersion:
			recLen := int64(versionRecordLen)
			if offset+recLen > actual {
				goto truncate
			}
			buf := make([]byte, 8)
			if n, err := f.ReadAt(buf, offset+1); err != nil || n != 8 {
				goto truncate
			} else {
				current = Version(binary.BigEndian.Uint64(buf))
			}
			offset += recLen

		case recordTypeData:
			lenBuf := make([]byte, 4)
			if offset+5 > actual {
				goto truncate
			}
			if n, err := f.ReadAt(lenBuf, offset+1); err != nil || n != 4 {
				goto truncate
			}
			payloadLen := int64(binary.BigEndian.Uint32(lenBuf))
			recLen := dataBlockHeaderLen + payloadLen
			if offset+recLen > actual {
				goto truncate
			}
			offset += recLen

		default:
			return scanResult{}, wrapCorruption("recoverLog", "unknown record header byte")
		}
	}

	return scanResult{size: offset, currentVersion: current}, nil

truncate:
	if err := f.Truncate(offset); err != nil {
		return scanResult{}, wrapIO("recoverLog", err)
	}
	return scanResult{size: offset, currentVersion: current}, nil
}

// fileLog is the append-only writer side of the log: every appended byte
// goes through here, immediately flushed so concurrent readers (stdio or
// mmap) observe it.
type fileLog struct {
	file   *os.File
	mu     sync.Mutex
	writer *bufio.Writer
	size   int64
}

func openFileLog(path string) (*fileLog, scanResult, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, scanResult{}, wrapIO("openFileLog", err)
	}

	res, err := recoverLog(f)
	if err != nil {
		_ = f.Close()
		return nil, scanResult{}, err
	}

	if _, err := f.Seek(res.size, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, scanResult{}, wrapIO("openFileLog", err)
	}

	l := &fileLog{
		file:   f,
		writer: bufio.NewWriter(f),
		size:   res.size,
	}
	return l, res, nil
}

// appendDataBlock writes a 'd' frame containing payload and returns the
// file offset of the frame's header byte (the data-block offset, not the
// payload's start).
func (l *fileLog) appendDataBlock(payload []byte) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	blockOffset := l.size

	var header [5]byte
	header[0] = recordTypeData
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))

	if _, err := l.writer.Write(header[:]); err != nil {
		return 0, wrapIO("appendDataBlock", err)
	}
	if _, err := l.writer.Write(payload); err != nil {
		return 0, wrapIO("appendDataBlock", err)
	}
	if err := l.writer.Flush(); err != nil {
		return 0, wrapIO("appendDataBlock", err)
	}

	l.size += dataBlockHeaderLen + int64(len(payload))
	return blockOffset, nil
}

// appendVersionRecord writes a 'v' frame recording that v is now the
// current committed version, and returns the frame's own file offset (the
// commit record's identity, distinct from v itself).
func (l *fileLog) appendVersionRecord(v Version) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	versionOffset := l.size

	var rec [versionRecordLen]byte
	rec[0] = recordTypeVersion
	binary.BigEndian.PutUint64(rec[1:], uint64(v))

	if _, err := l.writer.Write(rec[:]); err != nil {
		return 0, wrapIO("appendVersionRecord", err)
	}
	if err := l.writer.Flush(); err != nil {
		return 0, wrapIO("appendVersionRecord", err)
	}

	l.size += versionRecordLen
	return versionOffset, nil
}

func (l *fileLog) Size() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

func (l *fileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writer.Flush(); err != nil {
		_ = l.file.Close()
		return wrapIO("Close", err)
	}
	if err := l.file.Close(); err != nil {
		return wrapIO("Close", err)
	}
	return nil
}
