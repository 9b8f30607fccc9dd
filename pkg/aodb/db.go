package aodb

import "sync"

// Options configures Open.
type Options struct {
	// MaxNodeSize is MAX: the maximum record count per leaf and maximum
	// separator count per branch. Zero, odd, or too-small values fall back
	// to DefaultMaxNodeSize.
	MaxNodeSize int

	// UseMmap serves reads from a memory mapping instead of positional
	// reads where the platform supports it (see backend_mmap*.go).
	UseMmap bool
}

// DB is a single open handle onto one append-only, copy-on-write B-tree
// file. One *DB may be shared by any number of concurrent readers; writes
// (Set, Del, Commit) serialize against each other through writeMu/versionMu,
// following the teacher's recursive-mutex idiom: exported methods take the
// lock, Internal-suffixed ones assume it's already held so one exported
// call can invoke another's logic without deadlocking itself.
type DB struct {
	path        string
	maxNodeSize int

	log    *fileLog
	reader blockReader

	writeMu   sync.Mutex
	versionMu sync.Mutex
	current   Version
}

// Open opens (creating if necessary) the database file at path, replaying
// its append-only log to recover the last complete frame and the most
// recently committed version.
func Open(path string, opts Options) (*DB, error) {
	maxNodeSize := normalizeMaxNodeSize(opts.MaxNodeSize)

	log, scan, err := openFileLog(path)
	if err != nil {
		return nil, err
	}

	var reader blockReader
	if opts.UseMmap {
		m, err := newBackendMmap(log.file, scan.size)
		if err != nil {
			_ = log.Close()
			return nil, err
		}
		reader = m
	} else {
		reader = newBackendStdio(log.file)
	}

	return &DB{
		path:        path,
		maxNodeSize: maxNodeSize,
		log:         log,
		reader:      reader,
		current:     scan.currentVersion,
	}, nil
}

// Close flushes and closes the underlying file. The DB must not be used
// afterward.
func (db *DB) Close() error {
	if err := db.reader.close(); err != nil {
		return err
	}
	return db.log.Close()
}

// growReader tells the backend about the log's new size so a future read
// can observe bytes just written (a no-op for the stdio backend, a remap
// for mmap).
func (db *DB) growReader() error {
	return db.reader.grow(db.log.Size())
}

// Current returns the most recently committed version, or 0 if nothing has
// ever been committed.
func (db *DB) Current() Version {
	db.versionMu.Lock()
	defer db.versionMu.Unlock()
	return db.current
}

// Has reports whether key exists in version v.
func (db *DB) Has(v Version, key []byte) (bool, error) {
	_, ok, err := db.Get(v, key)
	return ok, err
}

// Get returns the value associated with key in version v, and whether it
// was found. A zero version (the empty database) never has any key.
func (db *DB) Get(v Version, key []byte) ([]byte, bool, error) {
	if v == 0 {
		return nil, false, nil
	}
	leafOff, err := searchLeaf(db.reader, int64(v), key, db.maxNodeSize)
	if err != nil {
		return nil, false, err
	}
	leaf, err := decodeLeaf(db.reader, leafOff+1, db.maxNodeSize)
	if err != nil {
		return nil, false, err
	}
	idx, ok := findKey(leaf.records, key)
	if !ok {
		return nil, false, nil
	}
	return leaf.records[idx].value, true, nil
}

// Set returns a new version in which key maps to value, leaving v and
// every other existing version untouched.
func (db *DB) Set(v Version, key, value []byte) (Version, error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()
	return db.setInternal(v, key, value)
}

func (db *DB) setInternal(v Version, key, value []byte) (Version, error) {
	hasRoot := v != 0
	appendPos := db.log.Size() + dataBlockHeaderLen

	payload, newVersion, err := planSet(db.reader, int64(v), hasRoot, db.maxNodeSize, v, key, value, appendPos)
	if err != nil {
		return 0, err
	}
	if _, err := db.log.appendDataBlock(payload); err != nil {
		return 0, err
	}
	if err := db.growReader(); err != nil {
		return 0, err
	}
	return newVersion, nil
}

// Del returns a new version with key absent. If key is already absent from
// v, Del returns v unchanged and writes nothing.
func (db *DB) Del(v Version, key []byte) (Version, error) {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()
	return db.delInternal(v, key)
}

func (db *DB) delInternal(v Version, key []byte) (Version, error) {
	if v == 0 {
		return 0, nil
	}

	appendPos := db.log.Size() + dataBlockHeaderLen
	payload, newVersion, found, err := planDel(db.reader, int64(v), db.maxNodeSize, v, key, appendPos)
	if err != nil {
		return 0, err
	}
	if !found {
		return v, nil
	}
	if _, err := db.log.appendDataBlock(payload); err != nil {
		return 0, err
	}
	if err := db.growReader(); err != nil {
		return 0, err
	}
	return newVersion, nil
}

// PreviousVersion returns the version v was derived from (0 if v is 0 or
// the oldest version in its lineage).
func (db *DB) PreviousVersion(v Version) (Version, error) {
	return previousVersion(db.reader, v)
}

// IsBasedOn reports whether a descends from b by following predecessor
// links.
func (db *DB) IsBasedOn(a, b Version) (bool, error) {
	return isBasedOn(db.reader, a, b)
}

// CommonAncestor returns the most recent version reachable from both a and
// b, or 0 if their lineages share none.
func (db *DB) CommonAncestor(a, b Version) (Version, error) {
	return commonAncestor(db.reader, a, b)
}
