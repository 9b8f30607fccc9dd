package aodb

// Commit performs a compare-and-set of the database's current version: it
// succeeds, advancing current to v and appending a 'v' record, only if v is
// based on the current version (per isBasedOn). A failed commit leaves
// current untouched; the caller is expected to retry by replaying its
// mutation against the new current version.
func (db *DB) Commit(v Version) (bool, error) {
	db.versionMu.Lock()
	defer db.versionMu.Unlock()
	return db.commitInternal(v)
}

func (db *DB) commitInternal(v Version) (bool, error) {
	based, err := isBasedOn(db.reader, v, db.current)
	if err != nil {
		return false, err
	}
	if !based {
		return false, nil
	}
	if _, err := db.log.appendVersionRecord(v); err != nil {
		return false, err
	}
	if err := db.growReader(); err != nil {
		return false, err
	}
	db.current = v
	return true, nil
}

// CommitInit begins a multi-step commit: it locks the version mutex and
// validates the compare-and-set precondition without writing anything,
// leaving the lock held until the caller's matching CommitFinish or
// CommitAbort.
func (db *DB) CommitInit(v Version) (bool, error) {
	db.versionMu.Lock()
	return isBasedOn(db.reader, v, db.current)
}

// CommitFinish completes a commit started by CommitInit: it assumes
// versionMu is already held, appends the version record and advances
// current if the precondition still holds, and releases the lock before
// returning.
func (db *DB) CommitFinish(v Version) (bool, error) {
	defer db.versionMu.Unlock()
	return db.commitInternal(v)
}

// CommitAbort releases the lock taken by CommitInit without writing
// anything, acknowledging that a prepared commit will not be finished.
func (db *DB) CommitAbort(v Version) {
	_ = v
	db.versionMu.Unlock()
}
