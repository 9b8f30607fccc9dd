// Package storage provides a blob store keyed by generated KSUIDs, backed
// by the aodb MVCC engine: every write auto-commits so each operation is
// immediately visible through DefaultStorage.Current.
package storage

import (
	"github.com/segmentio/ksuid"
	"github.com/ssargent/aodb/pkg/aodb"
)

// DefaultStorage is a blob store: Create assigns a fresh key, the rest
// operate by id. Every Create/Update/Delete commits its new version before
// returning, so current always reflects the latest write.
type DefaultStorage struct {
	db      *aodb.DB
	current aodb.Version
}

// NewDefaultStorage opens (creating if necessary) the aodb file at path.
func NewDefaultStorage(path string) (*DefaultStorage, error) {
	db, err := aodb.Open(path, aodb.Options{})
	if err != nil {
		return nil, err
	}
	return &DefaultStorage{db: db, current: db.Current()}, nil
}

// Current returns the most recently committed version.
func (s *DefaultStorage) Current() aodb.Version {
	return s.current
}

func (s *DefaultStorage) commit(v aodb.Version) error {
	ok, err := s.db.Commit(v)
	if err != nil {
		return err
	}
	if ok {
		s.current = v
	}
	return nil
}

// Create stores data under a freshly generated KSUID key.
func (s *DefaultStorage) Create(data []byte) (*ksuid.KSUID, error) {
	id := ksuid.New()
	v, err := s.db.Set(s.current, id.Bytes(), data)
	if err != nil {
		return nil, err
	}
	if err := s.commit(v); err != nil {
		return nil, err
	}
	return &id, nil
}

// Read returns the data stored under id at the current version.
func (s *DefaultStorage) Read(id *ksuid.KSUID) ([]byte, error) {
	data, _, err := s.db.Get(s.current, id.Bytes())
	return data, err
}

// Update overwrites the data stored under id.
func (s *DefaultStorage) Update(id *ksuid.KSUID, data []byte) error {
	v, err := s.db.Set(s.current, id.Bytes(), data)
	if err != nil {
		return err
	}
	return s.commit(v)
}

// Delete removes id from the store. Deleting an absent id is a no-op.
func (s *DefaultStorage) Delete(id *ksuid.KSUID) error {
	v, err := s.db.Del(s.current, id.Bytes())
	if err != nil {
		return err
	}
	return s.commit(v)
}

// Close flushes and closes the underlying engine.
func (s *DefaultStorage) Close() error {
	return s.db.Close()
}
