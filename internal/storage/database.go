// Package storage implements the persistent store adapter: the whole board
// database is one JSON snapshot on disk, read and written in full on every
// mutation. No diffing, no partial writes.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jthorne/taskdeck/pkg/models"
)

// DatabaseFile is the on-disk file name holding the JSON snapshot.
const DatabaseFile = "database.json"

// PersistenceError wraps a failed read, write, or decode of the snapshot.
// The store surfaces it through its error state; it is never swallowed.
type PersistenceError struct {
	Op  string // "load", "save", or "lock"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s database: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistenceError reports whether err wraps a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// DatabaseStore defines the adapter contract for the persisted snapshot.
type DatabaseStore interface {
	// Load returns the current snapshot. If none exists it initializes and
	// persists an empty one; it never returns a partial structure.
	Load() (models.Database, error)
	// Save serializes the full snapshot, replacing any prior value.
	Save(db models.Database) error
	// Update runs fn as one read-modify-write cycle under the adapter's
	// exclusive lock. If fn returns an error nothing is written.
	Update(fn func(*models.Database) error) error
}

type fileDatabaseStore struct {
	basePath string
}

// NewDatabaseStore creates a DatabaseStore backed by a database.json file in
// the given base directory.
func NewDatabaseStore(basePath string) DatabaseStore {
	return &fileDatabaseStore{basePath: basePath}
}

func (s *fileDatabaseStore) filePath() string {
	return filepath.Join(s.basePath, DatabaseFile)
}

func (s *fileDatabaseStore) lockPath() string {
	return filepath.Join(s.basePath, ".database.lock")
}

func (s *fileDatabaseStore) Load() (models.Database, error) {
	unlock, err := s.lock()
	if err != nil {
		return models.Database{}, &PersistenceError{Op: "load", Err: err}
	}
	defer unlock()
	return s.loadLocked()
}

func (s *fileDatabaseStore) Save(db models.Database) error {
	unlock, err := s.lock()
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	defer unlock()
	return s.saveLocked(db)
}

func (s *fileDatabaseStore) Update(fn func(*models.Database) error) error {
	unlock, err := s.lock()
	if err != nil {
		return &PersistenceError{Op: "lock", Err: err}
	}
	defer unlock()

	db, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(&db); err != nil {
		return err
	}
	return s.saveLocked(db)
}

func (s *fileDatabaseStore) lock() (func() error, error) {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return lockFile(s.lockPath())
}

func (s *fileDatabaseStore) loadLocked() (models.Database, error) {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			// First use: initialize and persist the empty snapshot so a
			// subsequent reader sees a well-formed database.
			db := models.EmptyDatabase()
			if err := s.saveLocked(db); err != nil {
				return models.Database{}, err
			}
			return db, nil
		}
		return models.Database{}, &PersistenceError{Op: "load", Err: err}
	}

	var db models.Database
	if err := json.Unmarshal(data, &db); err != nil {
		return models.Database{}, &PersistenceError{Op: "load", Err: fmt.Errorf("parsing JSON: %w", err)}
	}
	if db.Tasks == nil {
		db.Tasks = []models.Task{}
	}
	if db.Users == nil {
		db.Users = []models.User{}
	}
	if db.Projects == nil {
		db.Projects = []models.Project{}
	}
	return db, nil
}

func (s *fileDatabaseStore) saveLocked(db models.Database) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Err: fmt.Errorf("marshaling JSON: %w", err)}
	}
	if err := os.WriteFile(s.filePath(), data, 0o600); err != nil {
		return &PersistenceError{Op: "save", Err: fmt.Errorf("writing file: %w", err)}
	}
	return nil
}
