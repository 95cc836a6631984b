package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

// Store is the persisted dataset → root directory mapping.
//
// A missing file is created with DefaultRoots on first use. A present file
// is never rewritten implicitly; a dataset absent from it is an error.
type Store struct {
	fs   afero.Fs
	path string
	// lockTimeout bounds the wait for the bootstrap lock. Zero disables locking.
	lockTimeout time.Duration
}

// NewStore returns a store backed by the file at path on fs.
// Locking is only enabled on the OS filesystem.
func NewStore(fs afero.Fs, path string) *Store {
	s := &Store{fs: fs, path: path}
	if _, ok := fs.(*afero.OsFs); ok {
		s.lockTimeout = 5 * time.Second
	}
	return s
}

// DefaultStore returns the store for ~/.ooddb/config.json on the OS filesystem.
func DefaultStore() (*Store, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return NewStore(afero.NewOsFs(), path), nil
}

// Path returns the config file location.
func (s *Store) Path() string { return s.path }

// Exists reports whether the config file is present.
func (s *Store) Exists() (bool, error) {
	ok, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return false, fmt.Errorf("cannot stat config %s: %w", s.path, err)
	}
	return ok, nil
}

// Ensure loads the config, writing DefaultRoots first when the file is absent.
// created reports whether this call wrote the file.
func (s *Store) Ensure() (roots Roots, created bool, err error) {
	ok, err := s.Exists()
	if err != nil {
		return nil, false, err
	}
	if ok {
		roots, err = Load(s.fs, s.path)
		return roots, false, err
	}

	unlock, err := s.lock()
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	// Another process may have won the race while we waited for the lock.
	if ok, err := s.Exists(); err != nil {
		return nil, false, err
	} else if ok {
		roots, err = Load(s.fs, s.path)
		return roots, false, err
	}

	roots = DefaultRoots()
	if err := Save(s.fs, s.path, roots); err != nil {
		return nil, false, err
	}
	return roots, true, nil
}

// DefaultRoot returns the configured root directory for dataset, unexpanded.
func (s *Store) DefaultRoot(dataset string) (string, error) {
	roots, _, err := s.Ensure()
	if err != nil {
		return "", err
	}
	root, ok := roots[dataset]
	if !ok {
		return "", fmt.Errorf("config file %s: %w %q", s.path, ErrMissingEntry, dataset)
	}
	return root, nil
}

// Set updates the root directory for dataset and saves the file. The file is
// read and written under the lock so concurrent updates are not lost.
func (s *Store) Set(dataset, root string) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	roots := DefaultRoots()
	if ok, err := s.Exists(); err != nil {
		return err
	} else if ok {
		if roots, err = Load(s.fs, s.path); err != nil {
			return err
		}
	}
	roots[dataset] = root
	return Save(s.fs, s.path, roots)
}

func (s *Store) lock() (func(), error) {
	if s.lockTimeout == 0 {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return func() {}, fmt.Errorf("cannot create %s: %w", filepath.Dir(s.path), err)
	}
	lockPath := s.path + ".lock"
	l := flock.New(lockPath)
	deadline := time.Now().Add(s.lockTimeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire config lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("config is locked by another process (lock: %s)", lockPath)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
