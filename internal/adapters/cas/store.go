// Package cas persists content signatures between build invocations.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SignatureStore = (*Store)(nil)

var errNotOpen = zerr.New("signature store is not open")

// Store implements ports.SignatureStore using a flat JSON file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.SignatureRecord

	// writeMu orders saves so that the last snapshot taken is the last written.
	writeMu sync.Mutex
}

// New creates a store that is not backed by a file yet. Get misses and Put
// fails until Open is called.
func New() *Store {
	return &Store{cache: make(map[string]domain.SignatureRecord)}
}

// NewStore creates a new SignatureStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := New()
	if err := s.Open(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Open backs the store with the file at path and loads its records. Records
// held for a previously opened file are dropped.
func (s *Store) Open(path string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.path = filepath.Clean(path)
	s.cache = make(map[string]domain.SignatureRecord)
	return s.load()
}

// load must be called with mu held.
func (s *Store) load() error {

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read signature store"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal signature store"), "path", s.path)
	}

	return nil
}

// save writes the whole store through a temporary file so a reader never
// sees a half-written file.
func (s *Store) save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.path == "" {
		return errNotOpen
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal signature store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory for signature store")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary signature file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write signature store")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to write signature store")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace signature store"), "path", s.path)
	}

	return nil
}

// Get retrieves the record stored under key.
func (s *Store) Get(key string) (*domain.SignatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cache[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put stores rec and persists the store.
func (s *Store) Put(rec domain.SignatureRecord) error {
	s.mu.Lock()
	s.cache[rec.Key] = rec
	s.mu.Unlock()

	return s.save()
}
