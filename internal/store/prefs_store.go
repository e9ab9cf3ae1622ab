package store

import (
	"path/filepath"
	"sync"

	"vtruck/internal/domain"
)

const prefsFilename = "prefs.json"

// Preference keys, re-exported for callers that only import store.
const (
	PrefLanguage        = domain.PrefLanguage
	PrefSelectedVehicle = domain.PrefSelectedVehicle
)

// PreferenceFileStore persists string preferences in a single JSON object.
type PreferenceFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPreferenceFileStore returns a PreferenceFileStore rooted at dir.
func NewPreferenceFileStore(dir string) *PreferenceFileStore {
	return &PreferenceFileStore{dir: dir}
}

// Get returns the value stored under key.
func (s *PreferenceFileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := prefs[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *PreferenceFileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.read()
	if err != nil {
		return err
	}
	prefs[key] = value
	return writeJSON(s.path(), prefs, 0o600)
}

// Delete removes key.
func (s *PreferenceFileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := prefs[key]; !ok {
		return nil
	}
	delete(prefs, key)
	return writeJSON(s.path(), prefs, 0o600)
}

func (s *PreferenceFileStore) read() (map[string]string, error) {
	prefs := map[string]string{}
	if _, err := readJSON(s.path(), &prefs); err != nil {
		return nil, err
	}
	if prefs == nil {
		// a file holding null decodes to a nil map
		prefs = map[string]string{}
	}
	return prefs, nil
}

func (s *PreferenceFileStore) path() string { return filepath.Join(s.dir, prefsFilename) }

// Compile-time assertion that PreferenceFileStore implements domain.PreferenceStore.
var _ domain.PreferenceStore = (*PreferenceFileStore)(nil)
