package store

import (
	"fmt"
	"path/filepath"
	"sync"

	"vtruck/internal/domain"
)

// DraftsKey is the storage key of the device-local load list.
const DraftsKey = "VTRUCK_LOADS"

// DraftFileStore persists loads kept on this device.
type DraftFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewDraftFileStore returns a DraftFileStore rooted at dir.
func NewDraftFileStore(dir string) *DraftFileStore {
	return &DraftFileStore{dir: dir}
}

// LoadDrafts returns every stored draft, newest first.
func (s *DraftFileStore) LoadDrafts() ([]domain.DraftLoad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var drafts []domain.DraftLoad
	if _, err := readJSON(s.path(), &drafts); err != nil {
		return nil, fmt.Errorf("read %s: %w", DraftsKey, err)
	}
	return drafts, nil
}

// SaveDrafts replaces the stored drafts.
func (s *DraftFileStore) SaveDrafts(drafts []domain.DraftLoad) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if drafts == nil {
		drafts = []domain.DraftLoad{}
	}
	return writeJSON(s.path(), drafts, 0o600)
}

func (s *DraftFileStore) path() string { return filepath.Join(s.dir, DraftsKey+".json") }

// Compile-time assertion that DraftFileStore implements domain.DraftStore.
var _ domain.DraftStore = (*DraftFileStore)(nil)
