package drafts

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vtruck/internal/domain"
)

// ErrNotFound is returned when no draft carries the given id.
var ErrNotFound = errors.New("draft not found")

// Service adds, edits and removes device-local loads.
type Service struct {
	store domain.DraftStore
	log   *zap.Logger
	newID func() string
}

// New constructs a drafts Service.
func New(store domain.DraftStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("drafts"), newID: uuid.NewString}
}

// List returns the drafts. An unreadable list is logged and reported empty.
func (s *Service) List() ([]domain.DraftLoad, error) {
	drafts, err := s.store.LoadDrafts()
	if errors.Is(err, domain.ErrCorruptStore) {
		s.log.Warn("discarding unreadable drafts", zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

// Add stores d under a fresh id at the front of the list.
func (s *Service) Add(d domain.DraftLoad) (domain.DraftLoad, error) {
	drafts, err := s.List()
	if err != nil {
		return domain.DraftLoad{}, err
	}
	d = trim(d)
	d.ID = s.newID()
	if err := s.store.SaveDrafts(append([]domain.DraftLoad{d}, drafts...)); err != nil {
		return domain.DraftLoad{}, fmt.Errorf("save drafts: %w", err)
	}
	return d, nil
}

// Edit replaces the draft with d's id.
func (s *Service) Edit(d domain.DraftLoad) error {
	drafts, err := s.List()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(drafts, func(x domain.DraftLoad) bool { return x.ID == d.ID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, d.ID)
	}
	drafts[i] = trim(d)
	if err := s.store.SaveDrafts(drafts); err != nil {
		return fmt.Errorf("save drafts: %w", err)
	}
	return nil
}

// Delete removes the draft with id.
func (s *Service) Delete(id string) error {
	drafts, err := s.List()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(slices.Clone(drafts), func(x domain.DraftLoad) bool { return x.ID == id })
	if len(kept) == len(drafts) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.store.SaveDrafts(kept); err != nil {
		return fmt.Errorf("save drafts: %w", err)
	}
	return nil
}

// Get returns the draft with id.
func (s *Service) Get(id string) (domain.DraftLoad, error) {
	drafts, err := s.List()
	if err != nil {
		return domain.DraftLoad{}, err
	}
	for _, d := range drafts {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.DraftLoad{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func trim(d domain.DraftLoad) domain.DraftLoad {
	return domain.DraftLoad{
		ID:     d.ID,
		From:   strings.TrimSpace(d.From),
		To:     strings.TrimSpace(d.To),
		Date:   strings.TrimSpace(d.Date),
		Type:   strings.TrimSpace(d.Type),
		Weight: strings.TrimSpace(d.Weight),
	}
}

// Compile-time assertion that Service implements domain.DraftService.
var _ domain.DraftService = (*Service)(nil)
