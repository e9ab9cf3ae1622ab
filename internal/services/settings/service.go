package settings

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"vtruck/internal/domain"
)

// Service caches GET /settings for the life of the process.
type Service struct {
	api domain.AuthAPI
	log *zap.Logger

	mu     sync.Mutex
	cached *domain.AppSettings
}

// New constructs a settings Service.
func New(api domain.AuthAPI, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, log: log.Named("settings")}
}

// Settings returns the cached settings, fetching them on first use. A failed
// fetch is not cached.
func (s *Service) Settings(ctx context.Context) (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached, nil
	}
	got, err := s.api.Settings(ctx)
	if err != nil {
		s.log.Warn("fetch settings failed", zap.Error(err))
		return domain.AppSettings{}, fmt.Errorf("fetch settings: %w", err)
	}
	s.cached = &got
	return got, nil
}

// OTPEnabled reports whether login should use OTP. It is true when the
// settings cannot be loaded.
func (s *Service) OTPEnabled(ctx context.Context) bool {
	got, err := s.Settings(ctx)
	if err != nil {
		return true
	}
	return got.OTPEnabled()
}

// Compile-time assertion that Service implements domain.SettingsService.
var _ domain.SettingsService = (*Service)(nil)
