package apitest

import (
	"sync"
	"testing"
	"time"

	"vtruck/internal/api"
	"vtruck/internal/domain"
)

// MemorySessions is an in-memory domain.SessionStore.
type MemorySessions struct {
	mu      sync.Mutex
	session domain.Session
	ok      bool
}

// SaveSession stores s.
func (m *MemorySessions) SaveSession(s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session, m.ok = s, true
	return nil
}

// LoadSession returns the stored session, if any.
func (m *MemorySessions) LoadSession() (domain.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.ok, nil
}

// ClearSession forgets the stored session.
func (m *MemorySessions) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session, m.ok = domain.Session{}, false
	return nil
}

// SessionFor returns a store already holding a session for token.
func SessionFor(token string, role domain.Role) *MemorySessions {
	m := &MemorySessions{}
	_ = m.SaveSession(domain.Session{Token: token, Role: role, CreatedUTC: time.Now().UTC().Unix()})
	return m
}

// NewClient builds an API client pointed at s with fast retries.
func (s *Server) NewClient(t testing.TB, sessions domain.SessionStore) *api.HTTPClient {
	t.Helper()
	c, err := api.NewHTTP(api.Config{
		BaseURL:       s.URL,
		BasicUser:     BasicUser,
		BasicPassword: BasicPassword,
		Timeout:       5 * time.Second,
		Retry: api.RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
			Multiplier: 2,
		},
		Sessions: sessions,
	})
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	return c
}
