package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"

	"vtruck/internal/domain"
)

const (
	sessionFilename       = "session.json"
	sealedSessionFilename = "session.sealed"
)

// ErrPassphraseRequired is returned when only a sealed session exists and no
// passphrase was configured.
var ErrPassphraseRequired = errors.New("session is sealed: passphrase required")

// SessionFileStore persists the login session. With a passphrase the session
// is sealed with scrypt and ChaCha20-Poly1305, otherwise it is plain JSON.
type SessionFileStore struct {
	dir        string
	passphrase string
	params     kdf
	mu         sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir. An empty
// passphrase stores the session unsealed.
func NewSessionFileStore(dir, passphrase string) *SessionFileStore {
	return &SessionFileStore{dir: dir, passphrase: passphrase, params: defaultKDF}
}

// SaveSession replaces the stored session.
func (s *SessionFileStore) SaveSession(session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.passphrase == "" {
		if err := writeJSON(s.path(sessionFilename), session, 0o600); err != nil {
			return err
		}
		return removeFile(s.path(sealedSessionFilename))
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	sealed, err := seal(s.passphrase, raw, s.params)
	if err != nil {
		return err
	}
	if err := writeFile(s.path(sealedSessionFilename), sealed, 0o600); err != nil {
		return err
	}
	return removeFile(s.path(sessionFilename))
}

// LoadSession returns the stored session, if any.
func (s *SessionFileStore) LoadSession() (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := readFile(s.path(sealedSessionFilename))
	if err != nil {
		return domain.Session{}, false, err
	}
	if sealed != nil {
		if s.passphrase == "" {
			return domain.Session{}, false, ErrPassphraseRequired
		}
		raw, err := open(s.passphrase, sealed)
		if err != nil {
			return domain.Session{}, false, err
		}
		var session domain.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return domain.Session{}, false, err
		}
		return session, true, nil
	}

	var session domain.Session
	ok, err := readJSON(s.path(sessionFilename), &session)
	if err != nil || !ok {
		return domain.Session{}, false, err
	}
	return session, true, nil
}

// ClearSession forgets the stored session.
func (s *SessionFileStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := removeFile(s.path(sessionFilename)); err != nil {
		return err
	}
	return removeFile(s.path(sealedSessionFilename))
}

func (s *SessionFileStore) path(name string) string { return filepath.Join(s.dir, name) }

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)
