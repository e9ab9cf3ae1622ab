package interfaces

import domaintypes "vtruck/internal/domain/types"

// SessionStore persists the login session.
type SessionStore interface {
	SaveSession(s domaintypes.Session) error
	LoadSession() (domaintypes.Session, bool, error)
	ClearSession() error
}

// DraftStore persists loads kept on this device.
type DraftStore interface {
	LoadDrafts() ([]domaintypes.DraftLoad, error)
	SaveDrafts(drafts []domaintypes.DraftLoad) error
}

// PreferenceStore persists small user preferences.
type PreferenceStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
