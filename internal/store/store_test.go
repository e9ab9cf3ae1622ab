package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/domain"
	"vtruck/internal/store"
)

func TestSession_PlainRoundTrip(t *testing.T) {
	home := t.TempDir()
	var ss domain.SessionStore = store.NewSessionFileStore(home, "")

	_, ok, err := ss.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.Session{Token: "tok", Role: domain.RoleDriver, Phone: "9876543210", CreatedUTC: 1}
	require.NoError(t, ss.SaveSession(want))

	got, ok, err := ss.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	info, err := os.Stat(filepath.Join(home, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, ss.ClearSession())
	_, ok, err = ss.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, ss.ClearSession(), "clearing twice is fine")
}

func TestSession_Sealed(t *testing.T) {
	home := t.TempDir()
	sealed := store.NewSessionFileStore(home, "correct horse")

	want := domain.Session{Token: "secret-token", Role: domain.RoleShipper}
	require.NoError(t, sealed.SaveSession(want))

	raw, err := os.ReadFile(filepath.Join(home, "session.sealed"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")
	_, err = os.Stat(filepath.Join(home, "session.json"))
	assert.True(t, os.IsNotExist(err))

	got, ok, err := sealed.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, _, err = store.NewSessionFileStore(home, "wrong").LoadSession()
	assert.ErrorIs(t, err, store.ErrWrongPassphrase)

	_, _, err = store.NewSessionFileStore(home, "").LoadSession()
	assert.ErrorIs(t, err, store.ErrPassphraseRequired)
}

func TestDrafts_RoundTrip(t *testing.T) {
	home := t.TempDir()
	ds := store.NewDraftFileStore(home)

	drafts, err := ds.LoadDrafts()
	require.NoError(t, err)
	assert.Empty(t, drafts)

	want := []domain.DraftLoad{{ID: "2", From: "Indore", To: "Pune"}, {ID: "1", From: "Surat", To: "Delhi"}}
	require.NoError(t, ds.SaveDrafts(want))

	got, err := ds.LoadDrafts()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(filepath.Join(home, store.DraftsKey+".json"))
	assert.NoError(t, err)
}

func TestDrafts_CorruptFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, store.DraftsKey+".json"), []byte("{not json"), 0o600))

	_, err := store.NewDraftFileStore(home).LoadDrafts()
	assert.ErrorIs(t, err, store.ErrCorrupt)
}

func TestPreferences(t *testing.T) {
	home := t.TempDir()
	ps := store.NewPreferenceFileStore(home)

	_, ok, err := ps.Get(store.PrefLanguage)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ps.Set(store.PrefLanguage, "hi"))
	require.NoError(t, ps.Set(store.PrefSelectedVehicle, "12"))

	v, ok, err := store.NewPreferenceFileStore(home).Get(store.PrefLanguage)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hi", v)

	require.NoError(t, ps.Delete(store.PrefSelectedVehicle))
	_, ok, err = ps.Get(store.PrefSelectedVehicle)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, ps.Delete("missing"))
}

func TestPreferences_NullFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "prefs.json"), []byte("null"), 0o600))
	ps := store.NewPreferenceFileStore(home)

	require.NoError(t, ps.Set(store.PrefLanguage, "hi"))
	v, ok, err := ps.Get(store.PrefLanguage)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hi", v)
}
