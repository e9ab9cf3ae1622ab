package app_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/api/apitest"
	"vtruck/internal/app"
	"vtruck/internal/domain"
)

func TestNewWire_LogsInAgainstBackend(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("9876543210", "secret", domain.RoleShipper, domain.KYCVerified)
	srv.SetSettings(domain.AppSettings{OTPAuth: "0", Currency: "INR"})

	home := t.TempDir()
	t.Setenv("VTRUCK_API_BASE_URL", srv.URL)
	t.Setenv("VTRUCK_API_BASIC_USER", apitest.BasicUser)
	t.Setenv("VTRUCK_API_BASIC_PASSWORD", apitest.BasicPassword)
	cfg, err := app.Load(home, "")
	require.NoError(t, err)
	var logs bytes.Buffer
	cfg.LogWriter = &logs

	w, err := app.NewWire(cfg)
	require.NoError(t, err)
	defer w.Close()

	res, err := w.Auth.Login(context.Background(), "9876543210", "secret", domain.LoginAuto)
	require.NoError(t, err)
	assert.Equal(t, domain.DestShipperTabs, res.Destination)

	session, ok, err := w.Sessions.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.RoleShipper, session.Role)
}
