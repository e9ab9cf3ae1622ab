package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/api"
	"vtruck/internal/api/apitest"
	"vtruck/internal/domain"
	"vtruck/internal/services/auth"
	"vtruck/internal/services/settings"
	"vtruck/internal/validate"
)

const phone = "9876543210"

func newService(t *testing.T) (*auth.Service, *apitest.Server, *apitest.MemorySessions) {
	t.Helper()
	srv := apitest.New(t)
	sessions := &apitest.MemorySessions{}
	client := srv.NewClient(t, sessions)
	return auth.New(client, sessions, settings.New(client, nil), nil), srv, sessions
}

func TestLoginPassword(t *testing.T) {
	svc, srv, sessions := newService(t)
	srv.AddUser(phone, "secret", domain.RoleTransporter, domain.KYCVerified)

	dest, err := svc.LoginPassword(context.Background(), " "+phone+" ", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.DestTransporterTabs, dest)

	sess, ok, err := sessions.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.RoleTransporter, sess.Role)
	assert.Equal(t, phone, sess.Phone)
	assert.NotEmpty(t, sess.Token)
	assert.NotZero(t, sess.CreatedUTC)
}

func TestLoginPassword_Validation(t *testing.T) {
	svc, srv, _ := newService(t)

	_, err := svc.LoginPassword(context.Background(), "12345", "   ")
	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.Has("phone"))
	assert.True(t, errs.Has("password"))
	assert.Empty(t, srv.Requests())
}

func TestLoginPassword_Rejected(t *testing.T) {
	svc, srv, sessions := newService(t)
	srv.AddUser(phone, "secret", domain.RoleShipper, domain.KYCVerified)

	_, err := svc.LoginPassword(context.Background(), phone, "wrong")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	_, ok, _ := sessions.LoadSession()
	assert.False(t, ok)
}

func TestLogin_FollowsSettings(t *testing.T) {
	svc, srv, _ := newService(t)
	srv.AddUser(phone, "secret", domain.RoleDriver, domain.KYCVerified)

	res, err := svc.Login(context.Background(), phone, "", domain.LoginAuto)
	require.NoError(t, err)
	assert.True(t, res.OTPSent)
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/request-otp"))
	assert.Zero(t, srv.Calls(http.MethodPost, "/login"))
}

func TestLogin_PasswordWhenOTPDisabled(t *testing.T) {
	svc, srv, _ := newService(t)
	srv.SetSettings(domain.AppSettings{OTPAuth: "0"})
	srv.AddUser(phone, "secret", domain.RoleDriver, domain.KYCVerified)

	res, err := svc.Login(context.Background(), phone, "secret", domain.LoginAuto)
	require.NoError(t, err)
	assert.False(t, res.OTPSent)
	assert.Equal(t, domain.DestDriverHome, res.Destination)
}

func TestVerifyOTP(t *testing.T) {
	svc, srv, sessions := newService(t)
	srv.AddUser(phone, "secret", domain.RoleShipper, domain.KYCVerified)
	ctx := context.Background()

	_, err := svc.VerifyOTP(ctx, phone, "12ab")
	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.Has("otp"))

	_, err = svc.VerifyOTP(ctx, phone, "000000")
	assert.True(t, api.IsUnauthorized(err))

	dest, err := svc.VerifyOTP(ctx, phone, apitest.DefaultOTP)
	require.NoError(t, err)
	assert.Equal(t, domain.DestShipperTabs, dest)
	_, ok, _ := sessions.LoadSession()
	assert.True(t, ok)
}

func TestSignup(t *testing.T) {
	svc, srv, _ := newService(t)

	err := svc.Signup(context.Background(), domain.SignupForm{
		Name: "  Asha ", Phone: phone, Email: "", Password: "pw", ConfirmPassword: "pw", UserType: "Driver",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/register"))
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/request-otp"))

	req, _ := srv.Last(http.MethodPost, "/register")
	assert.Contains(t, string(req.Body), `"name":"Asha"`)
	assert.Contains(t, string(req.Body), `"user_type":"driver"`)
}

func TestSignup_Validation(t *testing.T) {
	svc, srv, _ := newService(t)

	err := svc.Signup(context.Background(), domain.SignupForm{
		Phone: "98765", Email: "not-an-email", Password: "a", ConfirmPassword: "b", UserType: "pilot",
	})
	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	for _, field := range []string{"name", "phone", "email", "user_type", "confirm_password"} {
		assert.True(t, errs.Has(field), field)
	}
	assert.Empty(t, srv.Requests())
}

func TestSignup_ServerFieldErrors(t *testing.T) {
	svc, srv, _ := newService(t)
	srv.AddUser(phone, "secret", domain.RoleShipper, domain.KYCNone)

	err := svc.Signup(context.Background(), domain.SignupForm{
		Name: "Asha", Phone: phone, Password: "pw", ConfirmPassword: "pw", UserType: "shipper",
	})
	require.True(t, api.IsValidation(err))
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "• The phone has already been taken.", apiErr.Detail())
	assert.Zero(t, srv.Calls(http.MethodPost, "/request-otp"))
}

func TestRestore(t *testing.T) {
	svc, srv, sessions := newService(t)
	ctx := context.Background()

	_, err := svc.Restore(ctx)
	assert.ErrorIs(t, err, auth.ErrNotLoggedIn)

	tok := srv.AddUser(phone, "secret", domain.RoleDriver, domain.KYCVerified)
	require.NoError(t, sessions.SaveSession(domain.Session{Token: tok, Role: domain.RoleDriver}))
	dest, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DestDriverHome, dest)
}

func TestRestore_ExpiredClearsSession(t *testing.T) {
	svc, _, sessions := newService(t)
	require.NoError(t, sessions.SaveSession(domain.Session{Token: "stale", Role: domain.RoleShipper}))

	_, err := svc.Restore(context.Background())
	assert.ErrorIs(t, err, auth.ErrSessionExpired)
	_, ok, _ := sessions.LoadSession()
	assert.False(t, ok)
}

func TestRestore_MissingRole(t *testing.T) {
	svc, srv, sessions := newService(t)
	require.NoError(t, sessions.SaveSession(domain.Session{Token: "tok"}))

	_, err := svc.Restore(context.Background())
	assert.ErrorIs(t, err, auth.ErrNotLoggedIn)
	assert.Empty(t, srv.Requests())
}

func TestProfileAndLogout(t *testing.T) {
	svc, srv, _ := newService(t)
	srv.AddUser(phone, "secret", domain.RoleShipper, domain.KYCPending)
	ctx := context.Background()

	_, err := svc.LoginPassword(ctx, phone, "secret")
	require.NoError(t, err)
	p, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCPending, p.KYC())

	require.NoError(t, svc.Logout())
	_, err = svc.Profile(ctx)
	assert.ErrorIs(t, err, api.ErrNoSession)
}
