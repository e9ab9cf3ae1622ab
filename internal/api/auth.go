package api

import (
	"context"
	"net/http"
	"net/url"

	"vtruck/internal/domain"
)

// Settings fetches the remotely managed application configuration.
func (c *HTTPClient) Settings(ctx context.Context) (domain.AppSettings, error) {
	raw, err := c.do(ctx, request{method: http.MethodGet, route: "/settings", path: "/settings", auth: authBasic})
	if err != nil {
		return domain.AppSettings{}, err
	}
	var s domain.AppSettings
	return s, decodeObject(raw, &s)
}

// Login exchanges a phone and password for a session token. The backend
// expects a form-encoded body here.
func (c *HTTPClient) Login(ctx context.Context, creds domain.Credentials) (domain.AuthToken, error) {
	form := url.Values{}
	form.Set("phone", creds.Phone)
	form.Set("password", creds.Password)
	raw, err := c.do(ctx, request{
		method: http.MethodPost, route: "/login", path: "/login",
		auth: authBasic, body: formBody(form),
	})
	if err != nil {
		return domain.AuthToken{}, err
	}
	var tok domain.AuthToken
	return tok, decodeObject(raw, &tok)
}

// RequestOTP asks the backend to text a one-time password to phone.
func (c *HTTPClient) RequestOTP(ctx context.Context, phone string) error {
	b, err := jsonBody(map[string]string{"phone": phone})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodPost, route: "/request-otp", path: "/request-otp", auth: authBasic, body: b})
	return err
}

// VerifyOTP exchanges a phone and one-time password for a session token.
func (c *HTTPClient) VerifyOTP(ctx context.Context, req domain.OTPVerification) (domain.AuthToken, error) {
	b, err := jsonBody(req)
	if err != nil {
		return domain.AuthToken{}, err
	}
	raw, err := c.do(ctx, request{method: http.MethodPost, route: "/verify-otp", path: "/verify-otp", auth: authBasic, body: b})
	if err != nil {
		return domain.AuthToken{}, err
	}
	var tok domain.AuthToken
	return tok, decodeObject(raw, &tok)
}

// Register creates an account.
func (c *HTTPClient) Register(ctx context.Context, reg domain.Registration) error {
	b, err := jsonBody(reg)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodPost, route: "/register", path: "/register", auth: authBasic, body: b})
	return err
}

// Me returns the logged-in account.
func (c *HTTPClient) Me(ctx context.Context) (domain.Profile, error) {
	raw, err := c.do(ctx, request{method: http.MethodGet, route: "/me", path: "/me", auth: authBearer})
	if err != nil {
		return domain.Profile{}, err
	}
	var p domain.Profile
	return p, decodeObject(raw, &p)
}
