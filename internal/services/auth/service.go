package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vtruck/internal/domain"
	"vtruck/internal/validate"
)

var (
	// ErrNotLoggedIn is returned by Restore when no usable session is stored.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired is returned by Restore when the backend rejects the
	// stored session. The session has been cleared.
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrIncompleteLogin is returned when a login response lacks a token or role.
	ErrIncompleteLogin = errors.New("login response is missing token or role")
)

// Service authenticates against the backend and owns the stored session.
type Service struct {
	api      domain.AuthAPI
	sessions domain.SessionStore
	settings domain.SettingsService
	log      *zap.Logger
	now      func() time.Time
}

// New constructs an auth Service. settings may be nil, in which case Login
// in auto mode uses OTP.
func New(
	api domain.AuthAPI,
	sessions domain.SessionStore,
	settings domain.SettingsService,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		api:      api,
		sessions: sessions,
		settings: settings,
		log:      log.Named("auth"),
		now:      time.Now,
	}
}

// Login starts a login for phone. In auto mode the app settings decide
// between OTP and password. An OTP login only requests the code; finish it
// with VerifyOTP.
func (s *Service) Login(ctx context.Context, phone, password string, mode domain.LoginMode) (domain.LoginResult, error) {
	if mode == domain.LoginAuto {
		mode = domain.LoginPassword
		if s.settings == nil || s.settings.OTPEnabled(ctx) {
			mode = domain.LoginOTP
		}
	}
	switch mode {
	case domain.LoginOTP:
		if err := s.RequestOTP(ctx, phone); err != nil {
			return domain.LoginResult{}, err
		}
		return domain.LoginResult{OTPSent: true}, nil
	case domain.LoginPassword:
		dest, err := s.LoginPassword(ctx, phone, password)
		if err != nil {
			return domain.LoginResult{}, err
		}
		return domain.LoginResult{Destination: dest}, nil
	default:
		return domain.LoginResult{}, fmt.Errorf("unknown login mode %q", mode)
	}
}

// LoginPassword logs in with phone and password.
//
// Steps:
//  1. Validate a 10 digit phone and a non-blank password.
//  2. POST /login with the app credentials.
//  3. Persist the returned token; a missing role means shipper.
func (s *Service) LoginPassword(ctx context.Context, phone, password string) (domain.Destination, error) {
	creds := domain.Credentials{Phone: strings.TrimSpace(phone), Password: password}
	check := creds
	check.Password = strings.TrimSpace(password)
	if err := validate.Struct(check); err != nil {
		return "", err
	}

	tok, err := s.api.Login(ctx, creds)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if tok.Token == "" {
		return "", ErrIncompleteLogin
	}
	role := domain.RoleShipper
	if tok.Role != "" {
		if role, err = domain.ParseRole(tok.Role); err != nil {
			return "", fmt.Errorf("login: %w", err)
		}
	}
	return s.establish(tok.Token, role, creds.Phone)
}

// RequestOTP asks the backend to text a one-time password to phone.
func (s *Service) RequestOTP(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if !validate.Phone(phone) {
		var errs validate.Errors
		errs.Add("phone", "Must be a 10 digit phone number")
		return errs
	}
	if err := s.api.RequestOTP(ctx, phone); err != nil {
		return fmt.Errorf("request otp: %w", err)
	}
	s.log.Debug("otp requested")
	return nil
}

// VerifyOTP exchanges the code for a session. Both token and role must be
// present in the response.
func (s *Service) VerifyOTP(ctx context.Context, phone, otp string) (domain.Destination, error) {
	req := domain.OTPVerification{Phone: strings.TrimSpace(phone), OTP: strings.TrimSpace(otp)}
	if err := validate.Struct(req); err != nil {
		return "", err
	}
	tok, err := s.api.VerifyOTP(ctx, req)
	if err != nil {
		return "", fmt.Errorf("verify otp: %w", err)
	}
	if tok.Token == "" || tok.Role == "" {
		return "", ErrIncompleteLogin
	}
	role, err := domain.ParseRole(tok.Role)
	if err != nil {
		return "", fmt.Errorf("verify otp: %w", err)
	}
	return s.establish(tok.Token, role, req.Phone)
}

// Signup registers an account and sends the first OTP.
func (s *Service) Signup(ctx context.Context, form domain.SignupForm) error {
	reg := domain.Registration{
		Name:     strings.TrimSpace(form.Name),
		Phone:    strings.TrimSpace(form.Phone),
		Email:    strings.TrimSpace(form.Email),
		Password: strings.TrimSpace(form.Password),
		UserType: domain.Role(strings.ToLower(strings.TrimSpace(form.UserType))),
	}
	confirm := strings.TrimSpace(form.ConfirmPassword)

	var extra validate.Errors
	switch {
	case confirm == "":
		extra.Add("confirm_password", "This field is required")
	case reg.Password != "" && confirm != reg.Password:
		extra.Add("confirm_password", "Passwords do not match")
	}
	if err := validate.Merge(validate.Struct(reg), extra); err != nil {
		return err
	}

	if err := s.api.Register(ctx, reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.log.Info("registered", zap.String("role", reg.UserType.String()))
	return s.RequestOTP(ctx, reg.Phone)
}

// Restore checks the stored session against the backend and returns the
// home destination for its role.
//
// Steps:
//  1. Load the session; no token or role means ErrNotLoggedIn.
//  2. GET /me with the stored token.
//  3. On any failure clear the session and report ErrSessionExpired.
func (s *Service) Restore(ctx context.Context) (domain.Destination, error) {
	sess, ok, err := s.sessions.LoadSession()
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !ok || !sess.Valid() {
		return "", ErrNotLoggedIn
	}
	if _, err := s.api.Me(ctx); err != nil {
		s.log.Info("stored session rejected", zap.Error(err))
		if clearErr := s.sessions.ClearSession(); clearErr != nil {
			return "", fmt.Errorf("clear session: %w", clearErr)
		}
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return domain.HomeFor(sess.Role)
}

// Session returns the stored session.
func (s *Service) Session() (domain.Session, bool, error) {
	return s.sessions.LoadSession()
}

// Profile fetches the signed-in user and their KYC status.
func (s *Service) Profile(ctx context.Context) (domain.Profile, error) {
	p, err := s.api.Me(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile: %w", err)
	}
	return p, nil
}

// Logout forgets the stored session.
func (s *Service) Logout() error {
	return s.sessions.ClearSession()
}

func (s *Service) establish(token string, role domain.Role, phone string) (domain.Destination, error) {
	dest, err := domain.HomeFor(role)
	if err != nil {
		return "", err
	}
	sess := domain.Session{Token: token, Role: role, Phone: phone, CreatedUTC: s.now().UTC().Unix()}
	if err := s.sessions.SaveSession(sess); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	s.log.Info("logged in", zap.String("role", role.String()))
	return dest, nil
}

// Compile-time assertion that Service implements domain.AuthService.
var _ domain.AuthService = (*Service)(nil)
