package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vtruck/internal/domain"
	"vtruck/internal/services/auth"
)

// login --phone <p> [--password <pw>] [--mode auto|password|otp]
func (c *cli) loginCmd() *cobra.Command {
	var phone, password, mode string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a password or a one-time password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := domain.LoginMode(mode)
			switch m {
			case domain.LoginAuto, domain.LoginPassword, domain.LoginOTP:
			default:
				return fmt.Errorf("unknown login mode %q", mode)
			}
			res, err := c.wire.Auth.Login(cmd.Context(), phone, password, m)
			if err != nil {
				return err
			}
			if res.OTPSent {
				c.say("login.otp_sent", phone)
				return nil
			}
			c.say("login.ok", c.p.T("dest."+string(res.Destination)))
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&mode, "mode", "", "login mode: password or otp (default from app settings)")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

// otp verify --phone <p> --otp <code>
func (c *cli) otpCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "otp", Short: "One-time password login"}

	var phone, code string
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Finish a login with the code sent by SMS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest, err := c.wire.Auth.VerifyOTP(cmd.Context(), phone, code)
			if err != nil {
				return err
			}
			c.say("login.ok", c.p.T("dest."+string(dest)))
			return nil
		},
	}
	verify.Flags().StringVar(&phone, "phone", "", "10 digit phone number")
	verify.Flags().StringVar(&code, "otp", "", "6 digit code")
	_ = verify.MarkFlagRequired("phone")
	_ = verify.MarkFlagRequired("otp")

	send := &cobra.Command{
		Use:   "send",
		Short: "Send a new code to a phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.wire.Auth.RequestOTP(cmd.Context(), phone); err != nil {
				return err
			}
			c.say("login.otp_sent", phone)
			return nil
		},
	}
	send.Flags().StringVar(&phone, "phone", "", "10 digit phone number")
	_ = send.MarkFlagRequired("phone")

	cmd.AddCommand(verify, send)
	return cmd
}

// signup --name --phone --password --confirm --role [--email]
func (c *cli) signupCmd() *cobra.Command {
	var form domain.SignupForm
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.wire.Auth.Signup(cmd.Context(), form); err != nil {
				return err
			}
			c.say("signup.ok", form.Phone)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "full name")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address (optional)")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm", "", "repeat the password")
	cmd.Flags().StringVar(&form.UserType, "role", "", "shipper, driver or transporter")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := c.wire.Auth.Logout(); err != nil {
				return err
			}
			c.say("logout.ok")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, ok, err := c.wire.Auth.Session()
			if err != nil {
				return err
			}
			if !ok {
				return auth.ErrNotLoggedIn
			}
			profile, err := c.wire.Auth.Profile(cmd.Context())
			if err != nil {
				return err
			}
			t := c.table("col.field", "col.value")
			t.row(c.p.T("field.name"), orDash(profile.User.Name))
			t.row(c.p.T("field.phone"), orDash(profile.User.Phone.String()))
			t.row(c.p.T("field.email"), orDash(profile.User.Email))
			t.row(c.p.T("field.role"), c.p.T("role."+session.Role.String()))
			t.row(c.p.T("field.kyc"), c.p.T(kycKey(profile.KYC())))
			t.flush()
			return nil
		},
	}
}

// status restores the saved session the way the app's splash screen does.
func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the saved session and show where it lands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest, err := c.wire.Auth.Restore(cmd.Context())
			if errors.Is(err, auth.ErrNotLoggedIn) {
				c.say("status.logged_out")
				return nil
			}
			if err != nil {
				return err
			}
			c.say("status.home", c.p.T("dest."+string(dest)))
			return nil
		},
	}
}

func (c *cli) settingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the app configuration published by the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.wire.Settings.Settings(cmd.Context())
			if err != nil {
				return err
			}
			t := c.table("col.field", "col.value")
			t.row(c.p.T("field.webname"), orDash(s.WebName))
			t.row(c.p.T("field.currency"), orDash(s.Currency))
			t.row(c.p.T("field.timezone"), orDash(s.Timezone))
			t.row(c.p.T("field.otp_login"), c.p.T(yesNo(s.OTPEnabled())))
			t.row(c.p.T("field.dark_mode"), c.p.T(yesNo(s.DarkMode())))
			t.flush()
			return nil
		},
	}
}

func kycKey(s domain.KYCStatus) string {
	switch s {
	case domain.KYCVerified:
		return "kyc.verified"
	case domain.KYCPending:
		return "kyc.pending"
	case domain.KYCRejected:
		return "kyc.rejected"
	}
	return "kyc.unverified"
}

func yesNo(b bool) string {
	if b {
		return "common.yes"
	}
	return "common.no"
}
