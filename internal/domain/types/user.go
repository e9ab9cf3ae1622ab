package types

// User is the account record returned by /me and embedded in bids.
type User struct {
	ID       ID        `json:"id"`
	Name     string    `json:"name"`
	Phone    Text      `json:"phone"`
	Email    string    `json:"email,omitempty"`
	Status   KYCStatus `json:"status,omitempty"`
	UserType string    `json:"user_type,omitempty"`
}

// Profile is the /me payload.
type Profile struct {
	User      User      `json:"user"`
	KYCStatus KYCStatus `json:"kyc_status"`
}

// KYC returns the effective verification status. Some accounts only carry it
// on the user record.
func (p Profile) KYC() KYCStatus {
	if p.KYCStatus != "" {
		return p.KYCStatus
	}
	return p.User.Status
}

// AppSettings is the remotely managed application configuration.
type AppSettings struct {
	WebName  string `json:"webname"`
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
	OTPAuth  Text   `json:"otp_auth"`
	ShowDark Text   `json:"show_dark"`
	Logo     string `json:"logo"`
}

// OTPEnabled reports whether login goes through a one-time password.
func (s AppSettings) OTPEnabled() bool { return s.OTPAuth == "1" }

// DarkMode reports whether the dark theme is switched on.
func (s AppSettings) DarkMode() bool { return s.ShowDark == "1" }

// Credentials is a password login request.
type Credentials struct {
	Phone    string `json:"phone" validate:"required,phone10"`
	Password string `json:"password" validate:"required"`
}

// OTPVerification is a one-time password login request.
type OTPVerification struct {
	Phone string `json:"phone" validate:"required,phone10"`
	OTP   string `json:"otp" validate:"required,otp6"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required,phone10"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
	UserType Role   `json:"user_type" validate:"required,oneof=shipper driver transporter"`
}

// AuthToken is the token/role pair returned by login and OTP verification.
type AuthToken struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// SignupForm is the raw sign-up input before trimming and validation.
type SignupForm struct {
	Name            string
	Phone           string
	Email           string
	Password        string
	ConfirmPassword string
	UserType        string
}
