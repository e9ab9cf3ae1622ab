package types

// Session is the locally persisted login: the opaque bearer token issued by
// the backend and the role it was issued for.
type Session struct {
	Token      string `json:"token"`
	Role       Role   `json:"role"`
	Phone      string `json:"phone,omitempty"`
	CreatedUTC int64  `json:"created_utc"`
}

// Valid reports whether both token and role are present.
func (s Session) Valid() bool { return s.Token != "" && s.Role != "" }

// Destination is the view a user lands on after login.
type Destination string

const (
	DestLogin           Destination = "login"
	DestShipperTabs     Destination = "shipper-tabs"
	DestTransporterTabs Destination = "transporter-tabs"
	DestDriverHome      Destination = "driver-home"
)

// HomeFor returns the landing view for a role.
func HomeFor(r Role) (Destination, error) {
	switch r {
	case RoleShipper:
		return DestShipperTabs, nil
	case RoleTransporter:
		return DestTransporterTabs, nil
	case RoleDriver:
		return DestDriverHome, nil
	}
	return "", ErrUnknownRole
}

// LoginMode selects how a login is performed.
type LoginMode string

const (
	LoginAuto     LoginMode = "" // follow the app settings
	LoginPassword LoginMode = "password"
	LoginOTP      LoginMode = "otp"
)

// LoginResult is the outcome of a login attempt. When OTPSent is set the
// caller must finish with an OTP verification.
type LoginResult struct {
	Destination Destination
	OTPSent     bool
}

// Preference keys stored on the device.
const (
	PrefLanguage        = "lang"
	PrefSelectedVehicle = "selectedVehicleId"
)
