// Package validate checks form input before it is sent to the backend and
// renders failures as human-readable field messages.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	otpPattern     = regexp.MustCompile(`^\d{6}$`)
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with JSON field names and the
// phone10, otp6, aadhaar and pan tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("phone10", matching(phonePattern))
		_ = v.RegisterValidation("otp6", matching(otpPattern))
		_ = v.RegisterValidation("aadhaar", matching(aadhaarPattern))
		_ = v.RegisterValidation("pan", matching(panPattern))
		instance = v
	})
	return instance
}

func matching(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Phone reports whether s is a 10 digit mobile number.
func Phone(s string) bool { return phonePattern.MatchString(s) }

// OTP reports whether s is a 6 digit one-time password.
func OTP(s string) bool { return otpPattern.MatchString(s) }

// Aadhaar reports whether s is a 12 digit Aadhaar number.
func Aadhaar(s string) bool { return aadhaarPattern.MatchString(s) }

// PAN reports whether s is a well-formed PAN.
func PAN(s string) bool { return panPattern.MatchString(s) }

// Struct validates v. It returns Errors on field failures, nil when valid.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	var out Errors
	for _, e := range fieldErrs {
		out = append(out, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

// message returns a human-readable validation message.
func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "phone10":
		return "Must be a 10 digit phone number"
	case "otp6":
		return "Must be a 6 digit OTP"
	case "aadhaar":
		return "Must be a 12 digit Aadhaar number"
	case "pan":
		return "Invalid PAN format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "numeric":
		return "Must be numeric"
	default:
		return "Invalid value"
	}
}
