package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/validate"
)

type signup struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,phone10"`
	Email string `json:"email" validate:"omitempty,email"`
	PAN   string `json:"pan_number" validate:"omitempty,pan"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := validate.Struct(signup{Phone: "12345"})
	require.Error(t, err)

	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.Has("name"))
	assert.True(t, errs.Has("phone"))
	assert.False(t, errs.Has("email"))
	assert.Contains(t, err.Error(), "• phone: Must be a 10 digit phone number")
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, validate.Struct(signup{Name: "Asha", Phone: "9876543210", PAN: "ABCDE1234F"}))
}

func TestPatterns(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"phone ok", validate.Phone, "9876543210", true},
		{"phone short", validate.Phone, "987654321", false},
		{"phone letters", validate.Phone, "98765abcde", false},
		{"otp ok", validate.OTP, "123456", true},
		{"otp long", validate.OTP, "1234567", false},
		{"aadhaar ok", validate.Aadhaar, "123412341234", true},
		{"aadhaar short", validate.Aadhaar, "12341234123", false},
		{"pan ok", validate.PAN, "ABCDE1234F", true},
		{"pan lowercase", validate.PAN, "abcde1234f", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestMerge(t *testing.T) {
	var extra validate.Errors
	extra.Add("confirm_password", "Passwords do not match")

	err := validate.Merge(validate.Struct(signup{Phone: "9876543210"}), extra)
	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 2)

	assert.NoError(t, validate.Merge(nil, nil))

	other := errors.New("boom")
	assert.Same(t, other, validate.Merge(other, extra))
}
