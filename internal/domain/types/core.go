package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrUnknownRole is returned when a role string maps to no known account type.
var ErrUnknownRole = errors.New("unknown role")

// ErrCorruptStore is returned by local stores whose file cannot be parsed.
var ErrCorruptStore = errors.New("corrupt store file")

// Role is the account type a user signs up with. It selects the home view.
type Role string

const (
	RoleShipper     Role = "shipper"
	RoleDriver      Role = "driver"
	RoleTransporter Role = "transporter"
)

// Roles lists the account types a user may sign up as.
var Roles = []Role{RoleShipper, RoleDriver, RoleTransporter}

// String returns the string form of the role.
func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleShipper, RoleDriver, RoleTransporter:
		return true
	}
	return false
}

// ParseRole normalises a backend role string. Older accounts report
// "transport" which is the same account type as transporter.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r == "transport" {
		r = RoleTransporter
	}
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// ID is a backend identifier. The backend emits numeric ids, string ids and
// occasionally the whole related object; all three decode to the id text.
type ID string

// String returns the string form of the identifier.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool { return id == "" }

// UnmarshalJSON accepts numbers, strings, null and objects carrying an "id".
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			ID ID `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*id = obj.ID
		return nil
	}
	s, err := scalarText(b)
	if err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

// MarshalJSON writes numeric ids as JSON numbers, others as strings and the
// empty id as null.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Text is a string field the backend sometimes sends as a number or bool.
type Text string

// String returns the underlying string.
func (t Text) String() string { return string(t) }

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (t *Text) UnmarshalJSON(b []byte) error {
	s, err := scalarText(bytes.TrimSpace(b))
	if err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

// Float is a number the backend sometimes sends quoted. Blank and null
// decode to zero.
type Float float64

// UnmarshalJSON accepts numbers, numeric strings, blank strings and null.
func (f *Float) UnmarshalJSON(b []byte) error {
	s, err := scalarText(bytes.TrimSpace(b))
	if err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func scalarText(b []byte) (string, error) {
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		return "", nil
	case b[0] == '"':
		var s string
		err := json.Unmarshal(b, &s)
		return s, err
	case bytes.Equal(b, []byte("true")):
		return "1", nil
	case bytes.Equal(b, []byte("false")):
		return "0", nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}
