package types

// Driver is a driver employed by a transporter.
type Driver struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Phone  Text   `json:"phone"`
	Email  string `json:"email,omitempty"`
	Status string `json:"status,omitempty"`
}

// NewDriver is the POST /transporter/driver payload.
type NewDriver struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}
