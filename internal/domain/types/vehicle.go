package types

import (
	"bytes"
	"encoding/json"
)

// VehicleStatus is the availability of a vehicle.
type VehicleStatus string

// VehicleAvailable marks a vehicle free to take loads.
const VehicleAvailable VehicleStatus = "available"

// DefaultStateID is the state a new vehicle starts in when none is resolved.
const DefaultStateID ID = "1"

// VehicleType is a backend vehicle class with the weight range (kg) it carries.
type VehicleType struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	MinWeight Float  `json:"min_weight"`
	MaxWeight Float  `json:"max_weight"`
}

// UnmarshalJSON accepts the full object, a bare title string or a bare id.
func (t *VehicleType) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '{':
		type plain VehicleType
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*t = VehicleType(p)
	case '"':
		return json.Unmarshal(b, &t.Title)
	default:
		return t.ID.UnmarshalJSON(b)
	}
	return nil
}

// HasRange reports whether the type declares a weight range.
func (t VehicleType) HasRange() bool { return t.MinWeight > 0 || t.MaxWeight > 0 }

// Fits reports whether a load of kg kilograms is within the type's range.
// Types without a range fit everything.
func (t VehicleType) Fits(kg float64) bool {
	if !t.HasRange() {
		return true
	}
	if t.MinWeight > 0 && kg < float64(t.MinWeight) {
		return false
	}
	if t.MaxWeight > 0 && kg > float64(t.MaxWeight) {
		return false
	}
	return true
}

// Route is an operational state of a vehicle.
type Route struct {
	StateID ID `json:"state_id"`
}

// Vehicle is a registered vehicle.
type Vehicle struct {
	ID                ID              `json:"id"`
	Number            string          `json:"vehicle_number"`
	TypeID            ID              `json:"vehicle_type_id"`
	Type              VehicleType     `json:"vehicle_type"`
	TypeName          string          `json:"type,omitempty"`
	Status            VehicleStatus   `json:"status"`
	CurrLocation      string          `json:"curr_location"`
	CurrLat           Float           `json:"curr_lat"`
	CurrLng           Float           `json:"curr_lng"`
	CurrStateID       ID              `json:"curr_state_id"`
	Description       string          `json:"description"`
	Weight            Text            `json:"weight"`
	IsVerified        Text            `json:"is_verify"`
	OperationalStates []State         `json:"operational_states,omitempty"`
	MinWeight         Float           `json:"min_weight,omitempty"`
	MaxWeight         Float           `json:"max_weight,omitempty"`
}

// TypeLabel returns the best available vehicle-type title.
func (v Vehicle) TypeLabel() string {
	switch {
	case v.Type.Title != "":
		return v.Type.Title
	case v.TypeName != "":
		return v.TypeName
	default:
		return "Unknown"
	}
}

// Available reports whether the vehicle can take loads.
func (v Vehicle) Available() bool { return v.Status == VehicleAvailable }

// NewVehicle is the multipart POST /vehicles payload.
type NewVehicle struct {
	Number       string
	TypeID       ID
	CurrLocation string
	CurrStateID  ID
	Description  string
	Weight       string
	Routes       []ID
	Document     Document
}

// LocationUpdate is the PUT /vehicles/{id} payload reporting a vehicle's position.
type LocationUpdate struct {
	CurrLocation string  `json:"curr_location"`
	CurrLat      float64 `json:"curr_lat"`
	CurrLng      float64 `json:"curr_lng"`
}
