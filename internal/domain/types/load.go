package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoadStatus is the lifecycle state of a posted load.
type LoadStatus string

const (
	LoadPending  LoadStatus = "pending"
	LoadAssigned LoadStatus = "assigned"
	LoadAccepted LoadStatus = "accepted"
)

// LoadType distinguishes loads posted by shippers from other listings.
type LoadType string

// LoadTypePost is the type of every load created through the post-load flow.
const LoadTypePost LoadType = "POST_LOAD"

// PriceType says whether the load amount is open to negotiation.
type PriceType string

const (
	PriceFixed      PriceType = "Fixed"
	PriceNegotiable PriceType = "Negotiable"
)

// DefaultVisibleHours is how long a load is listed when no limit is given.
const DefaultVisibleHours = 24

// Load is a load as returned by the backend.
type Load struct {
	ID              ID              `json:"id"`
	PickupLocation  string          `json:"pickup_location"`
	DropoffLocation string          `json:"dropoff_location"`
	PickLat         Float           `json:"pick_lat"`
	PickLng         Float           `json:"pick_lng"`
	DropLat         Float           `json:"drop_lat"`
	DropLng         Float           `json:"drop_lng"`
	PickStateID     ID              `json:"pick_state_id"`
	DropStateID     ID              `json:"drop_state_id"`
	MaterialName    string          `json:"material_name"`
	Weight          decimal.Decimal `json:"weight"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	AmountType      PriceType       `json:"amt_type"`
	TotalAmount     decimal.Decimal `json:"total_amt"`
	LoadStatus      LoadStatus      `json:"load_status"`
	LoadType        LoadType        `json:"load_type"`
	VisibleHours    Float           `json:"visible_hours"`
	VehicleType     ID              `json:"vehicle_type"`
	Distance        Float           `json:"distance,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

// UnmarshalJSON decodes a load, reading blank or null weight and amounts
// as zero.
func (l *Load) UnmarshalJSON(b []byte) error {
	type plain Load
	aux := struct {
		*plain
		Weight      Text `json:"weight"`
		Amount      Text `json:"amount"`
		TotalAmount Text `json:"total_amt"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	var err error
	if l.Weight, err = looseDecimal(aux.Weight); err != nil {
		return err
	}
	if l.Amount, err = looseDecimal(aux.Amount); err != nil {
		return err
	}
	l.TotalAmount, err = looseDecimal(aux.TotalAmount)
	return err
}

// looseDecimal parses t, mapping blank to zero.
func looseDecimal(t Text) (decimal.Decimal, error) {
	s := strings.TrimSpace(t.String())
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// Pickup returns the pickup coordinate.
func (l Load) Pickup() Point { return Point{Lat: float64(l.PickLat), Lng: float64(l.PickLng)} }

// Drop returns the drop coordinate.
func (l Load) Drop() Point { return Point{Lat: float64(l.DropLat), Lng: float64(l.DropLng)} }

// Created parses CreatedAt; the zero time is returned when it is absent or malformed.
func (l Load) Created() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05.000000Z"} {
		if t, err := time.Parse(layout, l.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NewLoad is the POST /load payload.
type NewLoad struct {
	PickupLocation  string          `json:"pickup_location"`
	DropoffLocation string          `json:"dropoff_location"`
	PickLat         float64         `json:"pick_lat"`
	PickLng         float64         `json:"pick_lng"`
	DropLat         float64         `json:"drop_lat"`
	DropLng         float64         `json:"drop_lng"`
	PickStateID     ID              `json:"pick_state_id"`
	DropStateID     ID              `json:"drop_state_id"`
	MaterialName    string          `json:"material_name"`
	Weight          float64         `json:"weight"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	AmountType      PriceType       `json:"amt_type"`
	TotalAmount     decimal.Decimal `json:"total_amt"`
	AssignedTo      *ID             `json:"assigned_to"`
	AssignedAs      *string         `json:"assigned_as"`
	LoadType        LoadType        `json:"load_type"`
	VisibleHours    int             `json:"visible_hours"`
	VehicleType     ID              `json:"vehicle_type"`
}

// LoadFilter selects loads from /my-loads.
type LoadFilter struct {
	Status LoadStatus
	Type   LoadType
}

// LoadOverview is a load together with the bids placed on it.
type LoadOverview struct {
	Load     Load
	Bids     []Bid
	Accepted *AcceptedBid
}

// FindLoadsQuery pages through loads near a vehicle.
type FindLoadsQuery struct {
	VehicleID ID
	Page      int
	PerPage   int
	RadiusKM  int
}

// LorryQuery searches for vehicles serving a route.
type LorryQuery struct {
	Pickup        Point
	Drop          Point
	VehicleTypeID ID
}

// Lorry is a vehicle offered for a route by /find-lorry.
type Lorry struct {
	ID            ID     `json:"id"`
	VehicleNumber string `json:"vehicle_number"`
	DriverName    string `json:"driver_name"`
	Capacity      Text   `json:"capacity"`
	Address       string `json:"address"`
	Image         string `json:"image,omitempty"`
}

// LoadForm is the input collected by the post-load flow.
type LoadForm struct {
	Pickup       Place
	Dropoff      Place
	Material     string
	Weight       string // kg
	Description  string
	VehicleType  VehicleType
	Amount       string
	PriceType    PriceType
	LimitHours   bool
	VisibleHours string
}
