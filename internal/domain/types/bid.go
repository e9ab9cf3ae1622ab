package types

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// BidAccepted is the status of the bid a shipper accepted.
const BidAccepted = "accepted"

// Bid is an offer placed against a load.
type Bid struct {
	ID          ID              `json:"id"`
	LoadID      ID              `json:"load_id"`
	VehicleID   ID              `json:"vehicle_id"`
	Amount      decimal.Decimal `json:"bid_amount"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	User        *User           `json:"user,omitempty"`
	Vehicle     *Vehicle        `json:"vehicle,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

// UnmarshalJSON decodes a bid, reading a blank or null amount as zero.
func (b *Bid) UnmarshalJSON(data []byte) error {
	type plain Bid
	aux := struct {
		*plain
		Amount Text `json:"bid_amount"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	b.Amount, err = looseDecimal(aux.Amount)
	return err
}

// IsAccepted reports whether the shipper accepted this bid.
func (b Bid) IsAccepted() bool { return strings.EqualFold(b.Status, BidAccepted) }

// BidderName returns the bidder's display name.
func (b Bid) BidderName() string {
	if b.User != nil && b.User.Name != "" {
		return b.User.Name
	}
	return "Driver"
}

// VehicleNumber returns the registration of the offered vehicle, if known.
func (b Bid) VehicleNumber() string {
	if b.Vehicle != nil {
		return b.Vehicle.Number
	}
	return ""
}

// AcceptedBid summarises the winning bid on a load.
type AcceptedBid struct {
	BidID         ID
	DriverName    string
	Amount        decimal.Decimal
	VehicleNumber string
}

// SummariseAccepted returns the accepted bid among bids, or nil.
func SummariseAccepted(bids []Bid) *AcceptedBid {
	for _, b := range bids {
		if b.IsAccepted() {
			return &AcceptedBid{
				BidID:         b.ID,
				DriverName:    b.BidderName(),
				Amount:        b.Amount,
				VehicleNumber: b.VehicleNumber(),
			}
		}
	}
	return nil
}

// NewBid is the POST /bid/{load} payload.
type NewBid struct {
	LoadID      ID              `json:"load_id"`
	VehicleID   ID              `json:"vehicle_id"`
	Amount      decimal.Decimal `json:"bid_amount"`
	Description string          `json:"description"`
}

// MarshalJSON sends bid_amount as a JSON number; the backend rejects a
// quoted amount.
func (b NewBid) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		LoadID      ID          `json:"load_id"`
		VehicleID   ID          `json:"vehicle_id"`
		Amount      json.Number `json:"bid_amount"`
		Description string      `json:"description"`
	}{b.LoadID, b.VehicleID, json.Number(b.Amount.String()), b.Description})
}
