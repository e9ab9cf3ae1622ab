package loads

import (
	"vtruck/internal/domain"
	"vtruck/internal/geo"
)

// Summary is what a load card shows.
type Summary struct {
	PickupState string
	DropState   string
	DistanceKM  float64 // +Inf when either end has no coordinates
	Bids        int
	Accepted    *domain.AcceptedBid
}

// Summarise builds the card values for o.
func Summarise(o domain.LoadOverview) Summary {
	return Summary{
		PickupState: geo.StateOf(o.Load.PickupLocation),
		DropState:   geo.StateOf(o.Load.DropoffLocation),
		DistanceKM:  geo.Distance(o.Load.Pickup(), o.Load.Drop()),
		Bids:        len(o.Bids),
		Accepted:    o.Accepted,
	}
}
