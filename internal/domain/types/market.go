package types

// NearbyQuery asks for open loads around a vehicle.
type NearbyQuery struct {
	VehicleID ID
	Position  Point
	Page      int
	RadiusKM  int
	State     string // optional: keep loads picking up or dropping in this state
}

// NearbyLoad is a load with its distance from the searcher.
type NearbyLoad struct {
	Load
	DistanceKM float64
}

// NearbyPage is one page of nearby loads.
type NearbyPage struct {
	Vehicle Vehicle
	Loads   []NearbyLoad
	Page    int
	HasMore bool
}

// LorrySearch asks for vehicles serving a route.
type LorrySearch struct {
	From          Place
	To            Place
	VehicleTypeID ID
}
