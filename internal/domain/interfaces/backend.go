package interfaces

import (
	"context"

	domaintypes "vtruck/internal/domain/types"
)

// AuthAPI covers login, registration and the current account.
type AuthAPI interface {
	Settings(ctx context.Context) (domaintypes.AppSettings, error)
	Login(ctx context.Context, creds domaintypes.Credentials) (domaintypes.AuthToken, error)
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, req domaintypes.OTPVerification) (domaintypes.AuthToken, error)
	Register(ctx context.Context, reg domaintypes.Registration) error
	Me(ctx context.Context) (domaintypes.Profile, error)
}

// CatalogAPI exposes backend reference data.
type CatalogAPI interface {
	Countries(ctx context.Context) ([]domaintypes.Country, error)
	States(ctx context.Context, countryID domaintypes.ID) ([]domaintypes.State, error)
	VehicleTypes(ctx context.Context) ([]domaintypes.VehicleType, error)
}

// LoadAPI covers posting loads, bidding and load search.
type LoadAPI interface {
	CreateLoad(ctx context.Context, load domaintypes.NewLoad) error
	MyLoads(ctx context.Context, filter domaintypes.LoadFilter) ([]domaintypes.Load, error)
	Load(ctx context.Context, id domaintypes.ID) (domaintypes.Load, error)
	LoadBids(ctx context.Context, loadID domaintypes.ID) ([]domaintypes.Bid, error)
	AcceptBid(ctx context.Context, bidID domaintypes.ID) error
	PlaceBid(ctx context.Context, bid domaintypes.NewBid) error
	FindLoads(ctx context.Context, q domaintypes.FindLoadsQuery) ([]domaintypes.Load, error)
	FindLorry(ctx context.Context, q domaintypes.LorryQuery) ([]domaintypes.Lorry, error)
}

// VehicleAPI manages the caller's vehicles.
type VehicleAPI interface {
	Vehicles(ctx context.Context) ([]domaintypes.Vehicle, error)
	TransporterVehicles(ctx context.Context) ([]domaintypes.Vehicle, error)
	Vehicle(ctx context.Context, id domaintypes.ID) (domaintypes.Vehicle, error)
	AddVehicle(ctx context.Context, v domaintypes.NewVehicle) error
	UpdateVehicleLocation(ctx context.Context, id domaintypes.ID, loc domaintypes.LocationUpdate) error
	DeleteVehicle(ctx context.Context, id domaintypes.ID) error
	SetVehicleStates(ctx context.Context, id domaintypes.ID, states []domaintypes.ID) error
}

// DriverAPI manages a transporter's drivers.
type DriverAPI interface {
	Drivers(ctx context.Context) ([]domaintypes.Driver, error)
	AddDriver(ctx context.Context, d domaintypes.NewDriver) error
	DeleteDriver(ctx context.Context, id domaintypes.ID) error
}

// KYCAPI uploads identity documents.
type KYCAPI interface {
	SubmitKYC(ctx context.Context, sub domaintypes.KYCSubmission) error
}

// Backend is the full REST backend surface.
type Backend interface {
	AuthAPI
	CatalogAPI
	LoadAPI
	VehicleAPI
	DriverAPI
	KYCAPI
}

// Maps resolves places and coordinates.
type Maps interface {
	Autocomplete(ctx context.Context, input string) ([]domaintypes.Place, error)
	PlaceDetails(ctx context.Context, placeID string) (domaintypes.Point, error)
	ReverseGeocodeState(ctx context.Context, p domaintypes.Point) (string, error)
	ReverseGeocodeAddress(ctx context.Context, p domaintypes.Point) (string, error)
}
