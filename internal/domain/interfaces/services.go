package interfaces

import (
	"context"
	"time"

	domaintypes "vtruck/internal/domain/types"
)

// AuthService logs users in and out and restores saved sessions.
type AuthService interface {
	Login(ctx context.Context, phone, password string, mode domaintypes.LoginMode) (domaintypes.LoginResult, error)
	LoginPassword(ctx context.Context, phone, password string) (domaintypes.Destination, error)
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, otp string) (domaintypes.Destination, error)
	Signup(ctx context.Context, form domaintypes.SignupForm) error
	Restore(ctx context.Context) (domaintypes.Destination, error)
	Profile(ctx context.Context) (domaintypes.Profile, error)
	Logout() error
}

// SettingsService exposes the remote application configuration.
type SettingsService interface {
	Settings(ctx context.Context) (domaintypes.AppSettings, error)
	OTPEnabled(ctx context.Context) bool
}

// LoadService is the shipper's view of loads and bids.
type LoadService interface {
	Post(ctx context.Context, form domaintypes.LoadForm) (domaintypes.NewLoad, error)
	MyLoads(ctx context.Context, status domaintypes.LoadStatus) ([]domaintypes.LoadOverview, error)
	Details(ctx context.Context, id domaintypes.ID) (domaintypes.LoadOverview, error)
	Bids(ctx context.Context, loadID domaintypes.ID) ([]domaintypes.Bid, error)
	AcceptBid(ctx context.Context, bidID domaintypes.ID) error
	Watch(ctx context.Context, loadID domaintypes.ID, interval time.Duration, fn func(domaintypes.Bid)) error
}

// MarketService is the driver and transporter view of open work.
type MarketService interface {
	Nearby(ctx context.Context, q domaintypes.NearbyQuery) (domaintypes.NearbyPage, error)
	PlaceBid(ctx context.Context, loadID, vehicleID domaintypes.ID, amount string) error
	FindLorry(ctx context.Context, q domaintypes.LorrySearch) ([]domaintypes.Lorry, error)
	DriverLoads(ctx context.Context, tab domaintypes.LoadStatus) ([]domaintypes.Load, error)
}

// FleetService manages vehicles and drivers.
type FleetService interface {
	VehicleTypes(ctx context.Context) ([]domaintypes.VehicleType, error)
	States(ctx context.Context, search string) ([]domaintypes.State, error)
	AddVehicle(ctx context.Context, v domaintypes.NewVehicle) error
	Vehicles(ctx context.Context) ([]domaintypes.Vehicle, error)
	Vehicle(ctx context.Context, id domaintypes.ID) (domaintypes.Vehicle, error)
	DeleteVehicle(ctx context.Context, id domaintypes.ID) error
	SetRoutes(ctx context.Context, id domaintypes.ID, states []domaintypes.ID) error
	SelectVehicle(ctx context.Context, id domaintypes.ID) (domaintypes.Vehicle, error)
	SelectedVehicle() (domaintypes.ID, bool, error)
	ForgetSelectedVehicle() error
	Drivers(ctx context.Context) ([]domaintypes.Driver, error)
	AddDriver(ctx context.Context, d domaintypes.NewDriver) error
	DeleteDriver(ctx context.Context, id domaintypes.ID) error
}

// KYCService submits and tracks identity verification.
type KYCService interface {
	Status(ctx context.Context) (domaintypes.KYCStatus, error)
	Submit(ctx context.Context, sub domaintypes.KYCSubmission) error
}

// DraftService manages loads kept on this device.
type DraftService interface {
	List() ([]domaintypes.DraftLoad, error)
	Add(d domaintypes.DraftLoad) (domaintypes.DraftLoad, error)
	Edit(d domaintypes.DraftLoad) error
	Delete(id string) error
}
