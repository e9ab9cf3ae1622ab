package market

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vtruck/internal/api"
	"vtruck/internal/domain"
	"vtruck/internal/geo"
	"vtruck/internal/validate"
)

// Defaults for nearby searches.
const (
	DefaultRadiusKM = 50
	DefaultPerPage  = 10
)

var (
	// ErrKYCRequired is returned when an unverified account looks for loads.
	ErrKYCRequired = errors.New("complete KYC verification to find loads")
	// ErrNoVehicles is returned when the account has no available vehicle.
	ErrNoVehicles = errors.New("no available vehicles, add a vehicle first")
	// ErrVehicleNotFound is returned when the requested vehicle is not one of
	// the account's available vehicles.
	ErrVehicleNotFound = errors.New("vehicle not found among available vehicles")
	// ErrNoPosition is returned when neither the query nor the vehicle has a
	// location.
	ErrNoPosition = errors.New("current position unknown")
	// ErrNoVehicleSelected is returned when bidding without a vehicle.
	ErrNoVehicleSelected = errors.New("no vehicle selected")
)

// Backend is the part of the API the market service calls.
type Backend interface {
	Me(ctx context.Context) (domain.Profile, error)
	domain.LoadAPI
	UpdateVehicleLocation(ctx context.Context, id domain.ID, loc domain.LocationUpdate) error
}

// Config tunes nearby searches.
type Config struct {
	RadiusKM int
	PerPage  int
}

// Service finds work for drivers and transporters.
type Service struct {
	api      Backend
	fleet    domain.FleetService
	sessions domain.SessionStore
	maps     domain.Maps
	cfg      Config
	log      *zap.Logger
}

// New constructs a market Service. maps may be nil.
func New(
	api Backend,
	fleet domain.FleetService,
	sessions domain.SessionStore,
	maps domain.Maps,
	cfg Config,
	log *zap.Logger,
) *Service {
	if cfg.RadiusKM <= 0 {
		cfg.RadiusKM = DefaultRadiusKM
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = DefaultPerPage
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, fleet: fleet, sessions: sessions, maps: maps, cfg: cfg, log: log.Named("market")}
}

// Nearby lists open loads around a vehicle.
//
// Steps:
//  1. Require verified KYC.
//  2. Pick the vehicle: the query's, else the remembered one, else the first
//     available. A remembered vehicle that is gone is forgotten.
//  3. Report the position to the backend when the query carries one.
//  4. Fetch one page of loads and attach the distance from the position.
//  5. Keep only loads touching q.State when it is set.
func (s *Service) Nearby(ctx context.Context, q domain.NearbyQuery) (domain.NearbyPage, error) {
	profile, err := s.api.Me(ctx)
	if err != nil {
		return domain.NearbyPage{}, fmt.Errorf("profile: %w", err)
	}
	if profile.KYC() != domain.KYCVerified {
		return domain.NearbyPage{}, ErrKYCRequired
	}

	vehicle, err := s.pickVehicle(ctx, q.VehicleID)
	if err != nil {
		return domain.NearbyPage{}, err
	}

	pos := q.Position
	if pos.IsZero() {
		pos = domain.Point{Lat: float64(vehicle.CurrLat), Lng: float64(vehicle.CurrLng)}
		if pos.IsZero() {
			return domain.NearbyPage{}, ErrNoPosition
		}
	} else if err := s.reportPosition(ctx, &vehicle, pos); err != nil {
		return domain.NearbyPage{}, err
	}

	page := max(q.Page, 1)
	radius := q.RadiusKM
	if radius <= 0 {
		radius = s.cfg.RadiusKM
	}
	found, err := s.api.FindLoads(ctx, domain.FindLoadsQuery{
		VehicleID: vehicle.ID,
		Page:      page,
		PerPage:   s.cfg.PerPage,
		RadiusKM:  radius,
	})
	if err != nil {
		return domain.NearbyPage{}, fmt.Errorf("find loads: %w", err)
	}

	out := domain.NearbyPage{Vehicle: vehicle, Page: page, HasMore: len(found) == s.cfg.PerPage}
	for _, l := range found {
		if q.State != "" && !touchesState(l, q.State) {
			continue
		}
		out.Loads = append(out.Loads, domain.NearbyLoad{Load: l, DistanceKM: geo.Distance(pos, l.Pickup())})
	}
	return out, nil
}

func touchesState(l domain.Load, state string) bool {
	return geo.SameState(geo.StateOf(l.PickupLocation), state) ||
		geo.SameState(geo.StateOf(l.DropoffLocation), state)
}

func (s *Service) pickVehicle(ctx context.Context, want domain.ID) (domain.Vehicle, error) {
	all, err := s.fleet.Vehicles(ctx)
	if err != nil {
		return domain.Vehicle{}, err
	}
	available := slices.DeleteFunc(all, func(v domain.Vehicle) bool { return !v.Available() })
	if len(available) == 0 {
		return domain.Vehicle{}, ErrNoVehicles
	}

	find := func(id domain.ID) (domain.Vehicle, bool) {
		i := slices.IndexFunc(available, func(v domain.Vehicle) bool { return v.ID == id })
		if i < 0 {
			return domain.Vehicle{}, false
		}
		return available[i], true
	}

	if !want.IsZero() {
		if v, ok := find(want); ok {
			return v, nil
		}
		return domain.Vehicle{}, ErrVehicleNotFound
	}
	if sel, ok, err := s.fleet.SelectedVehicle(); err == nil && ok {
		if v, found := find(sel); found {
			return v, nil
		}
		s.log.Info("selected vehicle no longer available", zap.String("vehicle_id", sel.String()))
		if err := s.fleet.ForgetSelectedVehicle(); err != nil {
			s.log.Warn("forget selected vehicle", zap.Error(err))
		}
	}
	return available[0], nil
}

// reportPosition sends pos as the vehicle's current location. The location
// label is the reverse geocoded state, or the coordinates when that fails.
func (s *Service) reportPosition(ctx context.Context, v *domain.Vehicle, pos domain.Point) error {
	label := strconv.FormatFloat(pos.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(pos.Lng, 'f', 6, 64)
	if s.maps != nil {
		if state, err := s.maps.ReverseGeocodeState(ctx, pos); err == nil && state != "" {
			label = state
		} else if err != nil {
			s.log.Debug("reverse geocode failed", zap.Error(err))
		}
	}
	loc := domain.LocationUpdate{CurrLocation: label, CurrLat: pos.Lat, CurrLng: pos.Lng}
	if err := s.api.UpdateVehicleLocation(ctx, v.ID, loc); err != nil {
		return fmt.Errorf("update vehicle location: %w", err)
	}
	v.CurrLocation = label
	v.CurrLat, v.CurrLng = domain.Float(pos.Lat), domain.Float(pos.Lng)
	return nil
}

// PlaceBid bids amount on a load with a vehicle. A zero vehicle id means
// the remembered vehicle.
func (s *Service) PlaceBid(ctx context.Context, loadID, vehicleID domain.ID, amount string) error {
	var errs validate.Errors
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || !value.IsPositive() {
		errs.Add("bid_amount", "Must be greater than 0")
		return errs
	}
	if vehicleID.IsZero() {
		sel, ok, err := s.fleet.SelectedVehicle()
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoVehicleSelected
		}
		vehicleID = sel
	}
	if err := s.api.PlaceBid(ctx, domain.NewBid{LoadID: loadID, VehicleID: vehicleID, Amount: value}); err != nil {
		return fmt.Errorf("place bid: %w", err)
	}
	s.log.Info("bid placed", zap.String("load_id", loadID.String()), zap.String("amount", value.String()))
	return nil
}

// FindLorry searches for lorries between two places. Places without
// coordinates are resolved through the maps client.
func (s *Service) FindLorry(ctx context.Context, q domain.LorrySearch) ([]domain.Lorry, error) {
	var errs validate.Errors
	if strings.TrimSpace(q.From.Description) == "" && q.From.PlaceID == "" && q.From.Point.IsZero() {
		errs.Add("from", "This field is required")
	}
	if strings.TrimSpace(q.To.Description) == "" && q.To.PlaceID == "" && q.To.Point.IsZero() {
		errs.Add("to", "This field is required")
	}
	if q.VehicleTypeID.IsZero() {
		errs.Add("vehicle_type_id", "This field is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	from, err := s.resolve(ctx, q.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := s.resolve(ctx, q.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	lorries, err := s.api.FindLorry(ctx, domain.LorryQuery{Pickup: from, Drop: to, VehicleTypeID: q.VehicleTypeID})
	if err != nil {
		return nil, fmt.Errorf("find lorry: %w", err)
	}
	return lorries, nil
}

func (s *Service) resolve(ctx context.Context, p domain.Place) (domain.Point, error) {
	if !p.Point.IsZero() {
		return p.Point, nil
	}
	if s.maps == nil {
		return domain.Point{}, ErrNoPosition
	}
	placeID := p.PlaceID
	if placeID == "" {
		places, err := s.maps.Autocomplete(ctx, p.Description)
		if err != nil {
			return domain.Point{}, err
		}
		if len(places) == 0 {
			return domain.Point{}, fmt.Errorf("no place matches %q", p.Description)
		}
		placeID = places[0].PlaceID
	}
	return s.maps.PlaceDetails(ctx, placeID)
}

// DriverLoads lists the loads the caller bid on. The pending tab shows
// pending loads; the other tab shows assigned loads for drivers and
// accepted loads for transporters. Newest first.
func (s *Service) DriverLoads(ctx context.Context, tab domain.LoadStatus) ([]domain.Load, error) {
	sess, ok, err := s.sessions.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok || !sess.Valid() {
		return nil, api.ErrNoSession
	}
	status := domain.LoadPending
	if tab != domain.LoadPending {
		status = domain.LoadAssigned
		if sess.Role == domain.RoleTransporter {
			status = domain.LoadAccepted
		}
	}
	loads, err := s.api.MyLoads(ctx, domain.LoadFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("my loads: %w", err)
	}
	slices.SortStableFunc(loads, func(a, b domain.Load) int { return b.Created().Compare(a.Created()) })
	return loads, nil
}

// Compile-time assertion that Service implements domain.MarketService.
var _ domain.MarketService = (*Service)(nil)
