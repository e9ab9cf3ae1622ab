package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vtruck/internal/api"
	"vtruck/internal/domain"
	"vtruck/internal/services/catalog"
	"vtruck/internal/validate"
)

var (
	// ErrNoRoutes is returned when a vehicle is given no operating states.
	ErrNoRoutes = errors.New("select at least one state")
	// ErrNotTransporter is returned when a non-transporter manages drivers.
	ErrNotTransporter = errors.New("only transporters manage drivers")
)

// Backend is the part of the API the fleet service calls.
type Backend interface {
	domain.VehicleAPI
	domain.DriverAPI
}

// Service manages vehicles, drivers and the selected vehicle.
type Service struct {
	api      Backend
	catalog  *catalog.Catalog
	sessions domain.SessionStore
	prefs    domain.PreferenceStore
	log      *zap.Logger
}

// New constructs a fleet Service.
func New(
	api Backend,
	cat *catalog.Catalog,
	sessions domain.SessionStore,
	prefs domain.PreferenceStore,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, catalog: cat, sessions: sessions, prefs: prefs, log: log.Named("fleet")}
}

// TypeChoice is a vehicle type marked with whether it can carry a weight.
type TypeChoice struct {
	domain.VehicleType
	Fits bool
}

// Choices marks each type with whether it fits kg. A zero kg fits all.
func Choices(types []domain.VehicleType, kg float64) []TypeChoice {
	out := make([]TypeChoice, 0, len(types))
	for _, t := range types {
		out = append(out, TypeChoice{VehicleType: t, Fits: kg <= 0 || t.Fits(kg)})
	}
	return out
}

// VehicleTypes lists the vehicle classes.
func (s *Service) VehicleTypes(ctx context.Context) ([]domain.VehicleType, error) {
	return s.catalog.VehicleTypes(ctx)
}

// States lists states whose title contains search.
func (s *Service) States(ctx context.Context, search string) ([]domain.State, error) {
	states, err := s.catalog.States(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FilterStates(states, search), nil
}

// AddOptions fetches the vehicle types and states the add flow picks from.
func (s *Service) AddOptions(ctx context.Context) ([]domain.VehicleType, []domain.State, error) {
	var (
		types  []domain.VehicleType
		states []domain.State
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		types, err = s.catalog.VehicleTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		states, err = s.catalog.States(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return types, states, nil
}

// AddVehicle validates v through every wizard step and uploads it.
// A blank state id is taken from a current location naming a known state.
func (s *Service) AddVehicle(ctx context.Context, v domain.NewVehicle) error {
	v.Number = strings.TrimSpace(v.Number)
	v.CurrLocation = strings.TrimSpace(v.CurrLocation)
	if err := AddWizard(&v).Run(); err != nil {
		return err
	}
	if v.CurrStateID.IsZero() && v.CurrLocation != "" {
		if id, ok, err := s.catalog.StateID(ctx, v.CurrLocation); err == nil && ok {
			v.CurrStateID = id
		}
	}
	if err := s.api.AddVehicle(ctx, v); err != nil {
		return fmt.Errorf("add vehicle: %w", err)
	}
	s.log.Info("vehicle added", zap.String("number", v.Number))
	return nil
}

// Vehicles lists the caller's vehicles; transporters see their whole fleet.
func (s *Service) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	role, err := s.role()
	if err != nil {
		return nil, err
	}
	var vs []domain.Vehicle
	if role == domain.RoleTransporter {
		vs, err = s.api.TransporterVehicles(ctx)
	} else {
		vs, err = s.api.Vehicles(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("vehicles: %w", err)
	}
	return vs, nil
}

// Vehicle fetches one vehicle.
func (s *Service) Vehicle(ctx context.Context, id domain.ID) (domain.Vehicle, error) {
	v, err := s.api.Vehicle(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("vehicle %s: %w", id, err)
	}
	return v, nil
}

// DeleteVehicle removes a vehicle and forgets it if it was selected.
func (s *Service) DeleteVehicle(ctx context.Context, id domain.ID) error {
	if err := s.api.DeleteVehicle(ctx, id); err != nil {
		return fmt.Errorf("delete vehicle %s: %w", id, err)
	}
	if sel, ok, err := s.SelectedVehicle(); err == nil && ok && sel == id {
		return s.prefs.Delete(domain.PrefSelectedVehicle)
	}
	return nil
}

// SetRoutes replaces the states a vehicle operates in.
func (s *Service) SetRoutes(ctx context.Context, id domain.ID, states []domain.ID) error {
	if len(states) == 0 {
		return ErrNoRoutes
	}
	if err := s.api.SetVehicleStates(ctx, id, states); err != nil {
		return fmt.Errorf("set routes for %s: %w", id, err)
	}
	return nil
}

// SelectVehicle checks the vehicle exists and remembers it for finding loads.
func (s *Service) SelectVehicle(ctx context.Context, id domain.ID) (domain.Vehicle, error) {
	v, err := s.Vehicle(ctx, id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if err := s.prefs.Set(domain.PrefSelectedVehicle, v.ID.String()); err != nil {
		return domain.Vehicle{}, fmt.Errorf("save selected vehicle: %w", err)
	}
	return v, nil
}

// SelectedVehicle returns the remembered vehicle id.
func (s *Service) SelectedVehicle() (domain.ID, bool, error) {
	v, ok, err := s.prefs.Get(domain.PrefSelectedVehicle)
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return domain.ID(v), true, nil
}

// ForgetSelectedVehicle clears the remembered vehicle.
func (s *Service) ForgetSelectedVehicle() error {
	return s.prefs.Delete(domain.PrefSelectedVehicle)
}

// Drivers lists a transporter's drivers.
func (s *Service) Drivers(ctx context.Context) ([]domain.Driver, error) {
	ds, err := s.api.Drivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("drivers: %w", err)
	}
	return ds, nil
}

// AddDriver creates a driver account under the signed-in transporter.
func (s *Service) AddDriver(ctx context.Context, d domain.NewDriver) error {
	role, err := s.role()
	if err != nil {
		return err
	}
	if role != domain.RoleTransporter {
		return ErrNotTransporter
	}
	d = domain.NewDriver{
		Name:     strings.TrimSpace(d.Name),
		Phone:    strings.TrimSpace(d.Phone),
		Password: strings.TrimSpace(d.Password),
		Email:    strings.TrimSpace(d.Email),
	}
	if err := validate.Struct(d); err != nil {
		return err
	}
	if err := s.api.AddDriver(ctx, d); err != nil {
		return fmt.Errorf("add driver: %w", err)
	}
	return nil
}

// DeleteDriver removes a driver.
func (s *Service) DeleteDriver(ctx context.Context, id domain.ID) error {
	if err := s.api.DeleteDriver(ctx, id); err != nil {
		return fmt.Errorf("delete driver %s: %w", id, err)
	}
	return nil
}

func (s *Service) role() (domain.Role, error) {
	sess, ok, err := s.sessions.LoadSession()
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !ok || !sess.Valid() {
		return "", api.ErrNoSession
	}
	return sess.Role, nil
}

// Compile-time assertion that Service implements domain.FleetService.
var _ domain.FleetService = (*Service)(nil)
