// Package catalog caches the backend's reference data: the home country's
// states and the vehicle types.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"vtruck/internal/domain"
)

// ErrNoCountries is returned when the backend lists no countries.
var ErrNoCountries = errors.New("backend lists no countries")

// Catalog fetches reference data on first use and keeps it for the process.
//
// Safe for concurrent use.
type Catalog struct {
	api domain.CatalogAPI

	mu     sync.Mutex
	states []domain.State
	types  []domain.VehicleType
}

// New constructs a Catalog.
func New(api domain.CatalogAPI) *Catalog { return &Catalog{api: api} }

// States lists the states of the first country the backend reports.
func (c *Catalog) States(ctx context.Context) ([]domain.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states != nil {
		return c.states, nil
	}
	countries, err := c.api.Countries(ctx)
	if err != nil {
		return nil, fmt.Errorf("countries: %w", err)
	}
	if len(countries) == 0 {
		return nil, ErrNoCountries
	}
	states, err := c.api.States(ctx, countries[0].ID)
	if err != nil {
		return nil, fmt.Errorf("states: %w", err)
	}
	if states == nil {
		states = []domain.State{}
	}
	c.states = states
	return states, nil
}

// VehicleTypes lists the vehicle classes.
func (c *Catalog) VehicleTypes(ctx context.Context) ([]domain.VehicleType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.types != nil {
		return c.types, nil
	}
	types, err := c.api.VehicleTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("vehicle types: %w", err)
	}
	if types == nil {
		types = []domain.VehicleType{}
	}
	c.types = types
	return types, nil
}

// StateID finds the state titled name, ignoring case and surrounding space.
func (c *Catalog) StateID(ctx context.Context, name string) (domain.ID, bool, error) {
	states, err := c.States(ctx)
	if err != nil {
		return "", false, err
	}
	id, ok := MatchState(states, name)
	return id, ok, nil
}

// MatchState finds the state titled name, ignoring case.
func MatchState(states []domain.State, name string) (domain.ID, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, st := range states {
		if strings.EqualFold(strings.TrimSpace(st.Title), name) {
			return st.ID, true
		}
	}
	return "", false
}

// FilterStates keeps states whose title contains search, ignoring case.
func FilterStates(states []domain.State, search string) []domain.State {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return states
	}
	var out []domain.State
	for _, st := range states {
		if strings.Contains(strings.ToLower(st.Title), search) {
			out = append(out, st)
		}
	}
	return out
}

// VehicleType finds a type by id.
func (c *Catalog) VehicleType(ctx context.Context, id domain.ID) (domain.VehicleType, bool, error) {
	types, err := c.VehicleTypes(ctx)
	if err != nil {
		return domain.VehicleType{}, false, err
	}
	for _, t := range types {
		if t.ID == id {
			return t, true, nil
		}
	}
	return domain.VehicleType{}, false, nil
}
