package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"vtruck/internal/domain"
)

// Vehicles lists the caller's own vehicles.
func (c *HTTPClient) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return c.vehicleList(ctx, "/vehicles")
}

// TransporterVehicles lists every vehicle in a transporter's fleet.
func (c *HTTPClient) TransporterVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return c.vehicleList(ctx, "/transporter/vehicles")
}

func (c *HTTPClient) vehicleList(ctx context.Context, path string) ([]domain.Vehicle, error) {
	raw, err := c.do(ctx, request{method: http.MethodGet, route: path, path: path, auth: authBearer})
	if err != nil {
		return nil, err
	}
	var out []domain.Vehicle
	return out, decodeList(raw, &out)
}

// Vehicle fetches one vehicle.
func (c *HTTPClient) Vehicle(ctx context.Context, id domain.ID) (domain.Vehicle, error) {
	raw, err := c.do(ctx, request{
		method: http.MethodGet, route: "/vehicles/{id}",
		path: "/vehicles/" + url.PathEscape(id.String()), auth: authBearer,
	})
	if err != nil {
		return domain.Vehicle{}, err
	}
	var v domain.Vehicle
	return v, decodeObject(raw, &v)
}

// AddVehicle registers a vehicle with its registration document.
func (c *HTTPClient) AddVehicle(ctx context.Context, v domain.NewVehicle) error {
	routes := make([]domain.Route, 0, len(v.Routes))
	for _, id := range v.Routes {
		routes = append(routes, domain.Route{StateID: id})
	}
	routesJSON, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	stateID := v.CurrStateID
	if stateID.IsZero() {
		stateID = domain.DefaultStateID
	}
	doc := v.Document
	if doc.Name == "" {
		doc.Name = "rc.jpg"
	}

	b, err := multipartBody([]formField{
		{"vehicle_number", v.Number},
		{"vehicle_type_id", v.TypeID.String()},
		{"curr_location", v.CurrLocation},
		{"curr_state_id", stateID.String()},
		{"description", v.Description},
		{"weight", v.Weight},
		{"status", string(domain.VehicleAvailable)},
		{"routes", string(routesJSON)},
	}, []formFile{{field: "document", doc: doc}})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodPost, route: "/vehicles", path: "/vehicles", auth: authBearer, body: b})
	return err
}

// UpdateVehicleLocation reports where a vehicle currently is.
func (c *HTTPClient) UpdateVehicleLocation(ctx context.Context, id domain.ID, loc domain.LocationUpdate) error {
	b, err := jsonBody(loc)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{
		method: http.MethodPut, route: "/vehicles/{id}",
		path: "/vehicles/" + url.PathEscape(id.String()), auth: authBearer, body: b,
	})
	return err
}

// DeleteVehicle removes a vehicle.
func (c *HTTPClient) DeleteVehicle(ctx context.Context, id domain.ID) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete, route: "/vehicles/{id}",
		path: "/vehicles/" + url.PathEscape(id.String()), auth: authBearer,
	})
	return err
}

// SetVehicleStates replaces the states a vehicle operates in.
func (c *HTTPClient) SetVehicleStates(ctx context.Context, id domain.ID, states []domain.ID) error {
	if states == nil {
		states = []domain.ID{}
	}
	b, err := jsonBody(map[string][]domain.ID{"states": states})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{
		method: http.MethodPost, route: "/vehicles/{id}/states",
		path: "/vehicles/" + url.PathEscape(id.String()) + "/states", auth: authBearer, body: b,
	})
	return err
}
