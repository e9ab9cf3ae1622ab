package api

import (
	"context"
	"net/http"
	"net/url"

	"vtruck/internal/domain"
)

// Countries lists the countries the marketplace operates in.
func (c *HTTPClient) Countries(ctx context.Context) ([]domain.Country, error) {
	raw, err := c.do(ctx, request{method: http.MethodGet, route: "/countries", path: "/countries", auth: authBasic})
	if err != nil {
		return nil, err
	}
	var out []domain.Country
	return out, decodeList(raw, &out)
}

// States lists the states of a country.
func (c *HTTPClient) States(ctx context.Context, countryID domain.ID) ([]domain.State, error) {
	raw, err := c.do(ctx, request{
		method: http.MethodGet, route: "/states/by-country/{id}",
		path: "/states/by-country/" + url.PathEscape(countryID.String()), auth: authBasic,
	})
	if err != nil {
		return nil, err
	}
	var out []domain.State
	return out, decodeList(raw, &out)
}

// VehicleTypes lists the vehicle classes with their weight ranges.
func (c *HTTPClient) VehicleTypes(ctx context.Context) ([]domain.VehicleType, error) {
	raw, err := c.do(ctx, request{method: http.MethodGet, route: "/vehicle-types", path: "/vehicle-types", auth: authBasic})
	if err != nil {
		return nil, err
	}
	var out []domain.VehicleType
	return out, decodeList(raw, &out)
}
