package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"vtruck/internal/domain"
)

// CreateLoad posts a new load.
func (c *HTTPClient) CreateLoad(ctx context.Context, load domain.NewLoad) error {
	b, err := jsonBody(load)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodPost, route: "/load", path: "/load", auth: authBearer, body: b})
	return err
}

// MyLoads lists the caller's loads matching filter.
func (c *HTTPClient) MyLoads(ctx context.Context, filter domain.LoadFilter) ([]domain.Load, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("load_status", string(filter.Status))
	}
	if filter.Type != "" {
		q.Set("load_type", string(filter.Type))
	}
	raw, err := c.do(ctx, request{method: http.MethodGet, route: "/my-loads", path: "/my-loads", query: q, auth: authBearer})
	if err != nil {
		return nil, err
	}
	var out []domain.Load
	return out, decodeList(raw, &out)
}

// Load fetches a single load.
func (c *HTTPClient) Load(ctx context.Context, id domain.ID) (domain.Load, error) {
	raw, err := c.do(ctx, request{
		method: http.MethodGet, route: "/load/{id}",
		path: "/load/" + url.PathEscape(id.String()), auth: authBearer,
	})
	if err != nil {
		return domain.Load{}, err
	}
	var wrapped struct {
		Load json.RawMessage `json:"load"`
	}
	if err := decodeObject(raw, &wrapped); err != nil {
		return domain.Load{}, err
	}
	var load domain.Load
	if l := bytes.TrimSpace(wrapped.Load); len(l) > 0 && l[0] == '{' {
		return load, decodeObject(l, &load)
	}
	return load, decodeObject(raw, &load)
}

// LoadBids lists the bids placed on a load.
func (c *HTTPClient) LoadBids(ctx context.Context, loadID domain.ID) ([]domain.Bid, error) {
	raw, err := c.do(ctx, request{
		method: http.MethodGet, route: "/load/bids/{id}",
		path: "/load/bids/" + url.PathEscape(loadID.String()), auth: authBearer,
	})
	if err != nil {
		return nil, err
	}
	var out []domain.Bid
	return out, decodeList(raw, &out)
}

// AcceptBid accepts a bid on one of the caller's loads.
func (c *HTTPClient) AcceptBid(ctx context.Context, bidID domain.ID) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost, route: "/bids/{id}/accept",
		path: "/bids/" + url.PathEscape(bidID.String()) + "/accept", auth: authBearer,
	})
	return err
}

// PlaceBid offers a vehicle for a load at an amount.
func (c *HTTPClient) PlaceBid(ctx context.Context, bid domain.NewBid) error {
	b, err := jsonBody(bid)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{
		method: http.MethodPost, route: "/bid/{id}",
		path: "/bid/" + url.PathEscape(bid.LoadID.String()), auth: authBearer, body: b,
	})
	return err
}

// FindLoads pages through open loads near a vehicle.
func (c *HTTPClient) FindLoads(ctx context.Context, q domain.FindLoadsQuery) ([]domain.Load, error) {
	params := url.Values{}
	params.Set("vehicle_id", q.VehicleID.String())
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(q.PerPage))
	params.Set("radius", strconv.Itoa(q.RadiusKM))
	raw, err := c.do(ctx, request{method: http.MethodGet, route: "/find-loads", path: "/find-loads", query: params, auth: authBearer})
	if err != nil {
		return nil, err
	}
	var out []domain.Load
	return out, decodeList(raw, &out)
}

// FindLorry searches for vehicles serving a route.
func (c *HTTPClient) FindLorry(ctx context.Context, q domain.LorryQuery) ([]domain.Lorry, error) {
	params := url.Values{}
	params.Set("pick_lat", formatCoord(q.Pickup.Lat))
	params.Set("pick_lng", formatCoord(q.Pickup.Lng))
	params.Set("drop_lat", formatCoord(q.Drop.Lat))
	params.Set("drop_lng", formatCoord(q.Drop.Lng))
	params.Set("vehicle_type_id", q.VehicleTypeID.String())
	raw, err := c.do(ctx, request{method: http.MethodGet, route: "/find-lorry", path: "/find-lorry", query: params, auth: authBearer})
	if err != nil {
		return nil, err
	}
	var out []domain.Lorry
	return out, decodeList(raw, &out)
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
