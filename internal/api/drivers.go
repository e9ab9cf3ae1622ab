package api

import (
	"context"
	"net/http"
	"net/url"

	"vtruck/internal/domain"
)

// Drivers lists a transporter's drivers.
func (c *HTTPClient) Drivers(ctx context.Context) ([]domain.Driver, error) {
	raw, err := c.do(ctx, request{method: http.MethodGet, route: "/transporter/drivers", path: "/transporter/drivers", auth: authBearer})
	if err != nil {
		return nil, err
	}
	var out []domain.Driver
	return out, decodeList(raw, &out)
}

// AddDriver creates a driver account under the transporter.
func (c *HTTPClient) AddDriver(ctx context.Context, d domain.NewDriver) error {
	b, err := jsonBody(d)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodPost, route: "/transporter/driver", path: "/transporter/driver", auth: authBearer, body: b})
	return err
}

// DeleteDriver removes a driver.
func (c *HTTPClient) DeleteDriver(ctx context.Context, id domain.ID) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete, route: "/drivers/{id}",
		path: "/drivers/" + url.PathEscape(id.String()), auth: authBearer,
	})
	return err
}
