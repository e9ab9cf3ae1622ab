// Package maps is a small client for the Google Places and Geocoding web
// services: address autocomplete, place coordinates and reverse geocoding.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"vtruck/internal/domain"
)

// DefaultBaseURL is the Google Maps web service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

// ErrNoAPIKey is returned by every call when no API key is configured.
var ErrNoAPIKey = errors.New("maps: no API key configured")

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	// Country restricts autocomplete results (ISO 3166-1 alpha-2).
	Country string
	// Bias centres autocomplete results; zero disables biasing.
	Bias        domain.Point
	BiasRadiusM int
	HTTP        *http.Client
	Logger      *zap.Logger
}

// DefaultConfig biases searches towards India, centred on New Delhi.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Country:     "in",
		Bias:        domain.Point{Lat: 28.6139, Lng: 77.2090},
		BiasRadiusM: 100000,
	}
}

// Client implements domain.Maps.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// New returns a Client. Missing fields fall back to DefaultConfig.
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	hc := cfg.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{cfg: cfg, http: hc, log: log.Named("maps")}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.cfg.APIKey != "" }

// Autocomplete suggests places matching input.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]domain.Place, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("input", input)
	if c.cfg.Country != "" {
		q.Set("components", "country:"+c.cfg.Country)
	}
	if !c.cfg.Bias.IsZero() {
		q.Set("location", formatPoint(c.cfg.Bias))
		if c.cfg.BiasRadiusM > 0 {
			q.Set("radius", strconv.Itoa(c.cfg.BiasRadiusM))
		}
	}

	var resp struct {
		status
		Predictions []struct {
			Description string `json:"description"`
			PlaceID     string `json:"place_id"`
		} `json:"predictions"`
	}
	if err := c.get(ctx, "/place/autocomplete/json", q, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Place, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, domain.Place{Description: p.Description, PlaceID: p.PlaceID})
	}
	return out, nil
}

// PlaceDetails returns the coordinates of a place.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (domain.Point, error) {
	q := url.Values{}
	q.Set("placeid", placeID)
	q.Set("fields", "geometry")

	var resp struct {
		status
		Result struct {
			Geometry struct {
				Location domain.Point `json:"location"`
			} `json:"geometry"`
		} `json:"result"`
	}
	if err := c.get(ctx, "/place/details/json", q, &resp); err != nil {
		return domain.Point{}, err
	}
	loc := resp.Result.Geometry.Location
	if loc.IsZero() {
		return domain.Point{}, fmt.Errorf("maps: place %s has no location", placeID)
	}
	return loc, nil
}

type geocodeResult struct {
	FormattedAddress  string   `json:"formatted_address"`
	Types             []string `json:"types"`
	AddressComponents []struct {
		LongName string   `json:"long_name"`
		Types    []string `json:"types"`
	} `json:"address_components"`
}

func (c *Client) reverse(ctx context.Context, p domain.Point) ([]geocodeResult, error) {
	q := url.Values{}
	q.Set("latlng", formatPoint(p))
	var resp struct {
		status
		Results []geocodeResult `json:"results"`
	}
	if err := c.get(ctx, "/geocode/json", q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// ReverseGeocodeState returns the state (administrative_area_level_1) at p,
// or "" when none of the results name one.
func (c *Client) ReverseGeocodeState(ctx context.Context, p domain.Point) (string, error) {
	results, err := c.reverse(ctx, p)
	if err != nil {
		return "", err
	}
	for _, r := range results {
		for _, comp := range r.AddressComponents {
			if slices.Contains(comp.Types, "administrative_area_level_1") {
				return comp.LongName, nil
			}
		}
	}
	return "", nil
}

// ReverseGeocodeAddress returns a street-level address for p, preferring
// premise, sublocality and route results over the first result.
func (c *Client) ReverseGeocodeAddress(ctx context.Context, p domain.Point) (string, error) {
	results, err := c.reverse(ctx, p)
	if err != nil {
		return "", err
	}
	for _, r := range results {
		for _, t := range r.Types {
			if t == "premise" || t == "sublocality" || t == "route" {
				return r.FormattedAddress, nil
			}
		}
	}
	if len(results) > 0 {
		return results[0].FormattedAddress, nil
	}
	return "", nil
}

// status is the envelope every Google web service response carries.
type status struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (s status) err() error {
	switch s.Status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	}
	if s.ErrorMessage != "" {
		return fmt.Errorf("maps: %s: %s", s.Status, s.ErrorMessage)
	}
	return fmt.Errorf("maps: %s", s.Status)
}

type statusCarrier interface{ err() error }

func (c *Client) get(ctx context.Context, path string, q url.Values, out statusCarrier) error {
	if c.cfg.APIKey == "" {
		return ErrNoAPIKey
	}
	q.Set("key", c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("maps %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("request", zap.String("path", path), zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("maps %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(out); err != nil {
		return fmt.Errorf("maps %s: decode: %w", path, err)
	}
	return out.err()
}

func formatPoint(p domain.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// Compile-time assertion that Client implements domain.Maps.
var _ domain.Maps = (*Client)(nil)
