package maps_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/domain"
	"vtruck/internal/maps"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/place/autocomplete/json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "country:in", r.URL.Query().Get("components"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"predictions": []map[string]string{
				{"description": "Indore, Madhya Pradesh, India", "place_id": "p-indore"},
			},
		})
	})
	mux.HandleFunc("/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("placeid") != "p-indore" {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "NOT_FOUND"})
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK","result":{"geometry":{"location":{"lat":22.7196,"lng":75.8577}}}}`))
	})
	mux.HandleFunc("/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"formatted_address":"Indore, Madhya Pradesh, India","types":["locality"],
			 "address_components":[{"long_name":"Indore","types":["locality"]}]},
			{"formatted_address":"12 MG Road, Indore, Madhya Pradesh 452001, India","types":["route"],
			 "address_components":[{"long_name":"Madhya Pradesh","types":["administrative_area_level_1","political"]}]}
		]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *maps.Client {
	cfg := maps.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.APIKey = "test-key"
	return maps.New(cfg)
}

func TestAutocomplete(t *testing.T) {
	c := newClient(newServer(t))
	places, err := c.Autocomplete(context.Background(), "indo")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "p-indore", places[0].PlaceID)

	places, err = c.Autocomplete(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestPlaceDetails(t *testing.T) {
	c := newClient(newServer(t))
	p, err := c.PlaceDetails(context.Background(), "p-indore")
	require.NoError(t, err)
	assert.Equal(t, domain.Point{Lat: 22.7196, Lng: 75.8577}, p)

	_, err = c.PlaceDetails(context.Background(), "nowhere")
	assert.ErrorContains(t, err, "NOT_FOUND")
}

func TestReverseGeocode(t *testing.T) {
	c := newClient(newServer(t))
	pt := domain.Point{Lat: 22.7196, Lng: 75.8577}

	state, err := c.ReverseGeocodeState(context.Background(), pt)
	require.NoError(t, err)
	assert.Equal(t, "Madhya Pradesh", state)

	addr, err := c.ReverseGeocodeAddress(context.Background(), pt)
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road, Indore, Madhya Pradesh 452001, India", addr)
}

func TestNoAPIKey(t *testing.T) {
	c := maps.New(maps.Config{})
	assert.False(t, c.Configured())
	_, err := c.Autocomplete(context.Background(), "indore")
	assert.ErrorIs(t, err, maps.ErrNoAPIKey)
}
