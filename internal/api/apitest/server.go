// Package apitest runs an in-memory marketplace backend over httptest for
// exercising the API client, services and commands without the network.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"

	"vtruck/internal/domain"
)

// Default app credentials accepted on basic-auth endpoints.
const (
	BasicUser     = "vtruck"
	BasicPassword = "test-secret"
	DefaultOTP    = "123456"
)

// Request is a recorded inbound request.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Auth        string
	ContentType string
	Body        []byte
	Form        url.Values
	Files       map[string]string // field → filename
}

type account struct {
	user     domain.User
	password string
	role     domain.Role
	kyc      domain.KYCStatus
	owner    string // transporter phone for drivers they created
}

type loadRecord struct {
	load  domain.Load
	owner string
}

type vehicleRecord struct {
	vehicle domain.Vehicle
	owner   string
	routes  []domain.ID
}

// KYCUpload is a recorded KYC submission.
type KYCUpload struct {
	Fields url.Values
	Files  map[string]string
}

// Server is a fake backend. The zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	OTP          string
	settings     domain.AppSettings
	accounts     map[string]*account // by phone
	tokens       map[string]string   // token → phone
	countries    []domain.Country
	states       []domain.State
	vehicleTypes []domain.VehicleType
	loads        []*loadRecord
	bids         map[domain.ID][]domain.Bid
	vehicles     []*vehicleRecord
	kyc          map[string]KYCUpload
	requests     []Request
	faults       map[string][]int
	nextID       int
	clock        int
	faker        *gofakeit.Faker
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		OTP: DefaultOTP,
		settings: domain.AppSettings{
			WebName: "vTruck", Timezone: "Asia/Kolkata", Currency: "INR",
			OTPAuth: "1", ShowDark: "0",
		},
		accounts:  map[string]*account{},
		tokens:    map[string]string{},
		countries: []domain.Country{{ID: "1", Title: "India"}},
		states: []domain.State{
			{ID: "1", Title: "Madhya Pradesh"},
			{ID: "2", Title: "Maharashtra"},
			{ID: "3", Title: "Gujarat"},
			{ID: "4", Title: "Rajasthan"},
		},
		vehicleTypes: []domain.VehicleType{
			{ID: "1", Title: "Mini Truck", MinWeight: 500, MaxWeight: 2000},
			{ID: "2", Title: "Open Body", MinWeight: 2000, MaxWeight: 10000},
			{ID: "3", Title: "Trailer", MinWeight: 10000, MaxWeight: 40000},
		},
		bids:   map[domain.ID][]domain.Bid{},
		kyc:    map[string]KYCUpload{},
		faults: map[string][]int{},
		nextID: 100,
		faker:  gofakeit.New(42),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	basic := s.basic
	bearer := s.bearer

	mux.HandleFunc("GET /settings", basic(s.handleSettings))
	mux.HandleFunc("POST /login", basic(s.handleLogin))
	mux.HandleFunc("POST /request-otp", basic(s.handleRequestOTP))
	mux.HandleFunc("POST /verify-otp", basic(s.handleVerifyOTP))
	mux.HandleFunc("POST /register", basic(s.handleRegister))
	mux.HandleFunc("GET /countries", basic(s.handleCountries))
	mux.HandleFunc("GET /states/by-country/{id}", basic(s.handleStates))
	mux.HandleFunc("GET /vehicle-types", basic(s.handleVehicleTypes))

	mux.HandleFunc("GET /me", bearer(s.handleMe))
	mux.HandleFunc("POST /load", bearer(s.handleCreateLoad))
	mux.HandleFunc("GET /my-loads", bearer(s.handleMyLoads))
	mux.HandleFunc("GET /load/{id}", bearer(s.handleLoad))
	mux.HandleFunc("GET /load/bids/{id}", bearer(s.handleLoadBids))
	mux.HandleFunc("POST /bids/{id}/accept", bearer(s.handleAcceptBid))
	mux.HandleFunc("POST /bid/{id}", bearer(s.handlePlaceBid))
	mux.HandleFunc("GET /find-loads", bearer(s.handleFindLoads))
	mux.HandleFunc("GET /find-lorry", bearer(s.handleFindLorry))
	mux.HandleFunc("GET /vehicles", bearer(s.handleVehicles))
	mux.HandleFunc("POST /vehicles", bearer(s.handleAddVehicle))
	mux.HandleFunc("GET /vehicles/{id}", bearer(s.handleVehicle))
	mux.HandleFunc("PUT /vehicles/{id}", bearer(s.handleUpdateVehicle))
	mux.HandleFunc("DELETE /vehicles/{id}", bearer(s.handleDeleteVehicle))
	mux.HandleFunc("POST /vehicles/{id}/states", bearer(s.handleVehicleStates))
	mux.HandleFunc("GET /transporter/vehicles", bearer(s.handleVehicles))
	mux.HandleFunc("GET /transporter/drivers", bearer(s.handleDrivers))
	mux.HandleFunc("POST /transporter/driver", bearer(s.handleAddDriver))
	mux.HandleFunc("DELETE /drivers/{id}", bearer(s.handleDeleteDriver))
	mux.HandleFunc("POST /kyc/submit", bearer(s.handleKYC))

	return s.record(mux)
}

// record captures every request and injects queued faults.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		rec := Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		}
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		if strings.HasPrefix(rec.ContentType, "multipart/form-data") {
			if err := r.ParseMultipartForm(16 << 20); err == nil {
				rec.Form = url.Values(r.MultipartForm.Value)
				rec.Files = map[string]string{}
				for field, fhs := range r.MultipartForm.File {
					if len(fhs) > 0 {
						rec.Files[field] = fhs[0].Filename
					}
				}
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		key := r.Method + " " + r.URL.Path
		status := 0
		if q := s.faults[key]; len(q) > 0 {
			status, s.faults[key] = q[0], q[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) basic(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != BasicUser || p != BasicPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid app credentials"})
			return
		}
		h(w, r)
	}
}

func (s *Server) bearer(h func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		phone, known := s.tokens[token]
		acct := s.accounts[phone]
		s.mu.Unlock()
		if !ok || !known || acct == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}
		h(w, r, acct)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func invalid(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": "The given data was invalid.",
		"errors":  fields,
	})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
}

// id allocates a fresh identifier. Callers hold s.mu.
func (s *Server) id() domain.ID {
	s.nextID++
	return domain.ID(strconv.Itoa(s.nextID))
}
