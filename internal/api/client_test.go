package api_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/api"
	"vtruck/internal/api/apitest"
	"vtruck/internal/domain"
	"vtruck/internal/logger"
	"vtruck/internal/metrics"
)

const (
	shipperPhone = "9876543210"
	driverPhone  = "9123456780"
)

func TestNewHTTP_RejectsBadBaseURL(t *testing.T) {
	_, err := api.NewHTTP(api.Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	c, err := api.NewHTTP(api.Config{})
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, c.BaseURL())
}

func TestLogin(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser(driverPhone, "secret", domain.RoleTransporter, domain.KYCVerified)
	c := srv.NewClient(t, &apitest.MemorySessions{})

	tok, err := c.Login(context.Background(), domain.Credentials{Phone: driverPhone, Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, "transport", tok.Role)

	req, ok := srv.Last(http.MethodPost, "/login")
	require.True(t, ok)
	assert.Contains(t, req.Auth, "Basic ")
	assert.Equal(t, "application/x-www-form-urlencoded", req.ContentType)
	assert.Contains(t, string(req.Body), "phone="+driverPhone)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser(driverPhone, "secret", domain.RoleDriver, domain.KYCVerified)
	c := srv.NewClient(t, &apitest.MemorySessions{})

	_, err := c.Login(context.Background(), domain.Credentials{Phone: driverPhone, Password: "nope"})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/login"))
}

func TestRegister_ValidationError(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser(shipperPhone, "secret", domain.RoleShipper, domain.KYCNone)
	c := srv.NewClient(t, &apitest.MemorySessions{})

	err := c.Register(context.Background(), domain.Registration{
		Name: "Asha", Phone: shipperPhone, Password: "pw", UserType: domain.RoleShipper,
	})
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"The phone has already been taken."}, apiErr.FieldMessages())
	assert.Equal(t, "• The phone has already been taken.", apiErr.Detail())
}

func TestSettings_UsesBasicAuth(t *testing.T) {
	srv := apitest.New(t)
	c := srv.NewClient(t, nil)

	s, err := c.Settings(context.Background())
	require.NoError(t, err)
	assert.True(t, s.OTPEnabled())
	assert.Equal(t, "INR", s.Currency)
}

func TestBearer_NoSession(t *testing.T) {
	srv := apitest.New(t)
	c := srv.NewClient(t, &apitest.MemorySessions{})

	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, api.ErrNoSession)
	assert.Empty(t, srv.Requests())
}

func TestMe(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(shipperPhone, "secret", domain.RoleShipper, domain.KYCPending)
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleShipper))

	p, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.KYCPending, p.KYC())
	assert.Equal(t, shipperPhone, p.User.Phone.String())

	req, _ := srv.Last(http.MethodGet, "/me")
	assert.Equal(t, "Bearer "+tok, req.Auth)
}

func TestRetry_IdempotentRequests(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(driverPhone, "secret", domain.RoleDriver, domain.KYCVerified)
	srv.AddVehicle(driverPhone, domain.Vehicle{Number: "MP09AB1234"})
	srv.Fail(http.MethodGet, "/vehicles", http.StatusServiceUnavailable, http.StatusTooManyRequests)

	rec := metrics.NewRecorder()
	c, err := api.NewHTTP(api.Config{
		BaseURL:  srv.URL,
		Sessions: apitest.SessionFor(tok, domain.RoleDriver),
		Retry:    api.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
		Metrics:  rec,
	})
	require.NoError(t, err)

	vs, err := c.Vehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "MP09AB1234", vs[0].Number)
	assert.Equal(t, 3, srv.Calls(http.MethodGet, "/vehicles"))
	const want = `
# HELP vtruck_api_retries_total Backend API request retries by endpoint.
# TYPE vtruck_api_retries_total counter
vtruck_api_retries_total{endpoint="/vehicles"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(want), "vtruck_api_retries_total"))
}

func TestRetry_Exhausted(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(driverPhone, "secret", domain.RoleDriver, domain.KYCVerified)
	srv.Fail(http.MethodGet, "/vehicles", 500, 502, 503)
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleDriver))

	_, err := c.Vehicles(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, api.StatusOf(err))
	assert.Equal(t, 3, srv.Calls(http.MethodGet, "/vehicles"))
}

func TestRetry_SkipsPostAndClientErrors(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(shipperPhone, "secret", domain.RoleShipper, domain.KYCVerified)
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleShipper))

	srv.Fail(http.MethodPost, "/load", http.StatusServiceUnavailable)
	err := c.CreateLoad(context.Background(), domain.NewLoad{PickupLocation: "Indore", MaterialName: "Steel"})
	require.Error(t, err)
	assert.Equal(t, 1, srv.Calls(http.MethodPost, "/load"))

	srv.Fail(http.MethodGet, "/load/1", http.StatusNotFound)
	_, err = c.Load(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/load/1"))
}

func TestRequestIDHeader(t *testing.T) {
	var got string
	ts := newRawServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`[]`))
	})
	c, err := api.NewHTTP(api.Config{BaseURL: ts})
	require.NoError(t, err)

	ctx := logger.WithRequestID(context.Background(), "req-42")
	_, err = c.Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "req-42", got)
}

func TestError_PlainBodyTruncatedOnRunes(t *testing.T) {
	ts := newRawServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("त्रुटि ", 100)))
	})
	c, err := api.NewHTTP(api.Config{BaseURL: ts})
	require.NoError(t, err)

	_, err = c.Countries(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.True(t, utf8.ValidString(apiErr.Message))
	assert.Equal(t, 200, utf8.RuneCountInString(apiErr.Message))
}

func TestLoads_EnvelopesAndBids(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(shipperPhone, "secret", domain.RoleShipper, domain.KYCVerified)
	srv.AddUser(driverPhone, "secret", domain.RoleDriver, domain.KYCVerified)
	srv.AddVehicle(driverPhone, domain.Vehicle{Number: "MP09AB1234"})
	posted := srv.AddLoad(shipperPhone, domain.Load{MaterialName: "Cement"})
	bid := srv.AddBid(driverPhone, posted.ID, 15000, "pending")
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleShipper))
	ctx := context.Background()

	loads, err := c.MyLoads(ctx, domain.LoadFilter{Status: domain.LoadPending, Type: domain.LoadTypePost})
	require.NoError(t, err)
	require.Len(t, loads, 1)
	assert.Equal(t, posted.ID, loads[0].ID)

	req, _ := srv.Last(http.MethodGet, "/my-loads")
	assert.Equal(t, "pending", req.Query.Get("load_status"))
	assert.Equal(t, "POST_LOAD", req.Query.Get("load_type"))

	one, err := c.Load(ctx, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cement", one.MaterialName)

	bids, err := c.LoadBids(ctx, posted.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.True(t, decimal.NewFromInt(15000).Equal(bids[0].Amount))
	assert.Equal(t, "MP09AB1234", bids[0].VehicleNumber())

	require.NoError(t, c.AcceptBid(ctx, bid.ID))
	accepted := srv.Bids(posted.ID)
	assert.True(t, accepted[0].IsAccepted())
	l, _ := srv.Load(posted.ID)
	assert.Equal(t, domain.LoadAssigned, l.LoadStatus)
}

func TestCreateLoad_Payload(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(shipperPhone, "secret", domain.RoleShipper, domain.KYCVerified)
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleShipper))

	err := c.CreateLoad(context.Background(), domain.NewLoad{
		PickupLocation: "Indore", DropoffLocation: "Bhopal",
		PickLat: apitest.Indore.Lat, PickLng: apitest.Indore.Lng,
		PickStateID: "1", DropStateID: "1",
		MaterialName: "Steel", Weight: 1200,
		Amount: decimal.NewFromInt(20000), TotalAmount: decimal.NewFromInt(20000),
		AmountType: domain.PriceFixed, LoadType: domain.LoadTypePost,
		VisibleHours: 24, VehicleType: "1",
	})
	require.NoError(t, err)

	req, _ := srv.Last(http.MethodPost, "/load")
	body := string(req.Body)
	assert.Contains(t, body, `"assigned_to":null`)
	assert.Contains(t, body, `"assigned_as":null`)
	assert.Contains(t, body, `"amount":"20000"`)
	assert.Contains(t, body, `"pick_state_id":1`)

	mine := srv.LoadsOf(shipperPhone)
	require.Len(t, mine, 1)
	assert.Equal(t, "Steel", mine[0].MaterialName)
}

func TestPlaceBidAndFindLoads(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(driverPhone, "secret", domain.RoleDriver, domain.KYCVerified)
	v := srv.AddVehicle(driverPhone, domain.Vehicle{
		CurrLat: domain.Float(apitest.Indore.Lat), CurrLng: domain.Float(apitest.Indore.Lng),
	})
	seeded := srv.SeedLoads(3, apitest.Indore)
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleDriver))
	ctx := context.Background()

	loads, err := c.FindLoads(ctx, domain.FindLoadsQuery{VehicleID: v.ID, Page: 1, PerPage: 10, RadiusKM: 50})
	require.NoError(t, err)
	assert.Len(t, loads, 3)
	for _, l := range loads {
		assert.Less(t, float64(l.Distance), 50.0)
	}
	req, _ := srv.Last(http.MethodGet, "/find-loads")
	assert.Equal(t, "50", req.Query.Get("radius"))
	assert.Equal(t, v.ID.String(), req.Query.Get("vehicle_id"))

	err = c.PlaceBid(ctx, domain.NewBid{LoadID: seeded[0].ID, VehicleID: v.ID, Amount: decimal.NewFromInt(1500)})
	require.NoError(t, err)
	req, _ = srv.Last(http.MethodPost, "/bid/"+seeded[0].ID.String())
	assert.Contains(t, string(req.Body), `"bid_amount":1500`)
	assert.Len(t, srv.Bids(seeded[0].ID), 1)
}

func TestFindLorry(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(shipperPhone, "secret", domain.RoleShipper, domain.KYCVerified)
	srv.AddUser(driverPhone, "secret", domain.RoleDriver, domain.KYCVerified)
	srv.AddVehicle(driverPhone, domain.Vehicle{
		Number: "MP09AB1234", TypeID: "2", Weight: "9000",
		CurrLat: domain.Float(apitest.Indore.Lat), CurrLng: domain.Float(apitest.Indore.Lng),
	})
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleShipper))

	lorries, err := c.FindLorry(context.Background(), domain.LorryQuery{
		Pickup: apitest.Indore, Drop: apitest.Bhopal, VehicleTypeID: "2",
	})
	require.NoError(t, err)
	require.Len(t, lorries, 1)
	assert.Equal(t, "MP09AB1234", lorries[0].VehicleNumber)
	assert.Equal(t, "9000", lorries[0].Capacity.String())

	none, err := c.FindLorry(context.Background(), domain.LorryQuery{Pickup: apitest.Indore, VehicleTypeID: "3"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVehicles_AddUpdateRoutesDelete(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(driverPhone, "secret", domain.RoleDriver, domain.KYCVerified)
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleDriver))
	ctx := context.Background()

	doc := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(doc, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))

	require.NoError(t, c.AddVehicle(ctx, domain.NewVehicle{
		Number: "MP09AB1234", TypeID: "1", CurrLocation: "Madhya Pradesh",
		Weight: "1500", Routes: []domain.ID{"1", "2"},
		Document: domain.Document{Path: doc},
	}))
	req, _ := srv.Last(http.MethodPost, "/vehicles")
	assert.Equal(t, `[{"state_id":1},{"state_id":2}]`, req.Form.Get("routes"))
	assert.Equal(t, "1", req.Form.Get("curr_state_id"))
	assert.Equal(t, "available", req.Form.Get("status"))
	assert.Equal(t, "rc.jpg", req.Files["document"])

	vs, err := c.Vehicles(ctx)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	id := vs[0].ID
	assert.Equal(t, "Mini Truck", vs[0].TypeLabel())
	assert.Len(t, vs[0].OperationalStates, 2)

	require.NoError(t, c.UpdateVehicleLocation(ctx, id, domain.LocationUpdate{
		CurrLocation: "Indore", CurrLat: apitest.Indore.Lat, CurrLng: apitest.Indore.Lng,
	}))
	v, err := c.Vehicle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Indore", v.CurrLocation)
	assert.InDelta(t, apitest.Indore.Lat, float64(v.CurrLat), 1e-9)

	require.NoError(t, c.SetVehicleStates(ctx, id, []domain.ID{"3"}))
	assert.Equal(t, []domain.ID{"3"}, srv.Routes(id))
	require.NoError(t, c.SetVehicleStates(ctx, id, nil))
	req, _ = srv.Last(http.MethodPost, "/vehicles/"+id.String()+"/states")
	assert.JSONEq(t, `{"states":[]}`, string(req.Body))

	require.NoError(t, c.DeleteVehicle(ctx, id))
	_, err = c.Vehicle(ctx, id)
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))
}

func TestAddVehicle_MissingDocument(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(driverPhone, "secret", domain.RoleDriver, domain.KYCVerified)
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleDriver))

	err := c.AddVehicle(context.Background(), domain.NewVehicle{
		Number: "MP09AB1234", Document: domain.Document{Path: filepath.Join(t.TempDir(), "missing.jpg")},
	})
	require.Error(t, err)
	assert.Empty(t, srv.Requests())
}

func TestDrivers(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(shipperPhone, "secret", domain.RoleTransporter, domain.KYCVerified)
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleTransporter))
	ctx := context.Background()

	require.NoError(t, c.AddDriver(ctx, domain.NewDriver{Name: "Ravi", Phone: driverPhone, Password: "pw"}))
	ds, err := c.Drivers(ctx)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "Ravi", ds[0].Name)

	err = c.AddDriver(ctx, domain.NewDriver{Name: "Dup", Phone: driverPhone, Password: "pw"})
	assert.True(t, api.IsValidation(err))

	require.NoError(t, c.DeleteDriver(ctx, ds[0].ID))
	ds, err = c.Drivers(ctx)
	require.NoError(t, err)
	assert.Empty(t, ds)
}

func TestSubmitKYC(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(driverPhone, "secret", domain.RoleDriver, domain.KYCNone)
	c := srv.NewClient(t, apitest.SessionFor(tok, domain.RoleDriver))

	dir := t.TempDir()
	front := filepath.Join(dir, "front.jpg")
	back := filepath.Join(dir, "back.jpg")
	require.NoError(t, os.WriteFile(front, []byte("front"), 0o600))
	require.NoError(t, os.WriteFile(back, []byte("back"), 0o600))

	err := c.SubmitKYC(context.Background(), domain.KYCSubmission{
		Form: domain.KYCForm{AadhaarNumber: "123412341234", LicenseNumber: "MP0920200001"},
		Files: map[domain.DocumentKey]domain.Document{
			domain.DocAadhaarFront: {Path: front},
			domain.DocLicenseBack:  {Path: back, Name: "dl-back.jpg"},
		},
	})
	require.NoError(t, err)

	up, ok := srv.KYC(driverPhone)
	require.True(t, ok)
	assert.Equal(t, "123412341234", up.Fields.Get("aadhaar_number"))
	assert.Equal(t, "front.jpg", up.Files["aadhaar_front"])
	assert.Equal(t, "dl-back.jpg", up.Files["license_back"])
	assert.NotContains(t, up.Files, "pan_front")
}

func TestCatalog(t *testing.T) {
	srv := apitest.New(t)
	c := srv.NewClient(t, nil)
	ctx := context.Background()

	countries, err := c.Countries(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, countries)

	states, err := c.States(ctx, countries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Madhya Pradesh", states[0].Title)

	types, err := c.VehicleTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.True(t, types[0].Fits(1000))
}
