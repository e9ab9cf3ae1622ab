package fleet_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/api"
	"vtruck/internal/api/apitest"
	"vtruck/internal/domain"
	"vtruck/internal/services/catalog"
	"vtruck/internal/services/fleet"
	"vtruck/internal/store"
	"vtruck/internal/validate"
	"vtruck/internal/wizard"
)

const (
	transporterPhone = "9000000001"
	driverPhone      = "9000000002"
)

func newService(t *testing.T, role domain.Role) (*fleet.Service, *apitest.Server, string) {
	t.Helper()
	srv := apitest.New(t)
	phone := driverPhone
	if role == domain.RoleTransporter {
		phone = transporterPhone
	}
	tok := srv.AddUser(phone, "secret", role, domain.KYCVerified)
	client := srv.NewClient(t, apitest.SessionFor(tok, role))
	svc := fleet.New(client, catalog.New(client), apitest.SessionFor(tok, role), store.NewPreferenceFileStore(t.TempDir()), nil)
	return svc, srv, phone
}

func document(t *testing.T) domain.Document {
	t.Helper()
	p := filepath.Join(t.TempDir(), "rc.jpg")
	require.NoError(t, os.WriteFile(p, []byte("rc"), 0o600))
	return domain.Document{Path: p}
}

func TestAddWizard_Steps(t *testing.T) {
	form := domain.NewVehicle{}
	flow := fleet.AddWizard(&form)

	err := flow.Next()
	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.Has("vehicle_number"))
	assert.True(t, errs.Has("vehicle_type_id"))

	form.Number, form.TypeID = "MP09AB1234", "1"
	require.NoError(t, flow.Next())
	var stepErr *wizard.StepError
	require.True(t, errors.As(flow.Next(), &stepErr))
	assert.Equal(t, fleet.StepRoutes, stepErr.Step)

	form.Routes = []domain.ID{"1"}
	require.NoError(t, flow.Next())

	form.Document = domain.Document{Path: filepath.Join(t.TempDir(), "missing.jpg")}
	require.Error(t, flow.Next())
	form.Document = domain.Document{Path: t.TempDir()}
	require.Error(t, flow.Next())
	form.Document = document(t)
	require.NoError(t, flow.Next())
	assert.True(t, flow.Done())
}

func TestAddVehicle_ResolvesStateFromLocation(t *testing.T) {
	svc, srv, phone := newService(t, domain.RoleDriver)

	err := svc.AddVehicle(context.Background(), domain.NewVehicle{
		Number: " MP09AB1234 ", TypeID: "2", CurrLocation: "Gujarat",
		Routes: []domain.ID{"1", "3"}, Document: document(t),
	})
	require.NoError(t, err)

	req, _ := srv.Last(http.MethodPost, "/vehicles")
	assert.Equal(t, "MP09AB1234", req.Form.Get("vehicle_number"))
	assert.Equal(t, "3", req.Form.Get("curr_state_id"))
	assert.Len(t, srv.VehiclesOf(phone), 1)
}

func TestAddVehicle_InvalidSendsNothing(t *testing.T) {
	svc, srv, _ := newService(t, domain.RoleDriver)
	err := svc.AddVehicle(context.Background(), domain.NewVehicle{Number: "X", TypeID: "1"})
	require.Error(t, err)
	assert.Zero(t, srv.Calls(http.MethodPost, "/vehicles"))
}

func TestVehicles_ByRole(t *testing.T) {
	svc, srv, _ := newService(t, domain.RoleTransporter)
	srv.AddVehicle(transporterPhone, domain.Vehicle{})

	vs, err := svc.Vehicles(context.Background())
	require.NoError(t, err)
	assert.Len(t, vs, 1)
	assert.Equal(t, 1, srv.Calls(http.MethodGet, "/transporter/vehicles"))
	assert.Zero(t, srv.Calls(http.MethodGet, "/vehicles"))

	dsvc, dsrv, _ := newService(t, domain.RoleDriver)
	_, err = dsvc.Vehicles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dsrv.Calls(http.MethodGet, "/vehicles"))
}

func TestSelectAndDeleteVehicle(t *testing.T) {
	svc, srv, phone := newService(t, domain.RoleDriver)
	v := srv.AddVehicle(phone, domain.Vehicle{})
	ctx := context.Background()

	_, ok, err := svc.SelectedVehicle()
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := svc.SelectVehicle(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Number, got.Number)
	id, ok, err := svc.SelectedVehicle()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, v.ID, id)

	_, err = svc.SelectVehicle(ctx, "404")
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))

	require.NoError(t, svc.DeleteVehicle(ctx, v.ID))
	_, ok, _ = svc.SelectedVehicle()
	assert.False(t, ok)
}

func TestSetRoutes(t *testing.T) {
	svc, srv, phone := newService(t, domain.RoleDriver)
	v := srv.AddVehicle(phone, domain.Vehicle{})

	assert.ErrorIs(t, svc.SetRoutes(context.Background(), v.ID, nil), fleet.ErrNoRoutes)
	require.NoError(t, svc.SetRoutes(context.Background(), v.ID, []domain.ID{"2", "4"}))
	assert.Equal(t, []domain.ID{"2", "4"}, srv.Routes(v.ID))
}

func TestStatesAndTypes(t *testing.T) {
	svc, _, _ := newService(t, domain.RoleDriver)
	ctx := context.Background()

	states, err := svc.States(ctx, "raj")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "Rajasthan", states[0].Title)

	types, allStates, err := svc.AddOptions(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 3)
	assert.Len(t, allStates, 4)

	choices := fleet.Choices(types, 5000)
	assert.False(t, choices[0].Fits)
	assert.True(t, choices[1].Fits)
	assert.False(t, choices[2].Fits)
}

func TestDrivers(t *testing.T) {
	svc, srv, _ := newService(t, domain.RoleTransporter)
	ctx := context.Background()

	err := svc.AddDriver(ctx, domain.NewDriver{Name: " ", Phone: "9111111111"})
	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.Has("name"))
	assert.True(t, errs.Has("password"))

	require.NoError(t, svc.AddDriver(ctx, domain.NewDriver{Name: "Ravi", Phone: "9111111111", Password: "pw"}))
	req, _ := srv.Last(http.MethodPost, "/transporter/driver")
	assert.NotContains(t, string(req.Body), "email")

	ds, err := svc.Drivers(ctx)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.NoError(t, svc.DeleteDriver(ctx, ds[0].ID))
	assert.Empty(t, srv.DriversOf(transporterPhone))
}

func TestAddDriver_RequiresTransporter(t *testing.T) {
	svc, srv, _ := newService(t, domain.RoleDriver)
	err := svc.AddDriver(context.Background(), domain.NewDriver{Name: "Ravi", Phone: "9111111111", Password: "pw"})
	assert.ErrorIs(t, err, fleet.ErrNotTransporter)
	assert.Empty(t, srv.Requests())
}
