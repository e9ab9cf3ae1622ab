package commands

import (
	"errors"

	"vtruck/internal/api"
	"vtruck/internal/domain"
	"vtruck/internal/maps"
	"vtruck/internal/services/auth"
	"vtruck/internal/services/catalog"
	"vtruck/internal/services/drafts"
	"vtruck/internal/services/fleet"
	"vtruck/internal/services/market"
	"vtruck/internal/store"
	"vtruck/internal/validate"
	"vtruck/internal/wizard"
)

// sentinels maps known failures to message keys, most specific first.
var sentinels = []struct {
	err error
	key string
}{
	{auth.ErrNotLoggedIn, "error.not_logged_in"},
	{api.ErrNoSession, "error.not_logged_in"},
	{auth.ErrSessionExpired, "error.session_expired"},
	{auth.ErrIncompleteLogin, "error.incomplete_login"},
	{market.ErrKYCRequired, "error.kyc_required"},
	{market.ErrNoVehicles, "error.no_vehicles"},
	{market.ErrVehicleNotFound, "error.vehicle_not_found"},
	{market.ErrNoPosition, "error.no_position"},
	{market.ErrNoVehicleSelected, "error.no_vehicle_selected"},
	{fleet.ErrNoRoutes, "error.no_routes"},
	{fleet.ErrNotTransporter, "error.not_transporter"},
	{drafts.ErrNotFound, "error.draft_not_found"},
	{catalog.ErrNoCountries, "error.no_countries"},
	{maps.ErrNoAPIKey, "error.no_maps_key"},
	{store.ErrPassphraseRequired, "error.passphrase_required"},
	{store.ErrWrongPassphrase, "error.wrong_passphrase"},
	{domain.ErrUnknownRole, "error.unknown_role"},
}

// describe renders err for the user in the selected language.
func (c *cli) describe(err error) string {
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		return c.p.T("error.step", stepErr.Index+1, stepErr.Step) + "\n" + c.describe(stepErr.Err)
	}
	var fields validate.Errors
	if errors.As(err, &fields) {
		return c.p.T("error.validation") + "\n" + fields.Error()
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return c.p.T(s.key)
		}
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch {
		case api.IsUnauthorized(err):
			return c.p.T("error.unauthorized")
		case api.IsValidation(err):
			return c.p.T("error.rejected") + "\n" + apiErr.Detail()
		}
		return c.p.T("error.backend", apiErr.Detail())
	}
	return c.p.T("error.generic", err.Error())
}
