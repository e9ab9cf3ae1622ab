package loads

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"vtruck/internal/domain"
	"vtruck/internal/validate"
	"vtruck/internal/wizard"
)

// Step names of the post-load flow.
const (
	StepDetails     = "load details"
	StepVehicleType = "vehicle type"
	StepPost        = "post"
)

// PostWizard returns the three step flow that fills form.
func PostWizard(form *domain.LoadForm) *wizard.Flow[domain.LoadForm] {
	return wizard.New(form,
		wizard.Step[domain.LoadForm]{Name: StepDetails, Validate: validateDetails},
		wizard.Step[domain.LoadForm]{Name: StepVehicleType, Validate: validateVehicleType},
		wizard.Step[domain.LoadForm]{Name: StepPost, Validate: validatePost},
	)
}

func validateDetails(f *domain.LoadForm) error {
	var errs validate.Errors
	if strings.TrimSpace(f.Pickup.Description) == "" {
		errs.Add("pickup_location", "This field is required")
	}
	if strings.TrimSpace(f.Dropoff.Description) == "" {
		errs.Add("dropoff_location", "This field is required")
	}
	if strings.TrimSpace(f.Material) == "" {
		errs.Add("material_name", "This field is required")
	}
	if _, ok := positive(f.Weight); !ok {
		errs.Add("weight", "Must be greater than 0")
	}
	if strings.TrimSpace(f.Description) == "" {
		errs.Add("description", "This field is required")
	}
	return errs.Err()
}

// validateVehicleType rejects a type whose weight range excludes the load.
func validateVehicleType(f *domain.LoadForm) error {
	var errs validate.Errors
	if f.VehicleType.ID.IsZero() {
		errs.Add("vehicle_type", "This field is required")
		return errs
	}
	if w, ok := positive(f.Weight); ok && !f.VehicleType.Fits(w.InexactFloat64()) {
		errs.Add("vehicle_type", "Vehicle type does not fit a load of "+w.String()+" kg")
	}
	return errs.Err()
}

func validatePost(f *domain.LoadForm) error {
	var errs validate.Errors
	if _, ok := positive(f.Amount); !ok {
		errs.Add("amount", "Must be greater than 0")
	}
	return errs.Err()
}

// visibleHours is the requested limit, or the default when none is set.
func visibleHours(f *domain.LoadForm) int {
	if !f.LimitHours {
		return domain.DefaultVisibleHours
	}
	h, err := strconv.Atoi(strings.TrimSpace(f.VisibleHours))
	if err != nil || h <= 0 {
		return domain.DefaultVisibleHours
	}
	return h
}

func positive(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
