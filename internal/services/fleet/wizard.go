package fleet

import (
	"os"
	"strings"

	"vtruck/internal/domain"
	"vtruck/internal/validate"
	"vtruck/internal/wizard"
)

// Step names of the add-vehicle flow.
const (
	StepVehicle  = "vehicle"
	StepRoutes   = "routes"
	StepDocument = "document"
)

// AddWizard returns the three step flow that fills form.
func AddWizard(form *domain.NewVehicle) *wizard.Flow[domain.NewVehicle] {
	return wizard.New(form,
		wizard.Step[domain.NewVehicle]{Name: StepVehicle, Validate: validateVehicle},
		wizard.Step[domain.NewVehicle]{Name: StepRoutes, Validate: validateRoutes},
		wizard.Step[domain.NewVehicle]{Name: StepDocument, Validate: validateDocument},
	)
}

func validateVehicle(v *domain.NewVehicle) error {
	var errs validate.Errors
	if strings.TrimSpace(v.Number) == "" {
		errs.Add("vehicle_number", "This field is required")
	}
	if v.TypeID.IsZero() {
		errs.Add("vehicle_type_id", "This field is required")
	}
	return errs.Err()
}

func validateRoutes(v *domain.NewVehicle) error {
	var errs validate.Errors
	if len(v.Routes) == 0 {
		errs.Add("routes", "Select at least one state")
	}
	return errs.Err()
}

func validateDocument(v *domain.NewVehicle) error {
	var errs validate.Errors
	switch fi, err := os.Stat(v.Document.Path); {
	case v.Document.IsZero():
		errs.Add("document", "This field is required")
	case err != nil:
		errs.Add("document", "File not found")
	case fi.IsDir():
		errs.Add("document", "Must be a file")
	}
	return errs.Err()
}
