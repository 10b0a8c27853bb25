package backup

import (
	"fmt"

	"github.com/cliniva/cliniva/internal/domain/patient"
	"github.com/cliniva/cliniva/internal/domain/prescription"
)

// validationSample bounds how many records of each collection are checked
// before the destructive phase. Structural problems show up in the first few
// records of a broken export; checking everything would double the cost of
// large imports for no added safety.
const validationSample = 10

// validate structurally checks a sample of each collection. It runs before
// any mutation, so a failure leaves the store untouched.
func validate(data Data) error {
	for i, d := range head(data.Doctors) {
		at := func(field string) string { return fmt.Sprintf("doctors[%d].%s", i, field) }
		switch {
		case d.LegacyID == "":
			return &ValidationError{Field: at("_id"), Reason: "missing id"}
		case d.Username == "":
			return &ValidationError{Field: at("username"), Reason: "required"}
		case d.Name == "":
			return &ValidationError{Field: at("name"), Reason: "required"}
		case d.Email == "":
			return &ValidationError{Field: at("email"), Reason: "required"}
		}
	}

	for i, p := range head(data.Patients) {
		at := func(field string) string { return fmt.Sprintf("patients[%d].%s", i, field) }
		switch {
		case p.LegacyID == "":
			return &ValidationError{Field: at("_id"), Reason: "missing id"}
		case p.Name == "":
			return &ValidationError{Field: at("name"), Reason: "required"}
		case p.PatientID == "":
			return &ValidationError{Field: at("patientId"), Reason: "required"}
		case p.DoctorID == "":
			return &ValidationError{Field: at("doctorId"), Reason: "required"}
		case p.Sex != "" && !patient.ValidSex(p.Sex):
			return &ValidationError{Field: at("sex"), Reason: "must be Male, Female, or Other"}
		}
	}

	for i, p := range head(data.Prescriptions) {
		at := func(field string) string { return fmt.Sprintf("prescriptions[%d].%s", i, field) }
		switch {
		case p.LegacyID == "":
			return &ValidationError{Field: at("_id"), Reason: "missing id"}
		case p.PrescriptionID == "":
			return &ValidationError{Field: at("prescriptionId"), Reason: "required"}
		case p.PatientID == "":
			return &ValidationError{Field: at("patientId"), Reason: "required"}
		case p.DoctorID == "":
			return &ValidationError{Field: at("doctorId"), Reason: "required"}
		case p.Status != "" && !prescription.ValidStatus(p.Status):
			return &ValidationError{Field: at("status"), Reason: "must be active, follow_up_completed, or completed"}
		}
	}
	return nil
}

func head[T any](items []T) []T {
	if len(items) > validationSample {
		return items[:validationSample]
	}
	return items
}
