package patient

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("patient not found")

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	// GetByID returns the patient only when it belongs to doctorID.
	GetByID(ctx context.Context, id, doctorID primitive.ObjectID) (*Patient, error)
	// ListByDoctor returns a page of the doctor's patients, newest first,
	// together with the total count.
	ListByDoctor(ctx context.Context, doctorID primitive.ObjectID, limit, offset int) ([]*Patient, int64, error)
	// AllByDoctor returns every patient of the doctor, used by search.
	AllByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id, doctorID primitive.ObjectID) error
	// PatientIDExists reports whether any record already carries the
	// human-readable patient id.
	PatientIDExists(ctx context.Context, patientID string) (bool, error)
	CountByDoctor(ctx context.Context, doctorID primitive.ObjectID) (int64, error)
	// Exists reports whether the patient exists under the given doctor.
	Exists(ctx context.Context, id, doctorID primitive.ObjectID) (bool, error)
	// FindIDsByPhoneDigits returns ids of the doctor's patients whose phone
	// number contains the digit run. Used by prescription search.
	FindIDsByPhoneDigits(ctx context.Context, doctorID primitive.ObjectID, digits string) ([]primitive.ObjectID, error)
}

// PrescriptionPurger removes a patient's prescriptions when the patient is
// deleted. Implemented by the prescription repository and wired at startup.
type PrescriptionPurger interface {
	DeleteByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) (int64, error)
}
