package prescription

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("prescription not found")

// SearchTerms is the repository-level shape of a prescription search: a
// regex-escaped pattern matched across the text fields, plus patient ids
// whose prescriptions match regardless of text (phone-number hits).
type SearchTerms struct {
	Pattern    string
	PatientIDs []primitive.ObjectID
}

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	// GetByID returns the prescription only when it belongs to doctorID.
	GetByID(ctx context.Context, id, doctorID primitive.ObjectID) (*Prescription, error)
	// ListByDoctor returns a page of the doctor's prescriptions, newest
	// first, together with the total count.
	ListByDoctor(ctx context.Context, doctorID primitive.ObjectID, limit, offset int) ([]*Prescription, int64, error)
	ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	Delete(ctx context.Context, id, doctorID primitive.ObjectID) error
	// DeleteByPatient removes all prescriptions of one patient, returning
	// how many were removed. Satisfies the patient package's cascade hook.
	DeleteByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) (int64, error)
	// DeleteByPatientIDs removes prescriptions referencing any of the given
	// patients, used by orphan cleanup.
	DeleteByPatientIDs(ctx context.Context, doctorID primitive.ObjectID, patientIDs []primitive.ObjectID) (int64, error)
	// DistinctPatientIDs returns the distinct patients referenced by the
	// doctor's prescriptions.
	DistinctPatientIDs(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error)
	PrescriptionIDExists(ctx context.Context, prescriptionID string) (bool, error)
	CountByDoctor(ctx context.Context, doctorID primitive.ObjectID) (int64, error)
	Search(ctx context.Context, doctorID primitive.ObjectID, terms SearchTerms) ([]*Prescription, error)
}
