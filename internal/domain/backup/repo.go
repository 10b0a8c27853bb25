package backup

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliniva/cliniva/internal/domain/doctor"
	"github.com/cliniva/cliniva/internal/domain/patient"
	"github.com/cliniva/cliniva/internal/domain/prescription"
)

// The stores give the engine whole-collection access: export dumps them,
// import replaces them, and rollback restores them. They bypass the
// per-doctor repositories on purpose — backup operates on everything.

type DoctorStore interface {
	All(ctx context.Context) ([]*doctor.Doctor, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, d *doctor.Doctor) error
	InsertMany(ctx context.Context, docs []*doctor.Doctor) error
}

type PatientStore interface {
	All(ctx context.Context) ([]*patient.Patient, error)
	Count(ctx context.Context) (int64, error)
	CountByDoctor(ctx context.Context, doctorID primitive.ObjectID) (int64, error)
	DeleteAll(ctx context.Context) error
	InsertMany(ctx context.Context, patients []*patient.Patient) error
}

type PrescriptionStore interface {
	All(ctx context.Context) ([]*prescription.Prescription, error)
	Count(ctx context.Context) (int64, error)
	CountByDoctor(ctx context.Context, doctorID primitive.ObjectID) (int64, error)
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, p *prescription.Prescription) error
	InsertMany(ctx context.Context, prescriptions []*prescription.Prescription) error
}
