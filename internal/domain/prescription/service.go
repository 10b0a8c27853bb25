package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliniva/cliniva/internal/domain/doctor"
	"github.com/cliniva/cliniva/internal/domain/patient"
	"github.com/cliniva/cliniva/internal/platform/textmatch"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalidStatus   = errors.New("invalid status")
)

// PatientSource is the slice of the patient repository the prescription
// service needs: ownership-checked lookups and the phone-digit search hook.
type PatientSource interface {
	GetByID(ctx context.Context, id, doctorID primitive.ObjectID) (*patient.Patient, error)
	Exists(ctx context.Context, id, doctorID primitive.ObjectID) (bool, error)
	FindIDsByPhoneDigits(ctx context.Context, doctorID primitive.ObjectID, digits string) ([]primitive.ObjectID, error)
}

// DoctorSource resolves the issuing doctor, whose signature path is
// snapshotted onto each prescription.
type DoctorSource interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*doctor.Doctor, error)
}

type Service struct {
	repo     Repository
	patients PatientSource
	doctors  DoctorSource
}

func NewService(repo Repository, patients PatientSource, doctors DoctorSource) *Service {
	return &Service{repo: repo, patients: patients, doctors: doctors}
}

type Input struct {
	PatientID              primitive.ObjectID
	Symptoms               string
	Prescription           string
	NextFollowUp           *time.Time
	Notes                  string
	OriginalPrescriptionID *primitive.ObjectID
}

// Create issues a prescription for a patient owned by the doctor,
// snapshotting the patient's name and age and the doctor's current
// signature. When the input references an original prescription this is a
// follow-up visit: the new record links back to the original and the
// original is marked follow_up_completed.
func (s *Service) Create(ctx context.Context, doctorID primitive.ObjectID, in Input) (*Prescription, error) {
	if in.Symptoms == "" {
		return nil, fmt.Errorf("symptoms are required")
	}
	if in.Prescription == "" {
		return nil, fmt.Errorf("prescription is required")
	}

	pat, err := s.patients.GetByID(ctx, in.PatientID, doctorID)
	if errors.Is(err, patient.ErrNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}

	doc, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	prescriptionID, err := s.generatePrescriptionID(ctx)
	if err != nil {
		return nil, err
	}

	p := &Prescription{
		PrescriptionID:   prescriptionID,
		PatientID:        pat.ID,
		DoctorID:         doctorID,
		PatientName:      pat.Name,
		PatientAge:       pat.Age,
		Symptoms:         in.Symptoms,
		Prescription:     in.Prescription,
		NextFollowUp:     in.NextFollowUp,
		DigitalSignature: doc.DigitalSignature,
		Notes:            in.Notes,
		Status:           StatusActive,
	}

	if in.OriginalPrescriptionID != nil {
		original, err := s.repo.GetByID(ctx, *in.OriginalPrescriptionID, doctorID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if original != nil {
			p.OriginalPrescriptionID = &original.ID
			original.Status = StatusFollowUpCompleted
			if err := s.repo.Update(ctx, original); err != nil {
				return nil, err
			}
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) generatePrescriptionID(ctx context.Context) (string, error) {
	for {
		candidate := GenerateID(time.Now().UTC())
		taken, err := s.repo.PrescriptionIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// List purges orphaned prescriptions first so stale references never reach
// the caller, then returns the doctor's prescriptions newest first.
func (s *Service) List(ctx context.Context, doctorID primitive.ObjectID, limit, offset int) ([]*Prescription, int64, error) {
	if _, err := s.PurgeOrphans(ctx, doctorID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]*Prescription, error) {
	ok, err := s.patients.Exists(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPatientNotFound
	}
	return s.repo.ListByPatient(ctx, patientID, doctorID)
}

func (s *Service) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*Prescription, error) {
	return s.repo.GetByID(ctx, id, doctorID)
}

type Update struct {
	Symptoms     string
	Prescription string
	NextFollowUp *time.Time
	Notes        string
}

func (s *Service) UpdatePrescription(ctx context.Context, id, doctorID primitive.ObjectID, in Update) (*Prescription, error) {
	if in.Symptoms == "" {
		return nil, fmt.Errorf("symptoms are required")
	}
	if in.Prescription == "" {
		return nil, fmt.Errorf("prescription is required")
	}

	p, err := s.repo.GetByID(ctx, id, doctorID)
	if err != nil {
		return nil, err
	}

	p.Symptoms = in.Symptoms
	p.Prescription = in.Prescription
	p.NextFollowUp = in.NextFollowUp
	p.Notes = in.Notes

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, doctorID primitive.ObjectID, status string) (*Prescription, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	p, err := s.repo.GetByID(ctx, id, doctorID)
	if err != nil {
		return nil, err
	}

	p.Status = status
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	return s.repo.Delete(ctx, id, doctorID)
}

// PurgeOrphans deletes prescriptions whose patient no longer exists and
// returns how many were removed.
func (s *Service) PurgeOrphans(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	patientIDs, err := s.repo.DistinctPatientIDs(ctx, doctorID)
	if err != nil {
		return 0, err
	}

	orphaned := []primitive.ObjectID{}
	for _, id := range patientIDs {
		ok, err := s.patients.Exists(ctx, id, doctorID)
		if err != nil {
			return 0, err
		}
		if !ok {
			orphaned = append(orphaned, id)
		}
	}
	return s.repo.DeleteByPatientIDs(ctx, doctorID, orphaned)
}

// Search matches the query across patient name, symptoms, prescription
// text, and prescription id. When the query carries digits, prescriptions
// of patients whose phone contains that digit run are included as well.
func (s *Service) Search(ctx context.Context, doctorID primitive.ObjectID, query string) ([]*Prescription, error) {
	query = textmatch.Fold(query)
	if query == "" {
		return []*Prescription{}, nil
	}

	terms := SearchTerms{Pattern: textmatch.EscapeQuery(query)}
	if digits := textmatch.DigitRun(query); digits != "" {
		ids, err := s.patients.FindIDsByPhoneDigits(ctx, doctorID, digits)
		if err != nil {
			return nil, err
		}
		terms.PatientIDs = ids
	}
	return s.repo.Search(ctx, doctorID, terms)
}
