package patient

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliniva/cliniva/internal/platform/upload"
)

type Service struct {
	repo    Repository
	purger  PrescriptionPurger
	uploads *upload.Store
}

func NewService(repo Repository, purger PrescriptionPurger, uploads *upload.Store) *Service {
	return &Service{repo: repo, purger: purger, uploads: uploads}
}

type Input struct {
	Name             string
	DateOfBirth      time.Time
	Age              int
	Sex              string
	Address          string
	Phone            string
	EmergencyContact EmergencyContact
	MedicalHistory   MedicalHistory
	Photo            *multipart.FileHeader
}

func (in Input) validate() error {
	switch {
	case in.Name == "":
		return fmt.Errorf("name is required")
	case in.DateOfBirth.IsZero():
		return fmt.Errorf("dateOfBirth is required")
	case in.Age <= 0:
		return fmt.Errorf("age is required")
	case !ValidSex(in.Sex):
		return fmt.Errorf("sex must be Male, Female, or Other")
	case in.Address == "":
		return fmt.Errorf("address is required")
	case in.Phone == "":
		return fmt.Errorf("phone is required")
	case in.EmergencyContact.Name == "":
		return fmt.Errorf("emergency contact name is required")
	case in.EmergencyContact.Relation == "":
		return fmt.Errorf("emergency contact relation is required")
	case in.EmergencyContact.Phone == "":
		return fmt.Errorf("emergency contact phone is required")
	}
	return nil
}

// Create registers a new patient under the doctor, assigning the next free
// human-readable patient id and storing the photo when one was uploaded.
func (s *Service) Create(ctx context.Context, doctorID primitive.ObjectID, in Input) (*Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	patientID, err := s.generatePatientID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		PatientID:        patientID,
		Name:             in.Name,
		DateOfBirth:      in.DateOfBirth,
		Age:              in.Age,
		Sex:              in.Sex,
		Address:          in.Address,
		Phone:            in.Phone,
		EmergencyContact: in.EmergencyContact,
		MedicalHistory:   in.MedicalHistory,
		DoctorID:         doctorID,
	}

	if in.Photo != nil {
		path, err := s.uploads.Save(in.Photo, "patients", "photo", upload.MaxPhotoSize)
		if err != nil {
			return nil, err
		}
		p.Photo = &path
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if p.Photo != nil {
			s.uploads.Remove(*p.Photo)
		}
		return nil, err
	}
	return p, nil
}

// generatePatientID builds ids of the form P<yy><mm><seq>, probing forward
// from the doctor's current patient count until an unused id is found.
func (s *Service) generatePatientID(ctx context.Context, doctorID primitive.ObjectID) (string, error) {
	count, err := s.repo.CountByDoctor(ctx, doctorID)
	if err != nil {
		return "", err
	}

	prefix := "P" + time.Now().UTC().Format("0601")
	for seq := count + 1; ; seq++ {
		candidate := fmt.Sprintf("%s%04d", prefix, seq)
		taken, err := s.repo.PatientIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func (s *Service) Get(ctx context.Context, id, doctorID primitive.ObjectID) (*Patient, error) {
	return s.repo.GetByID(ctx, id, doctorID)
}

func (s *Service) List(ctx context.Context, doctorID primitive.ObjectID, limit, offset int) ([]*Patient, int64, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

type Update struct {
	Name             string
	DateOfBirth      time.Time
	Age              int
	Sex              string
	Address          string
	Phone            string
	EmergencyContact *EmergencyContact
	MedicalHistory   *MedicalHistory
	Photo            *multipart.FileHeader
}

// UpdatePatient applies the provided fields, replacing the stored photo
// when a new one is uploaded.
func (s *Service) UpdatePatient(ctx context.Context, id, doctorID primitive.ObjectID, in Update) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id, doctorID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if !in.DateOfBirth.IsZero() {
		p.DateOfBirth = in.DateOfBirth
	}
	if in.Age > 0 {
		p.Age = in.Age
	}
	if in.Sex != "" {
		if !ValidSex(in.Sex) {
			return nil, fmt.Errorf("sex must be Male, Female, or Other")
		}
		p.Sex = in.Sex
	}
	if in.Address != "" {
		p.Address = in.Address
	}
	if in.Phone != "" {
		p.Phone = in.Phone
	}
	if in.EmergencyContact != nil {
		p.EmergencyContact = *in.EmergencyContact
	}
	if in.MedicalHistory != nil {
		p.MedicalHistory = *in.MedicalHistory
	}

	if in.Photo != nil {
		old := ""
		if p.Photo != nil {
			old = *p.Photo
		}
		path, err := s.uploads.Replace(old, in.Photo, "patients", "photo", upload.MaxPhotoSize)
		if err != nil {
			return nil, err
		}
		p.Photo = &path
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the patient, cascades to its prescriptions, and deletes
// the photo file. Returns the number of prescriptions removed.
func (s *Service) Delete(ctx context.Context, id, doctorID primitive.ObjectID) (int64, error) {
	p, err := s.repo.GetByID(ctx, id, doctorID)
	if err != nil {
		return 0, err
	}

	deleted, err := s.purger.DeleteByPatient(ctx, p.ID, doctorID)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Delete(ctx, id, doctorID); err != nil {
		return 0, err
	}

	if p.Photo != nil {
		s.uploads.Remove(*p.Photo)
	}
	return deleted, nil
}

// Search loads the doctor's patients and runs the two-tier lookup over
// them.
func (s *Service) Search(ctx context.Context, doctorID primitive.ObjectID, query string) ([]*Patient, error) {
	patients, err := s.repo.AllByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return Search(patients, query), nil
}
