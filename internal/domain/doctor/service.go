package doctor

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/cliniva/cliniva/internal/platform/auth"
	"github.com/cliniva/cliniva/internal/platform/upload"
)

var (
	ErrAlreadyExists      = errors.New("doctor already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const bcryptCost = 10

// HashPassword hashes a plaintext password the way every stored credential
// is hashed. Exported so the import pipeline hashes per inserted record.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

type Service struct {
	repo    Repository
	tokens  *auth.Tokens
	uploads *upload.Store
}

func NewService(repo Repository, tokens *auth.Tokens, uploads *upload.Store) *Service {
	return &Service{repo: repo, tokens: tokens, uploads: uploads}
}

type RegisterInput struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
	Phone          string `json:"phone"`
	ClinicName     string `json:"clinicName"`
	ClinicAddress  string `json:"clinicAddress"`
}

func (in RegisterInput) validate() error {
	switch {
	case in.Username == "":
		return fmt.Errorf("username is required")
	case len(in.Password) < 6:
		return fmt.Errorf("password must be at least 6 characters")
	case in.Name == "":
		return fmt.Errorf("name is required")
	case in.Email == "":
		return fmt.Errorf("email is required")
	case in.Specialization == "":
		return fmt.Errorf("specialization is required")
	case in.LicenseNumber == "":
		return fmt.Errorf("licenseNumber is required")
	case in.Phone == "":
		return fmt.Errorf("phone is required")
	}
	return nil
}

// Register creates a doctor account and issues a token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Doctor, string, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}

	conflict, err := s.repo.HasConflict(ctx, in.Username, in.Email, in.LicenseNumber)
	if err != nil {
		return nil, "", err
	}
	if conflict {
		return nil, "", ErrAlreadyExists
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	clinicName := in.ClinicName
	if clinicName == "" {
		clinicName = "General Clinic"
	}

	d := &Doctor{
		Username:       in.Username,
		Password:       hashed,
		Name:           in.Name,
		Email:          in.Email,
		Specialization: in.Specialization,
		LicenseNumber:  in.LicenseNumber,
		Phone:          in.Phone,
		ClinicName:     clinicName,
		ClinicAddress:  in.ClinicAddress,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Sign(d.ID.Hex())
	if err != nil {
		return nil, "", err
	}
	return d, token, nil
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (*Doctor, string, error) {
	d, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(d.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(d.ID.Hex())
	if err != nil {
		return nil, "", err
	}
	return d, token, nil
}

// VerifyCredentials re-checks a username/password pair without issuing a
// token. Used by the danger-zone confirmation step.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) error {
	d, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(d.Password), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

// ChangePassword verifies the current password, stores the new one, and
// clears the forced-reset flag set by imports.
func (s *Service) ChangePassword(ctx context.Context, id primitive.ObjectID, current, newPassword string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(d.Password), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	d.Password = hashed
	d.RequirePasswordChange = false
	return s.repo.Update(ctx, d)
}

type ProfileUpdate struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	ClinicName     string `json:"clinicName"`
	ClinicAddress  string `json:"clinicAddress"`
	Phone          string `json:"phone"`
}

// UpdateProfile applies the non-empty fields of the update.
func (s *Service) UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileUpdate) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		d.Name = in.Name
	}
	if in.Email != "" {
		d.Email = in.Email
	}
	if in.Specialization != "" {
		d.Specialization = in.Specialization
	}
	if in.ClinicName != "" {
		d.ClinicName = in.ClinicName
	}
	if in.ClinicAddress != "" {
		d.ClinicAddress = in.ClinicAddress
	}
	if in.Phone != "" {
		d.Phone = in.Phone
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SaveSignature stores a new digital signature image and removes the
// previous one.
func (s *Service) SaveSignature(ctx context.Context, id primitive.ObjectID, file *multipart.FileHeader) (string, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	old := ""
	if d.DigitalSignature != nil {
		old = *d.DigitalSignature
	}
	path, err := s.uploads.Replace(old, file, "signatures", "signature", upload.MaxSignatureSize)
	if err != nil {
		return "", err
	}

	d.DigitalSignature = &path
	if err := s.repo.Update(ctx, d); err != nil {
		return "", err
	}
	return path, nil
}

// -- Prescription templates --

var ErrTemplateNotFound = errors.New("template not found")

type TemplateInput struct {
	Name         string `json:"name"`
	Symptoms     string `json:"symptoms"`
	Prescription string `json:"prescription"`
	FollowUpDays int    `json:"followUpDays"`
}

func (s *Service) Templates(ctx context.Context, id primitive.ObjectID) ([]Template, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.PrescriptionTemplates == nil {
		return []Template{}, nil
	}
	return d.PrescriptionTemplates, nil
}

func (s *Service) AddTemplate(ctx context.Context, id primitive.ObjectID, in TemplateInput) ([]Template, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("template name is required")
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d.PrescriptionTemplates = append(d.PrescriptionTemplates, Template{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Symptoms:     in.Symptoms,
		Prescription: in.Prescription,
		FollowUpDays: in.FollowUpDays,
	})
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d.PrescriptionTemplates, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id, templateID primitive.ObjectID, in TemplateInput) ([]Template, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range d.PrescriptionTemplates {
		if d.PrescriptionTemplates[i].ID == templateID {
			d.PrescriptionTemplates[i].Name = in.Name
			d.PrescriptionTemplates[i].Symptoms = in.Symptoms
			d.PrescriptionTemplates[i].Prescription = in.Prescription
			d.PrescriptionTemplates[i].FollowUpDays = in.FollowUpDays
			found = true
			break
		}
	}
	if !found {
		return nil, ErrTemplateNotFound
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d.PrescriptionTemplates, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, id, templateID primitive.ObjectID) ([]Template, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := d.PrescriptionTemplates[:0]
	for _, t := range d.PrescriptionTemplates {
		if t.ID != templateID {
			kept = append(kept, t)
		}
	}
	d.PrescriptionTemplates = kept

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d.PrescriptionTemplates, nil
}
