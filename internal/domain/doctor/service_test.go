package doctor

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliniva/cliniva/internal/platform/auth"
	"github.com/cliniva/cliniva/internal/platform/upload"
)

// -- Mock repository --

type mockRepo struct {
	doctors map[primitive.ObjectID]*Doctor
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[primitive.ObjectID]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = primitive.NewObjectID()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id primitive.ObjectID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) GetByUsername(_ context.Context, username string) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.Username == username {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) HasConflict(_ context.Context, username, email, licenseNumber string) (bool, error) {
	for _, d := range m.doctors {
		if d.Username == username || d.Email == email || d.LicenseNumber == licenseNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) Update(_ context.Context, d *Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return ErrNotFound
	}
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	_, ok := m.doctors[id]
	return ok, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	repo := newMockRepo()
	svc := NewService(repo, auth.NewTokens([]byte("test-secret")), upload.NewStore(t.TempDir()))
	return svc, repo
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username:       "drgupta",
		Password:       "secret123",
		Name:           "Dr. Gupta",
		Email:          "gupta@example.com",
		Specialization: "General Medicine",
		LicenseNumber:  "MH-12345",
		Phone:          "9825550147",
	}
}

// -- Tests --

func TestRegister_IssuesToken(t *testing.T) {
	svc, _ := newTestService(t)

	d, token, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if d.ClinicName != "General Clinic" {
		t.Errorf("expected clinic name default, got %s", d.ClinicName)
	}
	if d.Password == "secret123" {
		t.Error("expected password to be hashed")
	}
}

func TestRegister_RejectsDuplicate(t *testing.T) {
	svc, _ := newTestService(t)

	if _, _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), registerInput()); err != ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	in := registerInput()
	in.Password = "abc"
	if _, _, err := svc.Register(context.Background(), in); err == nil {
		t.Error("expected error for short password")
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Register(context.Background(), registerInput())

	d, token, err := svc.Login(context.Background(), "drgupta", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || d.Username != "drgupta" {
		t.Error("expected token and doctor for valid login")
	}

	if _, _, err := svc.Login(context.Background(), "drgupta", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody", "secret123"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestChangePassword_ClearsForcedReset(t *testing.T) {
	svc, repo := newTestService(t)
	d, _, _ := svc.Register(context.Background(), registerInput())

	d.RequirePasswordChange = true
	repo.doctors[d.ID] = d

	if err := svc.ChangePassword(context.Background(), d.ID, "secret123", "newsecret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.doctors[d.ID].RequirePasswordChange {
		t.Error("expected forced-reset flag to be cleared")
	}

	if _, _, err := svc.Login(context.Background(), "drgupta", "newsecret"); err != nil {
		t.Errorf("expected login with new password, got %v", err)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	svc, _ := newTestService(t)
	d, _, _ := svc.Register(context.Background(), registerInput())

	if err := svc.ChangePassword(context.Background(), d.ID, "wrong", "newsecret"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	svc, _ := newTestService(t)
	d, _, _ := svc.Register(context.Background(), registerInput())

	updated, err := svc.UpdateProfile(context.Background(), d.ID, ProfileUpdate{ClinicName: "Gupta Clinic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ClinicName != "Gupta Clinic" {
		t.Errorf("expected clinic name update, got %s", updated.ClinicName)
	}
	if updated.Name != "Dr. Gupta" {
		t.Errorf("expected untouched name, got %s", updated.Name)
	}
}

func TestTemplates_CRUD(t *testing.T) {
	svc, _ := newTestService(t)
	d, _, _ := svc.Register(context.Background(), registerInput())
	ctx := context.Background()

	templates, err := svc.AddTemplate(ctx, d.ID, TemplateInput{Name: "Fever", Symptoms: "fever, chills", Prescription: "paracetamol", FollowUpDays: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(templates))
	}

	tid := templates[0].ID
	templates, err = svc.UpdateTemplate(ctx, d.ID, tid, TemplateInput{Name: "Fever", Symptoms: "fever", Prescription: "ibuprofen", FollowUpDays: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if templates[0].Prescription != "ibuprofen" || templates[0].FollowUpDays != 5 {
		t.Error("expected template to be updated")
	}

	if _, err := svc.UpdateTemplate(ctx, d.ID, primitive.NewObjectID(), TemplateInput{Name: "x"}); err != ErrTemplateNotFound {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}

	templates, err = svc.DeleteTemplate(ctx, d.ID, tid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(templates) != 0 {
		t.Errorf("expected 0 templates after delete, got %d", len(templates))
	}
}
