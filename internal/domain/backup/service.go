package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cliniva/cliniva/internal/domain/doctor"
	"github.com/cliniva/cliniva/internal/domain/patient"
	"github.com/cliniva/cliniva/internal/domain/prescription"
)

const passwordWarning = "All imported doctor accounts were given a temporary password and must change it on first login."

// Engine implements export, import, and the rollback that guards the
// import. The import is destructive by design: the incoming file replaces
// the whole store, and the pre-import snapshot is the only undo.
type Engine struct {
	doctors       DoctorStore
	patients      PatientStore
	prescriptions PrescriptionStore
	log           zerolog.Logger
}

func NewEngine(doctors DoctorStore, patients PatientStore, prescriptions PrescriptionStore, log zerolog.Logger) *Engine {
	return &Engine{doctors: doctors, patients: patients, prescriptions: prescriptions, log: log}
}

// Export dumps the full store. Passwords never leave the system: every
// doctor record carries the fixed placeholder and the forced-change flag.
func (e *Engine) Export(ctx context.Context) (*Export, error) {
	doctors, err := e.doctors.All(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := e.patients.All(ctx)
	if err != nil {
		return nil, err
	}
	prescriptions, err := e.prescriptions.All(ctx)
	if err != nil {
		return nil, err
	}

	data := Data{
		Doctors:       make([]Doctor, len(doctors)),
		Patients:      make([]Patient, len(patients)),
		Prescriptions: make([]Prescription, len(prescriptions)),
	}
	for i, d := range doctors {
		data.Doctors[i] = exportDoctor(d)
	}
	for i, p := range patients {
		data.Patients[i] = exportPatient(p)
	}
	for i, p := range prescriptions {
		data.Prescriptions[i] = exportPrescription(p)
	}

	counts := Counts{
		Doctors:       len(doctors),
		Patients:      len(patients),
		Prescriptions: len(prescriptions),
	}
	counts.Total = counts.Doctors + counts.Patients + counts.Prescriptions

	return &Export{
		ExportDate: time.Now().UTC(),
		Version:    FormatVersion,
		Data:       data,
		Counts:     counts,
	}, nil
}

func exportDoctor(d *doctor.Doctor) Doctor {
	return Doctor{
		LegacyID:              d.ID.Hex(),
		Username:              d.Username,
		Password:              PasswordPlaceholder,
		Name:                  d.Name,
		Email:                 d.Email,
		Specialization:        d.Specialization,
		LicenseNumber:         d.LicenseNumber,
		DigitalSignature:      d.DigitalSignature,
		ClinicName:            d.ClinicName,
		ClinicAddress:         d.ClinicAddress,
		Phone:                 d.Phone,
		RequirePasswordChange: true,
		PrescriptionTemplates: d.PrescriptionTemplates,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func exportPatient(p *patient.Patient) Patient {
	return Patient{
		LegacyID:         p.ID.Hex(),
		PatientID:        p.PatientID,
		Photo:            p.Photo,
		Name:             p.Name,
		DateOfBirth:      p.DateOfBirth,
		Age:              p.Age,
		Sex:              p.Sex,
		Address:          p.Address,
		Phone:            p.Phone,
		EmergencyContact: p.EmergencyContact,
		MedicalHistory:   p.MedicalHistory,
		DoctorID:         p.DoctorID.Hex(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func exportPrescription(p *prescription.Prescription) Prescription {
	var original *string
	if p.OriginalPrescriptionID != nil {
		hex := p.OriginalPrescriptionID.Hex()
		original = &hex
	}
	return Prescription{
		LegacyID:               p.ID.Hex(),
		PrescriptionID:         p.PrescriptionID,
		PatientID:              p.PatientID.Hex(),
		DoctorID:               p.DoctorID.Hex(),
		PatientName:            p.PatientName,
		PatientAge:             p.PatientAge,
		Symptoms:               p.Symptoms,
		Prescription:           p.Prescription,
		NextFollowUp:           p.NextFollowUp,
		DigitalSignature:       p.DigitalSignature,
		Notes:                  p.Notes,
		Status:                 p.Status,
		OriginalPrescriptionID: original,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

// snapshot holds the pre-import state of all three collections, the
// rollback baseline.
type snapshot struct {
	doctors       []*doctor.Doctor
	patients      []*patient.Patient
	prescriptions []*prescription.Prescription
}

// Import replaces the whole store with the payload. Reference ids are
// remapped through the explicit legacy ids carried by each record; an
// unmapped doctor or patient reference is a hard failure that rolls the
// store back to its pre-import state. On success the per-collection counts
// are verified against what was inserted.
func (e *Engine) Import(ctx context.Context, payload *ImportPayload) (*ImportResult, error) {
	// 1. Shape check, store untouched.
	if payload.Data.Doctors == nil || payload.Data.Patients == nil || payload.Data.Prescriptions == nil {
		return nil, ErrInvalidFormat
	}
	data := Data{
		Doctors:       *payload.Data.Doctors,
		Patients:      *payload.Data.Patients,
		Prescriptions: *payload.Data.Prescriptions,
	}

	// 2. Snapshot the current state.
	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	// 3-4. Validate a sample of each collection, store still untouched.
	if err := validate(data); err != nil {
		return nil, err
	}

	e.log.Info().
		Int("doctors", len(data.Doctors)).
		Int("patients", len(data.Patients)).
		Int("prescriptions", len(data.Prescriptions)).
		Msg("starting data import")

	// 5. Destructive phase begins.
	if err := e.clearAll(ctx); err != nil {
		return nil, e.fail(ctx, snap, err)
	}

	// 6. Doctors, one at a time, building the legacy id map.
	now := time.Now().UTC()
	doctorIDs := make(map[string]primitive.ObjectID, len(data.Doctors))
	for _, in := range data.Doctors {
		hashed, err := doctor.HashPassword(PasswordPlaceholder)
		if err != nil {
			return nil, e.fail(ctx, snap, err)
		}
		d := &doctor.Doctor{
			ID:                    primitive.NewObjectID(),
			Username:              in.Username,
			Password:              hashed,
			Name:                  in.Name,
			Email:                 in.Email,
			Specialization:        in.Specialization,
			LicenseNumber:         in.LicenseNumber,
			DigitalSignature:      nil,
			ClinicName:            in.ClinicName,
			ClinicAddress:         in.ClinicAddress,
			Phone:                 in.Phone,
			RequirePasswordChange: true,
			PrescriptionTemplates: in.PrescriptionTemplates,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if d.PrescriptionTemplates == nil {
			d.PrescriptionTemplates = []doctor.Template{}
		}
		if err := e.doctors.Insert(ctx, d); err != nil {
			return nil, e.fail(ctx, snap, err)
		}
		doctorIDs[in.LegacyID] = d.ID
	}

	// 7. Patients, remapping the doctor reference.
	patientIDs := make(map[string]primitive.ObjectID, len(data.Patients))
	patients := make([]*patient.Patient, len(data.Patients))
	for i, in := range data.Patients {
		doctorID, ok := doctorIDs[in.DoctorID]
		if !ok {
			return nil, e.fail(ctx, snap,
				fmt.Errorf("patient %s references unknown doctor %s", in.PatientID, in.DoctorID))
		}
		p := &patient.Patient{
			ID:               primitive.NewObjectID(),
			PatientID:        in.PatientID,
			Photo:            nil,
			Name:             in.Name,
			DateOfBirth:      in.DateOfBirth,
			Age:              in.Age,
			Sex:              in.Sex,
			Address:          in.Address,
			Phone:            in.Phone,
			EmergencyContact: in.EmergencyContact,
			MedicalHistory:   in.MedicalHistory,
			DoctorID:         doctorID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		patients[i] = p
		patientIDs[in.LegacyID] = p.ID
	}
	if err := e.patients.InsertMany(ctx, patients); err != nil {
		return nil, e.fail(ctx, snap, err)
	}

	// 8. Prescriptions, remapping doctor and patient references. The
	// follow-up back-reference is remapped when its target came earlier in
	// the file, otherwise dropped.
	prescriptionIDs := make(map[string]primitive.ObjectID, len(data.Prescriptions))
	for _, in := range data.Prescriptions {
		doctorID, ok := doctorIDs[in.DoctorID]
		if !ok {
			return nil, e.fail(ctx, snap,
				fmt.Errorf("prescription %s references unknown doctor %s", in.PrescriptionID, in.DoctorID))
		}
		patientID, ok := patientIDs[in.PatientID]
		if !ok {
			return nil, e.fail(ctx, snap,
				fmt.Errorf("prescription %s references unknown patient %s", in.PrescriptionID, in.PatientID))
		}

		var original *primitive.ObjectID
		if in.OriginalPrescriptionID != nil {
			if mapped, ok := prescriptionIDs[*in.OriginalPrescriptionID]; ok {
				original = &mapped
			}
		}

		status := in.Status
		if status == "" {
			status = prescription.StatusActive
		}
		p := &prescription.Prescription{
			ID:                     primitive.NewObjectID(),
			PrescriptionID:         in.PrescriptionID,
			PatientID:              patientID,
			DoctorID:               doctorID,
			PatientName:            in.PatientName,
			PatientAge:             in.PatientAge,
			Symptoms:               in.Symptoms,
			Prescription:           in.Prescription,
			NextFollowUp:           in.NextFollowUp,
			DigitalSignature:       nil,
			Notes:                  in.Notes,
			Status:                 status,
			OriginalPrescriptionID: original,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := e.prescriptions.Insert(ctx, p); err != nil {
			return nil, e.fail(ctx, snap, err)
		}
		prescriptionIDs[in.LegacyID] = p.ID
	}

	// 10. Verify what landed.
	imported := Counts{
		Doctors:       len(data.Doctors),
		Patients:      len(data.Patients),
		Prescriptions: len(data.Prescriptions),
	}
	imported.Total = imported.Doctors + imported.Patients + imported.Prescriptions

	verified, err := e.verifyCounts(ctx, imported)
	if err != nil {
		return nil, e.fail(ctx, snap, err)
	}

	e.log.Info().
		Int("total", imported.Total).
		Bool("verified", verified).
		Msg("data import complete")

	return &ImportResult{
		Imported: imported,
		Verified: verified,
		Warning:  passwordWarning,
	}, nil
}

func (e *Engine) takeSnapshot(ctx context.Context) (*snapshot, error) {
	doctors, err := e.doctors.All(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := e.patients.All(ctx)
	if err != nil {
		return nil, err
	}
	prescriptions, err := e.prescriptions.All(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot{doctors: doctors, patients: patients, prescriptions: prescriptions}, nil
}

func (e *Engine) clearAll(ctx context.Context) error {
	if err := e.doctors.DeleteAll(ctx); err != nil {
		return err
	}
	if err := e.patients.DeleteAll(ctx); err != nil {
		return err
	}
	return e.prescriptions.DeleteAll(ctx)
}

// fail rolls the store back to the snapshot and wraps the cause. A failed
// rollback is flagged critical: the store may hold partial data and needs
// operator attention.
func (e *Engine) fail(ctx context.Context, snap *snapshot, cause error) error {
	e.log.Error().Err(cause).Msg("import failed, rolling back")

	if err := e.restore(ctx, snap); err != nil {
		e.log.Error().Err(err).Msg("rollback failed, store may be inconsistent")
		return &ImportError{Err: cause, RolledBack: false, Critical: true}
	}

	e.log.Info().
		Int("doctors", len(snap.doctors)).
		Int("patients", len(snap.patients)).
		Int("prescriptions", len(snap.prescriptions)).
		Msg("rollback complete")
	return &ImportError{Err: cause, RolledBack: true}
}

func (e *Engine) restore(ctx context.Context, snap *snapshot) error {
	if err := e.clearAll(ctx); err != nil {
		return err
	}
	if err := e.doctors.InsertMany(ctx, snap.doctors); err != nil {
		return err
	}
	if err := e.patients.InsertMany(ctx, snap.patients); err != nil {
		return err
	}
	return e.prescriptions.InsertMany(ctx, snap.prescriptions)
}

func (e *Engine) verifyCounts(ctx context.Context, want Counts) (bool, error) {
	doctors, err := e.doctors.Count(ctx)
	if err != nil {
		return false, err
	}
	patients, err := e.patients.Count(ctx)
	if err != nil {
		return false, err
	}
	prescriptions, err := e.prescriptions.Count(ctx)
	if err != nil {
		return false, err
	}
	return doctors == int64(want.Doctors) &&
		patients == int64(want.Patients) &&
		prescriptions == int64(want.Prescriptions), nil
}

// DataCounts reports what the danger zone is about to destroy, scoped to
// the caller.
func (e *Engine) DataCounts(ctx context.Context, doctorID primitive.ObjectID) (Counts, error) {
	patients, err := e.patients.CountByDoctor(ctx, doctorID)
	if err != nil {
		return Counts{}, err
	}
	prescriptions, err := e.prescriptions.CountByDoctor(ctx, doctorID)
	if err != nil {
		return Counts{}, err
	}

	counts := Counts{
		Doctors:       1,
		Patients:      int(patients),
		Prescriptions: int(prescriptions),
	}
	counts.Total = counts.Doctors + counts.Patients + counts.Prescriptions
	return counts, nil
}
