package backup

import (
	"time"

	"github.com/cliniva/cliniva/internal/domain/doctor"
	"github.com/cliniva/cliniva/internal/domain/patient"
)

// FormatVersion tags exported files; imports accept any version with the
// right shape.
const FormatVersion = "1.0"

// PasswordPlaceholder replaces every doctor password in an export. Imported
// accounts get this value bcrypt-hashed and must change it on first login.
const PasswordPlaceholder = "RESET_REQUIRED"

// Counts summarizes the three collections.
type Counts struct {
	Doctors       int `json:"doctors"`
	Patients      int `json:"patients"`
	Prescriptions int `json:"prescriptions"`
	Total         int `json:"total"`
}

// Export is the backup file: a full dump of the three collections plus
// metadata. The same record shapes are read back on import, so a file
// produced by Export always round-trips.
type Export struct {
	ExportDate time.Time `json:"exportDate"`
	Version    string    `json:"version"`
	Data       Data      `json:"data"`
	Counts     Counts    `json:"counts"`
}

type Data struct {
	Doctors       []Doctor       `json:"doctors"`
	Patients      []Patient      `json:"patients"`
	Prescriptions []Prescription `json:"prescriptions"`
}

// ImportPayload is the import request body. The collection slices are
// pointers so a missing key is distinguishable from an empty collection:
// all three must be present, empty or not.
type ImportPayload struct {
	Data struct {
		Doctors       *[]Doctor       `json:"doctors"`
		Patients      *[]Patient      `json:"patients"`
		Prescriptions *[]Prescription `json:"prescriptions"`
	} `json:"data"`
}

// ImportResult reports a completed import. Imported counts what was
// written; Verified confirms the stored counts match.
type ImportResult struct {
	Imported Counts `json:"imported"`
	Verified bool   `json:"verified"`
	Warning  string `json:"warning"`
}

// Doctor is the wire shape of a doctor record in a backup file. LegacyID
// carries the record's id in the source system; the import remapper uses it
// to rebind references, never to reuse as a storage id.
type Doctor struct {
	LegacyID              string            `json:"_id"`
	Username              string            `json:"username"`
	Password              string            `json:"password"`
	Name                  string            `json:"name"`
	Email                 string            `json:"email"`
	Specialization        string            `json:"specialization"`
	LicenseNumber         string            `json:"licenseNumber"`
	DigitalSignature      *string           `json:"digitalSignature"`
	ClinicName            string            `json:"clinicName"`
	ClinicAddress         string            `json:"clinicAddress"`
	Phone                 string            `json:"phone"`
	RequirePasswordChange bool              `json:"requirePasswordChange"`
	PrescriptionTemplates []doctor.Template `json:"prescriptionTemplates"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

type Patient struct {
	LegacyID         string                   `json:"_id"`
	PatientID        string                   `json:"patientId"`
	Photo            *string                  `json:"photo"`
	Name             string                   `json:"name"`
	DateOfBirth      time.Time                `json:"dateOfBirth"`
	Age              int                      `json:"age"`
	Sex              string                   `json:"sex"`
	Address          string                   `json:"address"`
	Phone            string                   `json:"phone"`
	EmergencyContact patient.EmergencyContact `json:"emergencyContact"`
	MedicalHistory   patient.MedicalHistory   `json:"medicalHistory"`
	DoctorID         string                   `json:"doctorId"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

type Prescription struct {
	LegacyID               string     `json:"_id"`
	PrescriptionID         string     `json:"prescriptionId"`
	PatientID              string     `json:"patientId"`
	DoctorID               string     `json:"doctorId"`
	PatientName            string     `json:"patientName"`
	PatientAge             int        `json:"patientAge"`
	Symptoms               string     `json:"symptoms"`
	Prescription           string     `json:"prescription"`
	NextFollowUp           *time.Time `json:"nextFollowUp"`
	DigitalSignature       *string    `json:"digitalSignature"`
	Notes                  string     `json:"notes"`
	Status                 string     `json:"status"`
	OriginalPrescriptionID *string    `json:"originalPrescriptionId"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}
