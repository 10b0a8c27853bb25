package prescription

import (
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prescription statuses. A prescription starts active; marking a follow-up
// visit completes the original, and completed closes the episode.
const (
	StatusActive            = "active"
	StatusFollowUpCompleted = "follow_up_completed"
	StatusCompleted         = "completed"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusFollowUpCompleted, StatusCompleted:
		return true
	}
	return false
}

// Prescription is a single issued prescription. PatientName, PatientAge, and
// DigitalSignature are snapshots taken at issue time so the printed document
// stays stable when the patient or doctor record changes later.
type Prescription struct {
	ID                     primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	PrescriptionID         string              `bson:"prescriptionId" json:"prescriptionId"`
	PatientID              primitive.ObjectID  `bson:"patientId" json:"patientId"`
	DoctorID               primitive.ObjectID  `bson:"doctorId" json:"doctorId"`
	PatientName            string              `bson:"patientName" json:"patientName"`
	PatientAge             int                 `bson:"patientAge" json:"patientAge"`
	Symptoms               string              `bson:"symptoms" json:"symptoms"`
	Prescription           string              `bson:"prescription" json:"prescription"`
	NextFollowUp           *time.Time          `bson:"nextFollowUp" json:"nextFollowUp"`
	DigitalSignature       *string             `bson:"digitalSignature" json:"digitalSignature"`
	Notes                  string              `bson:"notes" json:"notes"`
	Status                 string              `bson:"status" json:"status"`
	OriginalPrescriptionID *primitive.ObjectID `bson:"originalPrescriptionId" json:"originalPrescriptionId"`
	CreatedAt              time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// GenerateID builds a prescription id of the form RX<yyyymmdd><4-digit
// random>. Collisions are possible within a day; the caller probes for a
// free id before using one.
func GenerateID(now time.Time) string {
	return fmt.Sprintf("RX%s%04d", now.Format("20060102"), rand.Intn(10000))
}
