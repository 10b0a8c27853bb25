package patient

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patient is a clinic patient record. PatientID is the human-readable
// identifier printed on documents; ID is the storage key. Every patient
// belongs to exactly one doctor.
type Patient struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PatientID        string             `bson:"patientId" json:"patientId"`
	Photo            *string            `bson:"photo" json:"photo"`
	Name             string             `bson:"name" json:"name"`
	DateOfBirth      time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	Age              int                `bson:"age" json:"age"`
	Sex              string             `bson:"sex" json:"sex"`
	Address          string             `bson:"address" json:"address"`
	Phone            string             `bson:"phone" json:"phone"`
	EmergencyContact EmergencyContact   `bson:"emergencyContact" json:"emergencyContact"`
	MedicalHistory   MedicalHistory     `bson:"medicalHistory" json:"medicalHistory"`
	DoctorID         primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type EmergencyContact struct {
	Name     string `bson:"name" json:"name"`
	Relation string `bson:"relation" json:"relation"`
	Phone    string `bson:"phone" json:"phone"`
}

type MedicalHistory struct {
	Allergies        string `bson:"allergies" json:"allergies"`
	ChronicIllnesses string `bson:"chronicIllnesses" json:"chronicIllnesses"`
	PastSurgeries    string `bson:"pastSurgeries" json:"pastSurgeries"`
	Medications      string `bson:"medications" json:"medications"`
	AdditionalNotes  string `bson:"additionalNotes" json:"additionalNotes"`
}

// ValidSex reports whether s is one of the accepted sex values.
func ValidSex(s string) bool {
	switch s {
	case "Male", "Female", "Other":
		return true
	}
	return false
}
