package doctor

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor is the single-operator account owning all patients and
// prescriptions it creates. Username, email, and license number are unique
// across the collection.
type Doctor struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username              string             `bson:"username" json:"username"`
	Password              string             `bson:"password" json:"-"`
	Name                  string             `bson:"name" json:"name"`
	Email                 string             `bson:"email" json:"email"`
	Specialization        string             `bson:"specialization" json:"specialization"`
	LicenseNumber         string             `bson:"licenseNumber" json:"licenseNumber"`
	DigitalSignature      *string            `bson:"digitalSignature" json:"digitalSignature"`
	ClinicName            string             `bson:"clinicName" json:"clinicName"`
	ClinicAddress         string             `bson:"clinicAddress" json:"clinicAddress"`
	Phone                 string             `bson:"phone" json:"phone"`
	RequirePasswordChange bool               `bson:"requirePasswordChange" json:"requirePasswordChange"`
	PrescriptionTemplates []Template         `bson:"prescriptionTemplates" json:"prescriptionTemplates"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Template is a reusable prescription draft embedded in the doctor document.
type Template struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Symptoms     string             `bson:"symptoms" json:"symptoms"`
	Prescription string             `bson:"prescription" json:"prescription"`
	FollowUpDays int                `bson:"followUpDays" json:"followUpDays"`
}

// Profile is the doctor shape returned by auth and profile endpoints.
type Profile struct {
	ID                    primitive.ObjectID `json:"id"`
	Username              string             `json:"username"`
	Name                  string             `json:"name"`
	Email                 string             `json:"email"`
	Specialization        string             `json:"specialization"`
	LicenseNumber         string             `json:"licenseNumber"`
	ClinicName            string             `json:"clinicName"`
	ClinicAddress         string             `json:"clinicAddress"`
	Phone                 string             `json:"phone"`
	DigitalSignature      *string            `json:"digitalSignature"`
	RequirePasswordChange bool               `json:"requirePasswordChange"`
}

func (d *Doctor) Profile() Profile {
	return Profile{
		ID:                    d.ID,
		Username:              d.Username,
		Name:                  d.Name,
		Email:                 d.Email,
		Specialization:        d.Specialization,
		LicenseNumber:         d.LicenseNumber,
		ClinicName:            d.ClinicName,
		ClinicAddress:         d.ClinicAddress,
		Phone:                 d.Phone,
		DigitalSignature:      d.DigitalSignature,
		RequirePasswordChange: d.RequirePasswordChange,
	}
}
