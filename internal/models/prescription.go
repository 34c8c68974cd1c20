package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Prescription struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID     primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	PatientID    primitive.ObjectID `bson:"patientId" json:"patientId"`
	Medicine     string             `bson:"medicine" json:"medicine"`
	Dosage       string             `bson:"dosage" json:"dosage"`
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

type PrescriptionView struct {
	Prescription
	Patient *UserSummary `json:"patient,omitempty"`
	Doctor  *UserSummary `json:"doctor,omitempty"`
}
