package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a medical report written by a doctor about one patient.
type Report struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoctorID  primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	PatientID primitive.ObjectID `bson:"patientId" json:"patientId"`
	Diagnosis string             `bson:"diagnosis" json:"diagnosis"`
	Treatment string             `bson:"treatment" json:"treatment"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type ReportView struct {
	Report
	Patient *UserSummary `json:"patient,omitempty"`
	Doctor  *UserSummary `json:"doctor,omitempty"`
}
