// Package store persists users and the records attached to them.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-api/internal/models"
)

var (
	ErrNotFound       = errors.New("store: document not found")
	ErrDuplicateEmail = errors.New("store: email already registered")
)

// UserFilter narrows ListUsers. Zero values mean "any".
type UserFilter struct {
	Role         models.Role
	ApprovedOnly bool
	PendingOnly  bool
}

// OwnerFilter narrows record listings by the patient and/or doctor they belong to.
// A zero ObjectID leaves that side unfiltered.
type OwnerFilter struct {
	PatientID primitive.ObjectID
	DoctorID  primitive.ObjectID
}

// UserFields is a set of user attributes keyed by their stored field name.
type UserFields map[string]interface{}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	ListUsers(ctx context.Context, f UserFilter) ([]models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, fields UserFields) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	// DeletePendingDoctor deletes a doctor that is still unapproved and returns
	// ErrNotFound when no unapproved doctor has that id.
	DeletePendingDoctor(ctx context.Context, id primitive.ObjectID) error
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	FindAppointmentByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	ListAppointments(ctx context.Context, f OwnerFilter) ([]models.Appointment, error)
	// TransitionAppointment moves an appointment from one status to another and
	// returns ErrNotFound when no appointment with that id is in the from status.
	TransitionAppointment(ctx context.Context, id primitive.ObjectID, from, to models.AppointmentStatus) (*models.Appointment, error)
}

type PrescriptionStore interface {
	CreatePrescription(ctx context.Context, p *models.Prescription) error
	ListPrescriptions(ctx context.Context, f OwnerFilter) ([]models.Prescription, error)
}

type ReportStore interface {
	CreateReport(ctx context.Context, r *models.Report) error
	ListReports(ctx context.Context, f OwnerFilter) ([]models.Report, error)
}

type ContactStore interface {
	CreateContact(ctx context.Context, c *models.EmergencyContact) error
	ListContacts(ctx context.Context, patientID primitive.ObjectID) ([]models.EmergencyContact, error)
	DeleteContact(ctx context.Context, patientID, id primitive.ObjectID) error
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserStore
	AppointmentStore
	PrescriptionStore
	ReportStore
	ContactStore
}
