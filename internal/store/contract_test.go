package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-api/internal/models"
)

// runContract exercises the behaviour every Store implementation must share.
func runContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("pending doctor delete", func(t *testing.T) { testDeletePendingDoctor(t, newStore(t)) })
	t.Run("appointments", func(t *testing.T) { testAppointments(t, newStore(t)) })
	t.Run("prescriptions and reports", func(t *testing.T) { testRecords(t, newStore(t)) })
	t.Run("contacts", func(t *testing.T) { testContacts(t, newStore(t)) })
}

func newUser(email string, role models.Role, approved bool) *models.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.User{
		FirstName:  "Test",
		LastName:   string(role),
		EmailID:    email,
		Password:   "hash",
		Role:       role,
		IsApproved: approved,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func testUsers(t *testing.T, s Store) {
	ctx := context.Background()

	jane := newUser("jane@example.com", models.RolePatient, true)
	require.NoError(t, s.CreateUser(ctx, jane))
	require.False(t, jane.ID.IsZero())

	err := s.CreateUser(ctx, newUser("jane@example.com", models.RoleDoctor, false))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	john := newUser("john@example.com", models.RoleDoctor, false)
	require.NoError(t, s.CreateUser(ctx, john))

	got, err := s.FindUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	_, err = s.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindUserByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)

	byID, err := s.FindUsersByIDs(ctx, []primitive.ObjectID{jane.ID, john.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	doctors, err := s.ListUsers(ctx, UserFilter{Role: models.RoleDoctor})
	require.NoError(t, err)
	require.Len(t, doctors, 1)

	approved, err := s.ListUsers(ctx, UserFilter{Role: models.RoleDoctor, ApprovedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, approved)

	pending, err := s.ListUsers(ctx, UserFilter{Role: models.RoleDoctor, PendingOnly: true})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	updated, err := s.UpdateUser(ctx, john.ID, UserFields{"isApproved": true, "specialization": "Cardiology", "experience": 7})
	require.NoError(t, err)
	assert.True(t, updated.IsApproved)
	assert.Equal(t, "Cardiology", updated.Specialization)
	assert.Equal(t, 7, updated.Experience)
	assert.Equal(t, models.RoleDoctor, updated.Role)

	_, err = s.UpdateUser(ctx, primitive.NewObjectID(), UserFields{"phone": "1"})
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.ListUsers(ctx, UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteUser(ctx, john.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, john.ID), ErrNotFound)
	_, err = s.FindUserByEmail(ctx, "john@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// the address is free again once the account is gone
	require.NoError(t, s.CreateUser(ctx, newUser("john@example.com", models.RoleDoctor, false)))
}

func testDeletePendingDoctor(t *testing.T, s Store) {
	ctx := context.Background()

	pending := newUser("pending@example.com", models.RoleDoctor, false)
	approved := newUser("approved@example.com", models.RoleDoctor, true)
	patient := newUser("patient@example.com", models.RolePatient, true)
	for _, u := range []*models.User{pending, approved, patient} {
		require.NoError(t, s.CreateUser(ctx, u))
	}

	assert.ErrorIs(t, s.DeletePendingDoctor(ctx, approved.ID), ErrNotFound)
	assert.ErrorIs(t, s.DeletePendingDoctor(ctx, patient.ID), ErrNotFound)
	assert.ErrorIs(t, s.DeletePendingDoctor(ctx, primitive.NewObjectID()), ErrNotFound)

	_, err := s.FindUserByID(ctx, approved.ID)
	require.NoError(t, err)
	_, err = s.FindUserByID(ctx, patient.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeletePendingDoctor(ctx, pending.ID))
	_, err = s.FindUserByEmail(ctx, "pending@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// approval between read and delete keeps the account
	late := newUser("late@example.com", models.RoleDoctor, false)
	require.NoError(t, s.CreateUser(ctx, late))
	_, err = s.UpdateUser(ctx, late.ID, UserFields{"isApproved": true})
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeletePendingDoctor(ctx, late.ID), ErrNotFound)
	_, err = s.FindUserByID(ctx, late.ID)
	require.NoError(t, err)
}

func testAppointments(t *testing.T, s Store) {
	ctx := context.Background()
	patient := primitive.NewObjectID()
	doctor := primitive.NewObjectID()
	other := primitive.NewObjectID()
	day := time.Now().UTC().Truncate(time.Millisecond)

	first := &models.Appointment{PatientID: patient, DoctorID: doctor, Date: day, Status: models.StatusPending}
	second := &models.Appointment{PatientID: patient, DoctorID: other, Date: day.Add(48 * time.Hour), Status: models.StatusPending}
	require.NoError(t, s.CreateAppointment(ctx, first))
	require.NoError(t, s.CreateAppointment(ctx, second))

	mine, err := s.ListAppointments(ctx, OwnerFilter{PatientID: patient})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "latest date first")

	assigned, err := s.ListAppointments(ctx, OwnerFilter{DoctorID: doctor})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, first.ID, assigned[0].ID)

	moved, err := s.TransitionAppointment(ctx, first.ID, models.StatusPending, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, moved.Status)

	_, err = s.TransitionAppointment(ctx, first.ID, models.StatusPending, models.StatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.FindAppointmentByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	_, err = s.FindAppointmentByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func testRecords(t *testing.T, s Store) {
	ctx := context.Background()
	patient := primitive.NewObjectID()
	doctor := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, s.CreatePrescription(ctx, &models.Prescription{
		DoctorID: doctor, PatientID: patient, Medicine: "Amoxicillin", Dosage: "500mg", CreatedAt: now,
	}))
	require.NoError(t, s.CreatePrescription(ctx, &models.Prescription{
		DoctorID: primitive.NewObjectID(), PatientID: patient, Medicine: "Ibuprofen", Dosage: "200mg", CreatedAt: now.Add(time.Minute),
	}))

	forPatient, err := s.ListPrescriptions(ctx, OwnerFilter{PatientID: patient})
	require.NoError(t, err)
	require.Len(t, forPatient, 2)
	assert.Equal(t, "Ibuprofen", forPatient[0].Medicine)

	byDoctor, err := s.ListPrescriptions(ctx, OwnerFilter{DoctorID: doctor})
	require.NoError(t, err)
	require.Len(t, byDoctor, 1)

	require.NoError(t, s.CreateReport(ctx, &models.Report{
		DoctorID: doctor, PatientID: patient, Diagnosis: "Flu", Treatment: "Rest", CreatedAt: now,
	}))
	reports, err := s.ListReports(ctx, OwnerFilter{PatientID: patient, DoctorID: doctor})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "Flu", reports[0].Diagnosis)

	none, err := s.ListReports(ctx, OwnerFilter{PatientID: primitive.NewObjectID()})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testContacts(t *testing.T, s Store) {
	ctx := context.Background()
	patient := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	mum := &models.EmergencyContact{PatientID: patient, Name: "Mary", Phone: "555-0101", Relation: "Mother", CreatedAt: now}
	require.NoError(t, s.CreateContact(ctx, mum))
	require.NoError(t, s.CreateContact(ctx, &models.EmergencyContact{
		PatientID: patient, Name: "Tom", Phone: "555-0102", Relation: "Brother", CreatedAt: now.Add(time.Second),
	}))

	contacts, err := s.ListContacts(ctx, patient)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Mary", contacts[0].Name)

	assert.ErrorIs(t, s.DeleteContact(ctx, stranger, mum.ID), ErrNotFound)
	require.NoError(t, s.DeleteContact(ctx, patient, mum.ID))
	assert.ErrorIs(t, s.DeleteContact(ctx, patient, mum.ID), ErrNotFound)

	contacts, err = s.ListContacts(ctx, patient)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}
