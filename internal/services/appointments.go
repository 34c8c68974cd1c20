package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/store"
)

type BookAppointmentRequest struct {
	DoctorID string `json:"doctorId" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Reason   string `json:"reason" validate:"max=500"`
}

type AppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

type AppointmentService struct {
	users        store.UserStore
	appointments store.AppointmentStore
	notifier     Notifier
	now          func() time.Time
	log          zerolog.Logger
}

func NewAppointmentService(users store.UserStore, appointments store.AppointmentStore, notifier Notifier, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{
		users:        users,
		appointments: appointments,
		notifier:     notifier,
		now:          time.Now,
		log:          log.With().Str("component", "appointments").Logger(),
	}
}

// parseAppointmentDate accepts a full RFC3339 timestamp or a bare calendar day.
func parseAppointmentDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation("date must be RFC3339 or YYYY-MM-DD")
}

// Book requests an appointment with an approved doctor. The new appointment is Pending.
func (s *AppointmentService) Book(ctx context.Context, patient *models.User, req BookAppointmentRequest) (*models.AppointmentView, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	date, err := parseAppointmentDate(req.Date)
	if err != nil {
		return nil, err
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, apperr.Validation("date cannot be in the past")
	}

	doctor, err := s.bookableDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	apt := &models.Appointment{
		ID:        primitive.NewObjectID(),
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      date,
		Reason:    req.Reason,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.appointments.CreateAppointment(ctx, apt); err != nil {
		return nil, apperr.StoreFailure(err)
	}

	s.log.Info().
		Str("appointment_id", apt.ID.Hex()).
		Str("patient_id", patient.ID.Hex()).
		Str("doctor_id", doctor.ID.Hex()).
		Msg("appointment booked")
	s.notifier.AppointmentBooked(patient, doctor, apt)

	ps, ds := patient.Summary(), doctor.Summary()
	return &models.AppointmentView{Appointment: *apt, Patient: &ps, Doctor: &ds}, nil
}

func (s *AppointmentService) bookableDoctor(ctx context.Context, rawID string) (*models.User, error) {
	id, err := parseID(rawID, "doctor")
	if err != nil {
		return nil, err
	}
	doctor, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, apperr.StoreFailure(err)
	}
	if doctor.Role != models.RoleDoctor || !doctor.IsApproved {
		return nil, apperr.NotFound("doctor not found")
	}
	return doctor, nil
}

// List returns the appointments visible to user: a patient's own, a doctor's
// assigned ones, or every appointment for an admin.
func (s *AppointmentService) List(ctx context.Context, user *models.User) ([]models.AppointmentView, error) {
	var f store.OwnerFilter
	switch user.Role {
	case models.RolePatient:
		f.PatientID = user.ID
	case models.RoleDoctor:
		f.DoctorID = user.ID
	case models.RoleAdmin:
	default:
		return nil, apperr.Forbidden("insufficient role")
	}

	apts, err := s.appointments.ListAppointments(ctx, f)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	ids := make([]primitive.ObjectID, 0, 2*len(apts))
	for _, a := range apts {
		ids = append(ids, a.PatientID, a.DoctorID)
	}
	who, err := loadPeople(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.AppointmentView, 0, len(apts))
	for _, a := range apts {
		views = append(views, models.AppointmentView{
			Appointment: a,
			Patient:     who.summary(a.PatientID),
			Doctor:      who.summary(a.DoctorID),
		})
	}
	return views, nil
}

// SetStatus approves or rejects a pending appointment assigned to doctor.
func (s *AppointmentService) SetStatus(ctx context.Context, doctor *models.User, rawID string, req AppointmentStatusRequest) (*models.Appointment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	to := models.AppointmentStatus(req.Status)

	id, err := parseID(rawID, "appointment")
	if err != nil {
		return nil, err
	}
	apt, err := s.appointments.FindAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, apperr.StoreFailure(err)
	}
	if apt.DoctorID != doctor.ID {
		return nil, apperr.Forbidden("appointment is assigned to another doctor")
	}
	if apt.Status != models.StatusPending {
		return nil, apperr.Conflict("appointment has already been " + strings.ToLower(string(apt.Status)))
	}

	updated, err := s.appointments.TransitionAppointment(ctx, id, models.StatusPending, to)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Another request decided it first.
			return nil, apperr.Conflict("appointment is no longer pending")
		}
		return nil, apperr.StoreFailure(err)
	}

	s.log.Info().
		Str("appointment_id", updated.ID.Hex()).
		Str("doctor_id", doctor.ID.Hex()).
		Str("status", string(updated.Status)).
		Msg("appointment status changed")

	patient, err := s.users.FindUserByID(ctx, updated.PatientID)
	switch {
	case err == nil:
		s.notifier.AppointmentStatusChanged(patient, doctor, updated)
	case errors.Is(err, store.ErrNotFound):
		s.log.Warn().Str("appointment_id", updated.ID.Hex()).Msg("patient no longer exists, notification skipped")
	default:
		s.log.Error().Err(err).Str("appointment_id", updated.ID.Hex()).Msg("load patient for notification")
	}
	return updated, nil
}
