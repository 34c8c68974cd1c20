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

type PrescriptionRequest struct {
	PatientID    string `json:"patientId" validate:"required"`
	Medicine     string `json:"medicine" validate:"required,max=200"`
	Dosage       string `json:"dosage" validate:"required,max=200"`
	Instructions string `json:"instructions" validate:"max=1000"`
}

type ReportRequest struct {
	PatientID string `json:"patientId" validate:"required"`
	Diagnosis string `json:"diagnosis" validate:"required,max=2000"`
	Treatment string `json:"treatment" validate:"required,max=2000"`
	Notes     string `json:"notes" validate:"max=4000"`
}

// findPatient resolves a patient id supplied by a doctor. Anything that is not
// an existing Patient reads as not found.
func findPatient(ctx context.Context, users store.UserStore, rawID string) (*models.User, error) {
	id, err := parseID(rawID, "patient")
	if err != nil {
		return nil, err
	}
	u, err := users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("patient not found")
		}
		return nil, apperr.StoreFailure(err)
	}
	if u.Role != models.RolePatient {
		return nil, apperr.NotFound("patient not found")
	}
	return u, nil
}

type PrescriptionService struct {
	users         store.UserStore
	prescriptions store.PrescriptionStore
	now           func() time.Time
	log           zerolog.Logger
}

func NewPrescriptionService(users store.UserStore, prescriptions store.PrescriptionStore, log zerolog.Logger) *PrescriptionService {
	return &PrescriptionService{
		users:         users,
		prescriptions: prescriptions,
		now:           time.Now,
		log:           log.With().Str("component", "prescriptions").Logger(),
	}
}

func (s *PrescriptionService) Write(ctx context.Context, doctor *models.User, req PrescriptionRequest) (*models.PrescriptionView, error) {
	req.Medicine = strings.TrimSpace(req.Medicine)
	req.Dosage = strings.TrimSpace(req.Dosage)
	req.Instructions = strings.TrimSpace(req.Instructions)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	patient, err := findPatient(ctx, s.users, req.PatientID)
	if err != nil {
		return nil, err
	}

	p := &models.Prescription{
		ID:           primitive.NewObjectID(),
		DoctorID:     doctor.ID,
		PatientID:    patient.ID,
		Medicine:     req.Medicine,
		Dosage:       req.Dosage,
		Instructions: req.Instructions,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.prescriptions.CreatePrescription(ctx, p); err != nil {
		return nil, apperr.StoreFailure(err)
	}
	s.log.Info().Str("prescription_id", p.ID.Hex()).Str("doctor_id", doctor.ID.Hex()).Msg("prescription written")

	ps, ds := patient.Summary(), doctor.Summary()
	return &models.PrescriptionView{Prescription: *p, Patient: &ps, Doctor: &ds}, nil
}

// List returns the prescriptions a doctor wrote or a patient received. Admins
// do not read clinical records here and get an empty list.
func (s *PrescriptionService) List(ctx context.Context, user *models.User) ([]models.PrescriptionView, error) {
	var f store.OwnerFilter
	switch user.Role {
	case models.RoleDoctor:
		f.DoctorID = user.ID
	case models.RolePatient:
		f.PatientID = user.ID
	case models.RoleAdmin:
		return []models.PrescriptionView{}, nil
	default:
		return nil, apperr.Forbidden("insufficient role")
	}

	list, err := s.prescriptions.ListPrescriptions(ctx, f)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	ids := make([]primitive.ObjectID, 0, 2*len(list))
	for _, p := range list {
		ids = append(ids, p.PatientID, p.DoctorID)
	}
	who, err := loadPeople(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.PrescriptionView, 0, len(list))
	for _, p := range list {
		views = append(views, models.PrescriptionView{
			Prescription: p,
			Patient:      who.summary(p.PatientID),
			Doctor:       who.summary(p.DoctorID),
		})
	}
	return views, nil
}

type ReportService struct {
	users   store.UserStore
	reports store.ReportStore
	now     func() time.Time
	log     zerolog.Logger
}

func NewReportService(users store.UserStore, reports store.ReportStore, log zerolog.Logger) *ReportService {
	return &ReportService{
		users:   users,
		reports: reports,
		now:     time.Now,
		log:     log.With().Str("component", "reports").Logger(),
	}
}

func (s *ReportService) Upload(ctx context.Context, doctor *models.User, req ReportRequest) (*models.ReportView, error) {
	req.Diagnosis = strings.TrimSpace(req.Diagnosis)
	req.Treatment = strings.TrimSpace(req.Treatment)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	patient, err := findPatient(ctx, s.users, req.PatientID)
	if err != nil {
		return nil, err
	}

	r := &models.Report{
		ID:        primitive.NewObjectID(),
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		Diagnosis: req.Diagnosis,
		Treatment: req.Treatment,
		Notes:     req.Notes,
		CreatedAt: s.now().UTC(),
	}
	if err := s.reports.CreateReport(ctx, r); err != nil {
		return nil, apperr.StoreFailure(err)
	}
	s.log.Info().Str("report_id", r.ID.Hex()).Str("doctor_id", doctor.ID.Hex()).Msg("report uploaded")

	ps, ds := patient.Summary(), doctor.Summary()
	return &models.ReportView{Report: *r, Patient: &ps, Doctor: &ds}, nil
}

func (s *ReportService) List(ctx context.Context, user *models.User) ([]models.ReportView, error) {
	var f store.OwnerFilter
	switch user.Role {
	case models.RoleDoctor:
		f.DoctorID = user.ID
	case models.RolePatient:
		f.PatientID = user.ID
	case models.RoleAdmin:
	default:
		return nil, apperr.Forbidden("insufficient role")
	}

	list, err := s.reports.ListReports(ctx, f)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	ids := make([]primitive.ObjectID, 0, 2*len(list))
	for _, r := range list {
		ids = append(ids, r.PatientID, r.DoctorID)
	}
	who, err := loadPeople(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.ReportView, 0, len(list))
	for _, r := range list {
		views = append(views, models.ReportView{
			Report:  r,
			Patient: who.summary(r.PatientID),
			Doctor:  who.summary(r.DoctorID),
		})
	}
	return views, nil
}
