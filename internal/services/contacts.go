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

type ContactRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Relation string `json:"relation" validate:"required,max=50"`
}

// ContactService manages a patient's emergency contacts.
type ContactService struct {
	contacts store.ContactStore
	now      func() time.Time
	log      zerolog.Logger
}

func NewContactService(contacts store.ContactStore, log zerolog.Logger) *ContactService {
	return &ContactService{
		contacts: contacts,
		now:      time.Now,
		log:      log.With().Str("component", "contacts").Logger(),
	}
}

func (s *ContactService) Add(ctx context.Context, patient *models.User, req ContactRequest) (*models.EmergencyContact, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Relation = strings.TrimSpace(req.Relation)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	c := &models.EmergencyContact{
		ID:        primitive.NewObjectID(),
		PatientID: patient.ID,
		Name:      req.Name,
		Phone:     req.Phone,
		Relation:  req.Relation,
		CreatedAt: s.now().UTC(),
	}
	if err := s.contacts.CreateContact(ctx, c); err != nil {
		return nil, apperr.StoreFailure(err)
	}
	return c, nil
}

func (s *ContactService) List(ctx context.Context, patient *models.User) ([]models.EmergencyContact, error) {
	list, err := s.contacts.ListContacts(ctx, patient.ID)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	return list, nil
}

// Delete removes one of the patient's own contacts. Someone else's contact is
// reported as not found.
func (s *ContactService) Delete(ctx context.Context, patient *models.User, rawID string) error {
	id, err := parseID(rawID, "contact")
	if err != nil {
		return err
	}
	if err := s.contacts.DeleteContact(ctx, patient.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("contact not found")
		}
		return apperr.StoreFailure(err)
	}
	s.log.Info().Str("contact_id", id.Hex()).Str("patient_id", patient.ID.Hex()).Msg("contact deleted")
	return nil
}
