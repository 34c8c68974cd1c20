package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/store"
)

type AdminService struct {
	users store.UserStore
	log   zerolog.Logger
}

func NewAdminService(users store.UserStore, log zerolog.Logger) *AdminService {
	return &AdminService{users: users, log: log.With().Str("component", "admin").Logger()}
}

// ListUsers lists every account, optionally narrowed to one role.
func (s *AdminService) ListUsers(ctx context.Context, roleFilter string) ([]models.User, error) {
	var f store.UserFilter
	if roleFilter = strings.TrimSpace(roleFilter); roleFilter != "" {
		role, err := models.ParseRole(roleFilter)
		if err != nil {
			return nil, apperr.Validation("role must be Patient, Doctor or Admin")
		}
		f.Role = role
	}

	users, err := s.users.ListUsers(ctx, f)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// PendingDoctors lists doctors waiting for approval, oldest first.
func (s *AdminService) PendingDoctors(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx, store.UserFilter{Role: models.RoleDoctor, PendingOnly: true})
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// ApproveDoctor marks a doctor approved. Approving twice is not an error.
func (s *AdminService) ApproveDoctor(ctx context.Context, admin *models.User, rawID string) (*models.User, error) {
	doctor, err := s.findDoctor(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if doctor.IsApproved {
		public := doctor.Public()
		return &public, nil
	}

	updated, err := s.users.UpdateUser(ctx, doctor.ID, store.UserFields{"isApproved": true})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, apperr.StoreFailure(err)
	}

	s.log.Info().Str("doctor_id", doctor.ID.Hex()).Str("admin_id", admin.ID.Hex()).Msg("doctor approved")
	public := updated.Public()
	return &public, nil
}

// RejectDoctor deletes a doctor account that has not been approved yet.
func (s *AdminService) RejectDoctor(ctx context.Context, admin *models.User, rawID string) error {
	doctor, err := s.findDoctor(ctx, rawID)
	if err != nil {
		return err
	}
	if doctor.IsApproved {
		return apperr.Conflict("doctor is already approved")
	}

	if err := s.users.DeletePendingDoctor(ctx, doctor.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.rejectMissed(ctx, doctor)
		}
		return apperr.StoreFailure(err)
	}

	s.log.Info().Str("doctor_id", doctor.ID.Hex()).Str("admin_id", admin.ID.Hex()).Msg("doctor rejected")
	return nil
}

// rejectMissed explains a delete that matched nothing: the doctor was approved
// or removed after it was read.
func (s *AdminService) rejectMissed(ctx context.Context, doctor *models.User) error {
	current, err := s.users.FindUserByID(ctx, doctor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("doctor not found")
		}
		return apperr.StoreFailure(err)
	}
	if current.Role == models.RoleDoctor && current.IsApproved {
		return apperr.Conflict("doctor is already approved")
	}
	return apperr.NotFound("doctor not found")
}

func (s *AdminService) findDoctor(ctx context.Context, rawID string) (*models.User, error) {
	id, err := parseID(rawID, "doctor")
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, apperr.StoreFailure(err)
	}
	if u.Role != models.RoleDoctor {
		return nil, apperr.NotFound("doctor not found")
	}
	return u, nil
}
