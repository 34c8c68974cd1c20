package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/store"
)

func TestAdmin_ListUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "admin@example.com", models.RoleAdmin)
	f.signup(t, "p@example.com", models.RolePatient)
	f.signup(t, "d@example.com", models.RoleDoctor)

	all, err := f.admin.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, u := range all {
		assert.Empty(t, u.Password)
	}

	doctors, err := f.admin.ListUsers(ctx, "Doctor")
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "d@example.com", doctors[0].EmailID)

	_, err = f.admin.ListUsers(ctx, "Janitor")
	requireKind(t, err, apperr.KindValidation)
}

func TestAdmin_ApproveDoctor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signup(t, "admin@example.com", models.RoleAdmin)
	doctor := f.signup(t, "d@example.com", models.RoleDoctor)
	patient := f.signup(t, "p@example.com", models.RolePatient)

	pending, err := f.admin.PendingDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := f.admin.ApproveDoctor(ctx, admin, doctor.ID.Hex())
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	again, err := f.admin.ApproveDoctor(ctx, admin, doctor.ID.Hex())
	require.NoError(t, err)
	assert.True(t, again.IsApproved)

	pending, err = f.admin.PendingDoctors(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.admin.ApproveDoctor(ctx, admin, patient.ID.Hex())
	requireKind(t, err, apperr.KindNotFound)
}

func TestAdmin_RejectDoctor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signup(t, "admin@example.com", models.RoleAdmin)
	pending := f.signup(t, "pending@example.com", models.RoleDoctor)
	approved := f.approvedDoctor(t, "approved@example.com")

	err := f.admin.RejectDoctor(ctx, admin, approved.ID.Hex())
	requireKind(t, err, apperr.KindConflict)

	require.NoError(t, f.admin.RejectDoctor(ctx, admin, pending.ID.Hex()))
	_, err = f.store.FindUserByID(ctx, pending.ID)
	assert.Error(t, err)

	err = f.admin.RejectDoctor(ctx, admin, pending.ID.Hex())
	requireKind(t, err, apperr.KindNotFound)
}

// approvingStore approves the doctor just before the conditional delete runs,
// as a concurrent ApproveDoctor would.
type approvingStore struct {
	*store.Memory
}

func (s approvingStore) DeletePendingDoctor(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.UpdateUser(ctx, id, store.UserFields{"isApproved": true}); err != nil {
		return err
	}
	return s.Memory.DeletePendingDoctor(ctx, id)
}

func TestAdmin_RejectDoctorApprovedMeanwhile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.signup(t, "admin@example.com", models.RoleAdmin)
	doctor := f.signup(t, "racing@example.com", models.RoleDoctor)

	svc := NewAdminService(approvingStore{f.store}, zerolog.Nop())
	err := svc.RejectDoctor(ctx, admin, doctor.ID.Hex())
	requireKind(t, err, apperr.KindConflict)

	kept, err := f.store.FindUserByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.True(t, kept.IsApproved)
}
