package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/session"
	"github.com/harentsoaR/healthcare-api/internal/store"
	"github.com/harentsoaR/healthcare-api/internal/utils"
)

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

type sentNotice struct {
	kind      string
	patientID string
	status    models.AppointmentStatus
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []sentNotice
}

func (f *fakeNotifier) AppointmentBooked(patient, _ *models.User, apt *models.Appointment) {
	f.record("booked", patient, apt)
}

func (f *fakeNotifier) AppointmentStatusChanged(patient, _ *models.User, apt *models.Appointment) {
	f.record("status", patient, apt)
}

func (f *fakeNotifier) record(kind string, patient *models.User, apt *models.Appointment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, sentNotice{kind: kind, patientID: patient.ID.Hex(), status: apt.Status})
}

func (f *fakeNotifier) sent() []sentNotice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentNotice(nil), f.notices...)
}

type fixture struct {
	store    *store.Memory
	revoker  *session.MemoryRevoker
	notifier *fakeNotifier
	auth     *AuthService
	profile  *ProfileService
	apts     *AppointmentService
	rx       *PrescriptionService
	reports  *ReportService
	contacts *ContactService
	admin    *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	st := store.NewMemory()
	rev := session.NewMemoryRevoker()
	tokens, err := utils.NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)
	n := &fakeNotifier{}

	return &fixture{
		store:    st,
		revoker:  rev,
		notifier: n,
		auth:     NewAuthService(st, tokens, rev, bcrypt.MinCost, log),
		profile:  NewProfileService(st, log),
		apts:     NewAppointmentService(st, st, n, log),
		rx:       NewPrescriptionService(st, st, log),
		reports:  NewReportService(st, st, log),
		contacts: NewContactService(st, log),
		admin:    NewAdminService(st, log),
	}
}

// signup registers an account and returns the stored record, hash included.
func (f *fixture) signup(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	ctx := context.Background()
	req := SignupRequest{
		FirstName: "Test",
		LastName:  string(role),
		EmailID:   email,
		Password:  "correct-horse",
		Phone:     "+15550100",
		Role:      string(role),
	}
	var err error
	if role == models.RoleAdmin {
		_, err = f.auth.CreateAdmin(ctx, req)
	} else {
		_, err = f.auth.Signup(ctx, req)
	}
	require.NoError(t, err)

	u, err := f.store.FindUserByEmail(ctx, email)
	require.NoError(t, err)
	return u
}

func (f *fixture) approvedDoctor(t *testing.T, email string) *models.User {
	t.Helper()
	d := f.signup(t, email, models.RoleDoctor)
	admin := &models.User{Role: models.RoleAdmin}
	approved, err := f.admin.ApproveDoctor(context.Background(), admin, d.ID.Hex())
	require.NoError(t, err)
	return approved
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), err.Error())
}
