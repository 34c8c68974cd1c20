package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-api/internal/models"
)

// Memory implements Store in process memory. It is selected with
// STORE_DRIVER=memory and backs the handler and service tests.
type Memory struct {
	mu            sync.RWMutex
	users         map[primitive.ObjectID]models.User
	emails        map[string]primitive.ObjectID
	appointments  map[primitive.ObjectID]models.Appointment
	prescriptions map[primitive.ObjectID]models.Prescription
	reports       map[primitive.ObjectID]models.Report
	contacts      map[primitive.ObjectID]models.EmergencyContact
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[primitive.ObjectID]models.User),
		emails:        make(map[string]primitive.ObjectID),
		appointments:  make(map[primitive.ObjectID]models.Appointment),
		prescriptions: make(map[primitive.ObjectID]models.Prescription),
		reports:       make(map[primitive.ObjectID]models.Report),
		contacts:      make(map[primitive.ObjectID]models.EmergencyContact),
	}
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.emails[u.EmailID]; taken {
		return ErrDuplicateEmail
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = *u
	m.emails[u.EmailID] = u.ID
	return nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := m.users[id]
	return &u, nil
}

func (m *Memory) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) FindUsersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (m *Memory) ListUsers(_ context.Context, f UserFilter) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.ApprovedOnly && !u.IsApproved {
			continue
		}
		if !f.ApprovedOnly && f.PendingOnly && u.IsApproved {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return oldestFirst(users[i].CreatedAt, users[j].CreatedAt, users[i].ID, users[j].ID)
	})
	return users, nil
}

func (m *Memory) UpdateUser(_ context.Context, id primitive.ObjectID, fields UserFields) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		if err := applyUserField(&u, k, v); err != nil {
			return nil, err
		}
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return &u, nil
}

func applyUserField(u *models.User, key string, value interface{}) error {
	var ok bool
	switch key {
	case "firstName":
		u.FirstName, ok = value.(string)
	case "lastName":
		u.LastName, ok = value.(string)
	case "phone":
		u.Phone, ok = value.(string)
	case "address":
		u.Address, ok = value.(string)
	case "gender":
		u.Gender, ok = value.(string)
	case "specialization":
		u.Specialization, ok = value.(string)
	case "age":
		u.Age, ok = value.(int)
	case "experience":
		u.Experience, ok = value.(int)
	case "isApproved":
		u.IsApproved, ok = value.(bool)
	default:
		return fmt.Errorf("memory store: unsupported user field %q", key)
	}
	if !ok {
		return fmt.Errorf("memory store: field %q has type %T", key, value)
	}
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	delete(m.emails, u.EmailID)
	return nil
}

func (m *Memory) DeletePendingDoctor(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok || u.Role != models.RoleDoctor || u.IsApproved {
		return ErrNotFound
	}
	delete(m.users, id)
	delete(m.emails, u.EmailID)
	return nil
}

func (m *Memory) CreateAppointment(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.appointments[a.ID] = *a
	return nil
}

func (m *Memory) FindAppointmentByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *Memory) ListAppointments(_ context.Context, f OwnerFilter) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Appointment, 0)
	for _, a := range m.appointments {
		if matchesOwner(f, a.PatientID, a.DoctorID) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return !oldestFirst(out[i].Date, out[j].Date, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *Memory) TransitionAppointment(_ context.Context, id primitive.ObjectID, from, to models.AppointmentStatus) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now().UTC()
	m.appointments[id] = a
	return &a, nil
}

func (m *Memory) CreatePrescription(_ context.Context, p *models.Prescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.prescriptions[p.ID] = *p
	return nil
}

func (m *Memory) ListPrescriptions(_ context.Context, f OwnerFilter) ([]models.Prescription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Prescription, 0)
	for _, p := range m.prescriptions {
		if matchesOwner(f, p.PatientID, p.DoctorID) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return !oldestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *Memory) CreateReport(_ context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	m.reports[r.ID] = *r
	return nil
}

func (m *Memory) ListReports(_ context.Context, f OwnerFilter) ([]models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Report, 0)
	for _, r := range m.reports {
		if matchesOwner(f, r.PatientID, r.DoctorID) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return !oldestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *Memory) CreateContact(_ context.Context, c *models.EmergencyContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	m.contacts[c.ID] = *c
	return nil
}

func (m *Memory) ListContacts(_ context.Context, patientID primitive.ObjectID) ([]models.EmergencyContact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.EmergencyContact, 0)
	for _, c := range m.contacts {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return oldestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *Memory) DeleteContact(_ context.Context, patientID, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contacts[id]
	if !ok || c.PatientID != patientID {
		return ErrNotFound
	}
	delete(m.contacts, id)
	return nil
}

func matchesOwner(f OwnerFilter, patientID, doctorID primitive.ObjectID) bool {
	if !f.PatientID.IsZero() && f.PatientID != patientID {
		return false
	}
	if !f.DoctorID.IsZero() && f.DoctorID != doctorID {
		return false
	}
	return true
}

// oldestFirst orders by time, then by ObjectID, matching the Mongo sort.
func oldestFirst(a, b time.Time, idA, idB primitive.ObjectID) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return idA.Hex() < idB.Hex()
}
