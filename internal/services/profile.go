package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/store"
)

type fieldKind int

const (
	textField fieldKind = iota
	requiredTextField
	numberField
)

type editableField struct {
	kind       fieldKind
	max        int // characters for text, value for numbers
	doctorOnly bool
}

var editableFields = map[string]editableField{
	"firstName":      {kind: requiredTextField, max: 50},
	"lastName":       {kind: requiredTextField, max: 50},
	"phone":          {kind: textField, max: 20},
	"address":        {kind: textField, max: 200},
	"gender":         {kind: textField, max: 20},
	"age":            {kind: numberField, max: 150},
	"specialization": {kind: textField, max: 100, doctorOnly: true},
	"experience":     {kind: numberField, max: 80, doctorOnly: true},
}

// protectedFields are accepted in a request body but never applied: identity,
// role, approval and server-managed fields.
var protectedFields = map[string]struct{}{
	"_id":        {},
	"id":         {},
	"emailId":    {},
	"password":   {},
	"role":       {},
	"isApproved": {},
	"createdAt":  {},
	"updatedAt":  {},
}

type ProfileService struct {
	users store.UserStore
	log   zerolog.Logger
}

func NewProfileService(users store.UserStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, log: log.With().Str("component", "profile").Logger()}
}

// Profile returns the caller's own record without the password hash.
func (s *ProfileService) Profile(user *models.User) models.User {
	return user.Public()
}

// UpdateProfile applies the editable fields of a partial update to the caller's
// own record. Protected fields are dropped; unknown fields fail the request.
func (s *ProfileService) UpdateProfile(ctx context.Context, user *models.User, fields map[string]interface{}) (*models.User, error) {
	set, dropped, err := sanitizeProfileFields(user.Role, fields)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		s.log.Warn().Str("user_id", user.ID.Hex()).Strs("fields", dropped).Msg("ignored protected profile fields")
	}

	updated, err := s.users.UpdateUser(ctx, user.ID, set)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.StoreFailure(err)
	}
	public := updated.Public()
	return &public, nil
}

func sanitizeProfileFields(role models.Role, fields map[string]interface{}) (store.UserFields, []string, error) {
	set := store.UserFields{}
	var dropped []string

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := protectedFields[key]; ok {
			dropped = append(dropped, key)
			continue
		}
		rule, ok := editableFields[key]
		if !ok {
			return nil, nil, apperr.Validation(fmt.Sprintf("%s cannot be edited", key))
		}
		if rule.doctorOnly && role != models.RoleDoctor {
			return nil, nil, apperr.Validation(fmt.Sprintf("%s can only be set on doctor accounts", key))
		}
		value, err := coerceField(key, rule, fields[key])
		if err != nil {
			return nil, nil, err
		}
		set[key] = value
	}

	if len(set) == 0 {
		return nil, nil, apperr.Validation("no editable fields provided")
	}
	return set, dropped, nil
}

func coerceField(key string, rule editableField, raw interface{}) (interface{}, error) {
	switch rule.kind {
	case textField, requiredTextField:
		s, ok := raw.(string)
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("%s must be a string", key))
		}
		s = strings.TrimSpace(s)
		if rule.kind == requiredTextField && s == "" {
			return nil, apperr.Validation(fmt.Sprintf("%s cannot be empty", key))
		}
		if len([]rune(s)) > rule.max {
			return nil, apperr.Validation(fmt.Sprintf("%s must be at most %d characters", key, rule.max))
		}
		return s, nil
	case numberField:
		n, ok := toInt(raw)
		if !ok || n < 0 || n > rule.max {
			return nil, apperr.Validation(fmt.Sprintf("%s must be a whole number between 0 and %d", key, rule.max))
		}
		return n, nil
	default:
		return nil, apperr.Validation(fmt.Sprintf("%s cannot be edited", key))
	}
}

// toInt accepts JSON numbers and numeric strings, since form inputs often send both.
func toInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}

// ListDoctors returns approved doctors, the ones patients can book.
func (s *ProfileService) ListDoctors(ctx context.Context) ([]models.UserSummary, error) {
	return s.summaries(ctx, store.UserFilter{Role: models.RoleDoctor, ApprovedOnly: true})
}

// ListPatients returns every patient, for doctors writing prescriptions and reports.
func (s *ProfileService) ListPatients(ctx context.Context) ([]models.UserSummary, error) {
	return s.summaries(ctx, store.UserFilter{Role: models.RolePatient})
}

func (s *ProfileService) summaries(ctx context.Context, f store.UserFilter) ([]models.UserSummary, error) {
	users, err := s.users.ListUsers(ctx, f)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}
