package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/session"
	"github.com/harentsoaR/healthcare-api/internal/store"
	"github.com/harentsoaR/healthcare-api/internal/utils"
)

var (
	ErrMissingToken    = errors.New("session token missing")
	ErrTokenRevoked    = errors.New("session token revoked")
	ErrAccountNotFound = errors.New("account no longer exists")
)

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	EmailID   string `json:"emailId" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Role      string `json:"role" validate:"required"`
}

type LoginRequest struct {
	EmailID  string `json:"emailId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

// Identity is the authenticated principal of one request.
type Identity struct {
	User   *models.User
	Claims *utils.Claims
}

type AuthService struct {
	users      store.UserStore
	tokens     *utils.TokenManager
	revoker    session.Revoker
	bcryptCost int
	burnHash   string
	now        func() time.Time
	log        zerolog.Logger
}

func NewAuthService(users store.UserStore, tokens *utils.TokenManager, revoker session.Revoker, bcryptCost int, log zerolog.Logger) *AuthService {
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		revoker:    revoker,
		bcryptCost: bcryptCost,
		now:        time.Now,
		log:        log.With().Str("component", "auth").Logger(),
	}
	burn, err := utils.NewBurnHash(bcryptCost)
	if err != nil {
		s.log.Error().Err(err).Int("cost", bcryptCost).Msg("build burn hash")
	}
	s.burnHash = burn
	return s
}

func passwordTooLong() error {
	return apperr.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a Patient or Doctor. Doctors start unapproved.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.EmailID = normalizeEmail(req.EmailID)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, apperr.Validation("role must be Patient or Doctor")
	}
	if !role.SignupAllowed() {
		return nil, apperr.Forbidden("this role cannot be self-registered")
	}

	return s.createUser(ctx, req, role, role != models.RoleDoctor)
}

// CreateAdmin provisions an administrator. It is only reachable from the CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, req SignupRequest) (*models.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.EmailID = normalizeEmail(req.EmailID)
	req.Role = string(models.RoleAdmin)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req, models.RoleAdmin, true)
}

func (s *AuthService) createUser(ctx context.Context, req SignupRequest, role models.Role, approved bool) (*models.User, error) {
	if len(req.Password) > maxPasswordBytes {
		return nil, passwordTooLong()
	}
	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, passwordTooLong()
		}
		return nil, apperr.StoreFailure(fmt.Errorf("hash password: %w", err))
	}

	now := s.now().UTC()
	user := &models.User{
		ID:         primitive.NewObjectID(),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		EmailID:    req.EmailID,
		Password:   hash,
		Phone:      req.Phone,
		Role:       role,
		IsApproved: approved,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apperr.Conflict("an account with this email already exists")
		}
		return nil, apperr.StoreFailure(err)
	}

	s.log.Info().Str("user_id", user.ID.Hex()).Str("role", string(role)).Msg("account created")
	public := user.Public()
	return &public, nil
}

// Login verifies credentials and issues a session token. An unknown email and a
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.EmailID = normalizeEmail(req.EmailID)
	if req.EmailID == "" || req.Password == "" {
		return nil, apperr.InvalidCredentials()
	}

	user, err := s.users.FindUserByEmail(ctx, req.EmailID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.BurnPasswordCheck(req.Password, s.burnHash)
			return nil, apperr.InvalidCredentials()
		}
		return nil, apperr.StoreFailure(err)
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, apperr.InvalidCredentials()
	}

	token, claims, err := s.tokens.Generate(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}

	s.log.Info().Str("user_id", user.ID.Hex()).Str("jti", claims.ID).Msg("session issued")
	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user.Public(),
	}, nil
}

// Authenticate resolves a session token to the current user record. The user is
// re-read on every call so role, approval and deletion take effect immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, apperr.Unauthenticated(ErrMissingToken)
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperr.Unauthenticated(err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	if revoked {
		return nil, apperr.Unauthenticated(ErrTokenRevoked)
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthenticated(err)
	}

	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthenticated(ErrAccountNotFound)
		}
		return nil, apperr.StoreFailure(err)
	}

	return &Identity{User: user, Claims: claims}, nil
}

// Logout revokes the token until it would have expired on its own.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperr.Unauthenticated(ErrMissingToken)
	}

	expiresAt := s.now().Add(s.tokens.TTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return apperr.StoreFailure(err)
	}

	s.log.Info().Str("user_id", claims.UserID).Str("jti", claims.ID).Msg("session revoked")
	return nil
}

// SessionTTL is the lifetime of newly issued tokens.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}
