package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/services"
	"github.com/harentsoaR/healthcare-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	tokens map[string]*models.User
	err    error
}

func (f *fakeResolver) Authenticate(_ context.Context, token string) (*services.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.tokens[token]
	if !ok {
		return nil, apperr.Unauthenticated(errors.New("unknown token"))
	}
	return &services.Identity{User: u, Claims: &utils.Claims{UserID: u.ID.Hex()}}, nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperr.Payload {
	t.Helper()
	var body apperr.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestAuthenticator(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RolePatient}
	resolver := &fakeResolver{tokens: map[string]*models.User{"good": user}}

	r := gin.New()
	r.GET("/me", Authenticator(resolver, "token"), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		claims, ok := CurrentClaims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": u.ID.Hex(), "sub": claims.UserID})
	})

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"valid cookie", "good", http.StatusOK},
		{"unknown token", "bad", http.StatusUnauthorized},
		{"no cookie", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, apperr.KindUnauthenticated, decodeError(t, rec).Kind)
			}
		})
	}
}

func TestAuthenticator_StoreOutageIs500(t *testing.T) {
	resolver := &fakeResolver{err: apperr.StoreFailure(errors.New("mongo down"))}
	r := gin.New()
	r.GET("/me", Authenticator(resolver, "token"), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "x"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec).Message)
}

func TestRequireRole(t *testing.T) {
	patient := &models.User{ID: primitive.NewObjectID(), Role: models.RolePatient, IsApproved: true}
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin, IsApproved: true}
	approved := &models.User{ID: primitive.NewObjectID(), Role: models.RoleDoctor, IsApproved: true}
	pending := &models.User{ID: primitive.NewObjectID(), Role: models.RoleDoctor}
	unknown := &models.User{ID: primitive.NewObjectID(), Role: models.Role("Nurse"), IsApproved: true}

	tests := []struct {
		name  string
		user  *models.User
		roles []models.Role
		want  int
	}{
		{"patient listed", patient, []models.Role{models.RolePatient}, http.StatusOK},
		{"patient not listed", patient, []models.Role{models.RoleDoctor}, http.StatusForbidden},
		{"admin listed", admin, []models.Role{models.RoleAdmin}, http.StatusOK},
		{"admin not listed", admin, []models.Role{models.RolePatient, models.RoleDoctor}, http.StatusForbidden},
		{"approved doctor", approved, []models.Role{models.RoleDoctor}, http.StatusOK},
		{"pending doctor", pending, []models.Role{models.RoleDoctor}, http.StatusForbidden},
		{"pending doctor on shared route", pending, []models.Role{models.RolePatient, models.RoleDoctor}, http.StatusForbidden},
		{"unrecognised role", unknown, []models.Role{models.Role("Nurse")}, http.StatusForbidden},
		{"no roles listed", admin, nil, http.StatusForbidden},
		{"no identity", nil, []models.Role{models.RolePatient}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) {
				if tt.user != nil {
					c.Set(userKey, tt.user)
				}
				c.Next()
			}, RequireRole(tt.roles...), func(c *gin.Context) { c.Status(http.StatusOK) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "my-custom-id", rec.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zerolog.Nop()), Recovery(zerolog.Nop()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, apperr.KindStoreFailure, body.Kind)
	assert.NotContains(t, body.Message, "kaboom")
}
