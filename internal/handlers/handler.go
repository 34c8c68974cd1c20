package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/middleware"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/services"
)

// CookieConfig describes the session cookie set on login.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// Handler groups the services every route handler needs.
type Handler struct {
	Auth          *services.AuthService
	Profiles      *services.ProfileService
	Appointments  *services.AppointmentService
	Prescriptions *services.PrescriptionService
	Reports       *services.ReportService
	Contacts      *services.ContactService
	Admin         *services.AdminService
	Cookie        CookieConfig
	Log           zerolog.Logger
}

// respondError writes err with its mapped status. The internal cause is
// attached to the context for the request logger and never sent.
func respondError(c *gin.Context, err error) {
	middleware.Abort(c, err)
}

// currentUser is only nil when a route was registered without Authenticator.
func currentUser(c *gin.Context) *models.User {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperr.Unauthenticated(nil))
		return nil
	}
	return u
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return false
	}
	return true
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.Name, token, maxAge, "/", h.Cookie.Domain, h.Cookie.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cookie.Name, "", -1, "/", h.Cookie.Domain, h.Cookie.Secure, true)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
