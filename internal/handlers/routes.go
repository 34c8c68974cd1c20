package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-api/internal/middleware"
	"github.com/harentsoaR/healthcare-api/internal/models"
)

// NewRouter builds the gin engine with every route under /api/v1. CORS is
// enabled only when origins are given.
func NewRouter(h *Handler, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(h.Log), middleware.Recovery(h.Log))

	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", h.Health)

	api := r.Group("/api/v1")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.POST("/login", h.Login)
	}

	session := api.Group("")
	session.Use(middleware.Authenticator(h.Auth, h.Cookie.Name))
	{
		session.POST("/auth/logout", h.Logout)

		session.GET("/profile", h.GetProfile)
		session.PATCH("/profile", h.UpdateProfile)
		session.GET("/doctors", h.ListDoctors)
		session.GET("/patients", middleware.RequireRole(models.RoleDoctor), h.ListPatients)

		session.POST("/appointments", middleware.RequireRole(models.RolePatient), h.CreateAppointment)
		session.GET("/appointments", h.GetAppointments)
		session.PATCH("/appointments/:id/status", middleware.RequireRole(models.RoleDoctor), h.UpdateAppointmentStatus)

		session.POST("/prescriptions", middleware.RequireRole(models.RoleDoctor), h.CreatePrescription)
		session.GET("/prescriptions", h.GetPrescriptions)

		session.POST("/reports", middleware.RequireRole(models.RoleDoctor), h.CreateReport)
		session.GET("/reports", h.GetReports)

		contacts := session.Group("/emergency-contacts", middleware.RequireRole(models.RolePatient))
		contacts.POST("", h.CreateContact)
		contacts.GET("", h.GetContacts)
		contacts.DELETE("/:id", h.DeleteContact)

		admin := session.Group("/admin", middleware.RequireRole(models.RoleAdmin))
		admin.GET("/users", h.ListUsers)
		admin.PATCH("/doctors/:id/approve", h.ApproveDoctor)
		admin.DELETE("/doctors/:id", h.RejectDoctor)
	}

	return r
}
