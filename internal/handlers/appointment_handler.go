package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-api/internal/services"
)

// CreateAppointment books a Pending appointment for the calling patient.
func (h *Handler) CreateAppointment(c *gin.Context) {
	patient := currentUser(c)
	if patient == nil {
		return
	}
	var req services.BookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	apt, err := h.Appointments.Book(c.Request.Context(), patient, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": apt})
}

// GetAppointments lists what the caller may see: own, assigned or all.
func (h *Handler) GetAppointments(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	apts, err := h.Appointments.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": apts})
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	doctor := currentUser(c)
	if doctor == nil {
		return
	}
	var req services.AppointmentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	apt, err := h.Appointments.SetStatus(c.Request.Context(), doctor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": apt})
}
