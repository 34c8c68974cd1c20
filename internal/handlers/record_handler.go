package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-api/internal/services"
)

func (h *Handler) CreatePrescription(c *gin.Context) {
	doctor := currentUser(c)
	if doctor == nil {
		return
	}
	var req services.PrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.Prescriptions.Write(c.Request.Context(), doctor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"prescription": p})
}

func (h *Handler) GetPrescriptions(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	list, err := h.Prescriptions.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescriptions": list})
}

func (h *Handler) CreateReport(c *gin.Context) {
	doctor := currentUser(c)
	if doctor == nil {
		return
	}
	var req services.ReportRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.Reports.Upload(c.Request.Context(), doctor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": r})
}

func (h *Handler) GetReports(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	list, err := h.Reports.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": list})
}

func (h *Handler) CreateContact(c *gin.Context) {
	patient := currentUser(c)
	if patient == nil {
		return
	}
	var req services.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.Contacts.Add(c.Request.Context(), patient, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contact": contact})
}

func (h *Handler) GetContacts(c *gin.Context) {
	patient := currentUser(c)
	if patient == nil {
		return
	}
	list, err := h.Contacts.List(c.Request.Context(), patient)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": list})
}

func (h *Handler) DeleteContact(c *gin.Context) {
	patient := currentUser(c)
	if patient == nil {
		return
	}
	if err := h.Contacts.Delete(c.Request.Context(), patient, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
