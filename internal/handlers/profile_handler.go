package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": h.Profiles.Profile(user)})
}

// UpdateProfile takes a partial JSON object. Only whitelisted fields are applied.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	var fields map[string]interface{}
	if !bindJSON(c, &fields) {
		return
	}

	updated, err := h.Profiles.UpdateProfile(c.Request.Context(), user, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.Profiles.ListDoctors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.Profiles.ListPatients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients})
}
