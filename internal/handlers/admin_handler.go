package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUsers supports ?role=Patient|Doctor|Admin.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ApproveDoctor(c *gin.Context) {
	admin := currentUser(c)
	if admin == nil {
		return
	}
	doctor, err := h.Admin.ApproveDoctor(c.Request.Context(), admin, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": doctor})
}

func (h *Handler) RejectDoctor(c *gin.Context) {
	admin := currentUser(c)
	if admin == nil {
		return
	}
	if err := h.Admin.RejectDoctor(c.Request.Context(), admin, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
