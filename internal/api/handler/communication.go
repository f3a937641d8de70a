package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/service"
)

// CommunicationHandler handles communication log endpoints.
type CommunicationHandler struct {
	contacts *service.ContactService
}

// NewCommunicationHandler creates a new communication handler.
func NewCommunicationHandler(contacts *service.ContactService) *CommunicationHandler {
	return &CommunicationHandler{contacts: contacts}
}

type communicationUpdateRequest struct {
	Notes string `json:"notes"`
}

// UpdateCommunication handles PUT /api/communications/:id.
func (h *CommunicationHandler) UpdateCommunication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid communication ID")
		return
	}

	var req communicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	comm, err := h.contacts.UpdateCommunicationNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Communication not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to update communication: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, comm)
}

// DeleteCommunication handles DELETE /api/communications/:id.
func (h *CommunicationHandler) DeleteCommunication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid communication ID")
		return
	}

	if err := h.contacts.DeleteCommunication(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Communication not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete communication: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
