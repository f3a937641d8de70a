package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
)

// ActivityHandler handles activity timeline endpoints.
type ActivityHandler struct {
	activities *repository.ActivityRepository
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activities *repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// ListActivities handles GET /api/activities.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var contactID *int
	if raw := c.Query("contact_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid contact_id")
			return
		}
		contactID = &id
	}

	activities, err := h.activities.List(c.Request.Context(), contactID, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list activities: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, activities)
}

type activityRequest struct {
	ContactID   *int           `json:"contact_id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Metadata    domain.JSONMap `json:"metadata"`
}

// CreateActivity handles POST /api/activities.
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Type == "" || req.Description == "" {
		respondError(c, http.StatusBadRequest, "Activity type and description are required")
		return
	}

	activity := domain.Activity{
		ContactID:   req.ContactID,
		Type:        req.Type,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
	if err := h.activities.Create(c.Request.Context(), &activity); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create activity: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, activity)
}
