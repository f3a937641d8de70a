package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
	"github.com/undergroundpost/touchbase/internal/service"
)

// redactedCredential replaces stored API keys in config reads.
const redactedCredential = "***CONFIGURED***"

// LeadgenHandler handles lead-generation configuration and pipeline
// control endpoints.
type LeadgenHandler struct {
	leadgen     *service.LeadgenService
	leadgenRepo *repository.LeadgenRepository
}

// NewLeadgenHandler creates a new leadgen handler.
func NewLeadgenHandler(leadgen *service.LeadgenService, leadgenRepo *repository.LeadgenRepository) *LeadgenHandler {
	return &LeadgenHandler{leadgen: leadgen, leadgenRepo: leadgenRepo}
}

// GetConfig handles GET /api/leadgen/config. Stored credentials are
// never returned; a fixed placeholder marks them as present.
func (h *LeadgenHandler) GetConfig(c *gin.Context) {
	cfg, err := h.leadgenRepo.GetConfig(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get config: "+err.Error())
		return
	}

	safe := *cfg
	if safe.OpenAIAPIKey != "" {
		safe.OpenAIAPIKey = redactedCredential
	}
	if safe.ApolloAPIKey != "" {
		safe.ApolloAPIKey = redactedCredential
	}

	c.JSON(http.StatusOK, safe)
}

// UpdateConfig handles POST /api/leadgen/config with a partial update.
func (h *LeadgenHandler) UpdateConfig(c *gin.Context) {
	var update domain.LeadgenConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if update.MaxCompanies != nil && *update.MaxCompanies < 0 {
		respondError(c, http.StatusBadRequest, "max_companies must not be negative")
		return
	}
	if update.MaxEmployeesPerCompany != nil && *update.MaxEmployeesPerCompany < 0 {
		respondError(c, http.StatusBadRequest, "max_employees_per_company must not be negative")
		return
	}
	if update.RequestDelay != nil && *update.RequestDelay < 0 {
		respondError(c, http.StatusBadRequest, "request_delay must not be negative")
		return
	}

	if _, err := h.leadgenRepo.UpdateConfig(c.Request.Context(), &update); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update config: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Configuration updated successfully"})
}

// Run handles POST /api/leadgen/run. The pipeline is launched in the
// background; the response carries only the new session ID.
func (h *LeadgenHandler) Run(c *gin.Context) {
	session, err := h.leadgen.Start(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrMissingCredentials) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to start lead generation: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Lead generation workflow started",
		"session_id": session.ID,
	})
}

// Cancel handles POST /api/leadgen/cancel.
func (h *LeadgenHandler) Cancel(c *gin.Context) {
	cancelled, err := h.leadgen.Cancel(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to cancel lead generation: "+err.Error())
		return
	}

	if !cancelled {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No running lead generation session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lead generation cancelled"})
}

// Progress handles GET /api/leadgen/progress.
func (h *LeadgenHandler) Progress(c *gin.Context) {
	state, err := h.leadgen.Progress(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get progress: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, state)
}

// Sessions handles GET /api/leadgen/sessions.
func (h *LeadgenHandler) Sessions(c *gin.Context) {
	sessions, err := h.leadgen.Sessions(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list sessions: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, sessions)
}
