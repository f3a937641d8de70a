package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
)

// ScraperHandler serves scraper configuration and the scraped-customer
// count. Running the scraper itself is out of scope; the collected
// names only feed the lead-generation blacklist.
type ScraperHandler struct {
	scraper *repository.ScraperRepository
}

// NewScraperHandler creates a new scraper handler.
func NewScraperHandler(scraper *repository.ScraperRepository) *ScraperHandler {
	return &ScraperHandler{scraper: scraper}
}

// GetConfig handles GET /api/scraper/config.
func (h *ScraperHandler) GetConfig(c *gin.Context) {
	cfg, err := h.scraper.GetConfig(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get scraper config: "+err.Error())
		return
	}
	if cfg == nil {
		respondError(c, http.StatusNotFound, "Scraper config not found")
		return
	}

	safe := *cfg
	safe.Password = ""
	c.JSON(http.StatusOK, safe)
}

// UpdateConfig handles POST /api/scraper/config with a partial update.
func (h *ScraperHandler) UpdateConfig(c *gin.Context) {
	var update domain.ScraperConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cfg, err := h.scraper.SaveConfig(c.Request.Context(), &update)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save scraper config: "+err.Error())
		return
	}

	safe := *cfg
	safe.Password = ""
	c.JSON(http.StatusOK, safe)
}

// CustomerCount handles GET /api/scraper/customers/count.
func (h *ScraperHandler) CustomerCount(c *gin.Context) {
	count, err := h.scraper.CountCustomers(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to count customers: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
