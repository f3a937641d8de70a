package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/repository"
)

// DashboardHandler serves dashboard aggregates, CSV export, and service
// metadata.
type DashboardHandler struct {
	dashboard *repository.DashboardRepository
	contacts  *repository.ContactRepository
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboard *repository.DashboardRepository, contacts *repository.ContactRepository) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, contacts: contacts}
}

// GetDashboard handles GET /api/dashboard.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to compute dashboard stats: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportContacts handles GET /api/export. The same filters as the
// contact list apply; output is CSV.
func (h *DashboardHandler) ExportContacts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := repository.ContactFilter{
		Search:  c.Query("search"),
		Company: c.Query("company"),
		Source:  c.Query("source"),
		Tag:     c.Query("tag"),
		Limit:   limit,
		Offset:  offset,
	}

	contacts, err := h.contacts.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to export contacts: "+err.Error())
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"name", "company", "email", "phone", "position", "created_at"})
	for _, contact := range contacts {
		_ = w.Write([]string{
			contact.Name,
			contact.Company,
			contact.Email,
			contact.Phone,
			contact.Position,
			contact.CreatedAt.Format(dateLayout),
		})
	}
	w.Flush()

	c.Header("Content-Disposition", `attachment; filename="contacts.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// GetMetadata handles GET /api/metadata.
func (h *DashboardHandler) GetMetadata(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": "1.0.0",
		"service": "touchbase",
	})
}
