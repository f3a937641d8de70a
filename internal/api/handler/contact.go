package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
	"github.com/undergroundpost/touchbase/internal/service"
)

// ContactHandler handles contact-related endpoints.
type ContactHandler struct {
	contacts *service.ContactService
}

// NewContactHandler creates a new contact handler.
// Parameters:
//   - contacts: contact service instance.
// Returns:
//   - *ContactHandler: initialized handler.
func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type contactRequest struct {
	Name             string         `json:"name"`
	Company          string         `json:"company"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	LinkedIn         string         `json:"linkedin"`
	Website          string         `json:"website"`
	Position         string         `json:"position"`
	LastContactDate  string         `json:"last_contact_date"`
	NextContactDate  string         `json:"next_contact_date"`
	ContactFrequency int            `json:"contact_frequency"`
	Notes            string         `json:"notes"`
	CustomFields     domain.JSONMap `json:"custom_fields"`
	Source           string         `json:"source"`
}

type contactUpdateRequest struct {
	Name             *string        `json:"name"`
	Company          *string        `json:"company"`
	Email            *string        `json:"email"`
	Phone            *string        `json:"phone"`
	LinkedIn         *string        `json:"linkedin"`
	Website          *string        `json:"website"`
	Position         *string        `json:"position"`
	LastContactDate  *string        `json:"last_contact_date"`
	NextContactDate  *string        `json:"next_contact_date"`
	ContactFrequency *int           `json:"contact_frequency"`
	Notes            *string        `json:"notes"`
	CustomFields     domain.JSONMap `json:"custom_fields"`
	Source           *string        `json:"source"`
}

// ListContacts handles GET /api/contacts.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ContactHandler) ListContacts(c *gin.Context) {
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
		respondError(c, http.StatusInternalServerError, "Failed to list contacts: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// CreateContact handles POST /api/contacts.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		respondError(c, http.StatusBadRequest, "Contact name is required")
		return
	}

	contact := domain.Contact{
		Name:             req.Name,
		Company:          req.Company,
		Email:            req.Email,
		Phone:            req.Phone,
		LinkedIn:         req.LinkedIn,
		Website:          req.Website,
		Position:         req.Position,
		ContactFrequency: req.ContactFrequency,
		Notes:            req.Notes,
		CustomFields:     req.CustomFields,
		Source:           req.Source,
	}

	if req.LastContactDate != "" {
		date, err := parseDate(req.LastContactDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid last_contact_date")
			return
		}
		contact.LastContactDate = &date
	}
	if req.NextContactDate != "" {
		date, err := parseDate(req.NextContactDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid next_contact_date")
			return
		}
		contact.NextContactDate = &date
	}

	if err := h.contacts.Create(c.Request.Context(), &contact); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create contact: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// GetContact handles GET /api/contacts/:id.
func (h *ContactHandler) GetContact(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	contact, err := h.contacts.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to get contact: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, contact)
}

// UpdateContact handles PUT /api/contacts/:id.
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	var req contactUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	update := domain.ContactUpdate{
		Name:             req.Name,
		Company:          req.Company,
		Email:            req.Email,
		Phone:            req.Phone,
		LinkedIn:         req.LinkedIn,
		Website:          req.Website,
		Position:         req.Position,
		ContactFrequency: req.ContactFrequency,
		Notes:            req.Notes,
		CustomFields:     req.CustomFields,
		Source:           req.Source,
	}
	if req.LastContactDate != nil {
		date, err := parseDate(*req.LastContactDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid last_contact_date")
			return
		}
		update.LastContactDate = &date
	}
	if req.NextContactDate != nil {
		date, err := parseDate(*req.NextContactDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid next_contact_date")
			return
		}
		update.NextContactDate = &date
	}

	contact, err := h.contacts.Update(c.Request.Context(), id, &update)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to update contact: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteContact handles DELETE /api/contacts/:id.
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to delete contact: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type markContactedRequest struct {
	Method string `json:"method"`
	Notes  string `json:"notes"`
	Date   string `json:"date"`
}

// MarkContacted handles POST /api/contacts/:id/contact.
func (h *ContactHandler) MarkContacted(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	var req markContactedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Method == "" {
		respondError(c, http.StatusBadRequest, "Contact method is required")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid date")
		return
	}

	result, err := h.contacts.MarkContacted(c.Request.Context(), id, date, req.Method, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to mark contacted: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"lastContactDate": result.LastContactDate.Format(dateLayout),
		"nextContactDate": result.NextContactDate.Format(dateLayout),
		"communicationId": result.CommunicationID,
	})
}

// ListContactTags handles GET /api/contacts/:id/tags.
func (h *ContactHandler) ListContactTags(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	tags, err := h.contacts.Tags(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to list tags: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, tags)
}

type addTagRequest struct {
	TagID int `json:"tag_id"`
}

// AddContactTag handles POST /api/contacts/:id/tags.
func (h *ContactHandler) AddContactTag(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	var req addTagRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TagID == 0 {
		respondError(c, http.StatusBadRequest, "Tag ID is required")
		return
	}

	if err := h.contacts.AddTag(c.Request.Context(), id, req.TagID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact or tag not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to add tag: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveContactTag handles DELETE /api/contacts/:id/tags/:tagId.
func (h *ContactHandler) RemoveContactTag(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact ID")
		return
	}
	tagID, err := strconv.Atoi(c.Param("tagId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	if err := h.contacts.RemoveTag(c.Request.Context(), id, tagID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact or tag not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to remove tag: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type bulkDeleteRequest struct {
	ContactIDs []int `json:"contactIds"`
}

// BulkDelete handles POST /api/contacts/bulk-delete.
func (h *ContactHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ContactIDs) == 0 {
		respondError(c, http.StatusBadRequest, "Contact IDs array is required")
		return
	}

	deleted, err := h.contacts.BulkDelete(c.Request.Context(), req.ContactIDs)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete contacts: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

type bulkContactRequest struct {
	ContactIDs []int  `json:"contactIds"`
	Method     string `json:"method"`
	Notes      string `json:"notes"`
	Date       string `json:"date"`
}

// BulkContact handles POST /api/contacts/bulk-contact.
func (h *ContactHandler) BulkContact(c *gin.Context) {
	var req bulkContactRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ContactIDs) == 0 {
		respondError(c, http.StatusBadRequest, "Contact IDs array is required")
		return
	}
	if req.Method == "" {
		respondError(c, http.StatusBadRequest, "Contact method is required")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid date")
		return
	}

	updated, err := h.contacts.BulkContact(c.Request.Context(), req.ContactIDs, date, req.Method, req.Notes)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to mark contacts: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}
