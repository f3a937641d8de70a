package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
)

// TagHandler handles tag-related endpoints.
type TagHandler struct {
	tags *repository.TagRepository
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(tags *repository.TagRepository) *TagHandler {
	return &TagHandler{tags: tags}
}

// ListTags handles GET /api/tags.
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tags: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, tags)
}

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateTag handles POST /api/tags.
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respondError(c, http.StatusBadRequest, "Tag name is required")
		return
	}

	tag := domain.Tag{Name: req.Name, Color: req.Color}
	if err := h.tags.Create(c.Request.Context(), &tag); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create tag: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// UpdateTag handles PUT /api/tags/:id.
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respondError(c, http.StatusBadRequest, "Tag name is required")
		return
	}

	updated, err := h.tags.Update(c.Request.Context(), id, req.Name, req.Color)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update tag: "+err.Error())
		return
	}
	if !updated {
		respondError(c, http.StatusNotFound, "Tag not found")
		return
	}

	tag, err := h.tags.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to get tag: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, tag)
}

// DeleteTag handles DELETE /api/tags/:id. Join rows to contacts are
// removed along with the tag.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	deleted, err := h.tags.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete tag: "+err.Error())
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Tag not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
