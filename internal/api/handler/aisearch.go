package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/service"
)

// AISearchHandler handles semantic contact search.
type AISearchHandler struct {
	search *service.AISearchService
}

// NewAISearchHandler creates a new AI search handler.
func NewAISearchHandler(search *service.AISearchService) *AISearchHandler {
	return &AISearchHandler{search: search}
}

type aiSearchRequest struct {
	Query string `json:"query"`
}

// Search handles POST /api/ai/search.
func (h *AISearchHandler) Search(c *gin.Context) {
	var req aiSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		respondError(c, http.StatusBadRequest, "Query string required")
		return
	}

	results, err := h.search.Search(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, http.StatusBadGateway, "AI search failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   req.Query,
		"results": results,
		"count":   len(results),
	})
}
