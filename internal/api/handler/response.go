package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

// respondError writes the structured error body shared by all handlers.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// parseDate parses an optional date-only string, defaulting to today.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, value)
}
