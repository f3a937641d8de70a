package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/logger"
	"github.com/undergroundpost/touchbase/internal/repository"
	"github.com/undergroundpost/touchbase/internal/storage"
)

// FileHandler serves and removes previously uploaded files.
type FileHandler struct {
	storage storage.ObjectStorage
	files   *repository.FileRepository
}

// NewFileHandler creates a new file handler.
func NewFileHandler(store storage.ObjectStorage, files *repository.FileRepository) *FileHandler {
	return &FileHandler{storage: store, files: files}
}

// Download handles GET /api/files/:id. The stored original name and
// content type travel with the bytes. A metadata row whose object has
// gone missing from storage reports 404, not 500.
func (h *FileHandler) Download(c *gin.Context) {
	record, err := h.files.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to look up file: "+err.Error())
		return
	}
	if record == nil {
		respondError(c, http.StatusNotFound, "File not found")
		return
	}

	present, err := h.storage.Exists(c.Request.Context(), record.StorageKey)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check file: "+err.Error())
		return
	}
	if !present {
		respondError(c, http.StatusNotFound, "File not found")
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), record.StorageKey)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to download file: "+err.Error())
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.OriginalName))
	c.Header("Content-Type", record.ContentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.CtxError(c.Request.Context(), "Failed to stream file %s: %v", record.ID, err)
	}
}

// Delete handles DELETE /api/files/:id. The object is removed before
// the metadata row; a failed storage delete leaves the row in place.
func (h *FileHandler) Delete(c *gin.Context) {
	record, err := h.files.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to look up file: "+err.Error())
		return
	}
	if record == nil {
		respondError(c, http.StatusNotFound, "File not found")
		return
	}

	if err := h.storage.Delete(c.Request.Context(), record.StorageKey); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete file: "+err.Error())
		return
	}

	deleted, err := h.files.Delete(c.Request.Context(), record.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete file record: "+err.Error())
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "File not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted"})
}
