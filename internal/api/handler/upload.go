package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/logger"
	"github.com/undergroundpost/touchbase/internal/repository"
	"github.com/undergroundpost/touchbase/internal/storage"
)

// UploadHandler stores multipart file uploads in object storage and
// records their metadata.
type UploadHandler struct {
	storage storage.ObjectStorage
	files   *repository.FileRepository
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store storage.ObjectStorage, files *repository.FileRepository) *UploadHandler {
	return &UploadHandler{storage: store, files: files}
}

// Upload handles POST /api/upload. Every file part is stored under
// uploads/<uuid>.<ext> and gets a files row.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Multipart error: "+err.Error())
		return
	}

	type uploadedFile struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
		Size     int64  `json:"size"`
		URL      string `json:"url"`
	}
	uploaded := []uploadedFile{}

	for _, headers := range form.File {
		for _, header := range headers {
			fileID := uuid.New().String()
			extension := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
			storageKey := "uploads/" + fileID
			if extension != "" {
				storageKey = fmt.Sprintf("uploads/%s.%s", fileID, extension)
			}

			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}

			src, err := header.Open()
			if err != nil {
				respondError(c, http.StatusBadRequest, "Field data error: "+err.Error())
				return
			}

			err = h.storage.Upload(c.Request.Context(), storageKey, src, header.Size, contentType)
			src.Close()
			if err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to upload file: "+err.Error())
				return
			}

			record := domain.File{
				ID:           fileID,
				OriginalName: header.Filename,
				StorageKey:   storageKey,
				ContentType:  contentType,
				Size:         header.Size,
			}
			if err := h.files.Create(c.Request.Context(), &record); err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to record file: "+err.Error())
				return
			}

			uploaded = append(uploaded, uploadedFile{
				ID:       fileID,
				Filename: header.Filename,
				Size:     header.Size,
				URL:      h.storage.GetURL(storageKey),
			})

			logger.With(logger.Fields{
				logger.FieldSize: int(header.Size),
			}).Info(c.Request.Context(), "Uploaded file: %s -> %s", header.Filename, storageKey)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   uploaded,
		"message": fmt.Sprintf("Successfully uploaded %d file(s)", len(uploaded)),
	})
}
