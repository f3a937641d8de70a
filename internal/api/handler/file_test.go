package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/config"
	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
)

// memoryStorage keeps objects in a map so handler tests run without a
// bucket behind them.
type memoryStorage struct {
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.objects[key])), nil
}

func (m *memoryStorage) GetURL(key string) string {
	return "http://storage.test/attachments/" + key
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memoryStorage) EnsureBucket(ctx context.Context) error {
	return nil
}

func newFileRouter(t *testing.T) (*gin.Engine, *memoryStorage, *repository.FileRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate: true,
	}
	db, err := repository.InitDB(cfg)
	if err != nil {
		t.Fatalf("failed to init test database: %v", err)
	}

	store := newMemoryStorage()
	fileRepo := repository.NewFileRepository(db)
	uploadHandler := NewUploadHandler(store, fileRepo)
	fileHandler := NewFileHandler(store, fileRepo)

	r := gin.New()
	r.POST("/api/upload", uploadHandler.Upload)
	r.GET("/api/files/:id", fileHandler.Download)
	r.DELETE("/api/files/:id", fileHandler.Delete)
	return r, store, fileRepo
}

func multipartUpload(t *testing.T, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadHandler_ResponseIncludesURL(t *testing.T) {
	r, store, _ := newFileRouter(t)

	body, contentType := multipartUpload(t, "notes.txt", "text/plain", "quarterly notes")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Files []struct {
			ID       string `json:"id"`
			Filename string `json:"filename"`
			URL      string `json:"url"`
		} `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Files) != 1 {
		t.Fatalf("expected 1 uploaded file, got %d", len(resp.Files))
	}
	got := resp.Files[0]
	if got.URL == "" {
		t.Fatal("expected a url in the upload response")
	}
	if !strings.HasPrefix(got.URL, "http://storage.test/attachments/uploads/") {
		t.Errorf("unexpected url %q", got.URL)
	}
	if len(store.objects) != 1 {
		t.Fatalf("expected 1 stored object, got %d", len(store.objects))
	}
}

func TestFileHandler_DownloadRoundTrip(t *testing.T) {
	r, _, _ := newFileRouter(t)

	body, contentType := multipartUpload(t, "report.pdf", "application/pdf", "%PDF-1.4 fake body")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload failed: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Files []struct {
			ID string `json:"id"`
		} `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/files/"+resp.Files[0].ID, nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "%PDF-1.4 fake body" {
		t.Errorf("downloaded body does not match uploaded content: %q", w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, `filename="report.pdf"`) {
		t.Errorf("expected original filename in Content-Disposition, got %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("expected stored content type, got %q", got)
	}
}

func TestFileHandler_DownloadUnknownID(t *testing.T) {
	r, _, _ := newFileRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files/no-such-file", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestFileHandler_DownloadMissingObject(t *testing.T) {
	r, _, fileRepo := newFileRouter(t)

	// A metadata row whose object was never stored, or was removed
	// out of band.
	record := domain.File{
		ID:           "orphan-row",
		OriginalName: "gone.txt",
		StorageKey:   "uploads/orphan-row.txt",
		ContentType:  "text/plain",
		Size:         4,
	}
	if err := fileRepo.Create(context.Background(), &record); err != nil {
		t.Fatalf("failed to seed file row: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/files/orphan-row", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing object, got %d", w.Code)
	}
}

func TestFileHandler_DeleteRemovesObjectAndRow(t *testing.T) {
	r, store, fileRepo := newFileRouter(t)

	body, contentType := multipartUpload(t, "old.csv", "text/csv", "a,b\n1,2\n")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload failed: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Files []struct {
			ID string `json:"id"`
		} `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	id := resp.Files[0].ID

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/files/"+id, nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.objects) != 0 {
		t.Errorf("expected object removed from storage, %d remain", len(store.objects))
	}
	record, err := fileRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to look up deleted file: %v", err)
	}
	if record != nil {
		t.Error("expected metadata row removed")
	}

	// A repeated delete finds nothing.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/files/"+id, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}
