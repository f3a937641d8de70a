package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"empty", nil, nil, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAISearchService_Search(t *testing.T) {
	// The embedding server always answers with a fixed query vector; the
	// ranking then depends only on the stored contact embeddings.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{1, 0, 0}, "index": 0},
			},
		})
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, string(body))
	}))
	defer server.Close()

	db := newTestDB(t)
	contactRepo := repository.NewContactRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	svc := NewAISearchService(server.URL, "test-key", "text-embedding-ada-002", contactRepo, activityRepo)
	ctx := context.Background()

	contacts := []domain.Contact{
		{Name: "Close Match", Embedding: domain.FloatArray{0.9, 0.1, 0}},
		{Name: "Far Match", Embedding: domain.FloatArray{0.1, 0.9, 0}},
		{Name: "No Embedding"},
	}
	for i := range contacts {
		if err := contactRepo.Create(ctx, &contacts[i]); err != nil {
			t.Fatalf("failed to seed contact: %v", err)
		}
	}

	results, err := svc.Search(ctx, "who do I know in manufacturing")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 scored contacts, got %d", len(results))
	}
	if results[0].Name != "Close Match" {
		t.Errorf("expected Close Match first, got %s", results[0].Name)
	}
	if results[0].Similarity <= results[1].Similarity {
		t.Errorf("expected descending similarity, got %v then %v", results[0].Similarity, results[1].Similarity)
	}

	var audit domain.Activity
	if err := db.Where("type = ?", domain.ActivityAISearch).First(&audit).Error; err != nil {
		t.Fatalf("expected an ai_search audit activity: %v", err)
	}
	if audit.Metadata["result_count"] != float64(2) {
		t.Errorf("expected result_count 2 in metadata, got %v", audit.Metadata["result_count"])
	}
}

func TestAISearchService_SearchCapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{1, 0}, "index": 0},
			},
		})
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, string(body))
	}))
	defer server.Close()

	db := newTestDB(t)
	contactRepo := repository.NewContactRepository(db)
	svc := NewAISearchService(server.URL, "test-key", "text-embedding-ada-002", contactRepo, repository.NewActivityRepository(db))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		contact := domain.Contact{
			Name:      fmt.Sprintf("Contact %d", i),
			Embedding: domain.FloatArray{float32(i + 1), 1},
		}
		if err := contactRepo.Create(ctx, &contact); err != nil {
			t.Fatalf("failed to seed contact: %v", err)
		}
	}

	results, err := svc.Search(ctx, "anyone")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 10 {
		t.Errorf("expected results capped at 10, got %d", len(results))
	}
}

func TestAISearchService_EmbedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key"}}`)
	}))
	defer server.Close()

	db := newTestDB(t)
	svc := NewAISearchService(server.URL, "bad-key", "text-embedding-ada-002",
		repository.NewContactRepository(db), repository.NewActivityRepository(db))

	_, err := svc.Search(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected an error from the embeddings API")
	}
}
