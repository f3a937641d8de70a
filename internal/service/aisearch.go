package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/go-resty/resty/v2"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
)

// aiSearchLimit caps how many contacts a semantic search returns.
const aiSearchLimit = 10

// AISearchService answers natural-language contact queries. The query is
// embedded via the OpenAI embeddings API and scored by cosine similarity
// against contacts that carry an embedding.
type AISearchService struct {
	client       *resty.Client
	baseURL      string
	apiKey       string
	model        string
	contactRepo  *repository.ContactRepository
	activityRepo *repository.ActivityRepository
}

// NewAISearchService creates a new AISearchService.
func NewAISearchService(baseURL, apiKey, model string, contactRepo *repository.ContactRepository, activityRepo *repository.ActivityRepository) *AISearchService {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")

	return &AISearchService{
		client:       client,
		baseURL:      baseURL,
		apiKey:       apiKey,
		model:        model,
		contactRepo:  contactRepo,
		activityRepo: activityRepo,
	}
}

// OpenAI embeddings request/response structures
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed generates an embedding for a single text.
func (s *AISearchService) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embeddingRequest{
		Model: s.model,
		Input: []string{text},
	}

	var resp embeddingResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetBody(req).
		SetResult(&resp).
		Post(s.baseURL + "/v1/embeddings")

	if err != nil {
		return nil, fmt.Errorf("failed to call embeddings API: %w", err)
	}

	if !httpResp.IsSuccess() {
		if resp.Error.Message != "" {
			return nil, fmt.Errorf("embeddings API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("embeddings API error: status %d", httpResp.StatusCode())
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return resp.Data[0].Embedding, nil
}

// ScoredContact pairs a contact with its similarity to the query.
type ScoredContact struct {
	domain.Contact
	Similarity float64 `json:"similarity"`
}

// Search embeds the query, scores all contacts that have embeddings, and
// returns the top matches. The search itself is logged as an audit
// activity.
// Returns:
//   - []ScoredContact: up to 10 contacts, best match first.
//   - error: non-nil on embedding or storage failure.
func (s *AISearchService) Search(ctx context.Context, query string) ([]ScoredContact, error) {
	queryVec, err := s.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	contacts, err := s.contactRepo.ListWithEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredContact, 0, len(contacts))
	for _, contact := range contacts {
		sim := cosineSimilarity(queryVec, contact.Embedding)
		scored = append(scored, ScoredContact{Contact: contact, Similarity: sim})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > aiSearchLimit {
		scored = scored[:aiSearchLimit]
	}

	activity := &domain.Activity{
		Type:        domain.ActivityAISearch,
		Description: fmt.Sprintf("AI search: %s", query),
		Metadata: domain.JSONMap{
			"query":        query,
			"result_count": len(scored),
		},
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, err
	}

	return scored, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either is empty, mismatched in length, or zero-magnitude.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
