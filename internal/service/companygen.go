package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/undergroundpost/touchbase/internal/prompts"
)

// CompanyGenService generates candidate company names via a chat
// completion API.
type CompanyGenService struct {
	client  *resty.Client
	baseURL string
}

// NewCompanyGenService creates a new CompanyGenService.
// Parameters:
//   - baseURL: API root, e.g. "https://api.openai.com".
func NewCompanyGenService(baseURL string) *CompanyGenService {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")

	return &CompanyGenService{
		client:  client,
		baseURL: baseURL,
	}
}

// Chat completion request/response structures
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate requests company names from the model and parses the reply.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - apiKey: bearer credential for the completion API.
//   - model: model identifier, e.g. "gpt-4".
//   - prompt: user prompt; empty selects the default prompt.
//   - maxCompanies: cap appended to the prompt and applied by the
//     fallback parser.
// Returns:
//   - []string: company names.
//   - error: non-nil on transport failure, non-success status, or a
//     reply with no content.
func (s *CompanyGenService) Generate(ctx context.Context, apiKey, model, prompt string, maxCompanies int) ([]string, error) {
	if prompt == "" {
		prompt = prompts.LeadgenDefaultUserPrompt
	}

	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: prompts.LeadgenSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("%s Limit to %d companies.", prompt, maxCompanies)},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetBody(req).
		SetResult(&resp).
		Post(s.baseURL + "/v1/chat/completions")

	if err != nil {
		return nil, fmt.Errorf("failed to call completion API: %w", err)
	}

	if !httpResp.IsSuccess() {
		if resp.Error.Message != "" {
			return nil, fmt.Errorf("completion API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("completion API error: status %d", httpResp.StatusCode())
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no content in completion response")
	}

	return parseCompanyNames(resp.Choices[0].Message.Content, maxCompanies), nil
}

// parseCompanyNames parses the model reply as a JSON string array. When
// that fails it falls back to line-based extraction: trim quotes and
// trailing commas, drop empty lines and JSON structural lines, cap to
// maxCompanies. Model output is frequently almost-JSON; the fallback
// keeps those runs alive.
func parseCompanyNames(content string, maxCompanies int) []string {
	var companies []string
	if err := json.Unmarshal([]byte(content), &companies); err == nil {
		return companies
	}

	var names []string
	for _, line := range strings.Split(content, "\n") {
		cleaned := strings.TrimSpace(line)
		cleaned = strings.Trim(cleaned, `"`)
		cleaned = strings.Trim(cleaned, ",")
		if cleaned == "" || strings.HasPrefix(cleaned, "{") || strings.HasPrefix(cleaned, "[") {
			continue
		}
		names = append(names, cleaned)
		if len(names) >= maxCompanies {
			break
		}
	}
	return names
}
