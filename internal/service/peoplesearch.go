package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/undergroundpost/touchbase/internal/domain"
)

// seniorityTitles is the fixed title filter for people search. Only
// decision-maker roles are worth importing.
var seniorityTitles = []string{"CEO", "CTO", "VP", "Director", "Manager", "Head of"}

// PeopleSearchService retrieves person-level contact details for a
// company from the Apollo people-search API.
type PeopleSearchService struct {
	client  *resty.Client
	baseURL string
}

// NewPeopleSearchService creates a new PeopleSearchService.
// Parameters:
//   - baseURL: API root, e.g. "https://api.apollo.io".
func NewPeopleSearchService(baseURL string) *PeopleSearchService {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Cache-Control", "no-cache")

	return &PeopleSearchService{
		client:  client,
		baseURL: baseURL,
	}
}

// Apollo API request/response structures
type peopleSearchRequest struct {
	OrganizationName string   `json:"q_organization_name"`
	Page             int      `json:"page"`
	PerPage          int      `json:"per_page"`
	PersonTitles     []string `json:"person_titles"`
}

type peopleSearchResponse struct {
	People []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Title       string `json:"title"`
		Email       string `json:"email"`
		LinkedInURL string `json:"linkedin_url"`
	} `json:"people"`
}

// Enrich searches for people at the given company and maps each person
// with a non-empty name to a Contact ready for import.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - apiKey: Apollo API key.
//   - company: organization name to search.
//   - maxEmployees: per-company result cap.
// Returns:
//   - []domain.Contact: contacts to import, possibly empty.
//   - error: non-nil on transport failure, non-success status, or an
//     unparseable response.
func (s *PeopleSearchService) Enrich(ctx context.Context, apiKey, company string, maxEmployees int) ([]domain.Contact, error) {
	req := peopleSearchRequest{
		OrganizationName: company,
		Page:             1,
		PerPage:          maxEmployees,
		PersonTitles:     seniorityTitles,
	}

	var resp peopleSearchResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", apiKey).
		SetBody(req).
		SetResult(&resp).
		Post(s.baseURL + "/v1/mixed_people/search")

	if err != nil {
		return nil, fmt.Errorf("people search failed: %w", err)
	}

	if !httpResp.IsSuccess() {
		return nil, fmt.Errorf("people search API error: status %d: %s", httpResp.StatusCode(), httpResp.String())
	}

	note := fmt.Sprintf("Generated via Apollo API leadgen on %s", time.Now().UTC().Format("2006-01-02"))

	contacts := make([]domain.Contact, 0, len(resp.People))
	for i, person := range resp.People {
		if i >= maxEmployees {
			break
		}
		if person.Name == "" {
			continue
		}

		contacts = append(contacts, domain.Contact{
			Name:             person.Name,
			Company:          company,
			Email:            person.Email,
			LinkedIn:         person.LinkedInURL,
			Position:         person.Title,
			ContactFrequency: 30,
			Notes:            note,
			CustomFields: domain.JSONMap{
				"source_session":   "apollo_leadgen",
				"apollo_person_id": person.ID,
			},
			Source: "leadgen",
		})
	}

	return contacts, nil
}
