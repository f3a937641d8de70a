package service

import (
	"context"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/undergroundpost/touchbase/internal/logger"
)

const (
	verifyUserAgent  = "Mozilla/5.0 (compatible; CRM-Bot/1.0)"
	verifyProbeDelay = 500 * time.Millisecond
)

// VerifyService checks that a company name resolves to something real by
// probing a web search for it. A successful fetch of the results page is
// taken as "exists"; anything else drops the company silently. Crude, but
// it filters out hallucinated names cheaply.
type VerifyService struct {
	client  *resty.Client
	baseURL string
}

// NewVerifyService creates a new VerifyService.
// Parameters:
//   - baseURL: search endpoint, e.g. "https://www.google.com/search".
func NewVerifyService(baseURL string) *VerifyService {
	client := resty.New()
	client.SetHeader("User-Agent", verifyUserAgent)

	return &VerifyService{
		client:  client,
		baseURL: baseURL,
	}
}

// Verify probes each company sequentially and returns the survivors in
// input order. Probes are never parallelized and a fixed delay follows
// every probe; the bounded request rate is the point.
func (s *VerifyService) Verify(ctx context.Context, companies []string) []string {
	log := logger.FromContext(ctx)

	verified := make([]string, 0, len(companies))
	for _, company := range companies {
		query := url.QueryEscape(company + " company")
		resp, err := s.client.R().
			SetContext(ctx).
			Get(s.baseURL + "?q=" + query)

		if err == nil && resp.StatusCode() >= 200 && resp.StatusCode() < 300 {
			verified = append(verified, company)
		} else {
			log.WithField(logger.FieldCompany, company).Warn("Failed to verify company")
		}

		time.Sleep(verifyProbeDelay)
	}
	return verified
}
