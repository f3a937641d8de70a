package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/logger"
	"github.com/undergroundpost/touchbase/internal/repository"
)

// ErrMissingCredentials is returned by Start when the configuration has
// no generation or enrichment API key. The request fails before any
// session row is created.
var ErrMissingCredentials = errors.New("leadgen credentials not configured")

// LeadgenService orchestrates the four-stage lead-generation pipeline:
// generate company names, verify them, drop blacklisted ones, then
// enrich and import contacts. Each run is one detached goroutine with a
// durable session row as its only observable state.
type LeadgenService struct {
	leadgenRepo  *repository.LeadgenRepository
	contactRepo  *repository.ContactRepository
	scraperRepo  *repository.ScraperRepository
	activityRepo *repository.ActivityRepository

	companyGen   *CompanyGenService
	verify       *VerifyService
	peopleSearch *PeopleSearchService
}

// NewLeadgenService creates a new LeadgenService.
func NewLeadgenService(
	leadgenRepo *repository.LeadgenRepository,
	contactRepo *repository.ContactRepository,
	scraperRepo *repository.ScraperRepository,
	activityRepo *repository.ActivityRepository,
	companyGen *CompanyGenService,
	verify *VerifyService,
	peopleSearch *PeopleSearchService,
) *LeadgenService {
	return &LeadgenService{
		leadgenRepo:  leadgenRepo,
		contactRepo:  contactRepo,
		scraperRepo:  scraperRepo,
		activityRepo: activityRepo,
		companyGen:   companyGen,
		verify:       verify,
		peopleSearch: peopleSearch,
	}
}

// Start validates credentials, creates a session, and launches the
// pipeline in a background goroutine. It returns as soon as the session
// row exists; callers poll Progress for the outcome.
// Returns:
//   - *domain.LeadgenSession: the new running session.
//   - error: ErrMissingCredentials when a required key is absent, or a
//     storage error.
func (s *LeadgenService) Start(ctx context.Context) (*domain.LeadgenSession, error) {
	cfg, err := s.leadgenRepo.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key not configured", ErrMissingCredentials)
	}
	if cfg.ApolloAPIKey == "" {
		return nil, fmt.Errorf("%w: Apollo API key not configured", ErrMissingCredentials)
	}

	session, err := s.leadgenRepo.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	// The goroutine outlives the triggering request, so it gets a fresh
	// context carrying only the session field for log correlation.
	bgCtx := logger.SetSessionID(context.Background(), session.ID)
	go func() {
		if err := s.run(bgCtx, session.ID, cfg); err != nil {
			if markErr := s.leadgenRepo.MarkFailed(bgCtx, session.ID, err.Error()); markErr != nil {
				logger.CtxError(bgCtx, "Failed to mark session failed: %v", markErr)
			}
			logger.CtxError(bgCtx, "Leadgen workflow failed: %v", err)
		}
	}()

	return session, nil
}

// run executes the pipeline stages strictly in sequence. Any stage error
// aborts the remainder; the caller records it on the session. There is
// no cooperative cancellation check here: cancel only flips the stored
// status, and a finishing run overwrites it with its own terminal state.
func (s *LeadgenService) run(ctx context.Context, sessionID int, cfg *domain.LeadgenConfig) error {
	if err := s.leadgenRepo.UpdateProgress(ctx, sessionID, 10, "Starting OpenAI company generation..."); err != nil {
		return err
	}

	// Stage 1: generate candidate company names
	companies, err := s.companyGen.Generate(ctx, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIPrompt, cfg.MaxCompanies)
	if err != nil {
		return err
	}
	if err := s.leadgenRepo.UpdateProgress(ctx, sessionID, 25, fmt.Sprintf("Generated %d companies", len(companies))); err != nil {
		return err
	}

	// Stage 2: verify each name resolves to something real
	verified := s.verify.Verify(ctx, companies)
	if err := s.leadgenRepo.UpdateProgress(ctx, sessionID, 50, fmt.Sprintf("Verified %d companies", len(verified))); err != nil {
		return err
	}

	// Stage 3: drop companies already known to the CRM
	filtered, err := s.filterBlacklisted(ctx, verified)
	if err != nil {
		return err
	}
	if err := s.leadgenRepo.UpdateProgress(ctx, sessionID, 65, fmt.Sprintf("Filtered to %d new companies", len(filtered))); err != nil {
		return err
	}

	// Stage 4: enrich and import, one company at a time. Companies are
	// processed sequentially with a delay after each to bound the
	// outbound request rate. A failure here aborts the run; contacts
	// already imported for earlier companies stay committed.
	totalContacts := 0
	for i, company := range filtered {
		contacts, err := s.peopleSearch.Enrich(ctx, cfg.ApolloAPIKey, company, cfg.MaxEmployeesPerCompany)
		if err != nil {
			return err
		}

		for j := range contacts {
			if err := s.contactRepo.Create(ctx, &contacts[j]); err != nil {
				return err
			}
			totalContacts++
		}

		progress := 65 + (i+1)*30/len(filtered)
		message := fmt.Sprintf("Processed %d/%d companies", i+1, len(filtered))
		if err := s.leadgenRepo.UpdateProgress(ctx, sessionID, progress, message); err != nil {
			return err
		}

		time.Sleep(time.Duration(cfg.RequestDelay * float64(time.Second)))
	}

	if err := s.leadgenRepo.SetCounts(ctx, sessionID, len(filtered), totalContacts); err != nil {
		return err
	}
	if err := s.leadgenRepo.MarkCompleted(ctx, sessionID); err != nil {
		return err
	}

	activity := &domain.Activity{
		Type:        domain.ActivityLeadGeneration,
		Description: "Lead generation workflow completed",
		Metadata: domain.JSONMap{
			"session_id":          sessionID,
			"companies_generated": len(companies),
			"companies_verified":  len(verified),
			"companies_filtered":  len(filtered),
			"contacts_imported":   totalContacts,
		},
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return err
	}

	logger.With(logger.Fields{
		logger.FieldCount: totalContacts,
	}).Info(ctx, "Leadgen workflow completed")
	return nil
}

// filterBlacklisted keeps only companies that match neither a scraped
// customer nor an existing contact's company or name, case-insensitively.
// Three single-row existence queries per company; volumes are tens of
// companies, not thousands.
func (s *LeadgenService) filterBlacklisted(ctx context.Context, companies []string) ([]string, error) {
	filtered := make([]string, 0, len(companies))
	for _, company := range companies {
		scraped, err := s.scraperRepo.CustomerExists(ctx, company)
		if err != nil {
			return nil, err
		}
		byCompany, err := s.contactRepo.ExistsByCompany(ctx, company)
		if err != nil {
			return nil, err
		}
		byName, err := s.contactRepo.ExistsByName(ctx, company)
		if err != nil {
			return nil, err
		}

		if scraped || byCompany || byName {
			logger.CtxInfo(ctx, "Filtered out company (blacklisted/existing): %s", company)
			continue
		}
		filtered = append(filtered, company)
	}
	return filtered, nil
}

// Cancel flips every running session to cancelled.
// Returns:
//   - bool: whether any running session existed.
//   - error: non-nil if the update fails.
func (s *LeadgenService) Cancel(ctx context.Context) (bool, error) {
	return s.leadgenRepo.CancelRunning(ctx)
}

// ProgressState is the pollable view of the most recent session.
type ProgressState struct {
	Progress  int                  `json:"progress"`
	Status    domain.SessionStatus `json:"status"`
	Message   string               `json:"message"`
	SessionID *int                 `json:"session_id"`
}

// Progress reports the latest session's state, or idle defaults when no
// session has ever run.
func (s *LeadgenService) Progress(ctx context.Context) (*ProgressState, error) {
	session, err := s.leadgenRepo.LatestSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &ProgressState{
			Status:  domain.SessionStatusIdle,
			Message: "No lead generation sessions found",
		}, nil
	}
	return &ProgressState{
		Progress:  session.Progress,
		Status:    session.Status,
		Message:   session.Message,
		SessionID: &session.ID,
	}, nil
}

// Sessions lists the 20 most recent sessions, newest first.
func (s *LeadgenService) Sessions(ctx context.Context) ([]domain.LeadgenSession, error) {
	return s.leadgenRepo.ListSessions(ctx)
}

// Reconcile marks sessions left running by a previous process as failed.
// Called once at startup, before the server accepts traffic.
func (s *LeadgenService) Reconcile(ctx context.Context) error {
	n, err := s.leadgenRepo.ReconcileInterrupted(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.CtxWarn(ctx, "Marked %d interrupted leadgen session(s) as failed", n)
	}
	return nil
}
