package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/undergroundpost/touchbase/internal/domain"
	"github.com/undergroundpost/touchbase/internal/repository"
)

// chatCompletionBody wraps company names in the completion API's
// response envelope.
func chatCompletionBody(companies []string) string {
	names, _ := json.Marshal(companies)
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": string(names)}},
		},
	})
	return string(body)
}

// apolloBody builds a people-search response with one person per name.
func apolloBody(names ...string) string {
	people := make([]map[string]string, 0, len(names))
	for i, name := range names {
		people = append(people, map[string]string{
			"id":           fmt.Sprintf("person-%d", i+1),
			"name":         name,
			"title":        "CEO",
			"email":        "ceo@example.com",
			"linkedin_url": "https://linkedin.com/in/example",
		})
	}
	body, _ := json.Marshal(map[string]interface{}{"people": people})
	return string(body)
}

type leadgenFixture struct {
	service     *LeadgenService
	leadgenRepo *repository.LeadgenRepository
	contactRepo *repository.ContactRepository
	db          *gorm.DB
}

// newLeadgenFixture wires a LeadgenService against the given test
// servers and a fresh database with credentials configured and the
// per-company delay zeroed out.
func newLeadgenFixture(t *testing.T, openaiURL, searchURL, apolloURL string) *leadgenFixture {
	t.Helper()

	db := newTestDB(t)
	leadgenRepo := repository.NewLeadgenRepository(db)
	contactRepo := repository.NewContactRepository(db)
	scraperRepo := repository.NewScraperRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	ctx := context.Background()
	key := "test-key"
	delay := 0.0
	maxCompanies := 5
	_, err := leadgenRepo.UpdateConfig(ctx, &domain.LeadgenConfigUpdate{
		OpenAIAPIKey: &key,
		ApolloAPIKey: &key,
		RequestDelay: &delay,
		MaxCompanies: &maxCompanies,
	})
	if err != nil {
		t.Fatalf("failed to configure leadgen: %v", err)
	}

	svc := NewLeadgenService(
		leadgenRepo, contactRepo, scraperRepo, activityRepo,
		NewCompanyGenService(openaiURL),
		NewVerifyService(searchURL),
		NewPeopleSearchService(apolloURL),
	)
	return &leadgenFixture{
		service:     svc,
		leadgenRepo: leadgenRepo,
		contactRepo: contactRepo,
		db:          db,
	}
}

// waitTerminal polls the latest session until it leaves the running
// state. The pipeline goroutine has real sleeps in the verify stage, so
// the timeout is generous.
func waitTerminal(t *testing.T, repo *repository.LeadgenRepository) *domain.LeadgenSession {
	t.Helper()

	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		session, err := repo.LatestSession(context.Background())
		if err != nil {
			t.Fatalf("failed to poll session: %v", err)
		}
		if session != nil && session.Status != domain.SessionStatusRunning {
			return session
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("session never reached a terminal state")
	return nil
}

func TestLeadgenService_HappyPath(t *testing.T) {
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletionBody([]string{"Acme Corp", "Globex Inc"}))
	}))
	defer openai.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer search.Close()

	apollo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, apolloBody("Jane Doe"))
	}))
	defer apollo.Close()

	fx := newLeadgenFixture(t, openai.URL, search.URL, apollo.URL)
	ctx := context.Background()

	session, err := fx.service.Start(ctx)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if session.Status != domain.SessionStatusRunning || session.Message != "Initializing..." {
		t.Errorf("unexpected new session state: %s %q", session.Status, session.Message)
	}

	final := waitTerminal(t, fx.leadgenRepo)
	if final.Status != domain.SessionStatusCompleted {
		t.Fatalf("expected completed, got %s (error: %s)", final.Status, final.Error)
	}
	if final.Progress != 100 {
		t.Errorf("expected progress 100, got %d", final.Progress)
	}
	if final.Message != "Lead generation completed successfully" {
		t.Errorf("unexpected completion message: %q", final.Message)
	}
	if final.CompaniesGenerated != 2 || final.ContactsGenerated != 2 {
		t.Errorf("expected counts 2/2, got %d/%d", final.CompaniesGenerated, final.ContactsGenerated)
	}
	if final.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}

	contacts, err := fx.contactRepo.List(ctx, repository.ContactFilter{})
	if err != nil {
		t.Fatalf("failed to list contacts: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 imported contacts, got %d", len(contacts))
	}
	for _, c := range contacts {
		if c.Source != "leadgen" {
			t.Errorf("expected source leadgen, got %q", c.Source)
		}
		if c.ContactFrequency != 30 {
			t.Errorf("expected frequency 30, got %d", c.ContactFrequency)
		}
		if c.CustomFields["source_session"] != "apollo_leadgen" {
			t.Errorf("expected apollo_leadgen custom field, got %v", c.CustomFields)
		}
	}

	var audit domain.Activity
	err = fx.db.Where("type = ?", domain.ActivityLeadGeneration).First(&audit).Error
	if err != nil {
		t.Fatalf("expected a lead_generation audit activity: %v", err)
	}
	if audit.Description != "Lead generation workflow completed" {
		t.Errorf("unexpected audit description: %q", audit.Description)
	}
}

func TestLeadgenService_VerifyDropsSilently(t *testing.T) {
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletionBody([]string{"Acme Corp", "Globex Inc"}))
	}))
	defer openai.Close()

	// The probe for Globex fails; the run still completes with the
	// survivor only.
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "Globex Inc company" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer search.Close()

	apollo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, apolloBody("Jane Doe"))
	}))
	defer apollo.Close()

	fx := newLeadgenFixture(t, openai.URL, search.URL, apollo.URL)
	ctx := context.Background()

	if _, err := fx.service.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	final := waitTerminal(t, fx.leadgenRepo)
	if final.Status != domain.SessionStatusCompleted {
		t.Fatalf("expected completed, got %s (error: %s)", final.Status, final.Error)
	}
	if final.CompaniesGenerated != 1 || final.ContactsGenerated != 1 {
		t.Errorf("expected counts 1/1 after verify drop, got %d/%d", final.CompaniesGenerated, final.ContactsGenerated)
	}

	contacts, err := fx.contactRepo.List(ctx, repository.ContactFilter{Company: "Globex Inc"})
	if err != nil {
		t.Fatalf("failed to list contacts: %v", err)
	}
	if len(contacts) != 0 {
		t.Errorf("expected no contacts for the dropped company, got %d", len(contacts))
	}
}

func TestLeadgenService_BlacklistSkipsExisting(t *testing.T) {
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletionBody([]string{"Acme Corp", "Globex Inc"}))
	}))
	defer openai.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer search.Close()

	apollo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, apolloBody("Jane Doe"))
	}))
	defer apollo.Close()

	fx := newLeadgenFixture(t, openai.URL, search.URL, apollo.URL)
	ctx := context.Background()

	// An existing contact at Acme (any case) blocks re-import.
	existing := domain.Contact{Name: "Old Contact", Company: "ACME CORP"}
	if err := fx.contactRepo.Create(ctx, &existing); err != nil {
		t.Fatalf("failed to seed contact: %v", err)
	}

	if _, err := fx.service.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	final := waitTerminal(t, fx.leadgenRepo)
	if final.Status != domain.SessionStatusCompleted {
		t.Fatalf("expected completed, got %s (error: %s)", final.Status, final.Error)
	}
	if final.CompaniesGenerated != 1 {
		t.Errorf("expected 1 company after blacklist filter, got %d", final.CompaniesGenerated)
	}

	imported, err := fx.contactRepo.List(ctx, repository.ContactFilter{Source: "leadgen"})
	if err != nil {
		t.Fatalf("failed to list contacts: %v", err)
	}
	if len(imported) != 1 || imported[0].Company != "Globex Inc" {
		t.Errorf("expected exactly one Globex import, got %+v", imported)
	}
}

func TestLeadgenService_EnrichmentFailureIsFatal(t *testing.T) {
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletionBody([]string{"Acme Corp", "Globex Inc"}))
	}))
	defer openai.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer search.Close()

	// First company enriches fine, second blows up mid-run.
	calls := 0
	apollo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, apolloBody("Jane Doe"))
	}))
	defer apollo.Close()

	fx := newLeadgenFixture(t, openai.URL, search.URL, apollo.URL)
	ctx := context.Background()

	if _, err := fx.service.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	final := waitTerminal(t, fx.leadgenRepo)
	if final.Status != domain.SessionStatusFailed {
		t.Fatalf("expected failed, got %s", final.Status)
	}
	if final.Error == "" {
		t.Error("expected session error to be recorded")
	}
	if final.Message != "Lead generation failed" {
		t.Errorf("unexpected failure message: %q", final.Message)
	}

	// Contacts imported before the failure stay committed.
	contacts, err := fx.contactRepo.List(ctx, repository.ContactFilter{Source: "leadgen"})
	if err != nil {
		t.Fatalf("failed to list contacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Company != "Acme Corp" {
		t.Errorf("expected the first company's contact to survive, got %+v", contacts)
	}
}

func TestLeadgenService_MissingCredentials(t *testing.T) {
	db := newTestDB(t)
	leadgenRepo := repository.NewLeadgenRepository(db)
	svc := NewLeadgenService(
		leadgenRepo,
		repository.NewContactRepository(db),
		repository.NewScraperRepository(db),
		repository.NewActivityRepository(db),
		NewCompanyGenService("http://127.0.0.1:0"),
		NewVerifyService("http://127.0.0.1:0"),
		NewPeopleSearchService("http://127.0.0.1:0"),
	)
	ctx := context.Background()

	_, err := svc.Start(ctx)
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}

	// A rejected start leaves no session behind.
	session, err := leadgenRepo.LatestSession(ctx)
	if err != nil {
		t.Fatalf("failed to check sessions: %v", err)
	}
	if session != nil {
		t.Errorf("expected no session, got %+v", session)
	}
}

func TestLeadgenService_ProgressIdle(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeadgenService(
		repository.NewLeadgenRepository(db),
		repository.NewContactRepository(db),
		repository.NewScraperRepository(db),
		repository.NewActivityRepository(db),
		nil, nil, nil,
	)

	state, err := svc.Progress(context.Background())
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if state.Status != domain.SessionStatusIdle || state.SessionID != nil {
		t.Errorf("expected idle state with no session, got %+v", state)
	}
	if state.Message != "No lead generation sessions found" {
		t.Errorf("unexpected idle message %q", state.Message)
	}
}
