package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// The people-search API is treated as successful for any 2xx status.
func TestPeopleSearchService_EnrichAcceptsAny2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("unexpected X-Api-Key header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, apolloBody("Jane Doe", "John Roe"))
	}))
	defer server.Close()

	svc := NewPeopleSearchService(server.URL)
	contacts, err := svc.Enrich(context.Background(), "test-key", "Acme Corp", 25)
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	if contacts[0].Name != "Jane Doe" || contacts[0].Company != "Acme Corp" {
		t.Errorf("unexpected first contact %+v", contacts[0])
	}
}

func TestPeopleSearchService_EnrichCapsAndSkipsEmptyNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, apolloBody("Jane Doe", "", "John Roe"))
	}))
	defer server.Close()

	svc := NewPeopleSearchService(server.URL)
	contacts, err := svc.Enrich(context.Background(), "test-key", "Acme Corp", 2)
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	// The cap applies to API rows walked, and the nameless row is dropped.
	if len(contacts) != 1 || contacts[0].Name != "Jane Doe" {
		t.Errorf("expected only Jane Doe, got %+v", contacts)
	}
}
