package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

// The completion API is treated as successful for any 2xx status, not
// just 200.
func TestCompanyGenService_GenerateAcceptsAny2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, chatCompletionBody([]string{"Acme Corp", "Globex Inc"}))
	}))
	defer server.Close()

	svc := NewCompanyGenService(server.URL)
	got, err := svc.Generate(context.Background(), "test-key", "gpt-4", "", 10)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := []string{"Acme Corp", "Globex Inc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseCompanyNames_JSONArray(t *testing.T) {
	content := `["Acme Corp", "Globex Inc", "Initech"]`
	got := parseCompanyNames(content, 10)
	want := []string{"Acme Corp", "Globex Inc", "Initech"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseCompanyNames_LineFallback(t *testing.T) {
	content := "  \"Acme Corp\"\n  Globex Inc,\n\n  Initech"
	got := parseCompanyNames(content, 10)
	want := []string{"Acme Corp", "Globex Inc", "Initech"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// Quotes are stripped before trailing commas, so a quoted line that also
// carries a trailing comma keeps its closing quote. The trim order is
// load-bearing for what ends up in the verify stage.
func TestParseCompanyNames_QuoteTrimPrecedesCommaTrim(t *testing.T) {
	content := "\"Acme Corp\",\n\"Globex Inc\","
	got := parseCompanyNames(content, 10)
	want := []string{`Acme Corp"`, `Globex Inc"`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseCompanyNames_FallbackCapped(t *testing.T) {
	content := "Alpha\nBravo\nCharlie\nDelta\nEcho"
	got := parseCompanyNames(content, 3)
	if len(got) != 3 {
		t.Fatalf("expected fallback to cap at 3 companies, got %d: %v", len(got), got)
	}
	if got[0] != "Alpha" || got[2] != "Charlie" {
		t.Errorf("expected first three lines in order, got %v", got)
	}
}

func TestParseCompanyNames_SkipsStructuralLines(t *testing.T) {
	content := "{\"companies\": true}\n[1, 2]\nAcme Corp"
	got := parseCompanyNames(content, 10)
	want := []string{"Acme Corp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected only non-structural lines, got %v", got)
	}
}
