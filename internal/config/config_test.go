package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if !cfg.Server.CORS.AllowAllOrigins {
		t.Error("expected CORS to allow all origins by default")
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected default driver postgres, got %q", cfg.Database.Driver)
	}
	if cfg.AISearch.Model != "text-embedding-ada-002" {
		t.Errorf("expected default embedding model, got %q", cfg.AISearch.Model)
	}
	if cfg.Leadgen.OpenAIBaseURL != "https://api.openai.com" {
		t.Errorf("unexpected OpenAI base URL: %q", cfg.Leadgen.OpenAIBaseURL)
	}
	if cfg.Leadgen.SearchBaseURL != "https://www.google.com/search" {
		t.Errorf("unexpected search base URL: %q", cfg.Leadgen.SearchBaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
  mode: release
database:
  driver: sqlite
  path: /tmp/test.db
leadgen:
  openai_base_url: http://localhost:9999
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != "release" {
		t.Errorf("expected release mode, got %q", cfg.Server.Mode)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Leadgen.OpenAIBaseURL != "http://localhost:9999" {
		t.Errorf("expected overridden OpenAI base URL, got %q", cfg.Leadgen.OpenAIBaseURL)
	}
	// Unspecified values keep their defaults.
	if cfg.Leadgen.ApolloBaseURL != "https://api.apollo.io" {
		t.Errorf("expected default Apollo base URL, got %q", cfg.Leadgen.ApolloBaseURL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load(writeConfigFile(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AISearch.APIKey != "sk-test" {
		t.Errorf("expected OPENAI_API_KEY to bind, got %q", cfg.AISearch.APIKey)
	}
	if cfg.Database.Password != "secret" {
		t.Errorf("expected DB_PASSWORD to bind, got %q", cfg.Database.Password)
	}
}

func TestDatabaseDSN(t *testing.T) {
	pg := DatabaseConfig{
		Driver: "postgres", Host: "db", Port: 5432,
		User: "crm_user", Password: "pw", Name: "crm", SSLMode: "disable",
	}
	want := "host=db port=5432 user=crm_user password=pw dbname=crm sslmode=disable"
	if got := pg.DSN(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	lite := DatabaseConfig{Driver: "sqlite", Path: "/tmp/crm.db"}
	if got := lite.DSN(); got != "/tmp/crm.db" {
		t.Errorf("expected sqlite DSN to be the path, got %q", got)
	}
}

// writeConfigFile writes the given YAML to a temp config file and
// returns its path. Empty content still yields a valid (empty) file so
// Load exercises its defaults.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}
