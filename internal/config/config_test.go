package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8754 {
		t.Errorf("Server.Port = %d, want 8754", cfg.Server.Port)
	}
	if cfg.Trakt.BaseURL != "https://api.trakt.tv" {
		t.Errorf("Trakt.BaseURL = %q", cfg.Trakt.BaseURL)
	}
	if cfg.Sync.PageLimit != 100 {
		t.Errorf("Sync.PageLimit = %d, want 100", cfg.Sync.PageLimit)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9001
trakt:
  client_id: abc123
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Trakt.ClientID != "abc123" {
		t.Errorf("Trakt.ClientID = %q, want %q", cfg.Trakt.ClientID, "abc123")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	// defaults preserved for unset keys
	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDB.BaseURL = %q", cfg.TMDB.BaseURL)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SHOWDECK_SERVER_PORT", "9100")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != ErrTraktNotConfigured {
		t.Errorf("Validate() error = %v, want ErrTraktNotConfigured", err)
	}

	cfg.Trakt.ClientID = "abc"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	cfg.Sync.PageLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for zero page limit")
	}
}
