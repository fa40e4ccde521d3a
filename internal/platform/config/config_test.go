package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"KIOSK_ID", "HTTP_PORT", "ELECTION_API_BASE_URL", "ELECTION_API_TIMEOUT",
		"ELECTION_API_RETRY_ATTEMPTS", "ELECTION_API_RETRY_DELAY",
		"SUCCESS_RESET_DELAY", "INELIGIBLE_RESET_DELAY", "OPERATOR_TOKEN_SECRET", "AUDIT_DB_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.ElectionAPIBaseURL != "http://localhost:9000" {
		t.Fatalf("unexpected base url %s", cfg.ElectionAPIBaseURL)
	}
	if cfg.RetryAttempts != 3 || cfg.RetryDelay != time.Second || cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected retry defaults: %+v", cfg)
	}
	if cfg.SuccessResetDelay != 6*time.Second || cfg.IneligibleResetDelay != 8*time.Second {
		t.Fatalf("unexpected reset delays: %+v", cfg)
	}
	if cfg.KioskID == "" {
		t.Fatal("kiosk id must fall back to the hostname")
	}
}

func TestLoadOverridesAndBadValues(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ELECTION_API_BASE_URL", "http://backend:9000/")
	t.Setenv("ELECTION_API_RETRY_ATTEMPTS", "5")
	t.Setenv("ELECTION_API_RETRY_DELAY", "250ms")
	t.Setenv("SUCCESS_RESET_DELAY", "not-a-duration")
	t.Setenv("INELIGIBLE_RESET_DELAY", "-3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected 9090, got %s", cfg.HTTPPort)
	}
	if cfg.ElectionAPIBaseURL != "http://backend:9000" {
		t.Fatalf("trailing slash must be trimmed, got %s", cfg.ElectionAPIBaseURL)
	}
	if cfg.RetryAttempts != 5 || cfg.RetryDelay != 250*time.Millisecond {
		t.Fatalf("unexpected retry settings: %+v", cfg)
	}
	if cfg.SuccessResetDelay != 6*time.Second || cfg.IneligibleResetDelay != 8*time.Second {
		t.Fatalf("invalid durations must fall back to defaults: %+v", cfg)
	}
}
