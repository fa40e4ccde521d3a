package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	KioskID  string
	HTTPPort string

	ElectionAPIBaseURL string
	RequestTimeout     time.Duration
	RetryAttempts      int
	RetryDelay         time.Duration

	SuccessResetDelay    time.Duration
	IneligibleResetDelay time.Duration

	OperatorTokenSecret string
	AuditDBPath         string
}

func Load() (Config, error) {
	kioskID := os.Getenv("KIOSK_ID")
	if kioskID == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "kiosk"
		}
		kioskID = host
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	baseURL := strings.TrimRight(os.Getenv("ELECTION_API_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:9000"
	}

	auditPath := os.Getenv("AUDIT_DB_PATH")
	if auditPath == "" {
		auditPath = "kiosk-audit.db"
	}

	return Config{
		KioskID:  kioskID,
		HTTPPort: port,

		ElectionAPIBaseURL: baseURL,
		RequestTimeout:     envDuration("ELECTION_API_TIMEOUT", 30*time.Second),
		RetryAttempts:      envInt("ELECTION_API_RETRY_ATTEMPTS", 3),
		RetryDelay:         envDuration("ELECTION_API_RETRY_DELAY", time.Second),

		SuccessResetDelay:    envDuration("SUCCESS_RESET_DELAY", 6*time.Second),
		IneligibleResetDelay: envDuration("INELIGIBLE_RESET_DELAY", 8*time.Second),

		OperatorTokenSecret: os.Getenv("OPERATOR_TOKEN_SECRET"),
		AuditDBPath:         auditPath,
	}, nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
