package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	ballotissuance "pollstation/contexts/polling-station/ballot-issuance"
	ballotelectionapi "pollstation/contexts/polling-station/ballot-issuance/adapters/electionapi"
	kiosksession "pollstation/contexts/polling-station/kiosk-session"
	"pollstation/contexts/polling-station/kiosk-session/adapters/gormstore"
	"pollstation/contexts/polling-station/kiosk-session/adapters/services"
	"pollstation/contexts/polling-station/kiosk-session/adapters/timer"
	sessionapp "pollstation/contexts/polling-station/kiosk-session/application"
	votecasting "pollstation/contexts/polling-station/vote-casting"
	voteelectionapi "pollstation/contexts/polling-station/vote-casting/adapters/electionapi"
	"pollstation/contexts/polling-station/vote-casting/adapters/system"
	voteraccess "pollstation/contexts/polling-station/voter-access"
	voterelectionapi "pollstation/contexts/polling-station/voter-access/adapters/electionapi"
	"pollstation/internal/platform/config"
	"pollstation/internal/platform/db"
	"pollstation/internal/platform/electionapi"
	"pollstation/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type KioskApp struct {
	server *httpserver.Server
	audit  *db.SQLite
	logger *slog.Logger
}

func BuildKiosk() (*KioskApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("kiosk", cfg.KioskID, "process", "kiosk")

	client := electionapi.NewClient(electionapi.Options{
		BaseURL:    cfg.ElectionAPIBaseURL,
		Timeout:    cfg.RequestTimeout,
		Attempts:   cfg.RetryAttempts,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})

	voters := voteraccess.NewModule(voteraccess.Dependencies{
		Directory: voterelectionapi.NewGateway(client, logger),
		Logger:    logger,
	})
	ballots := ballotissuance.NewModule(ballotissuance.Dependencies{
		Gateway: ballotelectionapi.NewGateway(client, logger),
		Logger:  logger,
	})
	casts := votecasting.NewModule(votecasting.Dependencies{
		Gateway: voteelectionapi.NewGateway(client, logger),
		Clock:   system.Clock{},
		IDGen:   system.UUIDGenerator{},
		Logger:  logger,
	})

	audit, err := db.Connect(cfg.AuditDBPath)
	if err != nil {
		return nil, err
	}
	journal, err := gormstore.NewJournal(audit.DB, logger)
	if err != nil {
		_ = audit.Close()
		return nil, err
	}

	session := kiosksession.NewModule(kiosksession.Dependencies{
		Validator:   voters.Service,
		Enrollments: voters.Service,
		Eligibility: ballots.Service,
		Roster:      ballots.Service,
		Caster:      services.CasterAdapter{Service: casts.Service},
		Journal:     journal,
		Scheduler:   timer.Scheduler{},
		Clock:       system.Clock{},
		IDGen:       system.UUIDGenerator{},
		Logger:      logger,
	}, sessionapp.Config{
		KioskID:              cfg.KioskID,
		SuccessResetDelay:    cfg.SuccessResetDelay,
		IneligibleResetDelay: cfg.IneligibleResetDelay,
	})

	auth := httpserver.NewOperatorAuth(cfg.OperatorTokenSecret, logger)
	if auth == nil {
		logger.Warn("operator auth disabled",
			"event", "operator_auth_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	server := httpserver.New(session, auth, logger, normalizeAddr(cfg.HTTPPort))
	return &KioskApp{
		server: server,
		audit:  audit,
		logger: logger,
	}, nil
}

func (a *KioskApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("kiosk app started",
			"event", "bootstrap_kiosk_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *KioskApp) Close() error {
	if a.audit != nil {
		return a.audit.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
