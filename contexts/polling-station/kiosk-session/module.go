package kiosksession

import (
	"log/slog"

	ballotissuance "pollstation/contexts/polling-station/ballot-issuance"
	httpadapter "pollstation/contexts/polling-station/kiosk-session/adapters/http"
	"pollstation/contexts/polling-station/kiosk-session/adapters/memory"
	"pollstation/contexts/polling-station/kiosk-session/adapters/services"
	"pollstation/contexts/polling-station/kiosk-session/application"
	"pollstation/contexts/polling-station/kiosk-session/ports"
	votecasting "pollstation/contexts/polling-station/vote-casting"
	voteraccess "pollstation/contexts/polling-station/voter-access"
)

type Module struct {
	Sessions *application.SessionManager
	Handler  httpadapter.Handler
}

type Dependencies struct {
	Validator   ports.CredentialValidator
	Enrollments ports.EnrollmentResolver
	Eligibility ports.EligibilityChecker
	Roster      ports.RosterLoader
	Caster      ports.VoteCaster
	Journal     ports.AuditJournal
	Scheduler   ports.Scheduler
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies, cfg application.Config) Module {
	sessions := application.NewSessionManager(application.Dependencies{
		Validator:   deps.Validator,
		Enrollments: deps.Enrollments,
		Eligibility: deps.Eligibility,
		Roster:      deps.Roster,
		Caster:      deps.Caster,
		Journal:     deps.Journal,
		Scheduler:   deps.Scheduler,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}, cfg)
	return Module{
		Sessions: sessions,
		Handler: httpadapter.Handler{
			Sessions: sessions,
			Logger:   deps.Logger,
		},
	}
}

// InMemoryStores exposes the fakes behind an in-memory module so tests can
// seed voters, rosters and eligibility and inspect the journal and timers.
type InMemoryStores struct {
	Voters    *voteraccess.Module
	Ballots   *ballotissuance.Module
	Casts     *votecasting.Module
	Journal   *memory.Journal
	Scheduler *memory.ManualScheduler
}

func NewInMemoryModule(cfg application.Config, logger *slog.Logger) (Module, InMemoryStores) {
	voters := voteraccess.NewInMemoryModule(logger)
	ballots := ballotissuance.NewInMemoryModule(logger)
	casts := votecasting.NewInMemoryModule(logger)
	journal := memory.NewJournal()
	scheduler := memory.NewManualScheduler()

	module := NewModule(Dependencies{
		Validator:   voters.Service,
		Enrollments: voters.Service,
		Eligibility: ballots.Service,
		Roster:      ballots.Service,
		Caster:      services.CasterAdapter{Service: casts.Service},
		Journal:     journal,
		Scheduler:   scheduler,
		Clock:       journal,
		IDGen:       journal,
		Logger:      logger,
	}, cfg)

	return module, InMemoryStores{
		Voters:    &voters,
		Ballots:   &ballots,
		Casts:     &casts,
		Journal:   journal,
		Scheduler: scheduler,
	}
}
