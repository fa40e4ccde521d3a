package voteraccess

import (
	"log/slog"

	"pollstation/contexts/polling-station/voter-access/adapters/memory"
	"pollstation/contexts/polling-station/voter-access/application"
	"pollstation/contexts/polling-station/voter-access/ports"
)

type Module struct {
	Service application.Service
	Store   *memory.Directory
}

type Dependencies struct {
	Directory ports.VoterDirectory
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Directory: deps.Directory,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewDirectory()
	module := NewModule(Dependencies{
		Directory: store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
