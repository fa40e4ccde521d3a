package votecasting

import (
	"log/slog"

	"pollstation/contexts/polling-station/vote-casting/adapters/memory"
	"pollstation/contexts/polling-station/vote-casting/application"
	"pollstation/contexts/polling-station/vote-casting/ports"
)

type Module struct {
	Service *application.Service
	Store   *memory.Gateway
}

type Dependencies struct {
	Gateway ports.CastGateway
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: &application.Service{
			Gateway: deps.Gateway,
			Clock:   deps.Clock,
			IDGen:   deps.IDGen,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewGateway()
	module := NewModule(Dependencies{
		Gateway: store,
		Clock:   store,
		IDGen:   store,
		Logger:  logger,
	})
	module.Store = store
	return module
}
