package ballotissuance

import (
	"log/slog"

	"pollstation/contexts/polling-station/ballot-issuance/adapters/memory"
	"pollstation/contexts/polling-station/ballot-issuance/application"
	"pollstation/contexts/polling-station/ballot-issuance/ports"
)

type Module struct {
	Service application.Service
	Store   *memory.Gateway
}

type Dependencies struct {
	Gateway ports.BallotGateway
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Gateway: deps.Gateway,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewGateway()
	module := NewModule(Dependencies{
		Gateway: store,
		Logger:  logger,
	})
	module.Store = store
	return module
}
