package ports

import (
	"context"
	"time"

	"pollstation/contexts/polling-station/vote-casting/domain/entities"
)

// CastGateway submits one vote request to the Election API. Retrying inside
// the gateway must replay the same request instance; it must never construct
// a second request for the same confirmed selection.
type CastGateway interface {
	SubmitVote(ctx context.Context, request entities.VoteCastRequest) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
