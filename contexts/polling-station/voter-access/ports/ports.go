package ports

import (
	"context"

	"pollstation/contexts/polling-station/voter-access/domain/entities"
)

// VoterDirectory is the remote Election API surface this context depends on.
type VoterDirectory interface {
	Authenticate(ctx context.Context, nationalID string, password string) (entities.VoterProfile, error)
	EnrolledElections(ctx context.Context, nationalID string) ([]entities.ElectionSummary, error)
}
