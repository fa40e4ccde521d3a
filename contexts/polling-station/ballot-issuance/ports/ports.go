package ports

import (
	"context"

	"pollstation/contexts/polling-station/ballot-issuance/domain/entities"
)

// BallotGateway is the remote Election API surface this context depends on.
// Eligibility and enrollment are logically separate backend queries, so the
// gateway exposes eligibility as its own call rather than deriving it from an
// earlier enrollment listing.
type BallotGateway interface {
	Eligibility(ctx context.Context, voterID string, electionID string) (isEnrolled bool, alreadyVoted bool, err error)
	Candidates(ctx context.Context, electionID string, voterID string) ([]entities.Candidate, error)
}
