package ports

import (
	"context"
	"time"

	ballotentities "pollstation/contexts/polling-station/ballot-issuance/domain/entities"
	"pollstation/contexts/polling-station/kiosk-session/domain/entities"
	votecastentities "pollstation/contexts/polling-station/vote-casting/domain/entities"
	voterentities "pollstation/contexts/polling-station/voter-access/domain/entities"
)

// Collaborator services the session machine orchestrates. The voter-access
// and ballot-issuance application services satisfy these directly.
type CredentialValidator interface {
	ValidateCredentials(ctx context.Context, nationalID string, password string) (voterentities.VoterProfile, error)
}

type EnrollmentResolver interface {
	ResolveEnrollments(ctx context.Context, nationalID string) ([]voterentities.ElectionSummary, error)
}

type EligibilityChecker interface {
	CheckEligibility(ctx context.Context, voterID string, electionID string) (ballotentities.EligibilityStatus, error)
}

type RosterLoader interface {
	LoadRoster(ctx context.Context, electionID string, voterID string) ([]ballotentities.Candidate, error)
}

// CastOrder is the session's view of a confirmed selection.
type CastOrder struct {
	VoterID     string
	ElectionID  string
	CandidateID string
	District    string
}

type VoteCaster interface {
	Cast(ctx context.Context, order CastOrder) (votecastentities.VoteReceipt, error)
}

// AuditJournal records session lifecycle events locally. Append failures are
// reported but must never block the voter flow.
type AuditJournal interface {
	Append(ctx context.Context, entry entities.AuditEntry) error
}

// Timer is a single-shot scheduled task handle.
type Timer interface {
	Stop() bool
}

type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Timer
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
