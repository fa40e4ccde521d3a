package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pollstation/contexts/polling-station/vote-casting/domain/entities"
	domainerrors "pollstation/contexts/polling-station/vote-casting/domain/errors"
	"pollstation/contexts/polling-station/vote-casting/ports"
)

// CastCommand carries the confirmed selection. District is sourced from the
// validated voter profile, never from operator input.
type CastCommand struct {
	VoterID     string
	ElectionID  string
	CandidateID string
	District    string
}

// Service submits exactly one vote request per confirmed session. The
// district guard fails closed before any network call, and at most one
// submission may be in flight at a time; a concurrent confirm surfaces
// ErrCastInFlight so the caller can treat it as a no-op.
type Service struct {
	Gateway ports.CastGateway
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger

	mu       sync.Mutex
	inFlight bool
}

func (s *Service) Cast(ctx context.Context, cmd CastCommand) (entities.VoteReceipt, error) {
	logger := ResolveLogger(s.Logger)

	voterID := strings.TrimSpace(cmd.VoterID)
	electionID := strings.TrimSpace(cmd.ElectionID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	district := strings.TrimSpace(cmd.District)

	if voterID == "" || electionID == "" || candidateID == "" {
		return entities.VoteReceipt{}, domainerrors.ErrInvalidCastInput
	}
	if district == "" || district == districtSentinel {
		logger.Warn("vote refused without district",
			"event", "vote_cast_refused_no_district",
			"module", "polling-station/vote-casting",
			"layer", "application",
			"voter_id", voterID,
			"election_id", electionID,
		)
		return entities.VoteReceipt{}, domainerrors.ErrDistrictUnavailable
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return entities.VoteReceipt{}, domainerrors.ErrCastInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	token, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.VoteReceipt{}, err
	}

	// The request is built once, with the timestamp taken at submission time
	// rather than selection time. Transport retries reuse this instance.
	request := entities.VoteCastRequest{
		VoterID:          voterID,
		ElectionID:       electionID,
		CandidateID:      candidateID,
		District:         district,
		Timestamp:        s.now(),
		IdempotencyToken: token,
	}

	logger.Info("vote submission started",
		"event", "vote_cast_started",
		"module", "polling-station/vote-casting",
		"layer", "application",
		"voter_id", voterID,
		"election_id", electionID,
		"candidate_id", candidateID,
		"idempotency_token", token,
	)

	if err := s.Gateway.SubmitVote(ctx, request); err != nil {
		logger.Error("vote submission failed",
			"event", "vote_cast_failed",
			"module", "polling-station/vote-casting",
			"layer", "application",
			"voter_id", voterID,
			"election_id", electionID,
			"idempotency_token", token,
			"error", err.Error(),
		)
		return entities.VoteReceipt{}, err
	}

	logger.Info("vote accepted",
		"event", "vote_cast_accepted",
		"module", "polling-station/vote-casting",
		"layer", "application",
		"voter_id", voterID,
		"election_id", electionID,
		"candidate_id", candidateID,
		"idempotency_token", token,
	)
	return entities.VoteReceipt{
		VoterID:          voterID,
		ElectionID:       electionID,
		CandidateID:      candidateID,
		IdempotencyToken: token,
		CastAt:           request.Timestamp,
	}, nil
}

// Upstream placeholder for an unresolved district. Must match
// voter-access entities.DistrictNotAvailable.
const districtSentinel = "District Not Available"

func (s *Service) now() time.Time {
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}
	return now
}
