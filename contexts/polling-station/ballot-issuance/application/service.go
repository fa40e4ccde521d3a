package application

import (
	"context"
	"log/slog"
	"strings"

	"pollstation/contexts/polling-station/ballot-issuance/domain/entities"
	domainerrors "pollstation/contexts/polling-station/ballot-issuance/domain/errors"
	"pollstation/contexts/polling-station/ballot-issuance/ports"
)

// Service decides whether a ballot may be issued and loads the candidate
// roster for display.
type Service struct {
	Gateway ports.BallotGateway
	Logger  *slog.Logger
}

// CheckEligibility queries the backend at the moment voting begins. The
// result is never reused from an earlier enrollment lookup because the two
// answer different questions against potentially different backend state.
func (s Service) CheckEligibility(ctx context.Context, voterID string, electionID string) (entities.EligibilityStatus, error) {
	logger := ResolveLogger(s.Logger)
	voterID = strings.TrimSpace(voterID)
	electionID = strings.TrimSpace(electionID)
	if voterID == "" || electionID == "" {
		return entities.EligibilityStatus{}, domainerrors.ErrInvalidEligibilityInput
	}

	isEnrolled, alreadyVoted, err := s.Gateway.Eligibility(ctx, voterID, electionID)
	if err != nil {
		logger.Error("eligibility check failed",
			"event", "ballot_eligibility_check_failed",
			"module", "polling-station/ballot-issuance",
			"layer", "application",
			"voter_id", voterID,
			"election_id", electionID,
			"error", err.Error(),
		)
		return entities.EligibilityStatus{}, err
	}

	status := entities.EligibilityStatus{
		VoterID:      voterID,
		ElectionID:   electionID,
		IsEnrolled:   isEnrolled,
		AlreadyVoted: alreadyVoted,
	}
	logger.Info("eligibility checked",
		"event", "ballot_eligibility_checked",
		"module", "polling-station/ballot-issuance",
		"layer", "application",
		"voter_id", voterID,
		"election_id", electionID,
		"is_enrolled", status.IsEnrolled,
		"already_voted", status.AlreadyVoted,
		"eligible", status.Eligible(),
	)
	return status, nil
}

// LoadRoster returns active candidates only. An empty roster is a valid
// outcome distinct from a transport failure: it means no active candidates
// are configured for the election.
func (s Service) LoadRoster(ctx context.Context, electionID string, voterID string) ([]entities.Candidate, error) {
	logger := ResolveLogger(s.Logger)
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return nil, domainerrors.ErrInvalidEligibilityInput
	}

	candidates, err := s.Gateway.Candidates(ctx, electionID, strings.TrimSpace(voterID))
	if err != nil {
		logger.Error("roster load failed",
			"event", "ballot_roster_load_failed",
			"module", "polling-station/ballot-issuance",
			"layer", "application",
			"election_id", electionID,
			"error", err.Error(),
		)
		return nil, err
	}

	active := make([]entities.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.IsActive {
			active = append(active, candidate)
		}
	}
	logger.Info("roster loaded",
		"event", "ballot_roster_loaded",
		"module", "polling-station/ballot-issuance",
		"layer", "application",
		"election_id", electionID,
		"total", len(candidates),
		"active", len(active),
	)
	return active, nil
}
