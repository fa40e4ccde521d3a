package memory

import (
	"context"
	"strings"
	"sync"

	"pollstation/contexts/polling-station/ballot-issuance/domain/entities"
)

type eligibilityRecord struct {
	isEnrolled   bool
	alreadyVoted bool
}

// Gateway is an in-memory BallotGateway used by unit tests and bench setups.
type Gateway struct {
	mu sync.RWMutex

	eligibility map[string]eligibilityRecord
	rosters     map[string][]entities.Candidate

	eligibilityErr error
	rosterErr      error
}

func NewGateway() *Gateway {
	return &Gateway{
		eligibility: make(map[string]eligibilityRecord),
		rosters:     make(map[string][]entities.Candidate),
	}
}

func eligibilityKey(voterID string, electionID string) string {
	return strings.TrimSpace(voterID) + "|" + strings.TrimSpace(electionID)
}

func (g *Gateway) SetEligibility(voterID string, electionID string, isEnrolled bool, alreadyVoted bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.eligibility[eligibilityKey(voterID, electionID)] = eligibilityRecord{
		isEnrolled:   isEnrolled,
		alreadyVoted: alreadyVoted,
	}
}

func (g *Gateway) SetRoster(electionID string, candidates []entities.Candidate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rosters[strings.TrimSpace(electionID)] = candidates
}

func (g *Gateway) FailEligibilityWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.eligibilityErr = err
}

func (g *Gateway) FailRosterWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rosterErr = err
}

func (g *Gateway) Eligibility(_ context.Context, voterID string, electionID string) (bool, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.eligibilityErr != nil {
		return false, false, g.eligibilityErr
	}
	record, ok := g.eligibility[eligibilityKey(voterID, electionID)]
	if !ok {
		return false, false, nil
	}
	return record.isEnrolled, record.alreadyVoted, nil
}

func (g *Gateway) Candidates(_ context.Context, electionID string, _ string) ([]entities.Candidate, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.rosterErr != nil {
		return nil, g.rosterErr
	}
	roster := g.rosters[strings.TrimSpace(electionID)]
	out := make([]entities.Candidate, len(roster))
	copy(out, roster)
	return out, nil
}
