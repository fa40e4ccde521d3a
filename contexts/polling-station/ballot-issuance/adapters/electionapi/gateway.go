package electionapiadapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"pollstation/contexts/polling-station/ballot-issuance/domain/entities"
	domainerrors "pollstation/contexts/polling-station/ballot-issuance/domain/errors"
	"pollstation/internal/platform/electionapi"
)

// Gateway implements ports.BallotGateway over the resilient Election API
// client.
type Gateway struct {
	client *electionapi.Client
	logger *slog.Logger
}

func NewGateway(client *electionapi.Client, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{client: client, logger: logger}
}

type eligibilityDTO struct {
	IsEnrolled   bool `json:"isEnrolled"`
	AlreadyVoted bool `json:"alreadyVoted"`
}

type candidateDTO struct {
	ID          string `json:"id"`
	ElectionID  string `json:"electionId"`
	Name        string `json:"name"`
	PartyName   string `json:"partyName"`
	PartySymbol string `json:"partySymbol"`
	PartyColor  string `json:"partyColor"`
	VoteCount   int64  `json:"voteCount"`
	IsActive    bool   `json:"isActive"`
}

func (g *Gateway) Eligibility(ctx context.Context, voterID string, electionID string) (bool, bool, error) {
	var dto eligibilityDTO
	resp, err := g.client.DoJSON(ctx, electionapi.Request{
		Method: http.MethodGet,
		Path:   "/vote/api/v1/eligibility",
		Query: url.Values{
			"voterId":    []string{strings.TrimSpace(voterID)},
			"electionId": []string{strings.TrimSpace(electionID)},
		},
	}, &dto)
	if err != nil {
		return false, false, fmt.Errorf("%w: %v", domainerrors.ErrEligibilityUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		message := electionapi.ServerMessage(resp.Body)
		return false, false, fmt.Errorf("%w: status %d: %s", domainerrors.ErrEligibilityUnavailable, resp.StatusCode, message)
	}
	return dto.IsEnrolled, dto.AlreadyVoted, nil
}

func (g *Gateway) Candidates(ctx context.Context, electionID string, voterID string) ([]entities.Candidate, error) {
	query := url.Values{}
	if strings.TrimSpace(voterID) != "" {
		query.Set("voterId", strings.TrimSpace(voterID))
	}
	var dtos []candidateDTO
	resp, err := g.client.DoJSON(ctx, electionapi.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/elections/" + url.PathEscape(strings.TrimSpace(electionID)) + "/candidates",
		Query:  query,
	}, &dtos)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrRosterUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		message := electionapi.ServerMessage(resp.Body)
		g.logger.Error("candidate roster unexpected status",
			"event", "ballot_gateway_roster_unexpected_status",
			"module", "polling-station/ballot-issuance",
			"layer", "adapter",
			"election_id", strings.TrimSpace(electionID),
			"status", resp.StatusCode,
			"message", message,
		)
		return nil, fmt.Errorf("%w: status %d: %s", domainerrors.ErrRosterUnavailable, resp.StatusCode, message)
	}

	candidates := make([]entities.Candidate, 0, len(dtos))
	for _, dto := range dtos {
		candidates = append(candidates, entities.Candidate{
			CandidateID: strings.TrimSpace(dto.ID),
			ElectionID:  strings.TrimSpace(dto.ElectionID),
			DisplayName: strings.TrimSpace(dto.Name),
			PartyName:   strings.TrimSpace(dto.PartyName),
			PartySymbol: strings.TrimSpace(dto.PartySymbol),
			PartyColor:  strings.TrimSpace(dto.PartyColor),
			VoteCount:   dto.VoteCount,
			IsActive:    dto.IsActive,
		})
	}
	return candidates, nil
}
