package electionapiadapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pollstation/contexts/polling-station/vote-casting/domain/entities"
	domainerrors "pollstation/contexts/polling-station/vote-casting/domain/errors"
	"pollstation/internal/platform/electionapi"
)

// Gateway implements ports.CastGateway over the resilient Election API
// client. Retries for an unacknowledged attempt happen inside the client and
// replay the same serialized request, idempotency token included.
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

type castRequestDTO struct {
	VoterID          string `json:"voterId"`
	ElectionID       string `json:"electionId"`
	CandidateID      string `json:"candidateId"`
	District         string `json:"district"`
	Timestamp        string `json:"timestamp"`
	IdempotencyToken string `json:"idempotencyToken"`
}

func (g *Gateway) SubmitVote(ctx context.Context, request entities.VoteCastRequest) error {
	resp, err := g.client.Do(ctx, electionapi.Request{
		Method: http.MethodPost,
		Path:   "/vote/api/v1/votes/cast",
		Header: http.Header{"Idempotency-Key": []string{request.IdempotencyToken}},
		Body: castRequestDTO{
			VoterID:          request.VoterID,
			ElectionID:       request.ElectionID,
			CandidateID:      request.CandidateID,
			District:         request.District,
			Timestamp:        request.Timestamp.UTC().Format(time.RFC3339),
			IdempotencyToken: request.IdempotencyToken,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrCastUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusForbidden:
		return domainerrors.ErrCastUnauthorized
	default:
		message := electionapi.ServerMessage(resp.Body)
		g.logger.Error("vote cast rejected by server",
			"event", "cast_gateway_rejected",
			"module", "polling-station/vote-casting",
			"layer", "adapter",
			"status", resp.StatusCode,
			"message", message,
		)
		if message == "" {
			message = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", domainerrors.ErrCastRejected, message)
	}
}
