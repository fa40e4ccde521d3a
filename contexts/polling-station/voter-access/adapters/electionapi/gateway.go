package electionapiadapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pollstation/contexts/polling-station/voter-access/domain/entities"
	domainerrors "pollstation/contexts/polling-station/voter-access/domain/errors"
	"pollstation/internal/platform/electionapi"
)

// Gateway implements ports.VoterDirectory over the resilient Election API
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

type loginRequest struct {
	NationalID string `json:"nationalId"`
	Password   string `json:"password"`
}

type voterProfileDTO struct {
	ID              string `json:"id"`
	NationalID      string `json:"nationalId"`
	FullName        string `json:"fullName"`
	District        string `json:"district"`
	HouseholdID     string `json:"householdId"`
	Status          string `json:"status"`
	PhotoURL        string `json:"photoUrl"`
	DateOfBirth     string `json:"dateOfBirth"`
	PollingDivision string `json:"pollingDivision"`
}

type electionSummaryDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	EnrollmentDeadline string `json:"enrollmentDeadline"`
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate"`
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
}

func (g *Gateway) Authenticate(ctx context.Context, nationalID string, password string) (entities.VoterProfile, error) {
	var dto voterProfileDTO
	resp, err := g.client.DoJSON(ctx, electionapi.Request{
		Method: http.MethodPost,
		Path:   "/voter-registration/api/v1/login",
		Body:   loginRequest{NationalID: nationalID, Password: password},
	}, &dto)
	if err != nil {
		return entities.VoterProfile{}, fmt.Errorf("%w: %v", domainerrors.ErrValidationUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return dto.toEntity(), nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound:
		return entities.VoterProfile{}, domainerrors.ErrVoterNotFound
	default:
		message := electionapi.ServerMessage(resp.Body)
		g.logger.Error("voter login unexpected status",
			"event", "voter_directory_login_unexpected_status",
			"module", "polling-station/voter-access",
			"layer", "adapter",
			"status", resp.StatusCode,
			"message", message,
		)
		return entities.VoterProfile{}, fmt.Errorf("%w: status %d: %s", domainerrors.ErrValidationUnavailable, resp.StatusCode, message)
	}
}

func (g *Gateway) EnrolledElections(ctx context.Context, nationalID string) ([]entities.ElectionSummary, error) {
	var dtos []electionSummaryDTO
	resp, err := g.client.DoJSON(ctx, electionapi.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/elections",
		Query:  url.Values{"voterNic": []string{strings.TrimSpace(nationalID)}},
	}, &dtos)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrEnrollmentUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		message := electionapi.ServerMessage(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", domainerrors.ErrEnrollmentUnavailable, resp.StatusCode, message)
	}

	elections := make([]entities.ElectionSummary, 0, len(dtos))
	for _, dto := range dtos {
		elections = append(elections, dto.toEntity())
	}
	return elections, nil
}

func (dto voterProfileDTO) toEntity() entities.VoterProfile {
	return entities.VoterProfile{
		VoterID:         strings.TrimSpace(dto.ID),
		NationalID:      strings.TrimSpace(dto.NationalID),
		FullName:        strings.TrimSpace(dto.FullName),
		District:        strings.TrimSpace(dto.District),
		HouseholdID:     strings.TrimSpace(dto.HouseholdID),
		Status:          entities.VoterStatus(strings.TrimSpace(dto.Status)),
		PhotoURL:        strings.TrimSpace(dto.PhotoURL),
		DateOfBirth:     strings.TrimSpace(dto.DateOfBirth),
		PollingDivision: strings.TrimSpace(dto.PollingDivision),
	}
}

func (dto electionSummaryDTO) toEntity() entities.ElectionSummary {
	return entities.ElectionSummary{
		ElectionID:         strings.TrimSpace(dto.ID),
		Name:               strings.TrimSpace(dto.Name),
		Description:        strings.TrimSpace(dto.Description),
		EnrollmentDeadline: parseDate(dto.EnrollmentDeadline),
		StartDate:          parseDate(dto.StartDate),
		EndDate:            parseDate(dto.EndDate),
		StartTime:          strings.TrimSpace(dto.StartTime),
		EndTime:            strings.TrimSpace(dto.EndTime),
	}
}

// parseDate accepts both RFC3339 timestamps and bare dates; a zero time is
// returned for anything else since display fields never gate the flow.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed
	}
	return time.Time{}
}
