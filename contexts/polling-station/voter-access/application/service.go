package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"pollstation/contexts/polling-station/voter-access/domain/entities"
	domainerrors "pollstation/contexts/polling-station/voter-access/domain/errors"
	"pollstation/contexts/polling-station/voter-access/ports"
)

// Service authenticates voters and resolves their election enrollments.
// Authentication failures are terminal for the attempt; the operator must
// resubmit. Transport failures are already retried inside the directory
// adapter and surface here as unavailable errors.
type Service struct {
	Directory ports.VoterDirectory
	Logger    *slog.Logger
}

// ValidateCredentials format-checks the national id before any network call,
// then authenticates the pair against the Election API.
func (s Service) ValidateCredentials(ctx context.Context, nationalID string, password string) (entities.VoterProfile, error) {
	logger := ResolveLogger(s.Logger)
	nationalID = strings.TrimSpace(nationalID)

	if !entities.ValidNIC(nationalID) {
		logger.Warn("credential validation rejected malformed nic",
			"event", "voter_access_nic_malformed",
			"module", "polling-station/voter-access",
			"layer", "application",
		)
		return entities.VoterProfile{}, domainerrors.ErrMalformedNIC
	}
	if strings.TrimSpace(password) == "" {
		return entities.VoterProfile{}, domainerrors.ErrEmptyPassword
	}

	profile, err := s.Directory.Authenticate(ctx, nationalID, password)
	if err != nil {
		if errors.Is(err, domainerrors.ErrVoterNotFound) {
			logger.Info("credential validation found no voter",
				"event", "voter_access_not_found",
				"module", "polling-station/voter-access",
				"layer", "application",
			)
			return entities.VoterProfile{}, err
		}
		logger.Error("credential validation transport failure",
			"event", "voter_access_validation_failed",
			"module", "polling-station/voter-access",
			"layer", "application",
			"error", err.Error(),
		)
		return entities.VoterProfile{}, err
	}

	logger.Info("voter validated",
		"event", "voter_access_validated",
		"module", "polling-station/voter-access",
		"layer", "application",
		"voter_id", profile.VoterID,
		"district", profile.District,
		"status", string(profile.Status),
	)
	return profile, nil
}

// ResolveEnrollments lists the elections the validated voter is enrolled in.
// An empty list is a valid outcome and means no elections are available.
func (s Service) ResolveEnrollments(ctx context.Context, nationalID string) ([]entities.ElectionSummary, error) {
	logger := ResolveLogger(s.Logger)
	nationalID = strings.TrimSpace(nationalID)
	if nationalID == "" {
		return nil, domainerrors.ErrEmptyVoterID
	}

	elections, err := s.Directory.EnrolledElections(ctx, nationalID)
	if err != nil {
		logger.Error("enrollment lookup failed",
			"event", "voter_access_enrollment_failed",
			"module", "polling-station/voter-access",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}
	logger.Info("enrollments resolved",
		"event", "voter_access_enrollments_resolved",
		"module", "polling-station/voter-access",
		"layer", "application",
		"count", len(elections),
	)
	return elections, nil
}
