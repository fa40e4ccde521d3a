package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"pollstation/contexts/polling-station/kiosk-session/application"
	"pollstation/contexts/polling-station/kiosk-session/domain/entities"
	httptransport "pollstation/contexts/polling-station/kiosk-session/transport/http"
	voterentities "pollstation/contexts/polling-station/voter-access/domain/entities"
)

type Handler struct {
	Sessions *application.SessionManager
	Logger   *slog.Logger
}

func (h Handler) ValidateHandler(ctx context.Context, req httptransport.ValidateRequest) (httptransport.SnapshotResponse, error) {
	snap, err := h.Sessions.Validate(ctx, req.NationalID, req.Password, req.ElectionID)
	if err != nil {
		return httptransport.SnapshotResponse{}, err
	}
	return mapSnapshot(snap), nil
}

func (h Handler) SnapshotHandler(_ context.Context) httptransport.SnapshotResponse {
	return mapSnapshot(h.Sessions.Snapshot())
}

func (h Handler) SelectHandler(_ context.Context, req httptransport.SelectRequest) (httptransport.SnapshotResponse, error) {
	snap, err := h.Sessions.SelectCandidate(req.CandidateID)
	if err != nil {
		return httptransport.SnapshotResponse{}, err
	}
	return mapSnapshot(snap), nil
}

func (h Handler) BackHandler(_ context.Context) (httptransport.SnapshotResponse, error) {
	snap, err := h.Sessions.Back()
	if err != nil {
		return httptransport.SnapshotResponse{}, err
	}
	return mapSnapshot(snap), nil
}

func (h Handler) ConfirmHandler(ctx context.Context) (httptransport.SnapshotResponse, error) {
	snap, err := h.Sessions.Confirm(ctx)
	if err != nil {
		return httptransport.SnapshotResponse{}, err
	}
	return mapSnapshot(snap), nil
}

func (h Handler) ResetHandler(ctx context.Context, req httptransport.ResetRequest) httptransport.SnapshotResponse {
	reason := req.Reason
	if reason == "" {
		reason = "operator return to polling station"
	}
	return mapSnapshot(h.Sessions.Reset(ctx, reason))
}

func mapSnapshot(snap entities.Snapshot) httptransport.SnapshotResponse {
	resp := httptransport.SnapshotResponse{
		SessionID:           snap.SessionID,
		Phase:               string(snap.Phase),
		SelectedCandidateID: snap.SelectedCandidateID,
		IneligibleReason:    snap.IneligibleReason,
		LastError:           snap.LastError,
	}
	if snap.Voter != nil {
		resp.Voter = &httptransport.VoterView{
			VoterID:         snap.Voter.VoterID,
			NationalID:      snap.Voter.NationalID,
			FullName:        snap.Voter.FullName,
			District:        snap.Voter.District,
			Status:          string(snap.Voter.Status),
			PhotoURL:        snap.Voter.PhotoURL,
			DateOfBirth:     snap.Voter.DateOfBirth,
			PollingDivision: snap.Voter.PollingDivision,
		}
	}
	for _, election := range snap.Elections {
		resp.Elections = append(resp.Elections, mapElection(election))
	}
	if snap.Election != nil {
		view := mapElection(*snap.Election)
		resp.Election = &view
	}
	if snap.Eligibility != nil {
		resp.Eligibility = &httptransport.EligibilityView{
			IsEnrolled:   snap.Eligibility.IsEnrolled,
			AlreadyVoted: snap.Eligibility.AlreadyVoted,
			Eligible:     snap.Eligibility.Eligible(),
		}
	}
	for _, candidate := range snap.Candidates {
		resp.Candidates = append(resp.Candidates, httptransport.CandidateView{
			CandidateID: candidate.CandidateID,
			DisplayName: candidate.DisplayName,
			PartyName:   candidate.PartyName,
			PartySymbol: candidate.PartySymbol,
			PartyColor:  candidate.PartyColor,
		})
	}
	if snap.Receipt != nil {
		resp.Receipt = &httptransport.ReceiptView{
			ElectionID:       snap.Receipt.ElectionID,
			CandidateID:      snap.Receipt.CandidateID,
			IdempotencyToken: snap.Receipt.IdempotencyToken,
			CastAt:           snap.Receipt.CastAt.UTC().Format(time.RFC3339),
		}
	}
	return resp
}

func mapElection(election voterentities.ElectionSummary) httptransport.ElectionView {
	return httptransport.ElectionView{
		ElectionID:         election.ElectionID,
		Name:               election.Name,
		Description:        election.Description,
		EnrollmentDeadline: formatDate(election.EnrollmentDeadline),
		StartDate:          formatDate(election.StartDate),
		EndDate:            formatDate(election.EndDate),
		StartTime:          election.StartTime,
		EndTime:            election.EndTime,
	}
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format("2006-01-02")
}
