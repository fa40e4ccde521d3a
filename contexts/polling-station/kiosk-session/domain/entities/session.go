package entities

import (
	ballotentities "pollstation/contexts/polling-station/ballot-issuance/domain/entities"
	votecastentities "pollstation/contexts/polling-station/vote-casting/domain/entities"
	voterentities "pollstation/contexts/polling-station/voter-access/domain/entities"
)

// Phase is the kiosk session phase. The ordering
// validation -> voting -> confirmation -> success is strict; ineligible is a
// terminal display reached between validation and voting.
type Phase string

const (
	PhaseValidation   Phase = "validation"
	PhaseVoting       Phase = "voting"
	PhaseConfirmation Phase = "confirmation"
	PhaseSuccess      Phase = "success"
	PhaseIneligible   Phase = "ineligible"
)

// Snapshot is an immutable view of the session produced per transition.
// Voting-phase errors surface as a non-empty LastError while the phase stays
// in voting/confirmation, which keeps go-back and retry semantics inside the
// phase they belong to.
type Snapshot struct {
	SessionID string
	Epoch     uint64
	Phase     Phase

	Voter     *voterentities.VoterProfile
	Elections []voterentities.ElectionSummary
	Election  *voterentities.ElectionSummary

	Eligibility *ballotentities.EligibilityStatus
	Candidates  []ballotentities.Candidate

	SelectedCandidateID string
	Receipt             *votecastentities.VoteReceipt

	IneligibleReason string
	LastError        string
}
