package entities

// Candidate vote counters come from the backend and are never mutated on the
// kiosk side.
type Candidate struct {
	CandidateID string
	ElectionID  string
	DisplayName string
	PartyName   string
	PartySymbol string
	PartyColor  string
	VoteCount   int64
	IsActive    bool
}

// Ineligibility reasons shown to the operator.
const (
	ReasonNotEnrolled  = "not enrolled in this election"
	ReasonAlreadyVoted = "already voted"
)

// EligibilityStatus is recomputed fresh per voting attempt and never cached
// across voters.
type EligibilityStatus struct {
	VoterID      string
	ElectionID   string
	IsEnrolled   bool
	AlreadyVoted bool
}

// Eligible reports whether a ballot may be issued for this voter and election.
func (s EligibilityStatus) Eligible() bool {
	return s.IsEnrolled && !s.AlreadyVoted
}

// Reason names why a ballot cannot be issued; empty when eligible.
func (s EligibilityStatus) Reason() string {
	switch {
	case !s.IsEnrolled:
		return ReasonNotEnrolled
	case s.AlreadyVoted:
		return ReasonAlreadyVoted
	default:
		return ""
	}
}
