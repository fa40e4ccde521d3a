package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidateRequest struct {
	NationalID string `json:"national_id"`
	Password   string `json:"password"`
	ElectionID string `json:"election_id,omitempty"`
}

type SelectRequest struct {
	CandidateID string `json:"candidate_id"`
}

type ResetRequest struct {
	Reason string `json:"reason,omitempty"`
}

type VoterView struct {
	VoterID         string `json:"voter_id"`
	NationalID      string `json:"national_id"`
	FullName        string `json:"full_name"`
	District        string `json:"district"`
	Status          string `json:"status"`
	PhotoURL        string `json:"photo_url,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	PollingDivision string `json:"polling_division,omitempty"`
}

type ElectionView struct {
	ElectionID         string `json:"election_id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	EnrollmentDeadline string `json:"enrollment_deadline,omitempty"`
	StartDate          string `json:"start_date,omitempty"`
	EndDate            string `json:"end_date,omitempty"`
	StartTime          string `json:"start_time,omitempty"`
	EndTime            string `json:"end_time,omitempty"`
}

type EligibilityView struct {
	IsEnrolled   bool `json:"is_enrolled"`
	AlreadyVoted bool `json:"already_voted"`
	Eligible     bool `json:"eligible"`
}

type CandidateView struct {
	CandidateID string `json:"candidate_id"`
	DisplayName string `json:"display_name"`
	PartyName   string `json:"party_name"`
	PartySymbol string `json:"party_symbol,omitempty"`
	PartyColor  string `json:"party_color,omitempty"`
}

type ReceiptView struct {
	ElectionID       string `json:"election_id"`
	CandidateID      string `json:"candidate_id"`
	IdempotencyToken string `json:"idempotency_token"`
	CastAt           string `json:"cast_at"`
}

type SnapshotResponse struct {
	SessionID           string           `json:"session_id,omitempty"`
	Phase               string           `json:"phase"`
	Voter               *VoterView       `json:"voter,omitempty"`
	Elections           []ElectionView   `json:"elections,omitempty"`
	Election            *ElectionView    `json:"election,omitempty"`
	Eligibility         *EligibilityView `json:"eligibility,omitempty"`
	Candidates          []CandidateView  `json:"candidates,omitempty"`
	SelectedCandidateID string           `json:"selected_candidate_id,omitempty"`
	Receipt             *ReceiptView     `json:"receipt,omitempty"`
	IneligibleReason    string           `json:"ineligible_reason,omitempty"`
	LastError           string           `json:"last_error,omitempty"`
}
