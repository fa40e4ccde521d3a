package entities

import "time"

// VoteCastRequest is constructed exactly once per confirmed vote and never
// mutated afterwards. The idempotency token identifies this request instance:
// transport retries replay it verbatim, so the backend can deduplicate an
// unacknowledged attempt without ever seeing two tokens for one intent.
type VoteCastRequest struct {
	VoterID          string
	ElectionID       string
	CandidateID      string
	District         string
	Timestamp        time.Time
	IdempotencyToken string
}

// VoteReceipt acknowledges an accepted cast.
type VoteReceipt struct {
	VoterID          string
	ElectionID       string
	CandidateID      string
	IdempotencyToken string
	CastAt           time.Time
}
