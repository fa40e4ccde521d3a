package entities

import (
	"strings"
	"time"
)

type AuditKind string

const (
	AuditSessionStarted     AuditKind = "session_started"
	AuditVoterValidated     AuditKind = "voter_validated"
	AuditEligibilityChecked AuditKind = "eligibility_checked"
	AuditVoteCast           AuditKind = "vote_cast"
	AuditSessionReset       AuditKind = "session_reset"
)

// AuditEntry is the local, append-only record of kiosk session lifecycle
// events. The NIC is stored masked.
type AuditEntry struct {
	EntryID    string
	SessionID  string
	KioskID    string
	Kind       AuditKind
	VoterNIC   string
	ElectionID string
	Detail     string
	OccurredAt time.Time
}

// MaskNIC hides the middle of a national id, keeping two leading and two
// trailing characters.
func MaskNIC(nic string) string {
	nic = strings.TrimSpace(nic)
	if len(nic) <= 4 {
		return strings.Repeat("*", len(nic))
	}
	return nic[:2] + strings.Repeat("*", len(nic)-4) + nic[len(nic)-2:]
}
