package entities

import (
	"regexp"
	"strings"
	"time"
)

// DistrictNotAvailable is the upstream sentinel for a profile whose electoral
// district could not be resolved. A profile carrying it must never reach the
// vote-casting path.
const DistrictNotAvailable = "District Not Available"

type VoterStatus string

const (
	VoterStatusEligible     VoterStatus = "eligible"
	VoterStatusAlreadyVoted VoterStatus = "already-voted"
	VoterStatusIneligible   VoterStatus = "ineligible"
)

// VoterProfile is produced once per session by credential validation and is
// read-only for every downstream component.
type VoterProfile struct {
	VoterID         string
	NationalID      string
	FullName        string
	District        string
	HouseholdID     string
	Status          VoterStatus
	PhotoURL        string
	DateOfBirth     string
	PollingDivision string
}

// HasDistrict reports whether the profile carries a usable electoral district.
func (p VoterProfile) HasDistrict() bool {
	district := strings.TrimSpace(p.District)
	return district != "" && district != DistrictNotAvailable
}

// ElectionSummary is immutable once fetched for a session.
type ElectionSummary struct {
	ElectionID         string
	Name               string
	Description        string
	EnrollmentDeadline time.Time
	StartDate          time.Time
	EndDate            time.Time
	StartTime          string
	EndTime            string
}

var (
	nicOldFormat = regexp.MustCompile(`^[0-9]{9}[VXvx]$`)
	nicNewFormat = regexp.MustCompile(`^[0-9]{12}$`)
)

// ValidNIC reports whether the national identity number matches one of the two
// issued formats: nine digits followed by V or X, or twelve digits.
func ValidNIC(nic string) bool {
	nic = strings.TrimSpace(nic)
	return nicOldFormat.MatchString(nic) || nicNewFormat.MatchString(nic)
}
