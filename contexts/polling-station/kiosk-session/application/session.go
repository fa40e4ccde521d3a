package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	ballotentities "pollstation/contexts/polling-station/ballot-issuance/domain/entities"
	"pollstation/contexts/polling-station/kiosk-session/domain/entities"
	domainerrors "pollstation/contexts/polling-station/kiosk-session/domain/errors"
	"pollstation/contexts/polling-station/kiosk-session/ports"
	votecastentities "pollstation/contexts/polling-station/vote-casting/domain/entities"
	voterentities "pollstation/contexts/polling-station/voter-access/domain/entities"
	voterdomainerrors "pollstation/contexts/polling-station/voter-access/domain/errors"
)

// Config carries the session-level knobs.
type Config struct {
	KioskID              string
	SuccessResetDelay    time.Duration
	IneligibleResetDelay time.Duration
}

// SessionManager is the kiosk state machine. It holds at most one voter's
// context at a time; every reset wipes the previous voter entirely. All
// mutations happen under one mutex, remote calls run outside it, and results
// are applied only when the session epoch captured at call start is still
// current, so a stale response can never override a newer session.
type SessionManager struct {
	validator   ports.CredentialValidator
	enrollments ports.EnrollmentResolver
	eligibility ports.EligibilityChecker
	roster      ports.RosterLoader
	caster      ports.VoteCaster
	journal     ports.AuditJournal
	scheduler   ports.Scheduler
	clock       ports.Clock
	idgen       ports.IDGenerator
	logger      *slog.Logger
	cfg         Config

	mu         sync.Mutex
	epoch      uint64
	state      sessionState
	resetTimer ports.Timer
	casting    bool
}

type sessionState struct {
	sessionID string
	phase     entities.Phase

	voter     *voterentities.VoterProfile
	elections []voterentities.ElectionSummary
	election  *voterentities.ElectionSummary

	eligibility *ballotentities.EligibilityStatus
	candidates  []ballotentities.Candidate

	selectedCandidateID string
	receipt             *votecastentities.VoteReceipt

	ineligibleReason string
	lastError        string
}

type Dependencies struct {
	Validator   ports.CredentialValidator
	Enrollments ports.EnrollmentResolver
	Eligibility ports.EligibilityChecker
	Roster      ports.RosterLoader
	Caster      ports.VoteCaster
	Journal     ports.AuditJournal
	Scheduler   ports.Scheduler
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewSessionManager(deps Dependencies, cfg Config) *SessionManager {
	if cfg.SuccessResetDelay <= 0 {
		cfg.SuccessResetDelay = 6 * time.Second
	}
	if cfg.IneligibleResetDelay <= 0 {
		cfg.IneligibleResetDelay = 8 * time.Second
	}
	return &SessionManager{
		validator:   deps.Validator,
		enrollments: deps.Enrollments,
		eligibility: deps.Eligibility,
		roster:      deps.Roster,
		caster:      deps.Caster,
		journal:     deps.Journal,
		scheduler:   deps.Scheduler,
		clock:       deps.Clock,
		idgen:       deps.IDGen,
		logger:      ResolveLogger(deps.Logger),
		cfg:         cfg,
		state:       sessionState{phase: entities.PhaseValidation},
	}
}

// Snapshot returns the current immutable session view.
func (m *SessionManager) Snapshot() entities.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Validate starts a fresh session for the presented credentials. Any prior
// pending attempt is superseded: its results will be discarded because the
// epoch moves on here. On a found voter the manager resolves enrollments,
// picks the override election or the first enrollment, re-evaluates
// eligibility, and only then enters voting with the roster loaded.
func (m *SessionManager) Validate(ctx context.Context, nationalID string, password string, electionOverride string) (entities.Snapshot, error) {
	if !voterentities.ValidNIC(strings.TrimSpace(nationalID)) {
		return m.Snapshot(), voterdomainerrors.ErrMalformedNIC
	}

	epoch, sessionID := m.startSession()
	m.appendAudit(ctx, sessionID, entities.AuditSessionStarted, nationalID, "", "")

	profile, err := m.validator.ValidateCredentials(ctx, nationalID, password)
	if err != nil {
		if errors.Is(err, voterdomainerrors.ErrVoterNotFound) {
			m.applyIfCurrent(epoch, func(s *sessionState) {
				s.lastError = err.Error()
			})
			return m.Snapshot(), nil
		}
		m.applyIfCurrent(epoch, func(s *sessionState) {
			s.lastError = err.Error()
		})
		return m.Snapshot(), nil
	}

	m.appendAudit(ctx, sessionID, entities.AuditVoterValidated, profile.NationalID, "", string(profile.Status))
	applied := m.applyIfCurrent(epoch, func(s *sessionState) {
		s.voter = &profile
		s.lastError = ""
	})
	if !applied {
		return m.Snapshot(), nil
	}

	if !profile.HasDistrict() {
		m.applyIfCurrent(epoch, func(s *sessionState) {
			s.lastError = "voter district is not available; cannot issue a ballot"
		})
		return m.Snapshot(), nil
	}

	elections, err := m.enrollments.ResolveEnrollments(ctx, profile.NationalID)
	if err != nil {
		// The validated profile stays on display; only the enrollment
		// lookup failure is reported.
		m.applyIfCurrent(epoch, func(s *sessionState) {
			s.lastError = err.Error()
		})
		return m.Snapshot(), nil
	}
	m.applyIfCurrent(epoch, func(s *sessionState) {
		s.elections = elections
	})

	target, ok := pickElection(elections, electionOverride)
	if !ok {
		m.applyIfCurrent(epoch, func(s *sessionState) {
			s.lastError = "no elections available for this voter"
		})
		return m.Snapshot(), nil
	}
	m.applyIfCurrent(epoch, func(s *sessionState) {
		s.election = &target
	})

	status, err := m.eligibility.CheckEligibility(ctx, profile.VoterID, target.ElectionID)
	if err != nil {
		m.applyIfCurrent(epoch, func(s *sessionState) {
			s.lastError = err.Error()
		})
		return m.Snapshot(), nil
	}
	m.appendAudit(ctx, sessionID, entities.AuditEligibilityChecked, profile.NationalID, target.ElectionID, status.Reason())

	if !status.Eligible() {
		m.applyIfCurrent(epoch, func(s *sessionState) {
			s.eligibility = &status
			s.phase = entities.PhaseIneligible
			s.ineligibleReason = status.Reason()
		})
		m.scheduleReset(epoch, m.cfg.IneligibleResetDelay, "ineligible display timeout")
		return m.Snapshot(), nil
	}

	m.applyIfCurrent(epoch, func(s *sessionState) {
		s.eligibility = &status
		s.phase = entities.PhaseVoting
	})

	candidates, err := m.roster.LoadRoster(ctx, target.ElectionID, profile.VoterID)
	if err != nil {
		// Error sub-state of voting: the operator sees the failure with the
		// election id and can go back manually.
		m.applyIfCurrent(epoch, func(s *sessionState) {
			s.lastError = err.Error()
		})
		return m.Snapshot(), nil
	}
	m.applyIfCurrent(epoch, func(s *sessionState) {
		s.candidates = candidates
		s.lastError = ""
	})
	return m.Snapshot(), nil
}

// SelectCandidate moves voting -> confirmation for exactly one roster
// candidate.
func (m *SessionManager) SelectCandidate(candidateID string) (entities.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.phase != entities.PhaseVoting {
		return m.snapshotLocked(), domainerrors.ErrInvalidTransition
	}
	candidateID = strings.TrimSpace(candidateID)
	if !hasCandidate(m.state.candidates, candidateID) {
		return m.snapshotLocked(), domainerrors.ErrUnknownCandidate
	}
	m.state.selectedCandidateID = candidateID
	m.state.phase = entities.PhaseConfirmation
	m.state.lastError = ""
	return m.snapshotLocked(), nil
}

// Back returns confirmation -> voting and clears the selection.
func (m *SessionManager) Back() (entities.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.phase != entities.PhaseConfirmation {
		return m.snapshotLocked(), domainerrors.ErrInvalidTransition
	}
	m.state.selectedCandidateID = ""
	m.state.phase = entities.PhaseVoting
	m.state.lastError = ""
	return m.snapshotLocked(), nil
}

// Confirm submits the vote. A second confirm while a submission is pending is
// a no-op. Failures keep the session in confirmation with the server reason
// on display; the operator must retry explicitly.
func (m *SessionManager) Confirm(ctx context.Context) (entities.Snapshot, error) {
	m.mu.Lock()
	if m.state.phase != entities.PhaseConfirmation {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, domainerrors.ErrInvalidTransition
	}
	if m.state.selectedCandidateID == "" {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, domainerrors.ErrNoSelection
	}
	if m.casting {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, nil
	}
	m.casting = true
	epoch := m.epoch
	sessionID := m.state.sessionID
	order := ports.CastOrder{
		VoterID:     m.state.voter.VoterID,
		ElectionID:  m.state.election.ElectionID,
		CandidateID: m.state.selectedCandidateID,
		District:    m.state.voter.District,
	}
	nic := m.state.voter.NationalID
	m.mu.Unlock()

	receipt, err := m.caster.Cast(ctx, order)

	m.mu.Lock()
	m.casting = false
	m.mu.Unlock()

	if err != nil {
		m.applyIfCurrent(epoch, func(s *sessionState) {
			s.lastError = err.Error()
		})
		return m.Snapshot(), nil
	}

	m.appendAudit(ctx, sessionID, entities.AuditVoteCast, nic, order.ElectionID, receipt.IdempotencyToken)
	m.applyIfCurrent(epoch, func(s *sessionState) {
		s.receipt = &receipt
		s.phase = entities.PhaseSuccess
		s.lastError = ""
	})
	m.scheduleReset(epoch, m.cfg.SuccessResetDelay, "success display timeout")
	return m.Snapshot(), nil
}

// Reset returns the kiosk to validation and discards the whole session.
func (m *SessionManager) Reset(ctx context.Context, reason string) entities.Snapshot {
	m.mu.Lock()
	sessionID := m.state.sessionID
	nic := ""
	if m.state.voter != nil {
		nic = m.state.voter.NationalID
	}
	m.resetLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if sessionID != "" {
		m.appendAudit(ctx, sessionID, entities.AuditSessionReset, nic, "", reason)
	}
	return snap
}

func (m *SessionManager) startSession() (uint64, string) {
	sessionID := m.newID()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelTimerLocked()
	m.epoch++
	m.state = sessionState{
		sessionID: sessionID,
		phase:     entities.PhaseValidation,
	}
	return m.epoch, sessionID
}

func (m *SessionManager) resetLocked() {
	m.cancelTimerLocked()
	m.epoch++
	m.state = sessionState{phase: entities.PhaseValidation}
}

func (m *SessionManager) cancelTimerLocked() {
	if m.resetTimer != nil {
		m.resetTimer.Stop()
		m.resetTimer = nil
	}
}

// scheduleReset arms the single-shot auto-return timer. The timer carries the
// epoch it was armed for; if the session has moved on by the time it fires,
// it does nothing.
func (m *SessionManager) scheduleReset(epoch uint64, delay time.Duration, reason string) {
	if m.scheduler == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return
	}
	m.cancelTimerLocked()
	m.resetTimer = m.scheduler.Schedule(delay, func() {
		m.autoReset(epoch, reason)
	})
}

func (m *SessionManager) autoReset(epoch uint64, reason string) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	sessionID := m.state.sessionID
	nic := ""
	if m.state.voter != nil {
		nic = m.state.voter.NationalID
	}
	m.resetLocked()
	m.mu.Unlock()

	m.logger.Info("session auto-reset",
		"event", "kiosk_session_auto_reset",
		"module", "polling-station/kiosk-session",
		"layer", "application",
		"session_id", sessionID,
		"reason", reason,
	)
	if sessionID != "" {
		m.appendAudit(context.Background(), sessionID, entities.AuditSessionReset, nic, "", reason)
	}
}

func (m *SessionManager) applyIfCurrent(epoch uint64, fn func(*sessionState)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return false
	}
	fn(&m.state)
	return true
}

func (m *SessionManager) snapshotLocked() entities.Snapshot {
	snap := entities.Snapshot{
		SessionID:           m.state.sessionID,
		Epoch:               m.epoch,
		Phase:               m.state.phase,
		SelectedCandidateID: m.state.selectedCandidateID,
		IneligibleReason:    m.state.ineligibleReason,
		LastError:           m.state.lastError,
	}
	if m.state.voter != nil {
		voter := *m.state.voter
		snap.Voter = &voter
	}
	if m.state.election != nil {
		election := *m.state.election
		snap.Election = &election
	}
	if m.state.eligibility != nil {
		eligibility := *m.state.eligibility
		snap.Eligibility = &eligibility
	}
	if m.state.receipt != nil {
		receipt := *m.state.receipt
		snap.Receipt = &receipt
	}
	if m.state.elections != nil {
		snap.Elections = make([]voterentities.ElectionSummary, len(m.state.elections))
		copy(snap.Elections, m.state.elections)
	}
	if m.state.candidates != nil {
		snap.Candidates = make([]ballotentities.Candidate, len(m.state.candidates))
		copy(snap.Candidates, m.state.candidates)
	}
	return snap
}

func (m *SessionManager) appendAudit(ctx context.Context, sessionID string, kind entities.AuditKind, nic string, electionID string, detail string) {
	if m.journal == nil {
		return
	}
	entry := entities.AuditEntry{
		EntryID:    m.newID(),
		SessionID:  sessionID,
		KioskID:    m.cfg.KioskID,
		Kind:       kind,
		VoterNIC:   entities.MaskNIC(nic),
		ElectionID: electionID,
		Detail:     detail,
		OccurredAt: m.now(),
	}
	if err := m.journal.Append(ctx, entry); err != nil {
		m.logger.Error("audit journal append failed",
			"event", "kiosk_session_audit_append_failed",
			"module", "polling-station/kiosk-session",
			"layer", "application",
			"session_id", sessionID,
			"kind", string(kind),
			"error", err.Error(),
		)
	}
}

func (m *SessionManager) now() time.Time {
	now := time.Now().UTC()
	if m.clock != nil {
		now = m.clock.Now().UTC()
	}
	return now
}

func (m *SessionManager) newID() string {
	if m.idgen != nil {
		if id, err := m.idgen.NewID(context.Background()); err == nil {
			return id
		}
	}
	return ""
}

func pickElection(elections []voterentities.ElectionSummary, override string) (voterentities.ElectionSummary, bool) {
	override = strings.TrimSpace(override)
	if override != "" {
		for _, election := range elections {
			if election.ElectionID == override {
				return election, true
			}
		}
		// Unknown override ids still flow into the eligibility check, which
		// will answer "not enrolled" from backend state.
		return voterentities.ElectionSummary{ElectionID: override}, true
	}
	if len(elections) > 0 {
		return elections[0], true
	}
	return voterentities.ElectionSummary{}, false
}

func hasCandidate(candidates []ballotentities.Candidate, candidateID string) bool {
	for _, candidate := range candidates {
		if candidate.CandidateID == candidateID {
			return true
		}
	}
	return false
}
