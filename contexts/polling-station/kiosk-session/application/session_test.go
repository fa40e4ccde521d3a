package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ballotissuance "pollstation/contexts/polling-station/ballot-issuance"
	ballotentities "pollstation/contexts/polling-station/ballot-issuance/domain/entities"
	ballotdomainerrors "pollstation/contexts/polling-station/ballot-issuance/domain/errors"
	"pollstation/contexts/polling-station/kiosk-session/adapters/memory"
	"pollstation/contexts/polling-station/kiosk-session/adapters/services"
	"pollstation/contexts/polling-station/kiosk-session/domain/entities"
	domainerrors "pollstation/contexts/polling-station/kiosk-session/domain/errors"
	votecasting "pollstation/contexts/polling-station/vote-casting"
	voteraccess "pollstation/contexts/polling-station/voter-access"
	voterentities "pollstation/contexts/polling-station/voter-access/domain/entities"
	voterdomainerrors "pollstation/contexts/polling-station/voter-access/domain/errors"
)

type testEnv struct {
	manager   *SessionManager
	voters    *voteraccess.Module
	ballots   *ballotissuance.Module
	casts     *votecasting.Module
	journal   *memory.Journal
	scheduler *memory.ManualScheduler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	voters := voteraccess.NewInMemoryModule(nil)
	ballots := ballotissuance.NewInMemoryModule(nil)
	casts := votecasting.NewInMemoryModule(nil)
	journal := memory.NewJournal()
	scheduler := memory.NewManualScheduler()

	manager := NewSessionManager(Dependencies{
		Validator:   voters.Service,
		Enrollments: voters.Service,
		Eligibility: ballots.Service,
		Roster:      ballots.Service,
		Caster:      services.CasterAdapter{Service: casts.Service},
		Journal:     journal,
		Scheduler:   scheduler,
		Clock:       journal,
		IDGen:       journal,
	}, Config{
		KioskID:              "kiosk-1",
		SuccessResetDelay:    6 * time.Second,
		IneligibleResetDelay: 8 * time.Second,
	})

	return &testEnv{
		manager:   manager,
		voters:    &voters,
		ballots:   &ballots,
		casts:     &casts,
		journal:   journal,
		scheduler: scheduler,
	}
}

const (
	testNIC      = "200012345678"
	testPassword = "secret"
)

func (e *testEnv) seedHappyVoter() {
	e.voters.Store.SetVoter(testPassword, voterentities.VoterProfile{
		VoterID:    "voter-1",
		NationalID: testNIC,
		FullName:   "Nimal Perera",
		District:   "Colombo",
		Status:     voterentities.VoterStatusEligible,
	})
	e.voters.Store.SetEnrollments(testNIC, []voterentities.ElectionSummary{
		{ElectionID: "election-1", Name: "Presidential Election 2025"},
	})
	e.ballots.Store.SetEligibility("voter-1", "election-1", true, false)
	e.ballots.Store.SetRoster("election-1", []ballotentities.Candidate{
		{CandidateID: "cand-1", ElectionID: "election-1", DisplayName: "Anura Dissanayake", PartyName: "NPP", IsActive: true},
		{CandidateID: "cand-2", ElectionID: "election-1", DisplayName: "Sajith Premadasa", PartyName: "SJB", IsActive: true},
		{CandidateID: "cand-3", ElectionID: "election-1", DisplayName: "Ranil Wickremesinghe", PartyName: "UNP", IsActive: true},
	})
}

func auditKinds(journal *memory.Journal) []entities.AuditKind {
	entries := journal.Entries()
	kinds := make([]entities.AuditKind, 0, len(entries))
	for _, entry := range entries {
		kinds = append(kinds, entry.Kind)
	}
	return kinds
}

func hasKind(kinds []entities.AuditKind, kind entities.AuditKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func TestFullVotingFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	ctx := context.Background()

	snap, err := env.manager.Validate(ctx, testNIC, testPassword, "")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if snap.Phase != entities.PhaseVoting {
		t.Fatalf("expected voting phase, got %s (last error %q)", snap.Phase, snap.LastError)
	}
	if snap.Voter == nil || snap.Voter.FullName != "Nimal Perera" {
		t.Fatalf("expected validated voter on display, got %+v", snap.Voter)
	}
	if snap.Election == nil || snap.Election.Name != "Presidential Election 2025" {
		t.Fatalf("unexpected election: %+v", snap.Election)
	}
	if len(snap.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(snap.Candidates))
	}

	snap, err = env.manager.SelectCandidate("cand-2")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if snap.Phase != entities.PhaseConfirmation || snap.SelectedCandidateID != "cand-2" {
		t.Fatalf("expected confirmation of cand-2, got %s / %s", snap.Phase, snap.SelectedCandidateID)
	}

	snap, err = env.manager.Confirm(ctx)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if snap.Phase != entities.PhaseSuccess {
		t.Fatalf("expected success, got %s (last error %q)", snap.Phase, snap.LastError)
	}
	if snap.Receipt == nil || snap.Receipt.CandidateID != "cand-2" || snap.Receipt.IdempotencyToken == "" {
		t.Fatalf("unexpected receipt: %+v", snap.Receipt)
	}

	submitted := env.casts.Store.Submitted()
	if len(submitted) != 1 {
		t.Fatalf("expected one vote submission, got %d", len(submitted))
	}
	if submitted[0].District != "Colombo" {
		t.Fatalf("district must come from the validated profile, got %q", submitted[0].District)
	}

	kinds := auditKinds(env.journal)
	for _, want := range []entities.AuditKind{
		entities.AuditSessionStarted,
		entities.AuditVoterValidated,
		entities.AuditEligibilityChecked,
		entities.AuditVoteCast,
	} {
		if !hasKind(kinds, want) {
			t.Fatalf("missing audit kind %s in %v", want, kinds)
		}
	}
	for _, entry := range env.journal.Entries() {
		if entry.VoterNIC == testNIC {
			t.Fatal("audit entries must store the NIC masked")
		}
		if entry.VoterNIC != "" && !strings.Contains(entry.VoterNIC, "*") {
			t.Fatalf("unexpected audit nic %q", entry.VoterNIC)
		}
	}

	pending := env.scheduler.Pending()
	if len(pending) != 1 || pending[0].Delay() != 6*time.Second {
		t.Fatalf("expected one success reset timer at 6s, got %+v", pending)
	}
	if !env.scheduler.FireLast() {
		t.Fatal("success timer should still be armed")
	}
	snap = env.manager.Snapshot()
	if snap.Phase != entities.PhaseValidation || snap.Voter != nil || snap.Receipt != nil {
		t.Fatalf("auto-reset must wipe the session, got %+v", snap)
	}
}

func TestValidateRejectsMalformedNIC(t *testing.T) {
	env := newTestEnv(t)

	snap, err := env.manager.Validate(context.Background(), "12345", "secret", "")
	if !errors.Is(err, voterdomainerrors.ErrMalformedNIC) {
		t.Fatalf("expected ErrMalformedNIC, got %v", err)
	}
	if snap.Phase != entities.PhaseValidation {
		t.Fatalf("malformed nic must not start a session, phase %s", snap.Phase)
	}
	if len(env.journal.Entries()) != 0 {
		t.Fatal("format rejection happens before any session is started")
	}
}

func TestValidateUnknownVoterStaysOnValidation(t *testing.T) {
	env := newTestEnv(t)

	snap, err := env.manager.Validate(context.Background(), testNIC, "wrong", "")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if snap.Phase != entities.PhaseValidation {
		t.Fatalf("expected validation phase, got %s", snap.Phase)
	}
	if snap.LastError == "" {
		t.Fatal("expected the not-found reason on display")
	}
}

func TestValidateKeepsProfileWhenEnrollmentLookupFails(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	env.voters.Store.FailEnrollmentsWith(voterdomainerrors.ErrEnrollmentUnavailable)

	snap, err := env.manager.Validate(context.Background(), testNIC, testPassword, "")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if snap.Voter == nil {
		t.Fatal("the validated profile must stay on display")
	}
	if snap.Phase != entities.PhaseValidation || snap.LastError == "" {
		t.Fatalf("expected validation phase with enrollment error, got %s / %q", snap.Phase, snap.LastError)
	}
}

func TestValidateRefusesVoterWithoutDistrict(t *testing.T) {
	env := newTestEnv(t)
	env.voters.Store.SetVoter(testPassword, voterentities.VoterProfile{
		VoterID:    "voter-9",
		NationalID: testNIC,
		FullName:   "Unmapped Voter",
		District:   voterentities.DistrictNotAvailable,
	})

	snap, err := env.manager.Validate(context.Background(), testNIC, testPassword, "")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if snap.Phase != entities.PhaseValidation {
		t.Fatalf("expected validation phase, got %s", snap.Phase)
	}
	if !strings.Contains(snap.LastError, "district") {
		t.Fatalf("expected a district error, got %q", snap.LastError)
	}
}

func TestValidateAlreadyVotedGoesIneligible(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	env.ballots.Store.SetEligibility("voter-1", "election-1", true, true)

	snap, err := env.manager.Validate(context.Background(), testNIC, testPassword, "")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if snap.Phase != entities.PhaseIneligible {
		t.Fatalf("expected ineligible phase, got %s", snap.Phase)
	}
	if snap.IneligibleReason != ballotentities.ReasonAlreadyVoted {
		t.Fatalf("expected already-voted reason, got %q", snap.IneligibleReason)
	}

	pending := env.scheduler.Pending()
	if len(pending) != 1 || pending[0].Delay() != 8*time.Second {
		t.Fatalf("expected the ineligible reset timer at 8s, got %+v", pending)
	}
	if !env.scheduler.FireLast() {
		t.Fatal("ineligible timer should fire")
	}
	if snap := env.manager.Snapshot(); snap.Phase != entities.PhaseValidation {
		t.Fatalf("expected auto-return to validation, got %s", snap.Phase)
	}
}

func TestValidateNoEnrollments(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	env.voters.Store.SetEnrollments(testNIC, nil)

	snap, err := env.manager.Validate(context.Background(), testNIC, testPassword, "")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if snap.Phase != entities.PhaseValidation || snap.LastError == "" {
		t.Fatalf("expected a no-elections error, got %s / %q", snap.Phase, snap.LastError)
	}
}

func TestValidateElectionOverride(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	env.voters.Store.SetEnrollments(testNIC, []voterentities.ElectionSummary{
		{ElectionID: "election-1", Name: "Presidential Election 2025"},
		{ElectionID: "election-2", Name: "Provincial Council Election"},
	})
	env.ballots.Store.SetEligibility("voter-1", "election-2", true, false)
	env.ballots.Store.SetRoster("election-2", []ballotentities.Candidate{
		{CandidateID: "cand-9", ElectionID: "election-2", DisplayName: "Local Candidate", IsActive: true},
	})

	snap, err := env.manager.Validate(context.Background(), testNIC, testPassword, "election-2")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if snap.Election == nil || snap.Election.ElectionID != "election-2" {
		t.Fatalf("override election not selected: %+v", snap.Election)
	}
	if snap.Phase != entities.PhaseVoting || len(snap.Candidates) != 1 {
		t.Fatalf("expected voting on election-2, got %s with %d candidates", snap.Phase, len(snap.Candidates))
	}
}

func TestValidateUnknownOverrideAnsweredByEligibility(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()

	snap, err := env.manager.Validate(context.Background(), testNIC, testPassword, "election-99")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if snap.Phase != entities.PhaseIneligible {
		t.Fatalf("expected ineligible, got %s", snap.Phase)
	}
	if snap.IneligibleReason != ballotentities.ReasonNotEnrolled {
		t.Fatalf("expected not-enrolled reason, got %q", snap.IneligibleReason)
	}
}

func TestRosterFailureIsAVotingErrorSubState(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	env.ballots.Store.FailRosterWith(ballotdomainerrors.ErrRosterUnavailable)

	snap, err := env.manager.Validate(context.Background(), testNIC, testPassword, "")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if snap.Phase != entities.PhaseVoting {
		t.Fatalf("roster failure keeps the voting phase, got %s", snap.Phase)
	}
	if snap.LastError == "" || len(snap.Candidates) != 0 {
		t.Fatalf("expected the failure on display with no candidates, got %q / %d", snap.LastError, len(snap.Candidates))
	}

	// Recovery: a fresh validation with a healthy backend proceeds normally.
	env.ballots.Store.FailRosterWith(nil)
	snap, err = env.manager.Validate(context.Background(), testNIC, testPassword, "")
	if err != nil {
		t.Fatalf("revalidate failed: %v", err)
	}
	if snap.Phase != entities.PhaseVoting || len(snap.Candidates) != 3 {
		t.Fatalf("expected recovery into voting, got %s with %d candidates", snap.Phase, len(snap.Candidates))
	}
}

func TestSelectionTransitions(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	ctx := context.Background()

	if _, err := env.manager.SelectCandidate("cand-1"); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("select before voting must fail, got %v", err)
	}

	if _, err := env.manager.Validate(ctx, testNIC, testPassword, ""); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if _, err := env.manager.SelectCandidate("cand-99"); !errors.Is(err, domainerrors.ErrUnknownCandidate) {
		t.Fatalf("expected ErrUnknownCandidate, got %v", err)
	}
	if _, err := env.manager.Back(); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("back outside confirmation must fail, got %v", err)
	}

	if _, err := env.manager.SelectCandidate("cand-1"); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	snap, err := env.manager.Back()
	if err != nil {
		t.Fatalf("back failed: %v", err)
	}
	if snap.Phase != entities.PhaseVoting || snap.SelectedCandidateID != "" {
		t.Fatalf("back must clear the selection, got %s / %q", snap.Phase, snap.SelectedCandidateID)
	}
}

func TestConfirmFailureKeepsConfirmationForRetry(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	ctx := context.Background()

	if _, err := env.manager.Validate(ctx, testNIC, testPassword, ""); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if _, err := env.manager.SelectCandidate("cand-1"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	rejection := errors.New("vote rejected: You have already voted in this election")
	env.casts.Store.FailWith(rejection)
	snap, err := env.manager.Confirm(ctx)
	if err != nil {
		t.Fatalf("confirm returned transport error: %v", err)
	}
	if snap.Phase != entities.PhaseConfirmation {
		t.Fatalf("a failed cast keeps confirmation, got %s", snap.Phase)
	}
	if !strings.Contains(snap.LastError, "already voted") {
		t.Fatalf("server reason must surface verbatim, got %q", snap.LastError)
	}

	env.casts.Store.FailWith(nil)
	snap, err = env.manager.Confirm(ctx)
	if err != nil {
		t.Fatalf("retry confirm failed: %v", err)
	}
	if snap.Phase != entities.PhaseSuccess {
		t.Fatalf("expected success on retry, got %s", snap.Phase)
	}
}

func TestConfirmWhileInFlightIsANoOp(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	ctx := context.Background()

	if _, err := env.manager.Validate(ctx, testNIC, testPassword, ""); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if _, err := env.manager.SelectCandidate("cand-1"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	release := env.casts.Store.BlockNextSubmit()
	firstDone := make(chan entities.Snapshot, 1)
	go func() {
		snap, _ := env.manager.Confirm(ctx)
		firstDone <- snap
	}()

	waitForCasting(t, env.manager)

	snap, err := env.manager.Confirm(ctx)
	if err != nil {
		t.Fatalf("second confirm must be a no-op, got %v", err)
	}
	if snap.Phase != entities.PhaseConfirmation {
		t.Fatalf("no-op confirm must return the pending state, got %s", snap.Phase)
	}

	close(release)
	first := <-firstDone
	if first.Phase != entities.PhaseSuccess {
		t.Fatalf("expected the original confirm to succeed, got %s", first.Phase)
	}
	if len(env.casts.Store.Submitted()) != 1 {
		t.Fatalf("expected exactly one submission, got %d", len(env.casts.Store.Submitted()))
	}
}

func TestResetDiscardsPendingCastResult(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	ctx := context.Background()

	if _, err := env.manager.Validate(ctx, testNIC, testPassword, ""); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if _, err := env.manager.SelectCandidate("cand-1"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	release := env.casts.Store.BlockNextSubmit()
	done := make(chan struct{})
	go func() {
		_, _ = env.manager.Confirm(ctx)
		close(done)
	}()

	waitForCasting(t, env.manager)
	env.manager.Reset(ctx, "operator return to polling station")
	close(release)
	<-done

	snap := env.manager.Snapshot()
	if snap.Phase != entities.PhaseValidation {
		t.Fatalf("reset wins over the late result, got %s", snap.Phase)
	}
	if snap.Receipt != nil || snap.Voter != nil {
		t.Fatalf("stale cast result must not repopulate the session: %+v", snap)
	}
}

func TestManualResetCancelsArmedTimer(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	env.ballots.Store.SetEligibility("voter-1", "election-1", true, true)
	ctx := context.Background()

	if _, err := env.manager.Validate(ctx, testNIC, testPassword, ""); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	pending := env.scheduler.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected an armed timer, got %d", len(pending))
	}

	env.manager.Reset(ctx, "operator reset")
	if !pending[0].Stopped() {
		t.Fatal("manual reset must cancel the armed timer")
	}
	if env.scheduler.FireLast() {
		t.Fatal("a cancelled timer must not fire")
	}
}

func TestStaleValidationResultDiscarded(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	ctx := context.Background()

	if _, err := env.manager.Validate(ctx, testNIC, testPassword, ""); err != nil {
		t.Fatalf("first validate failed: %v", err)
	}
	first := env.manager.Snapshot()
	if first.Phase != entities.PhaseVoting {
		t.Fatalf("expected voting, got %s", first.Phase)
	}

	// A later validation supersedes the session: the old timer is cancelled
	// and the session id changes even for the same voter.
	if _, err := env.manager.Validate(ctx, testNIC, testPassword, ""); err != nil {
		t.Fatalf("second validate failed: %v", err)
	}
	second := env.manager.Snapshot()
	if second.SessionID == first.SessionID {
		t.Fatal("a new validation must start a new session")
	}
}

func TestJournalFailureDoesNotBlockVoting(t *testing.T) {
	env := newTestEnv(t)
	env.seedHappyVoter()
	env.journal.FailWith(errors.New("disk full"))

	snap, err := env.manager.Validate(context.Background(), testNIC, testPassword, "")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if snap.Phase != entities.PhaseVoting {
		t.Fatalf("audit failures must not block the flow, got %s", snap.Phase)
	}
}

func waitForCasting(t *testing.T, m *SessionManager) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		m.mu.Lock()
		casting := m.casting
		m.mu.Unlock()
		if casting {
			return
		}
		select {
		case <-deadline:
			t.Fatal("cast never reached the gateway")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
