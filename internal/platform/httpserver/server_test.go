package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ballotentities "pollstation/contexts/polling-station/ballot-issuance/domain/entities"
	kiosksession "pollstation/contexts/polling-station/kiosk-session"
	sessionapp "pollstation/contexts/polling-station/kiosk-session/application"
	sessionhttp "pollstation/contexts/polling-station/kiosk-session/transport/http"
	voterentities "pollstation/contexts/polling-station/voter-access/domain/entities"
)

func newTestServer(t *testing.T) (*Server, kiosksession.InMemoryStores) {
	t.Helper()
	module, stores := kiosksession.NewInMemoryModule(sessionapp.Config{
		KioskID:              "kiosk-1",
		SuccessResetDelay:    6 * time.Second,
		IneligibleResetDelay: 8 * time.Second,
	}, nil)
	return New(module, nil, nil, ":0"), stores
}

func seedVoter(stores kiosksession.InMemoryStores) {
	stores.Voters.Store.SetVoter("secret", voterentities.VoterProfile{
		VoterID:    "voter-1",
		NationalID: "200012345678",
		FullName:   "Nimal Perera",
		District:   "Colombo",
		Status:     voterentities.VoterStatusEligible,
	})
	stores.Voters.Store.SetEnrollments("200012345678", []voterentities.ElectionSummary{
		{ElectionID: "election-1", Name: "Presidential Election 2025"},
	})
	stores.Ballots.Store.SetEligibility("voter-1", "election-1", true, false)
	stores.Ballots.Store.SetRoster("election-1", []ballotentities.Candidate{
		{CandidateID: "cand-1", DisplayName: "Anura Dissanayake", IsActive: true},
		{CandidateID: "cand-2", DisplayName: "Sajith Premadasa", IsActive: true},
	})
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) sessionhttp.SnapshotResponse {
	t.Helper()
	var snap sessionhttp.SnapshotResponse
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doJSON(t, server.Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionFlowOverHTTP(t *testing.T) {
	server, stores := newTestServer(t)
	seedVoter(stores)
	handler := server.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/kiosk/v1/session/validate", sessionhttp.ValidateRequest{
		NationalID: "200012345678",
		Password:   "secret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	snap := decodeSnapshot(t, rec)
	if snap.Phase != "voting" || len(snap.Candidates) != 2 {
		t.Fatalf("unexpected snapshot after validate: %+v", snap)
	}
	if snap.Voter == nil || snap.Voter.FullName != "Nimal Perera" {
		t.Fatalf("voter missing from snapshot: %+v", snap.Voter)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/kiosk/v1/session/select", sessionhttp.SelectRequest{CandidateID: "cand-2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", rec.Code)
	}
	if snap = decodeSnapshot(t, rec); snap.Phase != "confirmation" {
		t.Fatalf("expected confirmation, got %s", snap.Phase)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/kiosk/v1/session/confirm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d", rec.Code)
	}
	snap = decodeSnapshot(t, rec)
	if snap.Phase != "success" || snap.Receipt == nil || snap.Receipt.IdempotencyToken == "" {
		t.Fatalf("unexpected snapshot after confirm: %+v", snap)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/kiosk/v1/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/kiosk/v1/session/reset", sessionhttp.ResetRequest{Reason: "voter left"})
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", rec.Code)
	}
	if snap = decodeSnapshot(t, rec); snap.Phase != "validation" || snap.Voter != nil {
		t.Fatalf("reset must wipe the session: %+v", snap)
	}
}

func TestValidateRejectsMalformedNIC(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server.Handler(), http.MethodPost, "/api/kiosk/v1/session/validate", sessionhttp.ValidateRequest{
		NationalID: "12345",
		Password:   "secret",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errResp sessionhttp.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "invalid_input" {
		t.Fatalf("expected invalid_input, got %s", errResp.Code)
	}
}

func TestValidateRejectsInvalidJSON(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/kiosk/v1/session/validate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSelectUnknownCandidate(t *testing.T) {
	server, stores := newTestServer(t)
	seedVoter(stores)
	handler := server.Handler()

	doJSON(t, handler, http.MethodPost, "/api/kiosk/v1/session/validate", sessionhttp.ValidateRequest{
		NationalID: "200012345678",
		Password:   "secret",
	})
	rec := doJSON(t, handler, http.MethodPost, "/api/kiosk/v1/session/select", sessionhttp.SelectRequest{CandidateID: "cand-99"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestTransitionErrorsMapToConflict(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/kiosk/v1/session/back", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("back: expected 409, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/kiosk/v1/session/confirm", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("confirm: expected 409, got %d", rec.Code)
	}
}
