package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	ballotdomainerrors "pollstation/contexts/polling-station/ballot-issuance/domain/errors"
	kiosksession "pollstation/contexts/polling-station/kiosk-session"
	sessiondomainerrors "pollstation/contexts/polling-station/kiosk-session/domain/errors"
	sessionhttp "pollstation/contexts/polling-station/kiosk-session/transport/http"
	votedomainerrors "pollstation/contexts/polling-station/vote-casting/domain/errors"
	voterdomainerrors "pollstation/contexts/polling-station/voter-access/domain/errors"
	_ "pollstation/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Server exposes the operator-facing kiosk API on the local interface.
type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	session kiosksession.Module
	auth    *OperatorAuth
}

func New(
	session kiosksession.Module,
	auth *OperatorAuth,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		session: session,
		auth:    auth,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler returns the routing handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /api/kiosk/v1/session/validate", s.operator(s.handleValidate))
	s.mux.HandleFunc("GET /api/kiosk/v1/session", s.operator(s.handleSnapshot))
	s.mux.HandleFunc("POST /api/kiosk/v1/session/select", s.operator(s.handleSelect))
	s.mux.HandleFunc("POST /api/kiosk/v1/session/back", s.operator(s.handleBack))
	s.mux.HandleFunc("POST /api/kiosk/v1/session/confirm", s.operator(s.handleConfirm))
	s.mux.HandleFunc("POST /api/kiosk/v1/session/reset", s.operator(s.handleReset))
}

func (s *Server) operator(next http.HandlerFunc) http.HandlerFunc {
	if s.auth == nil {
		return next
	}
	return s.auth.Require(next)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.session.Handler.ValidateHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Handler.SnapshotHandler(r.Context()))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.session.Handler.SelectHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	resp, err := s.session.Handler.BackHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	resp, err := s.session.Handler.ConfirmHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.ResetRequest
	if r.Body != nil {
		// Reset accepts an empty body.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	writeJSON(w, http.StatusOK, s.session.Handler.ResetHandler(r.Context(), req))
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voterdomainerrors.ErrMalformedNIC),
		errors.Is(err, voterdomainerrors.ErrEmptyPassword),
		errors.Is(err, votedomainerrors.ErrInvalidCastInput),
		errors.Is(err, ballotdomainerrors.ErrInvalidEligibilityInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, sessiondomainerrors.ErrInvalidTransition),
		errors.Is(err, sessiondomainerrors.ErrNoSelection):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, sessiondomainerrors.ErrUnknownCandidate):
		writeError(w, http.StatusUnprocessableEntity, "unknown_candidate", err.Error())
	case errors.Is(err, votedomainerrors.ErrDistrictUnavailable):
		writeError(w, http.StatusConflict, "district_unavailable", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "upstream_failure", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, sessionhttp.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
