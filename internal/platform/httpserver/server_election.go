package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	electionerrors "pericles/contexts/election-ops/election-ledger/domain/errors"
	electionhttp "pericles/contexts/election-ops/election-ledger/transport/http"
)

// callerIdentityHeader carries the identity the edge already verified. The
// ledger trusts it; this server never authenticates.
const callerIdentityHeader = "X-Caller-Id"

func (s *Server) registerElectionRoutes() {
	s.mux.HandleFunc("POST /api/election/v1/candidates", s.handleAddCandidate)
	s.mux.HandleFunc("GET /api/election/v1/candidates/{candidate_id}", s.handleGetCandidate)
	s.mux.HandleFunc("GET /api/election/v1/candidates/{candidate_id}/results", s.handleGetResults)
	s.mux.HandleFunc("POST /api/election/v1/voters", s.handleRegisterVoter)
	s.mux.HandleFunc("GET /api/election/v1/voters/{address}", s.handleVoterProfile)
	s.mux.HandleFunc("POST /api/election/v1/start", s.handleStartElection)
	s.mux.HandleFunc("POST /api/election/v1/end", s.handleEndElection)
	s.mux.HandleFunc("POST /api/election/v1/votes", s.handleCastVote)
	s.mux.HandleFunc("POST /api/election/v1/delegations", s.handleDelegateVote)
	s.mux.HandleFunc("GET /api/election/v1/winner", s.handleWinner)
	s.mux.HandleFunc("GET /api/election/v1/tally-board", s.handleTallyBoard)
	s.mux.HandleFunc("GET /api/election/v1/summary", s.handleSummary)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var req electionhttp.AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Handler.AddCandidateHandler(r.Context(), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var req electionhttp.RegisterVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeElectionError(w, http.StatusBadRequest, "invalid_address", "address is required")
		return
	}
	resp, err := s.election.Handler.RegisterVoterHandler(r.Context(), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleStartElection(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	if err := s.election.Handler.StartElectionHandler(r.Context(), caller); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEndElection(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	if err := s.election.Handler.EndElectionHandler(r.Context(), caller); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var req electionhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Handler.CastVoteHandler(r.Context(), caller, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelegateVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var req electionhttp.DelegateVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if err := s.election.Handler.DelegateVoteHandler(r.Context(), caller, req); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := candidatePathID(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.GetCandidateHandler(r.Context(), candidateID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := candidatePathID(w, r)
	if !ok {
		return
	}
	resp, err := s.election.Handler.ResultsHandler(r.Context(), candidateID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoterProfile(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	writeJSON(w, http.StatusOK, s.election.Handler.VoterProfileHandler(r.Context(), address))
}

func (s *Server) handleWinner(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.WinnerHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTallyBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.election.Handler.TallyBoardHandler(r.Context()))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.election.Handler.SummaryHandler(r.Context()))
}

func callerIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get(callerIdentityHeader))
	if caller == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_identity", "verified caller identity header is required")
		return "", false
	}
	return caller, true
}

func candidatePathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	candidateID, err := strconv.Atoi(r.PathValue("candidate_id"))
	if err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_candidate_id", "candidate_id must be an integer")
		return 0, false
	}
	return candidateID, true
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrUnauthorized):
		writeElectionError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidPhase):
		writeElectionError(w, http.StatusConflict, "invalid_phase", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyRegistered):
		writeElectionError(w, http.StatusConflict, "already_registered", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyVoted):
		writeElectionError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyDelegated):
		writeElectionError(w, http.StatusConflict, "already_delegated", err.Error())
	case errors.Is(err, electionerrors.ErrDelegatedAway):
		writeElectionError(w, http.StatusConflict, "delegated_away", err.Error())
	case errors.Is(err, electionerrors.ErrSelfDelegation):
		writeElectionError(w, http.StatusBadRequest, "self_delegation", err.Error())
	case errors.Is(err, electionerrors.ErrDelegateNotRegistered):
		writeElectionError(w, http.StatusBadRequest, "delegate_not_registered", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidCandidate):
		writeElectionError(w, http.StatusNotFound, "invalid_candidate", err.Error())
	case errors.Is(err, electionerrors.ErrVoterNotFound):
		writeElectionError(w, http.StatusNotFound, "voter_not_found", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
