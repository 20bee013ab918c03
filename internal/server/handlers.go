package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/core"
)

// TranslateRequest is the body of POST /translate. Empty from and to fall
// back to the server defaults.
type TranslateRequest struct {
	Expression string `json:"expression"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
}

// TranslateResponse is the success body of POST /translate.
type TranslateResponse struct {
	Result string `json:"result"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// BackendsResponse is the body of GET /backends.
type BackendsResponse struct {
	Backends []string `json:"backends"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListBackends(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, BackendsResponse{Backends: backend.List()})
}

func (s *Server) handleShowBackend(w http.ResponseWriter, r *http.Request) {
	b, err := backend.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_backend", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Expression == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("expression is required"))
		return
	}

	from, err := s.resolve(req.From, s.cfg.DefaultFrom)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_backend", err)
		return
	}
	to, err := s.resolve(req.To, s.cfg.DefaultTo)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_backend", err)
		return
	}

	result, err := s.translator.Translate(req.Expression, from, to)
	if err != nil {
		s.logger.Debug("translation failed", "id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusUnprocessableEntity, core.KindOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, TranslateResponse{Result: result, From: from.Name(), To: to.Name()})
}

func (s *Server) resolve(name, fallback string) (*backend.Backend, error) {
	if name == "" {
		name = fallback
	}
	if name == "" {
		return nil, backend.ErrBackendRequired
	}
	return backend.Lookup(name)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}
