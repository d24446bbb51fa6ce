package sync

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/repforge/repforge/internal/errors"
)

// Handler returns the HTTP surface for the backend side of sync.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sync/push", s.handlePush)
	mux.HandleFunc("GET /sync/pull", s.handlePull)
	return mux
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var req PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	resp, err := s.Push(r.Context(), req)
	if err != nil {
		s.logger.LogAttrs(r.Context(), slog.LevelError, "push failed", errors.SlogError(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, r, resp)
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Pull(r.Context())
	if err != nil {
		s.logger.LogAttrs(r.Context(), slog.LevelError, "pull failed", errors.SlogError(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, r, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.LogAttrs(r.Context(), slog.LevelError, "encode response failed", errors.SlogError(err))
	}
}
