package api

import (
	"net/http"

	"github.com/aionysus/dionysus/internal/prompt"
)

// handleHealth is the liveness probe. Clients use the agent name to verify
// they reached the right backend.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"agent":  prompt.AgentName,
	})
}

// handleReady is the readiness probe. Returns 200 only when the catalogue
// database answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pool == nil {
		http.Error(w, "database pool not configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.pool.Ping(r.Context()); err != nil {
		s.logger.Error("readiness check failed", "error", err)
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
