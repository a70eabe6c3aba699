package api

import (
	"net/http"

	"github.com/miyabe/wordage/internal/logger"
)

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns a readiness probe. The service cannot serve questions
// from an empty word bank, so readiness tracks the bank size.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Bank.Size() == 0 {
		logger.FromContext(r.Context()).Warn("readiness check failed - word bank is empty")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Word bank empty"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
