package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/nebula-guide/internal/session"
)

// maxBodyBytes bounds request bodies; actions are a few hundred bytes at most
const maxBodyBytes = 64 << 10

// loadWizard resolves the {id} URL parameter to a stored session
func (s *Server) loadWizard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !session.ValidID(id) {
			respondError(w, http.StatusNotFound, "not_found", "wizard not found")
			return
		}

		sess, err := s.sessions.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				respondError(w, http.StatusNotFound, "not_found", "wizard not found")
				return
			}
			slog.Error("failed to load wizard", "error", err, "wizard_id", id)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load wizard")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
	})
}
