package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/terra-clan/nebula-guide/internal/health"
	"github.com/terra-clan/nebula-guide/internal/scoring"
	"github.com/terra-clan/nebula-guide/internal/session"
	"github.com/terra-clan/nebula-guide/internal/wizard"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondWizardError maps a rejected action to its status code.
// The stored state is untouched in every case.
func respondWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, wizard.ErrStepIncomplete):
		respondError(w, http.StatusConflict, "step_incomplete", err.Error())
	case errors.Is(err, wizard.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, wizard.ErrWrongScreen):
		respondError(w, http.StatusConflict, "wrong_screen", err.Error())
	default:
		slog.Error("failed to apply action", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to apply action")
	}
}

// WizardResponse is the body returned for every wizard read or update
type WizardResponse struct {
	ID   string      `json:"id"`
	View wizard.View `json:"view"`
}

// ReportResponse is the content of the result screen
type ReportResponse struct {
	Title    string               `json:"title"`
	Profile  wizard.Profile       `json:"profile"`
	Mood     wizard.MoodSelection `json:"mood"`
	Scores   map[int]int          `json:"scores"`
	Analysis scoring.Analysis     `json:"analysis"`
}

// ShareResponse carries the prepared share link
type ShareResponse struct {
	URL string `json:"url"`
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	results := s.health.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	for name, err := range results {
		if err != nil {
			slog.Warn("dependency not ready", "dependency", name, "error", err)
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	if !health.Healthy(results) {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}

// Questionnaire handlers

func (s *Server) handleGetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.controller.Questionnaire())
}

// Wizard handlers

func (s *Server) handleCreateWizard(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.controller.Start())

	if err := s.sessions.Put(r.Context(), sess); err != nil {
		slog.Error("failed to store wizard", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create wizard")
		return
	}

	slog.Debug("wizard created", "wizard_id", sess.ID)
	respondJSON(w, http.StatusCreated, s.wizardResponse(sess))
}

func (s *Server) handleGetWizard(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, s.wizardResponse(sess))
}

func (s *Server) handleDeleteWizard(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "wizard not found")
			return
		}
		slog.Error("failed to delete wizard", "error", err, "wizard_id", sess.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete wizard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "wizard deleted",
	})
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var action wizard.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	next, err := s.controller.Dispatch(r.Context(), sess.State, action)
	if err != nil {
		slog.Debug("action rejected", "wizard_id", sess.ID, "kind", action.Kind, "error", err)
		respondWizardError(w, err)
		return
	}

	sess.State = next
	if err := s.sessions.Put(r.Context(), sess); err != nil {
		slog.Error("failed to store wizard", "error", err, "wizard_id", sess.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to store wizard")
		return
	}

	respondJSON(w, http.StatusOK, s.wizardResponse(sess))
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	st := sess.State

	if st.Screen != wizard.ScreenResult {
		respondError(w, http.StatusConflict, "report_unavailable", "the report is only available on the result screen")
		return
	}

	respondJSON(w, http.StatusOK, ReportResponse{
		Title:    wizard.Title(st),
		Profile:  st.Profile,
		Mood:     st.Mood,
		Scores:   st.Scores,
		Analysis: wizard.Analyze(s.controller.Questionnaire(), st),
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		page = s.config.PublicURL
	}

	if page == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "page is required")
		return
	}
	if u, err := url.Parse(page); err != nil || !u.IsAbs() {
		respondError(w, http.StatusBadRequest, "validation_error", "page must be an absolute URL")
		return
	}

	respondJSON(w, http.StatusOK, ShareResponse{URL: wizard.ShareLink(page)})
}

func (s *Server) wizardResponse(sess *session.Session) WizardResponse {
	return WizardResponse{
		ID:   sess.ID,
		View: s.controller.View(sess.State),
	}
}
