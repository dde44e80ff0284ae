// internal/server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/models"
	"creator-pilot/internal/session"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads an optional JSON body into dst. An empty body leaves dst
// untouched.
func decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.NewInvalidInputError("malformed request body: " + err.Error())
	}
	return nil
}

// respond writes the resulting state or the error.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, st session.State, err error) {
	if err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.version,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"session": "ok"}
	status := http.StatusOK
	if s.redis != nil {
		if err := s.redis.Ping(r.Context()); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}
	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Screen models.Screen `json:"screen"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.Navigate(body.Screen)
	s.respond(w, r, st, err)
}

// --- onboarding ---

func (s *Server) handleUpdateOnboarding(w http.ResponseWriter, r *http.Request) {
	var body session.OnboardingInput
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.UpdateOnboarding(body)
	s.respond(w, r, st, err)
}

func (s *Server) handleOnboardingStep(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Step int `json:"step"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.SetOnboardingStep(body.Step)
	s.respond(w, r, st, err)
}

func (s *Server) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.CompleteOnboarding(r.Context())
	s.respond(w, r, st, err)
}

// --- insights ---

func (s *Server) handleToggleInsight(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.ToggleInsight(r.PathValue("id"))
	s.respond(w, r, st, err)
}

func (s *Server) handleAnalyzeInsight(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Focus string `json:"focus"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.AnalyzeInsight(r.Context(), body.Focus)
	s.respond(w, r, st, err)
}

func (s *Server) handleConstraints(w http.ResponseWriter, r *http.Request) {
	var body models.Constraints
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.UpdateConstraints(body)
	s.respond(w, r, st, err)
}

func (s *Server) handleApplyLearning(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.ApplyLearning()
	s.respond(w, r, st, err)
}

func (s *Server) handleDismissReflection(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.DismissReflection()
	s.respond(w, r, st, err)
}

// --- ideas ---

func (s *Server) handleGenerateIdeas(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.GenerateIdeas(r.Context())
	s.respond(w, r, st, err)
}

func (s *Server) handleRefineIdea(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.RefineIdea(r.Context())
	s.respond(w, r, st, err)
}

func (s *Server) handleSelectIdea(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IdeaID string `json:"ideaId"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.SelectIdea(body.IdeaID)
	s.respond(w, r, st, err)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.ClearSelection()
	s.respond(w, r, st, err)
}

func (s *Server) handleIdeaStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.IdeaStatus `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.SetIdeaStatus(r.PathValue("id"), body.Status)
	s.respond(w, r, st, err)
}

func (s *Server) handleLockDirection(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.LockDirection(r.PathValue("id"))
	s.respond(w, r, st, err)
}

func (s *Server) handleRefinement(w http.ResponseWriter, r *http.Request) {
	var body models.RefinementSliders
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.UpdateRefinementSliders(body)
	s.respond(w, r, st, err)
}

func (s *Server) handleContextAction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action models.ContextAction `json:"action"`
		IdeaID string               `json:"ideaId"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.ContextAction(r.Context(), body.Action, body.IdeaID)
	s.respond(w, r, st, err)
}

func (s *Server) handleCloseContextRail(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.CloseContextRail()
	s.respond(w, r, st, err)
}

func (s *Server) handleApproach(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Approach models.Approach `json:"approach"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.SetApproach(body.Approach)
	s.respond(w, r, st, err)
}

// --- draft ---

func (s *Server) handleTurnIntoDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IdeaID string `json:"ideaId"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.TurnIntoDraft(r.Context(), body.IdeaID)
	s.respond(w, r, st, err)
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.UpdateDraft(models.DraftSection(r.PathValue("section")), body.Text)
	s.respond(w, r, st, err)
}

func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Instruction string `json:"instruction"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.RewriteSection(r.Context(), models.DraftSection(r.PathValue("section")), body.Instruction)
	s.respond(w, r, st, err)
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	var body models.VoicePreset
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.UpdateVoice(body)
	s.respond(w, r, st, err)
}

func (s *Server) handleMatchMyPosts(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.SetMatchMyPosts(body.Enabled)
	s.respond(w, r, st, err)
}

func (s *Server) handlePreFlight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"checklist": s.controller.PreFlight()})
}

func (s *Server) handlePublishIntent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Intent models.PublishIntent `json:"intent"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.SetPublishIntent(body.Intent)
	s.respond(w, r, st, err)
}

// --- calendar ---

func (s *Server) handleSaveToCalendar(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.SaveToCalendar()
	s.respond(w, r, st, err)
}

func (s *Server) handlePostStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.PostStatus `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.SetPostStatus(r.PathValue("id"), body.Status)
	s.respond(w, r, st, err)
}

func (s *Server) handleReturnToDashboard(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.ReturnToDashboard()
	s.respond(w, r, st, err)
}

// --- assistant ---

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Topic string `json:"topic"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	st, err := s.controller.LookupTrend(r.Context(), body.Topic)
	s.respond(w, r, st, err)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := decode(r, &body); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	reply, err := s.controller.Chat(r.Context(), body.Message)
	if err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
