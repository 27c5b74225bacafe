package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/caseflow/ratingbot/internal/domain/entities"
)

// SurveyFlow defines the survey operations used by the interaction handler.
type SurveyFlow interface {
	HandleCallback(ctx context.Context, userID int64, data string) *entities.RenderIntent
	HandleMessage(ctx context.Context, userID int64, text string) (*entities.RenderIntent, bool)
	InviteOnce(ctx context.Context, userID int64) *entities.RenderIntent
}

// CaseEvents records case counters for the eligibility gate.
type CaseEvents interface {
	IncrementStat(ctx context.Context, userID int64, caseID, stat string) error
}

// InteractionHandler is the stateless edge of the survey flow: the chat
// transport posts one decoded user interaction and renders whatever intent
// comes back. Each request is independent; all conversation state lives in
// storage and the session marker.
type InteractionHandler struct {
	flow   SurveyFlow
	events CaseEvents
}

// NewInteractionHandler creates a new interaction handler.
func NewInteractionHandler(flow SurveyFlow, events CaseEvents) *InteractionHandler {
	return &InteractionHandler{flow: flow, events: events}
}

type callbackRequest struct {
	UserID int64  `json:"user_id"`
	Data   string `json:"data"`
}

type messageRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

type caseCompletedRequest struct {
	UserID int64  `json:"user_id"`
	CaseID string `json:"case_id"`
}

// SubmitCallback handles POST /api/interactions/callback. A 204 means the
// command belongs to another subsystem and the transport should route it on.
func (h *InteractionHandler) SubmitCallback(w http.ResponseWriter, r *http.Request) {
	var payload callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.UserID == 0 {
		respondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	intent := h.flow.HandleCallback(r.Context(), payload.UserID, payload.Data)
	if intent == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, intent)
}

// SubmitMessage handles POST /api/interactions/message. A 204 means the
// flow is not expecting free text from this user.
func (h *InteractionHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload messageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.UserID == 0 {
		respondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	intent, handled := h.flow.HandleMessage(r.Context(), payload.UserID, payload.Text)
	if !handled {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, intent)
}

// CaseCompleted handles POST /api/events/case-completed: records the
// completion counter and, the first time a user qualifies, returns the
// survey invitation to show them.
func (h *InteractionHandler) CaseCompleted(w http.ResponseWriter, r *http.Request) {
	var payload caseCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.UserID == 0 || payload.CaseID == "" {
		respondWithError(w, http.StatusBadRequest, "user_id and case_id are required")
		return
	}

	if err := h.events.IncrementStat(r.Context(), payload.UserID, payload.CaseID, "completed"); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to record case completion")
		return
	}

	intent := h.flow.InviteOnce(r.Context(), payload.UserID)
	if intent == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, intent)
}
