package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/palegrove/umbra/internal/auth"
	"github.com/palegrove/umbra/internal/service"
	"github.com/palegrove/umbra/pkg/umbra"
)

// IntentHandler handles gameplay endpoints: intents, snapshots, events.
type IntentHandler struct {
	turnSvc *service.TurnService
}

// NewIntentHandler creates an IntentHandler.
func NewIntentHandler(turnSvc *service.TurnService) *IntentHandler {
	return &IntentHandler{turnSvc: turnSvc}
}

// ApplyIntent handles POST /api/v1/matches/{id}/intents
func (h *IntentHandler) ApplyIntent(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var in umbra.Intent
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Type == "" {
		writeError(w, http.StatusBadRequest, "intent type is required")
		return
	}

	if err := h.turnSvc.ApplyIntent(r.Context(), matchID, userID, in); err != nil {
		var rej *umbra.RejectError
		if errors.As(err, &rej) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":  rej.Message,
				"reason": string(rej.Code),
			})
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrMatchNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrMatchNotActive) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	snap, err := h.turnSvc.PrivateSnapshot(r.Context(), matchID, userID)
	if err != nil {
		// spectator intents should not happen, but fall back to public view
		pub, perr := h.turnSvc.PublicSnapshot(r.Context(), matchID)
		if perr != nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
			return
		}
		writeJSON(w, http.StatusOK, pub)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// MovementChoices handles GET /api/v1/matches/{id}/choices
func (h *IntentHandler) MovementChoices(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	choices, err := h.turnSvc.MovementChoices(r.Context(), matchID, userID)
	if err != nil {
		var rej *umbra.RejectError
		if errors.As(err, &rej) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":  rej.Message,
				"reason": string(rej.Code),
			})
			return
		}
		if errors.Is(err, service.ErrMatchNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zones": choices})
}

// PublicSnapshot handles GET /api/v1/matches/{id}/snapshot
func (h *IntentHandler) PublicSnapshot(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")

	snap, err := h.turnSvc.PublicSnapshot(r.Context(), matchID)
	if err != nil {
		if errors.Is(err, service.ErrMatchNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		if errors.Is(err, service.ErrMatchNotActive) {
			writeError(w, http.StatusBadRequest, "match is not active")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PrivateSnapshot handles GET /api/v1/matches/{id}/snapshot/me
func (h *IntentHandler) PrivateSnapshot(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	snap, err := h.turnSvc.PrivateSnapshot(r.Context(), matchID, userID)
	if err != nil {
		if errors.Is(err, service.ErrMatchNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		if errors.Is(err, service.ErrMatchNotActive) {
			writeError(w, http.StatusBadRequest, "match is not active")
			return
		}
		if errors.Is(err, umbra.ErrPlayerNotFound) {
			writeError(w, http.StatusForbidden, "you are not in this match")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ListEvents handles GET /api/v1/matches/{id}/events?after=seq
func (h *IntentHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	afterSeq := 0
	if after := r.URL.Query().Get("after"); after != "" {
		n, err := strconv.Atoi(after)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid after parameter")
			return
		}
		afterSeq = n
	}

	events, err := h.turnSvc.Events(r.Context(), matchID, userID, afterSeq)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, events)
}
