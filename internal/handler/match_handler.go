package handler

import (
	"errors"
	"net/http"

	"github.com/palegrove/umbra/internal/auth"
	"github.com/palegrove/umbra/internal/service"
)

// MatchHandler handles match lifecycle endpoints.
type MatchHandler struct {
	matchSvc *service.MatchService
	turnSvc  *service.TurnService
	wsHub    *Hub
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(matchSvc *service.MatchService, turnSvc *service.TurnService, wsHub *Hub) *MatchHandler {
	return &MatchHandler{matchSvc: matchSvc, turnSvc: turnSvc, wsHub: wsHub}
}

// CreateMatch handles POST /api/v1/matches
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var req struct {
		Name       string `json:"name"`
		MaxPlayers int    `json:"max_players,omitempty"`
		HumanSeats int    `json:"human_seats,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.MaxPlayers == 0 {
		req.MaxPlayers = 6
	}
	if req.HumanSeats == 0 {
		req.HumanSeats = 1
	}

	match, err := h.matchSvc.CreateMatch(r.Context(), req.Name, userID, req.MaxPlayers, req.HumanSeats)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, match)
}

// ListMatches handles GET /api/v1/matches
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	filter := r.URL.Query().Get("filter")
	matches, err := h.matchSvc.ListMatches(r.Context(), userID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// GetMatch handles GET /api/v1/matches/{id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	match, err := h.matchSvc.GetMatch(r.Context(), matchID)
	if err != nil {
		if errors.Is(err, service.ErrMatchNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// JoinMatch handles POST /api/v1/matches/{id}/join
func (h *MatchHandler) JoinMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.matchSvc.JoinMatch(r.Context(), matchID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrMatchNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrMatchFull) || errors.Is(err, service.ErrMatchNotWaiting) || errors.Is(err, service.ErrAlreadyJoined) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	h.wsHub.BroadcastToMatch(matchID, WSEvent{
		Type:    EventPlayerJoined,
		MatchID: matchID,
		Data:    map[string]string{"user_id": userID},
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

// StartMatch handles POST /api/v1/matches/{id}/start
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	match, err := h.turnSvc.StartMatch(r.Context(), matchID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrMatchNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotCreator) || errors.Is(err, service.ErrNotEnough) || errors.Is(err, service.ErrMatchNotWaiting) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// DeleteMatch handles DELETE /api/v1/matches/{id}
func (h *MatchHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.matchSvc.DeleteMatch(r.Context(), matchID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrMatchNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrMatchNotWaiting) {
			status = http.StatusBadRequest
		} else if errors.Is(err, service.ErrNotCreator) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
