package handler

// BroadcastMatchEvent implements service.Broadcaster using the WebSocket hub.
func (h *Hub) BroadcastMatchEvent(matchID string, eventType string, data any) {
	h.BroadcastToMatch(matchID, WSEvent{
		Type:    eventType,
		MatchID: matchID,
		Data:    data,
	})
}

// BroadcastToPlayer delivers a private event (vision results) to one user only.
func (h *Hub) BroadcastToPlayer(matchID, userID string, eventType string, data any) {
	h.BroadcastToUser(userID, WSEvent{
		Type:    eventType,
		MatchID: matchID,
		Data:    data,
	})
}
