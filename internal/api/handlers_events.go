package api

import (
	"net/http"
)

// handleEventsWS handles GET /api/v1/events/ws: a websocket stream of
// the authenticated user's events.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims := claimsFrom(r)
	s.hub.ServeWS(w, r, claims.UserID)
}
