package api

import (
	"net/http"

	"svgshare/internal/models"
	"svgshare/internal/websocket"
)

// @Summary      Live updates
// @Description  Upgrades to a websocket that receives file, share and account events for the signed-in user.
// @Tags         websocket
// @Security     SessionCookie
// @Success      101
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Account locked"
// @Router       /ws [get]
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user.Status == models.StatusLocked {
		http.Error(w, msgAccountLocked, http.StatusForbidden)
		return
	}
	if s.wsHub == nil {
		http.Error(w, "Live updates unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Debug("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(s.wsHub, conn, user.ID)
	if !s.wsHub.Attach(client) {
		conn.Close()
		return
	}

	go client.ReadPump()
	go client.WritePump()
}
