package websocket

import (
	"net/http"

	ws "github.com/coder/websocket"

	"spincycle/internal/auth"
)

// HandleWebSocket upgrades the connection and runs it as a hub client for
// the authenticated caller's household.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // mobile clients connect from app webviews, not a fixed origin
		})
		if err != nil {
			hub.logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, ac.HouseholdCode)
		client.Run(r.Context())
	}
}
