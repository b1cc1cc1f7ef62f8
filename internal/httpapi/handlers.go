package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/DoyleJ11/card-combat-backend/internal/hub"
	"github.com/DoyleJ11/card-combat-backend/internal/ws"
)

// Info is the side-effect-free root endpoint: a readable "is it up" answer
// plus live counts from the hub and connection registry.
func Info(h *hub.Hub, reg *ws.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			OK          bool   `json:"ok"`
			Message     string `json:"message"`
			Lobbies     int    `json:"lobbies"`
			Connections int    `json:"connections"`
		}{
			OK:          true,
			Message:     "Card Combat server running",
			Lobbies:     h.LobbyCount(),
			Connections: reg.Count(),
		})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
