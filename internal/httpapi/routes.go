package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/card-combat-backend/internal/hub"
	"github.com/DoyleJ11/card-combat-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, reg *ws.Registry, logger *zap.Logger, originPatterns []string) http.Handler {
	r := chi.NewRouter()

	r.Get("/", Info(h, reg))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, reg, logger, originPatterns))
	return r
}
