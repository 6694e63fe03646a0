package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-rune-draft/internal/catalog"
	"github.com/DoyleJ11/lol-rune-draft/internal/hub"
	"github.com/DoyleJ11/lol-rune-draft/internal/ws"
)

type Deps struct {
	Hub       *hub.Hub
	Champions *catalog.Champions
	Engine    Readiness
	History   History
	WS        ws.Options
	Log       *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	if d.WS.Log == nil {
		d.WS.Log = log
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public routes
	r.Post("/lobbies", CreateLobby(d.Hub, log))
	r.Get("/healthz", Healthz)
	r.Get("/readyz", Readyz(d.Engine))
	r.Get("/champions", Champions(d.Champions))
	r.Get("/drafts", Drafts(d.History, log))
	r.Get("/ws", ws.Handler(d.Hub, d.WS))
	return r
}
