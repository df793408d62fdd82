package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cafe-bestellbot/internal/handler/webhook"
	"cafe-bestellbot/internal/service/conversation"
)

// NewRouter wires HTTP routes to the conversation engine.
func NewRouter(engine *conversation.Engine) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	webhook.New(engine).RegisterRoutes(r)

	return r
}
