package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "glimpse/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a chi router with all application routes.
func NewRouter(sessionHandler *SessionHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness probe for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Standard JSON routes get a request timeout so client connections
		// cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Post("/sessions", sessionHandler.HandleCreateSession)
			r.Get("/sessions", sessionHandler.HandleListSessions)
			r.Get("/sessions/{sessionID}", sessionHandler.HandleGetSession)
			r.Put("/sessions/{sessionID}/title", sessionHandler.HandleRenameSession)
			r.Delete("/sessions/{sessionID}", sessionHandler.HandleDeleteSession)
			r.Post("/sessions/{sessionID}/messages", sessionHandler.HandleSubmitMessage)
		})

		// The turn stream holds its connection open for the whole
		// generation, so it must not run under the timeout middleware.
		r.Group(func(r chi.Router) {
			r.Get("/sessions/{sessionID}/stream", sessionHandler.HandleStreamTurn)
		})
	})

	// Static front-end for simplified local development; a production
	// deployment would put this behind a real web server.
	fileServer := http.FileServer(http.Dir("./web/dist"))
	r.Handle("/*", http.StripPrefix("/", fileServer))

	return r
}
