package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	frontend_mw "github.com/tasks-dev/tasks/frontend/internal/middleware"
	"github.com/tasks-dev/tasks/frontend/internal/session"
	"github.com/tasks-dev/tasks/frontend/internal/setup"
	"github.com/tasks-dev/tasks/shared/csrf"
	mw "github.com/tasks-dev/tasks/shared/middleware"
	"github.com/tasks-dev/tasks/shared/middleware/metrics"
)

func SetupRouter(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(deps.Public.SecureCookies, mw.APICSP))
	if len(deps.Public.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.Public.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", csrf.HeaderName},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Public routes
	r.Get("/health", deps.Handler.Health)
	r.Get("/ready", deps.Handler.Ready)
	r.Handle("/metrics", metrics.Handler())

	sessions := frontend_mw.NewSession(deps.Jwt, deps.Registry, deps.Public.SecureCookies, deps.Public.SessionTTL)
	r.Route("/api", func(r chi.Router) {
		r.Use(sessions.Handler())
		r.Use(frontend_mw.GenerateCSRFToken(frontend_mw.CSRFConfig{SecureCookies: deps.Public.SecureCookies}))
		r.Use(frontend_mw.ValidateCSRFToken())
		if deps.Limiter != nil {
			r.Use(mw.RateLimit(deps.Limiter, sessionOrIP))
		}

		r.Get("/state", deps.Handler.GetState)
		r.Post("/threads/init", deps.Handler.InitThreads)
		r.Post("/threads/{id}/select", deps.Handler.SelectThread)
		r.Post("/boards/reload", deps.Handler.ReloadBoards)
		r.Post("/board/init", deps.Handler.InitBoard)
		r.Put("/board", deps.Handler.SaveBoard)
		r.Post("/board/close", deps.Handler.CloseBoard)
	})

	return r
}

// sessionOrIP keys rate limiting by session, falling back to the client IP.
func sessionOrIP(r *http.Request) (string, error) {
	if id, ok := session.IDFromContext(r.Context()); ok {
		return "session:" + id, nil
	}
	return mw.GetIP(r)
}
