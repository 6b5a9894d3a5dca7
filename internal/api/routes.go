package api

import (
	"net/http"

	"svgshare/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Routes builds the full HTTP surface: UI pages and assets, the OAuth flow,
// public share links, the protected JSON API and the operational endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.MetricsMiddleware)

	if origins := s.config.CORS.AllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "If-None-Match"},
			ExposedHeaders:   []string{"ETag"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	limited := s.rateLimit()

	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.With(s.SessionMiddleware).Get("/ws", s.ServeWsHandler)

	r.Route("/auth", func(r chi.Router) {
		r.With(limited).Get("/login", s.LoginHandler)
		r.With(limited).Get("/callback", s.CallbackHandler)
		r.Get("/logout", s.LogoutHandler)
		r.With(s.SessionMiddleware).Get("/me", s.MeHandler)
	})

	r.With(limited).Get("/raw/{shareId}", s.RawShareHandler)

	r.Route("/api", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Not Found", http.StatusNotFound)
		})

		r.With(limited).Get("/s/{shareId}", s.PublicShareHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.SessionMiddleware)
			r.Use(s.StatusMiddleware)

			r.Get("/files", s.ListFilesHandler)
			r.Post("/files", s.UploadFileHandler)
			r.Patch("/files/{id}", s.RenameFileHandler)
			r.Delete("/files/{id}", s.DeleteFileHandler)
			r.Get("/files/{id}/content", s.GetFileContentHandler)
			r.Put("/files/{id}/content", s.ReplaceFileContentHandler)
			r.Post("/files/{id}/share", s.ShareFileHandler)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.AdminMiddleware)
				r.Get("/users", s.ListUsersHandler)
				r.Patch("/users/{id}/status", s.UpdateUserStatusHandler)
				r.Patch("/users/{id}/quota", s.UpdateUserQuotaHandler)
			})
		})
	})

	r.Get("/", s.servePage("index.html"))
	r.Get("/dashboard", s.servePage("dashboard.html"))
	r.Get("/admin", s.servePage("admin.html"))
	r.Get("/s/{shareId}", s.servePage("share.html"))
	r.NotFound(s.AssetHandler)

	return r
}

func (s *Server) rateLimit() func(http.Handler) http.Handler {
	if s.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimit.Middleware(s.limiter, s.logger)
}
