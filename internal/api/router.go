package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/helpdesk-be/internal/api/handlers"
	"github.com/isdelr/helpdesk-be/internal/auth"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(userHandler *handlers.UserHandler, tokens auth.TokenValidator, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			// Public endpoints
			r.Post("/", userHandler.Create)
			r.Post("/login", userHandler.Login)

			// Authenticated endpoints
			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(tokens))
				r.Get("/", userHandler.GetAll)
				r.Route("/{userId}", func(r chi.Router) {
					r.Get("/", userHandler.Get)
					r.Put("/", userHandler.Update)
					r.Delete("/", userHandler.Delete)
					r.Get("/tickets", userHandler.GetTickets)
					r.Get("/refunds", userHandler.GetRefunds)
				})
			})
		})
	})

	return r
}
