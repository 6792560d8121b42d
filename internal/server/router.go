package server

import (
	"net/http"

	"ecotrack-backend/internal/handlers"
	"ecotrack-backend/internal/metrics"
	customMiddleware "ecotrack-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps is everything the router wires together.
type Deps struct {
	Auth        *handlers.AuthHandler
	Feedback    *handlers.FeedbackHandler
	Diagnostics *handlers.DiagnosticsHandler
	Realtime    *handlers.RealtimeHandler
	Verifier    customMiddleware.TokenVerifier
	Metrics     *metrics.Metrics
	Origins     []string
	Log         *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestLogger(d.Log))
	r.Use(middleware.Recoverer)
	r.Use(d.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", d.Diagnostics.Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	// Realtime channel, open like the REST login
	r.Get("/ws", d.Realtime.Subscribe)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", d.Auth.Login)

		// Protected routes (JWT required)
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.JWTAuth(d.Verifier, d.Log))

			r.Get("/test", d.Diagnostics.TestConnection)
			r.Post("/feedback", d.Feedback.SubmitFeedback)
			r.Get("/feedback", d.Feedback.ListFeedback)
		})
	})

	return r
}
