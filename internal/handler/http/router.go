package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/dtr-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	FrontendURL string
	LogLevel    slog.Level
}

func NewRouter(
	cfg RouterConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	m *metrics.Metrics,
	limiter *middleware.RateLimiter,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	adminHandler AdminHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(m.Instrument)
	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/me", authHandler.Me)

			r.Route("/dtr", func(r chi.Router) {
				r.Get("/today", attendanceHandler.Today)
				r.Get("/records", attendanceHandler.History)
				r.Get("/weekly-summary", attendanceHandler.WeeklySummary)

				r.Group(func(r chi.Router) {
					r.Use(limiter.Handler)
					r.Post("/clock-in", attendanceHandler.ClockIn)
					r.Post("/clock-out", attendanceHandler.ClockOut)
				})
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/roster", adminHandler.Roster)
				r.Get("/summary", adminHandler.Summary)
				r.Get("/active-today", adminHandler.ActiveToday)
				r.Patch("/users/{userID}/approve", adminHandler.Approve)
				r.Patch("/users/{userID}/reject", adminHandler.Reject)
			})
		})
	})
	return r
}
