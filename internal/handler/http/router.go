package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/config"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Attendance AttendanceHandler
	Roster     RosterHandler
	Sweep      SweepHandler
}

func NewRouter(JWTService jwt.Service, app config.AppConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fieldops"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Shared-secret trigger for external schedulers
		r.Route("/cron", func(r chi.Router) {
			r.Get("/attendance-sweep", h.Sweep.Trigger)
			r.Post("/attendance-sweep", h.Sweep.Trigger)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).
					Get("/me", h.Attendance.GetMyAttendance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/", h.Attendance.List)
					r.Get("/today", h.Attendance.Today)
				})

				r.Route("/roster", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRosterView))
					r.Get("/", h.Roster.Monthly)
					r.With(middleware.RequirePermission(user.PermissionRosterExport)).
						Get("/export", h.Roster.Export)
					r.Get("/{userId}", h.Roster.TechnicianMonth)
				})
			})
		})
	})
	return r
}
