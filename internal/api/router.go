package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medibook/hospital-management/internal/appointment"
	"github.com/medibook/hospital-management/internal/auth"
	"github.com/medibook/hospital-management/internal/availability"
	"github.com/medibook/hospital-management/internal/directory"
	redisclient "github.com/medibook/hospital-management/internal/redis"
)

type RouterConfig struct {
	Auth         *auth.Service
	Directory    *directory.Service
	Availability *availability.Store
	Appointments *appointment.Service
	Limiter      redisclient.RateLimiter
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Logger       zerolog.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	if cfg.Limiter != nil {
		r.Use(RateLimitMiddleware(cfg.Limiter, cfg.Logger))
	}

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Auth
	r.Post("/auth/register", registerHandler(cfg.Auth))
	r.Post("/auth/login", loginHandler(cfg.Auth))

	// Everything below requires a valid token
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Auth))

		// Shared directory reads
		r.Get("/specializations", listSpecializationsHandler(cfg.Directory))
		r.Get("/doctors", listDoctorsHandler(cfg.Directory))
		r.Get("/doctors/{id}", getDoctorHandler(cfg.Directory))
		r.Get("/doctors/{id}/availability", doctorAvailabilityHandler(cfg.Availability, cfg.Directory))

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireRole(auth.RoleAdmin))

			r.Post("/specializations", createSpecializationHandler(cfg.Directory))
			r.Post("/doctors", createDoctorHandler(cfg.Directory))
			r.Put("/doctors/{id}", updateDoctorHandler(cfg.Directory))
			r.Delete("/doctors/{id}", deleteDoctorHandler(cfg.Directory))
			r.Post("/patients", createPatientHandler(cfg.Directory))
			r.Get("/patients", listPatientsHandler(cfg.Directory))
			r.Get("/patients/{id}", getPatientHandler(cfg.Directory))
			r.Put("/patients/{id}", updatePatientHandler(cfg.Directory))
			r.Get("/appointments", adminAppointmentsHandler(cfg.Appointments))
			r.Get("/appointments/{id}", getAppointmentHandler(cfg.Appointments))
		})

		// Doctor
		r.Route("/doctor", func(r chi.Router) {
			r.Use(RequireRole(auth.RoleDoctor))

			r.Get("/availability", myAvailabilityHandler(cfg.Availability, cfg.Directory))
			r.Post("/availability", setAvailabilityHandler(cfg.Availability, cfg.Directory))
			r.Delete("/availability/{id}", deleteAvailabilityHandler(cfg.Availability, cfg.Directory))

			r.Get("/appointments", doctorAppointmentsHandler(cfg.Appointments, cfg.Directory))
			r.Post("/appointments/{id}/cancel", cancelDoctorAppointmentHandler(cfg.Appointments, cfg.Directory))
			r.Post("/appointments/{id}/treatment", createTreatmentHandler(cfg.Appointments, cfg.Directory))

			r.Get("/treatments", doctorTreatmentsHandler(cfg.Appointments, cfg.Directory))
			r.Put("/treatments/{id}", updateTreatmentHandler(cfg.Appointments))
			r.Get("/patients/{id}/history", patientHistoryHandler(cfg.Appointments))
		})

		// Patient
		r.Route("/my", func(r chi.Router) {
			r.Use(RequireRole(auth.RolePatient))

			r.Post("/appointments", bookAppointmentHandler(cfg.Appointments, cfg.Directory))
			r.Get("/appointments", myAppointmentsHandler(cfg.Appointments, cfg.Directory))
			r.Post("/appointments/{id}/cancel", cancelOwnAppointmentHandler(cfg.Appointments, cfg.Directory))
			r.Get("/treatments", myTreatmentsHandler(cfg.Appointments, cfg.Directory))
		})
	})

	return r
}
