package demoapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Post("/auth/login", h.Login)

	r.Route("/patients/{id}", func(r chi.Router) {
		r.Get("/", h.GetPatient)
		r.Get("/records", h.GetRecords)
		r.Get("/consultation", h.GetConsultation)
		r.Get("/medicines", h.GetMedicines)
	})

	r.Post("/symptoms", h.SubmitSymptoms)
	r.Post("/feedback", h.SubmitFeedback)
	r.Post("/upload", h.Upload)

	return r
}
