package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mockprep/interview/internal/handlers"
	"mockprep/interview/internal/middleware"
	"mockprep/interview/internal/models"
)

// InterviewRoutes mounts the session API. Every route runs behind auth; the
// mutating ones are additionally rate limited per owner.
func InterviewRoutes(router *chi.Mux, h *handlers.InterviewHandler, auth func(http.Handler) http.Handler, limiter *middleware.RateLimiter) {
	router.Route("/api/v1/interview", func(r chi.Router) {
		r.Use(auth)

		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.With(middleware.ValidateRequest[*models.StartInterviewRequest]()).Post("/start", h.StartHandler)
			r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/answer", h.AnswerHandler)
			r.Post("/sessions/{id}/evaluate", h.EvaluateHandler)
		})

		r.Get("/sessions", h.ListHandler)
		r.Get("/sessions/{id}", h.GetHandler)
		r.Delete("/sessions/{id}", h.DeleteHandler)
	})
}
