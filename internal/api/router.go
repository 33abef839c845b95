// Package api serves grading and the question bank over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/quizkit/internal/grading"
)

// Options configures the router.
type Options struct {
	// BankPath is the question bank served by /questions.
	BankPath string

	// CORSOrigins lists allowed origins. Empty allows any origin.
	CORSOrigins []string

	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration

	// Tiers names the similarity tiers, reported by /healthz.
	Tiers []string
}

// NewRouter mounts the grading API.
func NewRouter(svc *grading.Service, opts Options) http.Handler {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/ai/grade", GradeHandler(svc))
	r.Route("/questions", func(qr chi.Router) {
		qr.Get("/", ListQuestionsHandler(opts.BankPath))
		qr.Get("/{id}", GetQuestionHandler(opts.BankPath))
		qr.Post("/{id}/grade", GradeQuestionHandler(svc, opts.BankPath))
	})
	r.Get("/healthz", HealthHandler(opts.Tiers))

	return r
}
