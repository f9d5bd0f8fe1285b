// Package api serves the command resolution and flipbook HTTP endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical/flipbook-studio/internal/flipbook"
	"github.com/spherical/flipbook-studio/internal/observability"
	"github.com/spherical/flipbook-studio/internal/pdf"
	"github.com/spherical/flipbook-studio/internal/voice"
)

// Deps holds the services the router dispatches to.
type Deps struct {
	Classifier     *voice.Classifier
	Validator      *pdf.Validator
	Pipeline       *flipbook.Pipeline
	AllowedOrigins []string
	RequestTimeout time.Duration
	Now            func() time.Time
}

// NewRouter creates the API router with all routes configured.
func NewRouter(logger *observability.Logger, deps Deps) http.Handler {
	if logger == nil {
		logger = observability.Nop()
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 60 * time.Second
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigins))
	r.Use(chimiddleware.Timeout(deps.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"flipbook-studio"}`))
	})

	voiceHandler := NewVoiceHandler(logger, deps.Classifier)
	flipbookHandler := NewFlipbookHandler(logger, deps.Validator, deps.Pipeline, deps.Now)

	r.Route("/api", func(r chi.Router) {
		r.Post("/voice-command", voiceHandler.Resolve)

		r.Post("/flipbooks", flipbookHandler.Convert)
		r.Post("/flipbooks/validate", flipbookHandler.Validate)
	})

	return r
}
