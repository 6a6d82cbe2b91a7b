// Package api exposes the HTTP surface of the tracking service: the pixel
// endpoint fetched by mail clients and the issuer API consumed by the
// compose/dashboard collaborator.
package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/openbeacon/internal/config"
	"github.com/ignite/openbeacon/internal/domain"
	"github.com/ignite/openbeacon/internal/service/track"
)

// TrackService is the service contract the HTTP layer depends on.
type TrackService interface {
	Issue(ctx context.Context, in track.IssueInput) (*track.IssuedEmail, error)
	List(ctx context.Context, ownerUserID string) ([]domain.TrackedEmail, error)
	RecordOpen(ctx context.Context, token string) track.OpenOutcome
}

// Server holds the HTTP handlers and router.
type Server struct {
	svc    TrackService
	router *chi.Mux

	// pixelStatus is the single response status used on every branch of
	// the pixel endpoint, fixed at construction from the response mode.
	pixelStatus int
}

// NewServer builds the router. allowedOrigins feeds the CORS allowlist for
// the /api sub-router; the pixel endpoint carries no CORS (mail clients
// fetch images, not XHR).
func NewServer(svc TrackService, cfg config.TrackingConfig) *Server {
	s := &Server{
		svc:         svc,
		pixelStatus: pixelStatusFor(cfg.ResponseMode),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/track", s.HandleOpen)
	r.Get("/health", s.HandleHealth)

	r.Route("/api", func(api chi.Router) {
		origins := cfg.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		api.Post("/emails", s.HandleCreateEmail)
		api.Get("/emails", s.HandleListEmails)
	})

	s.router = r
	return s
}

// Router returns the chi router for mounting in an http.Server.
func (s *Server) Router() chi.Router { return s.router }
