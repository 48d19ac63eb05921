// Package handler implements the HTTP handlers for the farewatch API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (route.go, notify.go, track.go, health.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/farewatch/internal/domain"
	"github.com/pkordes/farewatch/internal/service"
)

// RouteServicer defines the business operations the route handlers depend
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the filesystem or service layer.
type RouteServicer interface {
	List(ctx context.Context) ([]domain.Route, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Route, error)
	Create(ctx context.Context, in service.NewRouteInput) (domain.Route, error)
	Update(ctx context.Context, id uuid.UUID, in service.NewRouteInput) (domain.Route, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetNotifications(ctx context.Context, id uuid.UUID, enabled bool) (domain.Route, error)
	ManualUpdate(ctx context.Context, id uuid.UUID) (domain.Route, error)
	History(ctx context.Context, id uuid.UUID) ([]domain.HistoryEntry, error)
}

// ConfigServicer exposes the global notification settings document.
type ConfigServicer interface {
	Get(ctx context.Context) (domain.NotificationConfig, error)
	Put(ctx context.Context, cfg domain.NotificationConfig) (domain.NotificationConfig, error)
}

// TrackRunner runs one tracking pass. The cron trigger endpoint delegates
// here; the report it returns is the response body.
type TrackRunner interface {
	Run(ctx context.Context, now time.Time) domain.RunReport
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	routes RouteServicer
	config ConfigServicer
	runner TrackRunner
}

// NewServer constructs the Server with all its dependencies.
func NewServer(routes RouteServicer, config ConfigServicer, runner TrackRunner) *Server {
	return &Server{routes: routes, config: config, runner: runner}
}

// Routes mounts every endpoint on a fresh chi router. The caller wraps it
// with the process-wide middleware stack.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/routes", func(r chi.Router) {
			r.Get("/", s.ListRoutes)
			r.Post("/", s.CreateRoute)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetRoute)
				r.Put("/", s.UpdateRoute)
				r.Delete("/", s.DeleteRoute)
				r.Post("/update", s.UpdateRoutePrice)
				r.Put("/notifications", s.SetRouteNotifications)
				r.Get("/history", s.GetRouteHistory)
			})
		})

		r.Get("/notifications", s.GetNotificationConfig)
		r.Put("/notifications", s.PutNotificationConfig)

		r.Post("/track", s.RunTracking)
	})

	return r
}
