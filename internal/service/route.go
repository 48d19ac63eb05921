// Package service contains the business logic for the farewatch API.
// Services validate inputs, enforce business rules, and orchestrate store
// calls. No file I/O lives here — services depend on store interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkordes/farewatch/internal/domain"
	"github.com/pkordes/farewatch/internal/gitsync"
	"github.com/pkordes/farewatch/internal/track"
)

// RouteStore is the slice of the persistence layer the services need.
type RouteStore interface {
	Load(ctx context.Context) ([]domain.Route, error)
	Save(ctx context.Context, routes []domain.Route) error
}

// ConfigStore persists the notification config document.
type ConfigStore interface {
	Load(ctx context.Context) (domain.NotificationConfig, error)
	Save(ctx context.Context, cfg domain.NotificationConfig) error
}

var iataRe = regexp.MustCompile(`^[A-Z]{3}$`)

// RouteService implements the interactive operations over the route
// collection: CRUD, manual price updates, notification toggles. Every
// mutation holds the advisory lock for the full load-mutate-save cycle and
// is followed by an audit entry and a best-effort durability push.
type RouteService struct {
	store  RouteStore
	source track.PriceSource
	audit  track.Auditor
	sync   track.Syncer
	lock   track.Locker

	callTimeout time.Duration
}

// NewRouteService constructs a RouteService. sync and lock may be nil
// (tests, single-process deployments).
func NewRouteService(store RouteStore, source track.PriceSource, audit track.Auditor, sync track.Syncer, lock track.Locker, callTimeout time.Duration) *RouteService {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &RouteService{
		store:       store,
		source:      source,
		audit:       audit,
		sync:        sync,
		lock:        lock,
		callTimeout: callTimeout,
	}
}

// List returns the full route collection in store order.
func (s *RouteService) List(ctx context.Context) ([]domain.Route, error) {
	routes, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RouteService.List: %w", err)
	}
	if routes == nil {
		routes = []domain.Route{}
	}
	return routes, nil
}

// Get returns a single route by ID.
func (s *RouteService) Get(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	routes, err := s.store.Load(ctx)
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Get: %w", err)
	}
	for _, r := range routes {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Route{}, fmt.Errorf("service.RouteService.Get: %w", domain.ErrNotFound)
}

// NewRouteInput carries the user-settable fields for Create and Update.
type NewRouteInput struct {
	Origin            string
	Destination       string
	DepartureDate     time.Time
	DepartureFlexDays int
	ReturnDate        *time.Time
	ReturnFlexDays    int
	ReturnAirport     string
	StayMinDays       int
	StayMaxDays       int
	TargetPrice       decimal.Decimal
	TrackingPerDay    int
	Notifications     bool
	NotificationEmail string
}

// Create validates the input and appends a new route to the collection.
func (s *RouteService) Create(ctx context.Context, in NewRouteInput) (domain.Route, error) {
	route, err := routeFromInput(in)
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Create: %w", err)
	}
	route.ID = uuid.New()
	now := time.Now()
	route.CreatedAt = now
	route.UpdatedAt = now

	err = s.mutate(ctx, func(routes []domain.Route) ([]domain.Route, error) {
		return append(routes, route), nil
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Create: %w", err)
	}

	s.audit.Appendf("route created %s %s->%s target=%s", route.ID, route.Origin, route.Destination, route.TargetPrice)
	return route, nil
}

// Update overwrites the settable fields of an existing route. History, stats
// and last-tracked state are preserved.
func (s *RouteService) Update(ctx context.Context, id uuid.UUID, in NewRouteInput) (domain.Route, error) {
	patch, err := routeFromInput(in)
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Update: %w", err)
	}

	var updated domain.Route
	err = s.mutate(ctx, func(routes []domain.Route) ([]domain.Route, error) {
		for i := range routes {
			if routes[i].ID != id {
				continue
			}
			r := &routes[i]
			r.Origin = patch.Origin
			r.Destination = patch.Destination
			r.DepartureDate = patch.DepartureDate
			r.DepartureFlexDays = patch.DepartureFlexDays
			r.ReturnDate = patch.ReturnDate
			r.ReturnFlexDays = patch.ReturnFlexDays
			r.ReturnAirport = patch.ReturnAirport
			r.StayMinDays = patch.StayMinDays
			r.StayMaxDays = patch.StayMaxDays
			r.PriorityStay = patch.PriorityStay
			r.TargetPrice = patch.TargetPrice
			r.TrackingPerDay = patch.TrackingPerDay
			r.NotificationsEnabled = patch.NotificationsEnabled
			r.NotificationEmail = patch.NotificationEmail
			r.UpdatedAt = time.Now()
			updated = *r
			return routes, nil
		}
		return nil, domain.ErrNotFound
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Update: %w", err)
	}

	s.audit.Appendf("route updated %s", id)
	return updated, nil
}

// Delete removes a route and its entire history.
func (s *RouteService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.mutate(ctx, func(routes []domain.Route) ([]domain.Route, error) {
		for i := range routes {
			if routes[i].ID == id {
				return append(routes[:i], routes[i+1:]...), nil
			}
		}
		return nil, domain.ErrNotFound
	})
	if err != nil {
		return fmt.Errorf("service.RouteService.Delete: %w", err)
	}

	s.audit.Appendf("route deleted %s", id)
	return nil
}

// SetNotifications toggles per-route alerting.
func (s *RouteService) SetNotifications(ctx context.Context, id uuid.UUID, enabled bool) (domain.Route, error) {
	var updated domain.Route
	err := s.mutate(ctx, func(routes []domain.Route) ([]domain.Route, error) {
		for i := range routes {
			if routes[i].ID == id {
				routes[i].NotificationsEnabled = enabled
				routes[i].UpdatedAt = time.Now()
				updated = routes[i]
				return routes, nil
			}
		}
		return nil, domain.ErrNotFound
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.SetNotifications: %w", err)
	}

	s.audit.Appendf("notifications %v %s", enabled, id)
	return updated, nil
}

// ManualUpdate records one immediate observation for a route, outside the
// cadence (the dashboard "update now" action). No notification is evaluated;
// that is the tracking run's job.
func (s *RouteService) ManualUpdate(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	var updated domain.Route
	err := s.mutate(ctx, func(routes []domain.Route) ([]domain.Route, error) {
		for i := range routes {
			if routes[i].ID != id {
				continue
			}

			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			price, err := s.source.Fetch(callCtx, routes[i])
			cancel()
			if err != nil {
				return nil, fmt.Errorf("fetch: %w", err)
			}

			now := time.Now()
			routes[i].AppendObservation(now, price)
			routes[i].Stats.BumpUpdate(now)
			routes[i].UpdatedAt = now
			updated = routes[i]
			return routes, nil
		}
		return nil, domain.ErrNotFound
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.ManualUpdate: %w", err)
	}

	price, _ := updated.LastPrice()
	s.audit.Appendf("manual update %s price=%s", id, price)
	return updated, nil
}

// History returns the observation history for one route.
func (s *RouteService) History(ctx context.Context, id uuid.UUID) ([]domain.HistoryEntry, error) {
	route, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return route.History, nil
}

// mutate runs fn over a fresh working copy of the collection under the
// advisory lock and persists the result, then attempts the durability push.
func (s *RouteService) mutate(ctx context.Context, fn func([]domain.Route) ([]domain.Route, error)) error {
	if s.lock != nil {
		if err := s.lock.Acquire(ctx); err != nil {
			return err
		}
		defer s.lock.Release()
	}

	routes, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	routes, err = fn(routes)
	if err != nil {
		return err
	}

	if err := s.store.Save(ctx, routes); err != nil {
		return err
	}

	if s.sync != nil {
		if res := s.sync.Push(ctx); res.Outcome == gitsync.Failed {
			s.audit.Appendf("sync failed: %v", res.Err)
		}
	}
	return nil
}

// routeFromInput validates user input and builds the persistable record.
func routeFromInput(in NewRouteInput) (domain.Route, error) {
	origin := strings.ToUpper(strings.TrimSpace(in.Origin))
	dest := strings.ToUpper(strings.TrimSpace(in.Destination))

	if !iataRe.MatchString(origin) {
		return domain.Route{}, fmt.Errorf("%w: origin must be a 3-letter IATA code", domain.ErrValidation)
	}
	if !iataRe.MatchString(dest) {
		return domain.Route{}, fmt.Errorf("%w: destination must be a 3-letter IATA code", domain.ErrValidation)
	}
	if in.DepartureDate.IsZero() {
		return domain.Route{}, fmt.Errorf("%w: departure date is required", domain.ErrValidation)
	}
	if !in.TargetPrice.IsPositive() {
		return domain.Route{}, fmt.Errorf("%w: target price must be positive", domain.ErrValidation)
	}
	if in.StayMinDays > in.StayMaxDays {
		return domain.Route{}, fmt.Errorf("%w: stay min days exceeds stay max days", domain.ErrValidation)
	}
	if in.ReturnDate != nil && in.ReturnDate.Before(in.DepartureDate) {
		return domain.Route{}, fmt.Errorf("%w: return date before departure date", domain.ErrValidation)
	}

	route := domain.Route{
		Origin:               origin,
		Destination:          dest,
		DepartureDate:        in.DepartureDate,
		DepartureFlexDays:    in.DepartureFlexDays,
		ReturnDate:           in.ReturnDate,
		ReturnFlexDays:       in.ReturnFlexDays,
		ReturnAirport:        strings.ToUpper(strings.TrimSpace(in.ReturnAirport)),
		StayMinDays:          in.StayMinDays,
		StayMaxDays:          in.StayMaxDays,
		PriorityStay:         in.ReturnDate == nil,
		TargetPrice:          in.TargetPrice,
		TrackingPerDay:       in.TrackingPerDay,
		NotificationsEnabled: in.Notifications,
		NotificationEmail:    strings.TrimSpace(in.NotificationEmail),
		History:              []domain.HistoryEntry{},
	}
	route.Normalize()
	return route, nil
}
