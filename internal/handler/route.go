package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkordes/farewatch/internal/service"
)

// routeRequest is the wire shape for POST /api/routes and PUT
// /api/routes/{id}. Dates are calendar dates ("2006-01-02"), not timestamps.
type routeRequest struct {
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	DepartureDate     string          `json:"departure_date"`
	DepartureFlexDays int             `json:"departure_flex_days"`
	ReturnDate        *string         `json:"return_date"`
	ReturnFlexDays    int             `json:"return_flex_days"`
	ReturnAirport     string          `json:"return_airport"`
	StayMinDays       int             `json:"stay_min_days"`
	StayMaxDays       int             `json:"stay_max_days"`
	TargetPrice       decimal.Decimal `json:"target_price"`
	TrackingPerDay    int             `json:"tracking_frequency_per_day"`
	Notifications     bool            `json:"notifications_enabled"`
	NotificationEmail string          `json:"notification_email"`
}

const dateLayout = "2006-01-02"

// toInput converts the wire shape into the service input, parsing dates.
func (req routeRequest) toInput() (service.NewRouteInput, error) {
	in := service.NewRouteInput{
		Origin:            req.Origin,
		Destination:       req.Destination,
		DepartureFlexDays: req.DepartureFlexDays,
		ReturnFlexDays:    req.ReturnFlexDays,
		ReturnAirport:     req.ReturnAirport,
		StayMinDays:       req.StayMinDays,
		StayMaxDays:       req.StayMaxDays,
		TargetPrice:       req.TargetPrice,
		TrackingPerDay:    req.TrackingPerDay,
		Notifications:     req.Notifications,
		NotificationEmail: req.NotificationEmail,
	}
	if req.DepartureDate != "" {
		d, err := time.Parse(dateLayout, req.DepartureDate)
		if err != nil {
			return service.NewRouteInput{}, fmt.Errorf("departure_date must be YYYY-MM-DD")
		}
		in.DepartureDate = d
	}
	if req.ReturnDate != nil && *req.ReturnDate != "" {
		d, err := time.Parse(dateLayout, *req.ReturnDate)
		if err != nil {
			return service.NewRouteInput{}, fmt.Errorf("return_date must be YYYY-MM-DD")
		}
		in.ReturnDate = &d
	}
	return in, nil
}

// ListRoutes handles GET /api/routes.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := s.routes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

// CreateRoute handles POST /api/routes.
func (s *Server) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := s.routes.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetRoute handles GET /api/routes/{id}.
func (s *Server) GetRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}
	route, err := s.routes.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// UpdateRoute handles PUT /api/routes/{id}.
func (s *Server) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	updated, err := s.routes.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteRoute handles DELETE /api/routes/{id}.
func (s *Server) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}
	if err := s.routes.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateRoutePrice handles POST /api/routes/{id}/update — the dashboard
// "check now" action. One observation is recorded immediately, outside the
// cadence.
func (s *Server) UpdateRoutePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}
	updated, err := s.routes.ManualUpdate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SetRouteNotifications handles PUT /api/routes/{id}/notifications.
func (s *Server) SetRouteNotifications(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.routes.SetNotifications(r.Context(), id, req.Enabled)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GetRouteHistory handles GET /api/routes/{id}/history.
func (s *Server) GetRouteHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(w, r)
	if !ok {
		return
	}
	history, err := s.routes.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// routeID parses the {id} path parameter. On failure it writes the 400 and
// reports false so the caller can return immediately.
func routeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
