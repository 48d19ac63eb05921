// Package domain contains the core data types for the farewatch price tracker.
// This package has zero dependencies on the persistence or transport layers
// and is imported by every other internal package (store, cadence, track,
// service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryEntry is one immutable price observation for a route.
// Entries are created only by a tracking pass (scheduled or manual) and are
// never edited or removed except by deleting the whole route.
type HistoryEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}

// Route is one tracked origin/destination/date combination with its own
// tracking policy and price history. Routes are the top-level aggregate of
// the store; the on-disk representation is an ordered JSON array of these.
type Route struct {
	ID          uuid.UUID `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`

	DepartureDate     time.Time  `json:"departure_date"`
	DepartureFlexDays int        `json:"departure_flex_days,omitempty"`
	ReturnDate        *time.Time `json:"return_date,omitempty"` // nil in priority-stay mode
	ReturnFlexDays    int        `json:"return_flex_days,omitempty"`
	ReturnAirport     string     `json:"return_airport,omitempty"`

	// StayMinDays/StayMaxDays bound the acceptable trip length when no fixed
	// return date is set ("priority stay" mode).
	StayMinDays  int  `json:"stay_min_days"`
	StayMaxDays  int  `json:"stay_max_days"`
	PriorityStay bool `json:"priority_stay"`

	TargetPrice    decimal.Decimal `json:"target_price"`
	TrackingPerDay int             `json:"tracking_frequency_per_day"`

	NotificationsEnabled bool   `json:"notifications_enabled"`
	NotificationEmail    string `json:"notification_email,omitempty"` // falls back to the global default

	// LastTrackedAt is nil until the first observation. It always equals the
	// timestamp of the most recent history entry.
	LastTrackedAt *time.Time     `json:"last_tracked_at,omitempty"`
	History       []HistoryEntry `json:"history"`
	Stats         Stats          `json:"stats"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastPrice returns the most recent observed price, or zero and false when
// the route has no history yet.
func (r *Route) LastPrice() (decimal.Decimal, bool) {
	if len(r.History) == 0 {
		return decimal.Decimal{}, false
	}
	return r.History[len(r.History)-1].Price, true
}

// AppendObservation records one price observation and keeps LastTrackedAt in
// sync with the history tail. It is the only sanctioned way to grow History.
func (r *Route) AppendObservation(ts time.Time, price decimal.Decimal) {
	r.History = append(r.History, HistoryEntry{Timestamp: ts, Price: price})
	t := ts
	r.LastTrackedAt = &t
}

// Normalize upgrades a route record loaded from disk to the current schema.
// Older store versions wrote partial records (missing stats, zero frequency,
// inverted stay windows); normalizing once at load time keeps that defaulting
// out of every call site.
func (r *Route) Normalize() {
	if r.TrackingPerDay < 1 {
		r.TrackingPerDay = 1
	}
	if r.StayMinDays < 1 {
		r.StayMinDays = 1
	}
	if r.StayMaxDays < r.StayMinDays {
		r.StayMaxDays = r.StayMinDays
	}
	// A fixed return date and priority-stay mode are mutually exclusive; the
	// fixed date wins.
	if r.ReturnDate != nil {
		r.PriorityStay = false
	}
	if r.History == nil {
		r.History = []HistoryEntry{}
	}
	// LastTrackedAt mirrors the history tail; reconcile records written by a
	// version that updated one but not the other.
	if len(r.History) > 0 {
		t := r.History[len(r.History)-1].Timestamp
		r.LastTrackedAt = &t
	} else {
		r.LastTrackedAt = nil
	}
	r.Stats.normalize()
}
