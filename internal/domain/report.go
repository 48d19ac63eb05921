package domain

import "time"

// RouteFailure records a per-route problem encountered during a tracking run.
// Failures local to one route never abort the run; they are collected here
// for the caller and the audit log.
type RouteFailure struct {
	RouteID string `json:"route_id"`
	Stage   string `json:"stage"` // "fetch" or "notify"
	Reason  string `json:"reason"`
}

// RunReport summarizes one tracking pass over the full route collection.
type RunReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	RoutesTotal   int `json:"routes_total"`
	RoutesDue     int `json:"routes_due"`
	Ticks         int `json:"ticks"`
	Notifications int `json:"notifications"`

	Failures []RouteFailure `json:"failures,omitempty"`

	// SyncOutcome is the durability-sync result ("disabled", "pushed",
	// "no_changes", "failed"). A failed sync does not fail the run.
	SyncOutcome string `json:"sync_outcome,omitempty"`

	// Err is set only when the run itself failed: the collection could not be
	// loaded or the mutated collection could not be persisted. When set, no
	// on-disk state was changed by this run.
	Err error `json:"-"`
}

// OK reports whether the run recorded and persisted its results.
func (r RunReport) OK() bool { return r.Err == nil }
