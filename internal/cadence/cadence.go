// Package cadence decides how many price observations a route is owed, given
// its target sampling frequency and the time since the last recorded one.
package cadence

import (
	"time"

	"github.com/pkordes/farewatch/internal/domain"
)

// Interval returns the minimum inter-observation interval for a route tracked
// perDay times a day. A frequency below 1 is treated as 1.
func Interval(perDay int) time.Duration {
	if perDay < 1 {
		perDay = 1
	}
	return 24 * time.Hour / time.Duration(perDay)
}

// Owed returns the number of observations due for the route at now.
//
// A route that has never been tracked is owed exactly 1 regardless of now.
// Otherwise owed = floor(elapsed / interval), so arriving exactly on an
// interval boundary counts as owed. Clock skew (now before the last
// observation) yields 0, never a negative count.
//
// Backfill is capped at one day's worth of ticks (the route's frequency): a
// long-idle route resumes at its intended sampling density instead of
// fabricating an unbounded burst of same-instant history in a single run.
func Owed(r domain.Route, now time.Time) int {
	perDay := r.TrackingPerDay
	if perDay < 1 {
		perDay = 1
	}

	if r.LastTrackedAt == nil {
		return 1
	}

	elapsed := now.Sub(*r.LastTrackedAt)
	if elapsed < 0 {
		return 0
	}

	owed := int(elapsed / Interval(perDay))
	if owed > perDay {
		owed = perDay
	}
	return owed
}
