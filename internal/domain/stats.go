package domain

import "time"

// Stats holds the per-route operational counters shown on the dashboard.
// UpdatesToday counts observations inside a rolling 24h window anchored at
// TodayResetAt; the rollover logic lives here and nowhere else.
type Stats struct {
	UpdatesTotal      int        `json:"updates_total"`
	UpdatesToday      int        `json:"updates_today"`
	NotificationsSent int        `json:"notifications_sent"`
	TodayResetAt      *time.Time `json:"today_reset_at,omitempty"`
}

// normalize clamps counters loaded from partially-migrated records.
// Older schema versions stored stats as a free-form object, so negative or
// missing values decode as garbage or zero; treat anything below zero as zero.
func (s *Stats) normalize() {
	if s.UpdatesTotal < 0 {
		s.UpdatesTotal = 0
	}
	if s.UpdatesToday < 0 {
		s.UpdatesToday = 0
	}
	if s.NotificationsSent < 0 {
		s.NotificationsSent = 0
	}
}

// Rollover resets the daily counter once a full 24h window has elapsed since
// TodayResetAt, advancing the window anchor to now. A nil anchor (fresh or
// legacy record) starts the window at now without resetting anything.
func (s *Stats) Rollover(now time.Time) {
	if s.TodayResetAt == nil {
		t := now
		s.TodayResetAt = &t
		return
	}
	if now.Sub(*s.TodayResetAt) >= 24*time.Hour {
		s.UpdatesToday = 0
		t := now
		s.TodayResetAt = &t
	}
}

// BumpUpdate records one price observation against the counters, applying the
// daily rollover first.
func (s *Stats) BumpUpdate(now time.Time) {
	s.Rollover(now)
	s.UpdatesTotal++
	s.UpdatesToday++
}

// BumpNotification records one successfully delivered notification.
func (s *Stats) BumpNotification() {
	s.NotificationsSent++
}
