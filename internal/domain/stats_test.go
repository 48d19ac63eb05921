package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/farewatch/internal/domain"
)

// TestStats_rolloverAfter24h verifies updates_today resets to 0 once a full
// 24h window has elapsed, and not before.
func TestStats_rolloverAfter24h(t *testing.T) {
	anchor := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	s := domain.Stats{UpdatesTotal: 10, UpdatesToday: 4, TodayResetAt: &anchor}

	s.Rollover(anchor.Add(24*time.Hour - time.Second))
	assert.Equal(t, 4, s.UpdatesToday, "one second short of the window must not reset")
	assert.True(t, s.TodayResetAt.Equal(anchor))

	s.Rollover(anchor.Add(24 * time.Hour))
	assert.Equal(t, 0, s.UpdatesToday, "exactly 24h resets")
	assert.Equal(t, 10, s.UpdatesTotal, "the lifetime counter never resets")
	assert.True(t, s.TodayResetAt.Equal(anchor.Add(24*time.Hour)), "the window anchor advances to now")
}

// TestStats_rolloverStartsWindowOnFirstUse verifies a nil anchor (fresh or
// legacy record) starts the window without zeroing anything.
func TestStats_rolloverStartsWindowOnFirstUse(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	s := domain.Stats{UpdatesToday: 2}

	s.Rollover(now)

	assert.Equal(t, 2, s.UpdatesToday)
	require.NotNil(t, s.TodayResetAt)
	assert.True(t, s.TodayResetAt.Equal(now))
}

// TestStats_bumpUpdate verifies both counters move together and the rollover
// is applied first.
func TestStats_bumpUpdate(t *testing.T) {
	anchor := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	s := domain.Stats{UpdatesTotal: 7, UpdatesToday: 3, TodayResetAt: &anchor}

	s.BumpUpdate(anchor.Add(25 * time.Hour))

	assert.Equal(t, 8, s.UpdatesTotal)
	assert.Equal(t, 1, s.UpdatesToday, "rollover zeroes the daily count before the bump")
}

// TestStats_bumpNotification covers the delivery counter.
func TestStats_bumpNotification(t *testing.T) {
	var s domain.Stats
	s.BumpNotification()
	s.BumpNotification()
	assert.Equal(t, 2, s.NotificationsSent)
}
