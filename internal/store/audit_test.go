package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/farewatch/internal/domain"
	"github.com/pkordes/farewatch/internal/store"
)

// TestAuditLog_appendLines verifies that each event becomes one
// newline-terminated line with a parsable ISO-8601 timestamp prefix.
func TestAuditLog_appendLines(t *testing.T) {
	dir := t.TempDir()
	a, err := store.NewAuditLog(dir, discardLogger())
	require.NoError(t, err)

	a.Append("run start")
	a.Appendf("updated %s price=%d", "PAR-TYO", 420)

	data, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	for _, line := range lines {
		stamp, rest, found := strings.Cut(line, " ")
		require.True(t, found)
		_, perr := time.Parse(time.RFC3339, stamp)
		assert.NoError(t, perr, "line %q must start with an RFC3339 timestamp", line)
		assert.NotEmpty(t, rest)
	}
	assert.Contains(t, lines[0], "run start")
	assert.Contains(t, lines[1], "updated PAR-TYO price=420")
}

// TestAuditLog_appendNeverFails verifies the best-effort contract: appending
// to an unwritable path does not panic or surface an error to the caller.
func TestAuditLog_appendNeverFails(t *testing.T) {
	dir := t.TempDir()
	a, err := store.NewAuditLog(dir, discardLogger())
	require.NoError(t, err)

	// Make the directory unwritable so the open fails.
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	assert.NotPanics(t, func() { a.Append("dropped on the floor") })
}

// TestConfigStore_roundTrip covers the notification config document under the
// same atomic discipline as the route collection.
func TestConfigStore_roundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewConfigStore(dir, discardLogger())
	require.NoError(t, err)

	cfg := domain.NotificationConfig{
		Enabled:      true,
		DefaultEmail: "alerts@example.com",
		Transport:    map[string]string{"api_key": "sk-test", "from": "noreply@farewatch.app"},
	}
	require.NoError(t, s.Save(context.Background(), cfg))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

// TestConfigStore_corruptionQuarantine verifies the empty-config fallback.
func TestConfigStore_corruptionQuarantine(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewConfigStore(dir, discardLogger())
	require.NoError(t, err)

	path := filepath.Join(dir, "notify_config.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	got, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Empty(t, got.DefaultEmail)

	matches, err := filepath.Glob(path + ".broken.*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

// TestLock_acquireRelease exercises the advisory lock in-process.
func TestLock_acquireRelease(t *testing.T) {
	dir := t.TempDir()
	l, err := store.NewLock(dir)
	require.NoError(t, err)

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Release())
}
