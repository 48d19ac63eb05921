package gitsync_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/farewatch/internal/config"
	"github.com/pkordes/farewatch/internal/gitsync"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestPush_disabledIsInert verifies the unconfigured sync is a no-op: no
// error, no repository created, nothing touched.
func TestPush_disabledIsInert(t *testing.T) {
	dir := t.TempDir()
	s := gitsync.New(config.Config{DataDir: dir, SyncEnabled: false}, discardLogger())

	res := s.Push(context.Background())

	assert.Equal(t, gitsync.Disabled, res.Outcome)
	assert.NoError(t, res.Err)

	_, err := os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err), "disabled sync must not create a repository")
}

// TestPush_failureIsSwallowed verifies that an unreachable remote comes back
// as a Failed result, never a panic or a hard error that could abort a run.
func TestPush_failureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes.json"), []byte("[]\n"), 0o644))

	s := gitsync.New(config.Config{
		DataDir:       dir,
		SyncEnabled:   true,
		SyncRemoteURL: filepath.Join(dir, "no-such-remote"), // local path that is not a repo
		SyncBranch:    "main",
		SyncToken:     "tok",
	}, discardLogger())

	res := s.Push(context.Background())

	assert.Equal(t, gitsync.Failed, res.Outcome)
	assert.Error(t, res.Err)
}

// TestPush_noChangesAfterCleanCommit verifies that pushing an unchanged tree
// reports NoChanges instead of failing, mirroring the original's treatment of
// "nothing to commit" as success.
func TestPush_noChangesAfterCleanCommit(t *testing.T) {
	// A bare repo on the local filesystem stands in for the remote; no token
	// means no auth, which is what the file transport expects.
	remote := t.TempDir()
	_, err := git.PlainInit(remote, true)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes.json"), []byte("[]\n"), 0o644))

	s := gitsync.New(config.Config{
		DataDir:       dir,
		SyncEnabled:   true,
		SyncRemoteURL: remote,
		SyncBranch:    "main",
	}, discardLogger())

	first := s.Push(context.Background())
	require.Equal(t, gitsync.Pushed, first.Outcome, "first push commits the file: %v", first.Err)

	second := s.Push(context.Background())
	assert.Equal(t, gitsync.NoChanges, second.Outcome)
	assert.NoError(t, second.Err)
}
