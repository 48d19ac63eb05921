// Package gitsync replicates the data directory to a remote git repository.
//
// The hosting environment the tracker was built for has an ephemeral
// filesystem: local atomic writes do not survive a redeploy. When configured,
// the sync commits the persisted files and pushes them to a remote as a
// poor-man's durable store. It is strictly best-effort — local persistence is
// the source of truth for the current process, and every failure here is
// logged and swallowed by callers.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/pkordes/farewatch/internal/config"
)

// Outcome classifies one push attempt. "Nothing to commit" is a normal
// outcome, not an error.
type Outcome string

const (
	// Disabled: the sync is not configured; Push is an inert no-op.
	Disabled Outcome = "disabled"
	// Pushed: a commit was created and reached the remote.
	Pushed Outcome = "pushed"
	// NoChanges: the working tree matched the last commit; nothing to push.
	NoChanges Outcome = "no_changes"
	// Failed: commit or push failed (network, auth, conflicting remote).
	Failed Outcome = "failed"
)

// Result is the typed outcome of one Push. Err is set only when Outcome is
// Failed.
type Result struct {
	Outcome Outcome
	Err     error
}

// Syncer pushes the data directory to a configured remote. The zero-value
// concern of an unconfigured deployment is handled by the enabled flag: a
// disabled Syncer surfaces no errors and touches no files.
type Syncer struct {
	enabled   bool
	dir       string
	remoteURL string
	branch    string
	token     string
	log       *slog.Logger
}

// New constructs a Syncer from the application config.
func New(cfg config.Config, log *slog.Logger) *Syncer {
	return &Syncer{
		enabled:   cfg.SyncEnabled,
		dir:       cfg.DataDir,
		remoteURL: cfg.SyncRemoteURL,
		branch:    cfg.SyncBranch,
		token:     cfg.SyncToken,
		log:       log,
	}
}

// Push commits the current state of the data directory and pushes it to the
// remote. Never returns an error to abort the caller; problems come back as
// Result{Outcome: Failed}.
func (s *Syncer) Push(ctx context.Context) Result {
	if !s.enabled {
		return Result{Outcome: Disabled}
	}

	repo, err := s.openOrInit()
	if err != nil {
		return s.failed("open repository", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return s.failed("worktree", err)
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return s.failed("stage files", err)
	}

	status, err := wt.Status()
	if err != nil {
		return s.failed("status", err)
	}
	if status.IsClean() {
		return Result{Outcome: NoChanges}
	}

	_, err = wt.Commit(fmt.Sprintf("tracker sync %s", time.Now().UTC().Format(time.RFC3339)), &git.CommitOptions{
		Author: &object.Signature{
			Name:  "farewatch",
			Email: "tracker@farewatch.local",
			When:  time.Now(),
		},
	})
	if err != nil {
		return s.failed("commit", err)
	}

	refspec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", s.branch, s.branch))
	pushOpts := &git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{refspec},
	}
	// Token auth only applies to HTTP(S) remotes; local file remotes (tests,
	// mounted volumes) need none.
	if s.token != "" {
		pushOpts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: s.token}
	}

	err = repo.PushContext(ctx, pushOpts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return Result{Outcome: NoChanges}
	}
	if err != nil {
		return s.failed("push", err)
	}

	s.log.Info("durability sync pushed", "remote", s.remoteURL, "branch", s.branch)
	return Result{Outcome: Pushed}
}

// openOrInit opens the data directory as a git repository, initializing it
// and wiring the origin remote on first use.
func (s *Syncer) openOrInit() (*git.Repository, error) {
	repo, err := git.PlainOpen(s.dir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, err
	}

	repo, err = git.PlainInitWithOptions(s.dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(s.branch),
		},
	})
	if err != nil {
		return nil, err
	}
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{s.remoteURL},
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (s *Syncer) failed(stage string, err error) Result {
	s.log.Warn("durability sync failed", "stage", stage, "error", err)
	return Result{Outcome: Failed, Err: fmt.Errorf("gitsync.Syncer.Push: %s: %w", stage, err)}
}
