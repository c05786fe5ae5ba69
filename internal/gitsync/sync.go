// Package gitsync propagates vault changes to the git mirror.
//
// Sync never fails from the caller's point of view. The encrypted file is
// already written when Sync runs, so a broken network or remote must not
// turn a successful password operation into an error. Each step runs
// regardless of the previous one; failures are logged and collected in the
// Outcome, and the next mutating command simply tries again.
//
// A vault without its own .git directory is not synced at all. git would
// otherwise walk up to any enclosing repository, such as a dotfiles
// checkout holding the data directory, and commit the vault into it.
package gitsync

import (
	"context"
	"strings"

	"github.com/PolarWolf314/passman/internal/git"
	logger "github.com/PolarWolf314/passman/internal/logging"
	"github.com/PolarWolf314/passman/internal/runner"
)

// Repository is the subset of git operations a sync needs.
type Repository interface {
	Exists() bool
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, msg string) error
	PullRebase(ctx context.Context, remote, branch string) error
	Push(ctx context.Context) error
}

// StepFailure records one failed step.
type StepFailure struct {
	Step string
	Err  error
}

// Outcome is the result of a sync. Failures are valid outcomes, not errors.
type Outcome struct {
	Staged    bool
	Committed bool
	Pulled    bool
	Pushed    bool

	// Skipped is set when the vault is not a git repository.
	Skipped bool

	Failures []StepFailure
}

// OK reports whether every step succeeded.
func (o Outcome) OK() bool {
	return !o.Skipped && len(o.Failures) == 0
}

// Summary describes the outcome in one line.
func (o Outcome) Summary() string {
	if o.Skipped {
		return "vault is not a git repository, sync skipped"
	}
	if len(o.Failures) == 0 {
		return "vault synced"
	}
	steps := make([]string, len(o.Failures))
	for i, f := range o.Failures {
		steps[i] = f.Step
	}
	return "sync incomplete, failed steps: " + strings.Join(steps, ", ")
}

// Syncer runs the sync sequence.
type Syncer struct {
	Runner runner.Runner
	Log    logger.Logger

	// Open builds the repository for a root. Defaults to git.Open.
	Open func(root string) Repository
}

// New returns a Syncer driving the git executable through r.
func New(r runner.Runner, log logger.Logger) *Syncer {
	return &Syncer{Runner: r, Log: log}
}

func (s *Syncer) open(root string) Repository {
	if s.Open != nil {
		return s.Open(root)
	}
	return git.Open(root, s.Runner)
}

// Sync stages everything, commits, pulls with rebase and pushes.
func (s *Syncer) Sync(ctx context.Context, repoRoot string) Outcome {
	repo := s.open(repoRoot)
	var out Outcome

	if !repo.Exists() {
		s.Log.Debugf("No git metadata in %s, skipping sync", repoRoot)
		out.Skipped = true
		return out
	}

	s.Log.Infof("Syncing %s", repoRoot)

	steps := []struct {
		name string
		run  func() error
		done *bool
	}{
		{"add", func() error { return repo.AddAll(ctx) }, &out.Staged},
		{"commit", func() error { return repo.Commit(ctx, git.SyncMessage) }, &out.Committed},
		{"pull", func() error { return repo.PullRebase(ctx, "", "") }, &out.Pulled},
		{"push", func() error { return repo.Push(ctx) }, &out.Pushed},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			s.Log.Warnf("%v", err)
			out.Failures = append(out.Failures, StepFailure{Step: step.name, Err: err})
			continue
		}
		*step.done = true
		s.Log.Debugf("git %s succeeded", step.name)
	}

	return out
}
