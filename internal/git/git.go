// Package git wraps the git subcommands passman uses. Each method runs
// exactly one git process in the repository directory.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/runner"
)

const (
	// DefaultBranch is the branch name set during bootstrap.
	DefaultBranch = "main"

	// DefaultRemote is the remote name attached during bootstrap.
	DefaultRemote = "origin"

	// InitialCommitMessage is used for the empty bootstrap commit.
	InitialCommitMessage = "Initial commit"

	// SyncMessage is used for every sync commit.
	SyncMessage = "Sync vault"
)

// StepError reports a failed git subcommand.
type StepError struct {
	Step     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("git %s failed to run: %v", e.Step, e.Err)
	}
	msg := fmt.Sprintf("git %s failed (exit code %d)", e.Step, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + firstLine(stderr)
	}
	return msg
}

func (e *StepError) Unwrap() []error {
	if e.Err != nil {
		return []error{kerrors.ErrGitStep, e.Err}
	}
	return []error{kerrors.ErrGitStep}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Repo is a git working tree.
type Repo struct {
	Dir    string
	Runner runner.Runner
}

// Open returns a Repo rooted at dir. It does not touch the filesystem.
func Open(dir string, r runner.Runner) *Repo {
	return &Repo{Dir: dir, Runner: r}
}

// Exists reports whether dir holds git metadata.
func (r *Repo) Exists() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

func (r *Repo) run(ctx context.Context, step string, args ...string) (*runner.Result, error) {
	res, err := r.Runner.Run(ctx, runner.Command{Name: "git", Args: args, Dir: r.Dir})
	if err != nil {
		return nil, &StepError{Step: step, ExitCode: -1, Err: err}
	}
	if !res.Success() {
		return res, &StepError{Step: step, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return res, nil
}

// Init creates the directory if needed and runs `git init`.
func (r *Repo) Init(ctx context.Context) error {
	if err := os.MkdirAll(r.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", r.Dir, err)
	}
	_, err := r.run(ctx, "init", "init")
	return err
}

// RenameBranch runs `git branch -M <name>`.
func (r *Repo) RenameBranch(ctx context.Context, name string) error {
	_, err := r.run(ctx, "branch", "branch", "-M", name)
	return err
}

// CommitEmpty runs `git commit --allow-empty -m <msg>`.
func (r *Repo) CommitEmpty(ctx context.Context, msg string) error {
	_, err := r.run(ctx, "commit", "commit", "--allow-empty", "-m", msg)
	return err
}

// AddRemote runs `git remote add <name> <url>`.
func (r *Repo) AddRemote(ctx context.Context, name, url string) error {
	_, err := r.run(ctx, "remote add", "remote", "add", name, url)
	return err
}

// PushUpstream runs `git push --set-upstream <remote> <branch>`.
func (r *Repo) PushUpstream(ctx context.Context, remote, branch string) error {
	_, err := r.run(ctx, "push", "push", "--set-upstream", remote, branch)
	return err
}

// Push runs `git push`.
func (r *Repo) Push(ctx context.Context) error {
	_, err := r.run(ctx, "push", "push")
	return err
}

// PullRebase runs `git pull --rebase`, naming remote and branch when given.
func (r *Repo) PullRebase(ctx context.Context, remote, branch string) error {
	args := []string{"pull", "--rebase"}
	if remote != "" {
		args = append(args, remote)
		if branch != "" {
			args = append(args, branch)
		}
	}
	_, err := r.run(ctx, "pull", args...)
	return err
}

// AddAll runs `git add .`, which stages deletions as well.
func (r *Repo) AddAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", "add", ".")
	return err
}

// Commit runs `git commit -m <msg>`.
func (r *Repo) Commit(ctx context.Context, msg string) error {
	_, err := r.run(ctx, "commit", "commit", "-m", msg)
	return err
}

// RemoteURL returns the URL of the named remote.
func (r *Repo) RemoteURL(ctx context.Context, name string) (string, error) {
	res, err := r.run(ctx, "remote get-url", "remote", "get-url", name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}
