package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/passman/internal/completion"
	"github.com/PolarWolf314/passman/internal/configs"
	"github.com/PolarWolf314/passman/internal/git"
	"github.com/PolarWolf314/passman/internal/keys"
	logger "github.com/PolarWolf314/passman/internal/logging"
)

// State is a step of the bootstrap state machine.
type State int

const (
	NoRepo State = iota
	RepoCreated
	Committed
	RemoteAttached
	Pushed
	PushRejected
	Rebased
	PushedAfterRebase
)

var stateNames = [...]string{
	NoRepo:            "no_repo",
	RepoCreated:       "repo_created",
	Committed:         "committed",
	RemoteAttached:    "remote_attached",
	Pushed:            "pushed",
	PushRejected:      "push_rejected",
	Rebased:           "rebased",
	PushedAfterRebase: "pushed_after_rebase",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Prompter asks the operator questions.
type Prompter interface {
	Confirm(question string, def bool) (bool, error)
	Input(question string) (string, error)
}

// KeyGenerator creates a keypair and returns the public key.
type KeyGenerator interface {
	Generate(ctx context.Context, secretPath, publicPath string) (string, error)
}

// Repository is the set of git steps bootstrap performs. Each one is a
// separate call so tests can fail any of them.
type Repository interface {
	Exists() bool
	Init(ctx context.Context) error
	RenameBranch(ctx context.Context, name string) error
	CommitEmpty(ctx context.Context, msg string) error
	AddRemote(ctx context.Context, name, url string) error
	PushUpstream(ctx context.Context, remote, branch string) error
	PullRebase(ctx context.Context, remote, branch string) error
}

// CompletionInstaller installs shell completion.
type CompletionInstaller interface {
	Install() (*completion.Result, error)
}

// Controller runs one bootstrap.
type Controller struct {
	Config     configs.Config
	Prompter   Prompter
	Keys       KeyGenerator
	Repo       Repository
	Completion CompletionInstaller
	Log        logger.Logger

	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

// Result describes where bootstrap ended.
type Result struct {
	State State

	// KeysGenerated is false when existing keys were kept.
	KeysGenerated bool
	PublicKey     string

	// RepoSkipped is set when a repository already existed.
	RepoSkipped bool
	Remote      string

	// Failure is the git step that ended the repository phase early, if any.
	Failure error

	Completion *completion.Result
}

// Run executes the state machine.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	res := &Result{State: NoRepo}

	if err := configs.EnsureLayout(c.Config); err != nil {
		return nil, err
	}

	if err := c.keys(ctx, res); err != nil {
		return res, err
	}

	if c.Repo.Exists() {
		c.Log.Infof("Git repository already present in %s, skipping repository setup", c.Config.VaultRoot)
		res.RepoSkipped = true
	} else if err := c.repository(ctx, res); err != nil {
		return res, err
	}

	installed, err := c.Completion.Install()
	if err != nil {
		return res, fmt.Errorf("failed to install shell completion: %w", err)
	}
	res.Completion = installed

	return res, nil
}

func (c *Controller) keys(ctx context.Context, res *Result) error {
	secretPath := c.Config.SecretKeyPath
	publicPath := c.Config.PublicKeyPath()

	if keys.Exists(secretPath, publicPath) {
		question := fmt.Sprintf("Detected existing key files:\n  Private: %s\n  Public:  %s\n"+
			"Overwriting them makes every existing entry unreadable. Overwrite?", secretPath, publicPath)
		overwrite, err := c.Prompter.Confirm(question, false)
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		if !overwrite {
			c.Log.Infof("Keeping existing keys")
			if pub, err := keys.ReadRecipient(publicPath); err == nil {
				res.PublicKey = pub
			}
			return nil
		}
		if err := keys.Remove(secretPath, publicPath); err != nil {
			return err
		}
	}

	c.Log.Debugf("Generating keypair at %s", secretPath)
	pub, err := c.Keys.Generate(ctx, secretPath, publicPath)
	if err != nil {
		return err
	}
	res.KeysGenerated = true
	res.PublicKey = pub
	return nil
}

func (c *Controller) repository(ctx context.Context, res *Result) error {
	create, err := c.Prompter.Confirm(fmt.Sprintf("Initialize a git repository in %s?", c.Config.VaultRoot), true)
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}
	if !create {
		c.Log.Infof("Skipping git repository setup")
		return nil
	}

	if err := c.Repo.Init(ctx); err != nil {
		res.Failure = err
		return nil
	}
	c.transition(res, RepoCreated)

	if err := c.Repo.RenameBranch(ctx, git.DefaultBranch); err != nil {
		res.Failure = err
		return nil
	}
	if err := c.Repo.CommitEmpty(ctx, git.InitialCommitMessage); err != nil {
		res.Failure = err
		return nil
	}
	c.transition(res, Committed)

	url, err := c.Prompter.Input("Remote repository URL (leave empty to skip)")
	if err != nil {
		return fmt.Errorf("failed to read remote URL: %w", err)
	}
	url = strings.TrimSpace(url)
	if url == "" {
		c.Log.Infof("No remote configured")
		return nil
	}

	if err := c.Repo.AddRemote(ctx, git.DefaultRemote, url); err != nil {
		res.Failure = err
		return nil
	}
	res.Remote = url
	c.transition(res, RemoteAttached)

	pushErr := c.Repo.PushUpstream(ctx, git.DefaultRemote, git.DefaultBranch)
	if pushErr == nil {
		c.transition(res, Pushed)
		return nil
	}
	c.Log.Warnf("%v", pushErr)
	c.transition(res, PushRejected)
	res.Failure = pushErr

	retry, err := c.Prompter.Confirm("Push was rejected. Pull with rebase and retry?", true)
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}
	if !retry {
		return nil
	}

	if err := c.Repo.PullRebase(ctx, git.DefaultRemote, git.DefaultBranch); err != nil {
		c.Log.Warnf("%v", err)
		res.Failure = err
		return nil
	}
	c.transition(res, Rebased)

	if err := c.Repo.PushUpstream(ctx, git.DefaultRemote, git.DefaultBranch); err != nil {
		c.Log.Warnf("%v", err)
		res.Failure = err
		return nil
	}
	res.Failure = nil
	c.transition(res, PushedAfterRebase)
	return nil
}

func (c *Controller) transition(res *Result, to State) {
	from := res.State
	res.State = to
	c.Log.Debugf("bootstrap: %s -> %s", from, to)
	if c.OnTransition != nil {
		c.OnTransition(from, to)
	}
}
