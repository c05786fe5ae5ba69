package workflows

import (
	"context"

	"github.com/PolarWolf314/passman/internal/audit"
	"github.com/PolarWolf314/passman/internal/bootstrap"
)

// InitOptions carries the interactive collaborators of a bootstrap.
type InitOptions struct {
	Prompter   bootstrap.Prompter
	Keys       bootstrap.KeyGenerator
	Repo       bootstrap.Repository
	Completion bootstrap.CompletionInstaller

	// OnTransition observes state changes, e.g. to drive a spinner.
	OnTransition func(from, to bootstrap.State)
}

// Init runs the bootstrap state machine for the configured vault.
//
// Returns an error only when key generation, reading an answer, or
// installing shell completion fails. Git failures are reported in
// Result.Failure.
func Init(ctx context.Context, d *Deps, opts InitOptions) (*bootstrap.Result, error) {
	ctrl := &bootstrap.Controller{
		Config:       d.Config,
		Prompter:     opts.Prompter,
		Keys:         opts.Keys,
		Repo:         opts.Repo,
		Completion:   opts.Completion,
		Log:          d.Log,
		OnTransition: opts.OnTransition,
	}

	result, err := ctrl.Run(ctx)
	if err != nil {
		return result, err
	}

	entry := audit.Entry{Operation: "init", Backend: d.Config.CryptoExtension, Remote: result.Remote}
	if result.Remote != "" {
		entry.Synced = audit.Bool(result.State == bootstrap.Pushed || result.State == bootstrap.PushedAfterRebase)
	}
	d.record(entry)
	return result, nil
}
