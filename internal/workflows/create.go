package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/passman/internal/audit"
	"github.com/PolarWolf314/passman/internal/editor"
	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/gitsync"
	"github.com/PolarWolf314/passman/internal/vault"
)

// CreateOptions configures the create workflow.
type CreateOptions struct {
	// Name is the logical entry name, e.g. "mail/example.com".
	Name string

	// Force overwrites an existing entry.
	Force bool

	// Prompt reads a single line instead of opening the editor.
	Prompt bool

	// Echo shows the typed secret when Prompt is set.
	Echo bool
}

// CreateResult contains the outcome of a create operation.
type CreateResult struct {
	Name    string
	Path    string
	Backend string

	// Replaced is set when Force overwrote an existing entry.
	Replaced bool

	Sync gitsync.Outcome
}

// Create encrypts a new entry.
//
// Returns ErrInvalidName if the name leaves the vault.
// Returns ErrAlreadyExists if the entry exists and Force is not set.
// Returns ErrEditorFailure (and ErrEmptyContent) when no plaintext was
// given; nothing is written in that case.
func Create(ctx context.Context, d *Deps, opts CreateOptions) (*CreateResult, error) {
	name, err := vault.ValidateName(opts.Name)
	if err != nil {
		return nil, err
	}

	backend := d.backendForNew()
	cfg := d.Config.WithExtension(backend.Extension())
	path := vault.EntryPath(cfg, name)

	existing, err := vault.Locate(cfg, name, d.extensions())
	if err == nil && !opts.Force {
		return nil, fmt.Errorf("%w: %s (use --force to overwrite)", kerrors.ErrAlreadyExists, name)
	}

	recipient, err := d.recipient()
	if err != nil {
		return nil, err
	}

	plaintext, err := readPlaintext(ctx, d, name, opts)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", kerrors.ErrIO, filepath.Dir(path), err)
	}

	d.Log.Debugf("Encrypting %s with %s", path, backend.Name())
	if err := encryptAtomically(ctx, backend, recipient, path, plaintext); err != nil {
		return nil, err
	}

	result := &CreateResult{Name: name, Path: path, Backend: backend.Name()}
	if existing != "" {
		result.Replaced = true
		if existing != path {
			if err := os.Remove(existing); err != nil && !os.IsNotExist(err) {
				d.Log.Warnf("Failed to remove previous copy %s: %v", existing, err)
			}
		}
	}

	result.Sync = d.sync(ctx)
	d.record(audit.Entry{Operation: "new", Entry: name, Backend: backend.Name(), Synced: synced(result.Sync)})

	return result, nil
}

func readPlaintext(ctx context.Context, d *Deps, name string, opts CreateOptions) ([]byte, error) {
	if !opts.Prompt {
		return d.Editor.Edit(ctx, nil)
	}

	secret, err := d.Secrets.Password(fmt.Sprintf("Enter secret for %s", name), opts.Echo)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == "" {
		return nil, editor.ErrEmpty
	}
	return []byte(secret), nil
}
