package workflows

import (
	"context"

	"github.com/PolarWolf314/passman/internal/audit"
	"github.com/PolarWolf314/passman/internal/gitsync"
	"github.com/PolarWolf314/passman/internal/vault"
)

// EditOptions configures the edit workflow.
type EditOptions struct {
	Name string
}

// EditResult contains the outcome of an edit operation.
type EditResult struct {
	Name    string
	Path    string
	Backend string
	Sync    gitsync.Outcome
}

// Edit decrypts an entry into the editor and re-encrypts the result over
// the same file with the entry's own backend.
//
// Returns ErrNotFound if the entry does not exist.
// Returns ErrEditorFailure if the editor fails or leaves an empty file; the
// encrypted entry is left untouched.
func Edit(ctx context.Context, d *Deps, opts EditOptions) (*EditResult, error) {
	name, err := vault.ValidateName(opts.Name)
	if err != nil {
		return nil, err
	}

	path, err := vault.Locate(d.Config, name, d.extensions())
	if err != nil {
		return nil, err
	}
	backend := d.Backends.ForPath(path)

	recipient, err := d.recipient()
	if err != nil {
		return nil, err
	}

	plaintext, err := backend.Decrypt(ctx, d.identityFor(backend), path)
	if err != nil {
		return nil, err
	}

	edited, err := d.Editor.Edit(ctx, plaintext)
	if err != nil {
		return nil, err
	}

	d.Log.Debugf("Re-encrypting %s with %s", path, backend.Name())
	if err := encryptAtomically(ctx, backend, recipient, path, edited); err != nil {
		return nil, err
	}

	result := &EditResult{Name: name, Path: path, Backend: backend.Name()}
	result.Sync = d.sync(ctx)
	d.record(audit.Entry{Operation: "edit", Entry: name, Backend: backend.Name(), Synced: synced(result.Sync)})

	return result, nil
}
