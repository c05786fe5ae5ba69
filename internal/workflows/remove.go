package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/passman/internal/audit"
	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/gitsync"
	"github.com/PolarWolf314/passman/internal/vault"
)

// RemoveOptions configures the remove workflow.
type RemoveOptions struct {
	Name string
}

// RemoveResult contains the outcome of a remove operation.
type RemoveResult struct {
	Name string
	Path string

	// PrunedDirs lists directories removed because they became empty.
	PrunedDirs []string

	Sync gitsync.Outcome
}

// Remove deletes an entry, then removes parent directories left empty up
// to the vault root.
//
// Returns ErrInvalidName if the name leaves the vault.
// Returns ErrNotFound if the entry does not exist.
func Remove(ctx context.Context, d *Deps, opts RemoveOptions) (*RemoveResult, error) {
	name, err := vault.ValidateName(opts.Name)
	if err != nil {
		return nil, err
	}

	path, err := vault.Locate(d.Config, name, d.extensions())
	if err != nil {
		return nil, err
	}

	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("%w: failed to remove %s: %v", kerrors.ErrIO, path, err)
	}

	result := &RemoveResult{Name: name, Path: path}
	result.PrunedDirs = pruneEmptyDirs(filepath.Dir(path), d.Config.VaultRoot)

	result.Sync = d.sync(ctx)
	d.record(audit.Entry{Operation: "remove", Entry: name, Synced: synced(result.Sync)})

	return result, nil
}

// pruneEmptyDirs removes dir and its ancestors while they are empty,
// stopping below root.
func pruneEmptyDirs(dir, root string) []string {
	var pruned []string
	root = filepath.Clean(root)
	for dir = filepath.Clean(dir); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := os.Remove(dir); err != nil {
			break
		}
		pruned = append(pruned, dir)
	}
	return pruned
}
