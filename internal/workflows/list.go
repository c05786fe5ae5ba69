package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/vault"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	// Path is an optional directory or entry below the vault root.
	Path string

	// IncludeArchived shows dot-prefixed entries.
	IncludeArchived bool
}

// ListResult holds either a tree or, when Path names an entry, that entry.
type ListResult struct {
	Header string
	Tree   *vault.Node

	// Entry is set instead of Tree when Path names a single entry.
	Entry string
}

// List renders the vault, or a directory below it, as a tree.
//
// Returns ErrNotFound if Path names neither a directory nor an entry.
// Returns ErrInvalidName if Path leaves the vault.
func List(ctx context.Context, d *Deps, opts ListOptions) (*ListResult, error) {
	sub := vault.CleanName(opts.Path)
	if sub != "" {
		var err error
		if sub, err = vault.ValidateName(sub); err != nil {
			return nil, err
		}
	}
	exts := d.extensions()

	if _, err := os.Stat(d.Config.VaultRoot); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: vault %s does not exist (run `passman init` first)", kerrors.ErrNotFound, d.Config.VaultRoot)
	}

	full := filepath.Join(d.Config.VaultRoot, filepath.FromSlash(sub))
	if info, err := os.Stat(full); err == nil && info.IsDir() {
		tree, err := vault.Walk(full, vault.TreeOptions{
			IncludeArchived: opts.IncludeArchived,
			Extensions:      exts,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrIO, err)
		}
		return &ListResult{Header: vault.Header(sub), Tree: tree}, nil
	}

	if info, err := os.Stat(full); err == nil && info.Mode().IsRegular() {
		if name, err := vault.NameOf(d.Config, full, exts); err == nil && name != sub {
			return &ListResult{Entry: name}, nil
		}
	}
	if vault.Exists(d.Config, sub, exts) {
		return &ListResult{Entry: sub}, nil
	}

	return nil, fmt.Errorf("%w: %s", kerrors.ErrNotFound, sub)
}

// FindOptions configures the find workflow.
type FindOptions struct {
	// Pattern is a doublestar glob, or a plain substring.
	Pattern string

	IncludeArchived bool
}

// FindResult lists matching entry names.
type FindResult struct {
	Matches []string
}

// Find searches entry names.
func Find(ctx context.Context, d *Deps, opts FindOptions) (*FindResult, error) {
	if _, err := os.Stat(d.Config.VaultRoot); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: vault %s does not exist (run `passman init` first)", kerrors.ErrNotFound, d.Config.VaultRoot)
	}

	names, err := vault.Names(d.Config.VaultRoot, d.extensions(), opts.IncludeArchived)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrIO, err)
	}

	matches, err := vault.Match(names, opts.Pattern)
	if err != nil {
		return nil, err
	}
	return &FindResult{Matches: matches}, nil
}
