package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/passman/internal/audit"
	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/vault"
)

// ArchiveOptions configures the archive and unarchive workflows.
type ArchiveOptions struct {
	Name string

	// Dir acts on a directory instead of a single entry.
	Dir bool
}

// ArchiveResult contains the outcome of an archive or unarchive operation.
type ArchiveResult struct {
	// Name is the logical name without the crypto extension.
	Name string
	From string
	To   string
	Dir  bool
}

// Archive hides an entry or directory by prefixing its basename with a dot.
// The vault is not synced; the rename travels with the next sync.
//
// Returns ErrNotFound if nothing exists at the target.
// Returns ErrTypeMismatch if the target is a directory in file mode or a
// file in directory mode.
// Returns ErrAlreadyArchived if the target is already dot-prefixed.
func Archive(ctx context.Context, d *Deps, opts ArchiveOptions) (*ArchiveResult, error) {
	target, err := vault.ArchiveTarget(d.Config, opts.Name, opts.Dir, d.extensions())
	if err != nil {
		return nil, err
	}

	info, err := os.Lstat(target)
	if os.IsNotExist(err) {
		if _, archivedErr := os.Lstat(vault.ArchivedPath(target)); archivedErr == nil {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrAlreadyArchived, vault.CleanName(opts.Name))
		}
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotFound, target)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat %s: %v", kerrors.ErrIO, target, err)
	}
	if err := checkType(info, target, opts.Dir); err != nil {
		return nil, err
	}
	if vault.IsArchived(target) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrAlreadyArchived, filepath.Base(target))
	}

	dest := vault.ArchivedPath(target)
	if err := rename(target, dest); err != nil {
		return nil, err
	}

	result := &ArchiveResult{Name: displayName(d, target), From: target, To: dest, Dir: opts.Dir}
	d.record(audit.Entry{Operation: "archive", Entry: result.Name, Dir: opts.Dir})
	return result, nil
}

// Unarchive restores an archived entry or directory. The name may be given
// with or without the leading dot.
//
// Returns ErrNotFound if neither the archived nor the visible form exists.
// Returns ErrNotArchived if only the visible form exists.
// Returns ErrTypeMismatch as Archive does.
func Unarchive(ctx context.Context, d *Deps, opts ArchiveOptions) (*ArchiveResult, error) {
	target, err := vault.ArchiveTarget(d.Config, opts.Name, opts.Dir, d.extensions())
	if err != nil {
		return nil, err
	}
	archived := target
	if !vault.IsArchived(target) {
		archived = vault.ArchivedPath(target)
	}

	info, err := os.Lstat(archived)
	if os.IsNotExist(err) {
		if _, visibleErr := os.Lstat(vault.RestoredPath(archived)); visibleErr == nil {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrNotArchived, vault.CleanName(opts.Name))
		}
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotFound, archived)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to stat %s: %v", kerrors.ErrIO, archived, err)
	}
	if err := checkType(info, archived, opts.Dir); err != nil {
		return nil, err
	}

	dest := vault.RestoredPath(archived)
	if err := rename(archived, dest); err != nil {
		return nil, err
	}

	result := &ArchiveResult{Name: displayName(d, dest), From: archived, To: dest, Dir: opts.Dir}
	d.record(audit.Entry{Operation: "restore", Entry: result.Name, Dir: opts.Dir})
	return result, nil
}

func checkType(info os.FileInfo, path string, dir bool) error {
	switch {
	case dir && !info.IsDir():
		return fmt.Errorf("%w: not a directory: %s", kerrors.ErrTypeMismatch, path)
	case !dir && !info.Mode().IsRegular():
		return fmt.Errorf("%w: not a file: %s", kerrors.ErrTypeMismatch, path)
	}
	return nil
}

func rename(from, to string) error {
	if _, err := os.Lstat(to); err == nil {
		return fmt.Errorf("%w: %s", kerrors.ErrAlreadyExists, to)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("%w: failed to rename %s to %s: %v", kerrors.ErrIO, from, to, err)
	}
	return nil
}

func displayName(d *Deps, path string) string {
	name, err := vault.NameOf(d.Config, path, d.extensions())
	if err != nil {
		return path
	}
	return name
}
