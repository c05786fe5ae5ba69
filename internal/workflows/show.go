package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/passman/internal/audit"
	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/vault"
)

// ShowOptions configures the show workflow.
type ShowOptions struct {
	Name string

	// Line selects a single 1-based line. Zero returns the whole entry.
	Line int
}

// ShowResult contains the decrypted entry.
type ShowResult struct {
	Name    string
	Path    string
	Backend string

	// Text is the selected line, or the whole plaintext.
	Text string
}

// Show decrypts an entry.
//
// Returns ErrNotFound if the entry does not exist.
// Returns ErrLineOutOfRange if Line is beyond the last line.
func Show(ctx context.Context, d *Deps, opts ShowOptions) (*ShowResult, error) {
	name, err := vault.ValidateName(opts.Name)
	if err != nil {
		return nil, err
	}
	if opts.Line < 0 {
		return nil, fmt.Errorf("%w: line must be positive, got %d", kerrors.ErrLineOutOfRange, opts.Line)
	}

	path, err := vault.Locate(d.Config, name, d.extensions())
	if err != nil {
		return nil, err
	}
	backend := d.Backends.ForPath(path)

	d.Log.Debugf("Decrypting %s with %s", path, backend.Name())
	plaintext, err := backend.Decrypt(ctx, d.identityFor(backend), path)
	if err != nil {
		return nil, err
	}

	text := string(plaintext)
	if opts.Line > 0 {
		text, err = selectLine(text, opts.Line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s has fewer than %d lines", err, name, opts.Line)
		}
	}

	d.record(audit.Entry{Operation: "show", Entry: name, Backend: backend.Name()})

	return &ShowResult{Name: name, Path: path, Backend: backend.Name(), Text: text}, nil
}

// selectLine returns the n-th line. A trailing newline does not start an
// extra line and carriage returns are dropped.
func selectLine(text string, n int) (string, error) {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if text == "" || n > len(lines) {
		return "", kerrors.ErrLineOutOfRange
	}
	return strings.TrimSuffix(lines[n-1], "\r"), nil
}
