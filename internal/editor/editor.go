// Package editor obtains plaintext from the operator's editor through a
// scoped temporary file.
package editor

import (
	"context"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/runner"
)

// Editor lets the operator edit text.
type Editor interface {
	// Edit returns the edited text with trailing whitespace removed.
	// Empty results are reported as ErrEmpty.
	Edit(ctx context.Context, initial []byte) ([]byte, error)
}

type emptyError struct{}

func (emptyError) Error() string   { return "aborted: file was empty" }
func (emptyError) Unwrap() []error { return []error{kerrors.ErrEmptyContent, kerrors.ErrEditorFailure} }

// ErrEmpty is returned when the editor leaves nothing behind. It matches
// both ErrEmptyContent and ErrEditorFailure.
var ErrEmpty error = emptyError{}

// Exec runs an external editor program on a temporary file.
type Exec struct {
	// Program is the editor command line, e.g. "vim" or "code --wait".
	Program string
	Runner  runner.Runner

	// TempDir holds the scratch file. Empty means os.TempDir().
	TempDir string

	// WriteFile fills the scratch file. Defaults to os.WriteFile.
	WriteFile func(name string, data []byte, perm os.FileMode) error
}

// Edit implements Editor. The scratch file is created 0600 and removed
// before returning.
func (e *Exec) Edit(ctx context.Context, initial []byte) ([]byte, error) {
	program := strings.Fields(e.Program)
	if len(program) == 0 {
		program = []string{"vi"}
	}

	f, err := os.CreateTemp(e.TempDir, "passman-*.txt")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create temporary file: %v", kerrors.ErrIO, err)
	}
	path := f.Name()
	defer os.Remove(path)
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to close temporary file: %v", kerrors.ErrIO, err)
	}

	write := e.WriteFile
	if write == nil {
		write = os.WriteFile
	}
	if err := write(path, initial, 0600); err != nil {
		return nil, fmt.Errorf("%w: failed to write to temporary file %s: %v", kerrors.ErrIO, path, err)
	}

	res, err := e.Runner.Run(ctx, runner.Command{
		Name:        program[0],
		Args:        append(program[1:], path),
		Interactive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to launch %s: %v", kerrors.ErrEditorFailure, program[0], err)
	}
	if !res.Success() {
		return nil, fmt.Errorf("%w: %s exited with status %d", kerrors.ErrEditorFailure, program[0], res.ExitCode)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read temporary file: %v", kerrors.ErrIO, err)
	}

	content = []byte(strings.TrimRight(string(content), " \t\r\n"))
	if len(content) == 0 {
		return nil, ErrEmpty
	}
	return content, nil
}
