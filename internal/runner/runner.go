// Package runner abstracts external process execution.
//
// Every tool passman drives (age, rage, their keygens, git and the editor)
// goes through a Runner so that callers can substitute a fake in tests.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes a single process invocation.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Stdin is written to the process's standard input when non-nil.
	Stdin []byte

	// Interactive attaches the process to the terminal instead of
	// capturing its output. Used for the editor.
	Interactive bool
}

// String renders the command line for logging.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the process exited with status zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes commands.
//
// Run returns an error only when the process could not be started or waited
// on. A process that ran and exited non-zero is reported through
// Result.ExitCode with a nil error.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// LookPathFunc resolves an executable name against $PATH.
type LookPathFunc func(file string) (string, error)

// Exec runs commands with os/exec.
type Exec struct {
	// Stdin, Stdout and Stderr are used for interactive commands.
	// They default to the process's own standard streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (e Exec) Run(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	if c.Interactive {
		cmd.Stdin = orReader(e.Stdin, os.Stdin)
		cmd.Stdout = orWriter(e.Stdout, os.Stdout)
		cmd.Stderr = orWriter(e.Stderr, os.Stderr)
	} else {
		if c.Stdin != nil {
			cmd.Stdin = bytes.NewReader(c.Stdin)
		}
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	result := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	default:
		return nil, fmt.Errorf("failed to run %s: %w", c.Name, err)
	}
}

func orReader(r, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
