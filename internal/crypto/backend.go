package crypto

import (
	"context"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/runner"
)

// Backend encrypts and decrypts vault entries.
type Backend interface {
	// Name is the tool name, e.g. "rage".
	Name() string

	// Extension is the entry suffix without the dot. It equals Name for the
	// built-in backends.
	Extension() string

	// Encrypt writes plaintext encrypted to recipient into outputPath.
	Encrypt(ctx context.Context, recipient, outputPath string, plaintext []byte) error

	// Decrypt returns the plaintext of inputPath using the identity file.
	Decrypt(ctx context.Context, identityPath, inputPath string) ([]byte, error)
}

// CryptoError reports a tool that ran but exited non-zero.
type CryptoError struct {
	Tool   string
	Op     string
	Path   string
	Stderr string
}

func (e *CryptoError) Error() string {
	msg := fmt.Sprintf("%s %s failed for %s", e.Tool, e.Op, e.Path)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ":\n" + stderr
	}
	return msg
}

func (e *CryptoError) Unwrap() error { return kerrors.ErrCryptoFailure }

// LaunchError reports a tool that could not be started at all.
type LaunchError struct {
	Tool string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Tool, e.Err)
}

func (e *LaunchError) Unwrap() []error { return []error{kerrors.ErrBackendLaunch, e.Err} }

// Tool is a Backend that shells out to an age-compatible executable.
// age and rage share the same command line.
type Tool struct {
	name   string
	runner runner.Runner
}

// NewTool returns a backend driving the named executable.
func NewTool(name string, r runner.Runner) *Tool {
	return &Tool{name: name, runner: r}
}

// Age returns the backend for FiloSottile/age.
func Age(r runner.Runner) *Tool { return NewTool("age", r) }

// Rage returns the backend for str4d/rage.
func Rage(r runner.Runner) *Tool { return NewTool("rage", r) }

func (t *Tool) Name() string      { return t.name }
func (t *Tool) Extension() string { return t.name }

// Encrypt runs `<tool> -r <recipient> -o <output>` with plaintext on stdin.
func (t *Tool) Encrypt(ctx context.Context, recipient, outputPath string, plaintext []byte) error {
	if plaintext == nil {
		plaintext = []byte{}
	}
	res, err := t.runner.Run(ctx, runner.Command{
		Name:  t.name,
		Args:  []string{"-r", recipient, "-o", outputPath},
		Stdin: plaintext,
	})
	if err != nil {
		return &LaunchError{Tool: t.name, Err: err}
	}
	if !res.Success() {
		return &CryptoError{Tool: t.name, Op: "encryption", Path: outputPath, Stderr: string(res.Stderr)}
	}
	return nil
}

// Decrypt runs `<tool> -d -i <identity> <input>` and returns stdout.
func (t *Tool) Decrypt(ctx context.Context, identityPath, inputPath string) ([]byte, error) {
	res, err := t.runner.Run(ctx, runner.Command{
		Name: t.name,
		Args: []string{"-d", "-i", identityPath, inputPath},
	})
	if err != nil {
		return nil, &LaunchError{Tool: t.name, Err: err}
	}
	if !res.Success() {
		return nil, &CryptoError{Tool: t.name, Op: "decryption", Path: inputPath, Stderr: string(res.Stderr)}
	}
	return res.Stdout, nil
}
