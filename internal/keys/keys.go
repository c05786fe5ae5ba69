// Package keys generates identities with the backend's keygen tool and
// reads the recipient that new entries are encrypted to.
package keys

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/runner"
)

const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// KeygenTool returns the keygen executable matching the identity file's
// extension: age-keygen for ".age", rage-keygen otherwise.
func KeygenTool(secretPath string) string {
	if filepath.Ext(secretPath) == ".age" {
		return "age-keygen"
	}
	return "rage-keygen"
}

func installHint(tool string) string {
	if tool == "age-keygen" {
		return "`age-keygen` not found. Please install age: https://github.com/FiloSottile/age"
	}
	return "`rage-keygen` not found. Please install rage: https://github.com/str4d/rage"
}

// Generator creates keypairs.
type Generator struct {
	Runner   runner.Runner
	LookPath runner.LookPathFunc
}

// NewGenerator returns a Generator using r and exec.LookPath.
func NewGenerator(r runner.Runner) *Generator {
	return &Generator{Runner: r, LookPath: exec.LookPath}
}

// Generate writes a fresh identity to secretPath and its public key to
// publicPath, returning the public key.
func (g *Generator) Generate(ctx context.Context, secretPath, publicPath string) (string, error) {
	tool := KeygenTool(secretPath)

	if g.LookPath != nil {
		if _, err := g.LookPath(tool); err != nil {
			return "", fmt.Errorf("%w: %s", kerrors.ErrBackendUnavailable, installHint(tool))
		}
	}

	if err := os.MkdirAll(filepath.Dir(secretPath), 0700); err != nil {
		return "", fmt.Errorf("failed to create directory for identity file: %w", err)
	}

	res, err := g.Runner.Run(ctx, runner.Command{Name: tool, Args: []string{"-o", secretPath}})
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrBackendLaunch, err)
	}
	if !res.Success() {
		return "", fmt.Errorf("%w: %s failed to generate identity: %s", kerrors.ErrCryptoFailure, tool, strings.TrimSpace(string(res.Stderr)))
	}

	res, err = g.Runner.Run(ctx, runner.Command{Name: tool, Args: []string{"-y", secretPath}})
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrBackendLaunch, err)
	}
	if !res.Success() {
		return "", fmt.Errorf("%w: public key extraction failed: %s", kerrors.ErrCryptoFailure, strings.TrimSpace(string(res.Stderr)))
	}

	publicKey := strings.TrimSpace(string(res.Stdout))
	if err := os.MkdirAll(filepath.Dir(publicPath), 0700); err != nil {
		return "", fmt.Errorf("failed to create directory for recipient file: %w", err)
	}
	// #nosec G306 -- the recipient is public by definition.
	if err := os.WriteFile(publicPath, []byte(publicKey+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write public key to %s: %w", publicPath, err)
	}

	return publicKey, nil
}

// Exists reports whether either key file is present.
func Exists(secretPath, publicPath string) bool {
	for _, p := range []string{secretPath, publicPath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// Remove deletes both key files, ignoring files that are already gone.
func Remove(secretPath, publicPath string) error {
	for _, p := range []string{secretPath, publicPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// ReadRecipient returns the first recipient in the public key file.
// Blank lines and # comments are skipped.
func ReadRecipient(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: public key %s (run `passman init` first)", kerrors.ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read public key %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ValidateRecipient(line); err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read public key %s: %w", path, err)
	}
	return "", fmt.Errorf("%w: %s is empty", kerrors.ErrInvalidRecipient, path)
}

// ValidateRecipient accepts native age recipients (age1...) and the SSH
// public keys age can encrypt to.
func ValidateRecipient(recipient string) error {
	switch {
	case strings.HasPrefix(recipient, "age1"):
		for _, c := range recipient[len("age1"):] {
			if !strings.ContainsRune(bech32Charset, c) {
				return fmt.Errorf("%w: %q is not a valid age recipient", kerrors.ErrInvalidRecipient, recipient)
			}
		}
		if len(recipient) < 10 {
			return fmt.Errorf("%w: %q is too short", kerrors.ErrInvalidRecipient, recipient)
		}
		return nil
	case strings.HasPrefix(recipient, "ssh-"):
		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(recipient))
		if err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrInvalidRecipient, err)
		}
		switch key.Type() {
		case ssh.KeyAlgoED25519, ssh.KeyAlgoRSA:
			return nil
		default:
			return fmt.Errorf("%w: unsupported ssh key type %s", kerrors.ErrInvalidRecipient, key.Type())
		}
	default:
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidRecipient, recipient)
	}
}
