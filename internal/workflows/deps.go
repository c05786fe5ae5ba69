package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/passman/internal/audit"
	"github.com/PolarWolf314/passman/internal/configs"
	"github.com/PolarWolf314/passman/internal/crypto"
	"github.com/PolarWolf314/passman/internal/editor"
	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/gitsync"
	"github.com/PolarWolf314/passman/internal/keys"
	logger "github.com/PolarWolf314/passman/internal/logging"
)

// Syncer propagates vault changes. *gitsync.Syncer implements it.
type Syncer interface {
	Sync(ctx context.Context, repoRoot string) gitsync.Outcome
}

// SecretReader reads a single-line secret from the operator.
// *prompt.Prompter implements it.
type SecretReader interface {
	Password(question string, echo bool) (string, error)
}

// Deps are the collaborators shared by every workflow.
type Deps struct {
	Config   configs.Config
	Backends *crypto.Registry
	Editor   editor.Editor
	Secrets  SecretReader
	Syncer   Syncer
	Audit    *audit.Log
	Log      logger.Logger
}

func (d *Deps) extensions() []string {
	return d.Backends.Extensions()
}

// backendForNew picks the backend used to create an entry.
func (d *Deps) backendForNew() crypto.Backend {
	return d.Backends.Select(d.Config.CryptoExtension)
}

// identityFor returns the identity file for a backend. age and rage share
// the key format, so when no file for the backend's own extension exists
// the configured identity is tried, then the key file of every other
// registered backend.
func (d *Deps) identityFor(b crypto.Backend) string {
	own := d.Config.WithExtension(b.Extension()).SecretKeyPath
	candidates := []string{own, d.Config.SecretKeyPath}
	for _, ext := range d.extensions() {
		candidates = append(candidates, d.Config.WithExtension(ext).SecretKeyPath)
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return own
}

func (d *Deps) recipient() (string, error) {
	return keys.ReadRecipient(d.Config.PublicKeyPath())
}

func (d *Deps) sync(ctx context.Context) gitsync.Outcome {
	if d.Syncer == nil {
		return gitsync.Outcome{Skipped: true}
	}
	return d.Syncer.Sync(ctx, d.Config.VaultRoot)
}

func (d *Deps) record(entry audit.Entry) {
	d.Audit.Record(entry)
}

func synced(o gitsync.Outcome) *bool {
	if o.Skipped {
		return nil
	}
	return audit.Bool(o.OK())
}

// encryptAtomically encrypts into a sibling file and renames it over path,
// so the entry is never left half written.
func encryptAtomically(ctx context.Context, b crypto.Backend, recipient, path string, plaintext []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := b.Encrypt(ctx, recipient, tmp, plaintext); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to replace %s: %v", kerrors.ErrIO, path, err)
	}
	return nil
}
