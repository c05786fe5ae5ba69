package workflows

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/passman/internal/audit"
	"github.com/PolarWolf314/passman/internal/configs"
	"github.com/PolarWolf314/passman/internal/crypto"
	"github.com/PolarWolf314/passman/internal/gitsync"
	logger "github.com/PolarWolf314/passman/internal/logging"
	"github.com/PolarWolf314/passman/internal/runner/runnertest"
)

const testRecipient = "age1ql3z7hjy54pw3hyww5ayyfg7zqgvc7w3j2elw8zmrj2kg5sfn9aqmcac8p"

// fakeBackend stores plaintext behind a header instead of encrypting it.
type fakeBackend struct {
	ext        string
	identities []string
	encryptErr error
}

func (b *fakeBackend) Name() string      { return b.ext }
func (b *fakeBackend) Extension() string { return b.ext }

func (b *fakeBackend) Encrypt(_ context.Context, recipient, outputPath string, plaintext []byte) error {
	if b.encryptErr != nil {
		return b.encryptErr
	}
	header := fmt.Sprintf("%s:%s\n", b.ext, recipient)
	return os.WriteFile(outputPath, append([]byte(header), plaintext...), 0600)
}

func (b *fakeBackend) Decrypt(_ context.Context, identityPath, inputPath string) ([]byte, error) {
	b.identities = append(b.identities, identityPath)
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return nil, &crypto.CryptoError{Tool: b.ext, Op: "decryption", Path: inputPath, Stderr: "no header"}
	}
	return data[i+1:], nil
}

type editorFunc func(ctx context.Context, initial []byte) ([]byte, error)

func (f editorFunc) Edit(ctx context.Context, initial []byte) ([]byte, error) { return f(ctx, initial) }

func returns(text string) editorFunc {
	return func(context.Context, []byte) ([]byte, error) { return []byte(text), nil }
}

type fakeSecrets struct {
	answer string
	echo   bool
}

func (s *fakeSecrets) Password(_ string, echo bool) (string, error) {
	s.echo = echo
	return s.answer, nil
}

type fakeSyncer struct {
	calls   int
	outcome gitsync.Outcome
}

func (s *fakeSyncer) Sync(context.Context, string) gitsync.Outcome {
	s.calls++
	return s.outcome
}

type fixture struct {
	deps    *Deps
	rage    *fakeBackend
	age     *fakeBackend
	syncer  *fakeSyncer
	secrets *fakeSecrets
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	cfg := configs.Config{
		BaseDir:           base,
		VaultRoot:         filepath.Join(base, "vault"),
		PublicKeyFilename: configs.DefaultPublicKeyFilename,
		AuditLogPath:      filepath.Join(base, "audit.jsonl"),
	}.WithExtension("rage")
	require.NoError(t, configs.EnsureLayout(cfg))
	require.NoError(t, os.WriteFile(cfg.PublicKeyPath(), []byte(testRecipient+"\n"), 0644))
	require.NoError(t, os.WriteFile(cfg.SecretKeyPath, []byte("AGE-SECRET-KEY-1"), 0600))

	f := &fixture{
		rage:    &fakeBackend{ext: "rage"},
		age:     &fakeBackend{ext: "age"},
		syncer:  &fakeSyncer{outcome: gitsync.Outcome{Staged: true, Committed: true, Pulled: true, Pushed: true}},
		secrets: &fakeSecrets{},
	}
	reg := crypto.NewRegistry(runnertest.New(), "rage")
	reg.Register(f.rage)
	reg.Register(f.age)

	f.deps = &Deps{
		Config:   cfg,
		Backends: reg,
		Editor:   returns("unused"),
		Secrets:  f.secrets,
		Syncer:   f.syncer,
		Audit:    audit.New(cfg.AuditLogPath),
		Log:      logger.Logger{Out: io.Discard, Err: io.Discard},
	}
	return f
}

func (f *fixture) create(t *testing.T, name, text string) *CreateResult {
	t.Helper()
	f.deps.Editor = returns(text)
	res, err := Create(context.Background(), f.deps, CreateOptions{Name: name})
	require.NoError(t, err)
	return res
}

func (f *fixture) path(parts ...string) string {
	return filepath.Join(append([]string{f.deps.Config.VaultRoot}, parts...)...)
}
