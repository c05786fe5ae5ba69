package workflows

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/passman/internal/editor"
	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/gitsync"
	logger "github.com/PolarWolf314/passman/internal/logging"
	"github.com/PolarWolf314/passman/internal/runner/runnertest"
)

func TestCreateShowRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bank", "hunter2"},
		{"mail/example.com", "p@ss\nuser: me"},
		{"deep/nested/dir/entry", "  spaced  \ttabs"},
		{"unicode", "пароль ✓"},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.create(t, tt.name, tt.text)

			res, err := Show(context.Background(), f.deps, ShowOptions{Name: tt.name})
			require.NoError(t, err)
			assert.Equal(t, tt.text, res.Text)
			assert.Equal(t, "rage", res.Backend)
		})
	}
}

func TestCreateScenario(t *testing.T) {
	f := newFixture(t)

	res := f.create(t, "mail/example.com", "p@ss\nline2")
	assert.Equal(t, f.path("mail", "example.com.rage"), res.Path)
	assert.FileExists(t, res.Path)
	assert.Equal(t, 1, f.syncer.calls)

	line, err := Show(context.Background(), f.deps, ShowOptions{Name: "mail/example.com", Line: 2})
	require.NoError(t, err)
	assert.Equal(t, "line2", line.Text)

	_, err = Show(context.Background(), f.deps, ShowOptions{Name: "mail/example.com", Line: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.ErrLineOutOfRange))
	assert.Contains(t, err.Error(), "mail/example.com has fewer than 5 lines")
}

func TestCreateAlreadyExists(t *testing.T) {
	f := newFixture(t)
	f.create(t, "bank", "first")

	f.deps.Editor = returns("second")
	_, err := Create(context.Background(), f.deps, CreateOptions{Name: "bank"})
	assert.True(t, errors.Is(err, kerrors.ErrAlreadyExists))

	res, err := Create(context.Background(), f.deps, CreateOptions{Name: "bank", Force: true})
	require.NoError(t, err)
	assert.True(t, res.Replaced)

	shown, err := Show(context.Background(), f.deps, ShowOptions{Name: "bank"})
	require.NoError(t, err)
	assert.Equal(t, "second", shown.Text)
}

func TestCreateAlreadyExistsUnderOtherBackend(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.path("bank.age"), []byte("age:x\nold"), 0600))

	_, err := Create(context.Background(), f.deps, CreateOptions{Name: "bank"})
	assert.True(t, errors.Is(err, kerrors.ErrAlreadyExists))

	f.deps.Editor = returns("new")
	_, err = Create(context.Background(), f.deps, CreateOptions{Name: "bank", Force: true})
	require.NoError(t, err)
	assert.NoFileExists(t, f.path("bank.age"))
	assert.FileExists(t, f.path("bank.rage"))
}

func TestCreateEmptyWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.deps.Editor = editorFunc(func(context.Context, []byte) ([]byte, error) { return nil, editor.ErrEmpty })

	_, err := Create(context.Background(), f.deps, CreateOptions{Name: "mail/empty"})
	assert.True(t, errors.Is(err, kerrors.ErrEditorFailure))
	assert.True(t, errors.Is(err, kerrors.ErrEmptyContent))
	assert.NoDirExists(t, f.path("mail"))
	assert.Equal(t, 0, f.syncer.calls)
}

func TestCreateWithPrompt(t *testing.T) {
	f := newFixture(t)
	f.secrets.answer = "s3cret"

	_, err := Create(context.Background(), f.deps, CreateOptions{Name: "wifi", Prompt: true, Echo: true})
	require.NoError(t, err)
	assert.True(t, f.secrets.echo)

	shown, err := Show(context.Background(), f.deps, ShowOptions{Name: "wifi"})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", shown.Text)
}

func TestCreateWithEmptyPrompt(t *testing.T) {
	f := newFixture(t)

	_, err := Create(context.Background(), f.deps, CreateOptions{Name: "wifi", Prompt: true})
	assert.True(t, errors.Is(err, kerrors.ErrEmptyContent))
	assert.NoFileExists(t, f.path("wifi.rage"))
}

func TestCreateMissingPublicKey(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.deps.Config.PublicKeyPath()))

	_, err := Create(context.Background(), f.deps, CreateOptions{Name: "bank"})
	assert.True(t, errors.Is(err, kerrors.ErrNotFound))
	assert.Contains(t, err.Error(), "passman init")
}

func TestCreateEncryptFailureLeavesNoFile(t *testing.T) {
	f := newFixture(t)
	f.rage.encryptErr = errors.New("rage exploded")
	f.deps.Editor = returns("text")

	_, err := Create(context.Background(), f.deps, CreateOptions{Name: "bank"})
	require.Error(t, err)
	assert.NoFileExists(t, f.path("bank.rage"))
	assert.Equal(t, 0, f.syncer.calls)
}

func TestCreateEmptyName(t *testing.T) {
	f := newFixture(t)
	_, err := Create(context.Background(), f.deps, CreateOptions{Name: " / "})
	assert.Error(t, err)
}

func TestCreateSucceedsWhenPushFails(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Mkdir(f.path(".git"), 0700))

	git := runnertest.New().Fail("git push", 1, "fatal: unable to access remote")
	f.deps.Syncer = gitsync.New(git, logger.Logger{Out: f.deps.Log.Out, Err: f.deps.Log.Err})
	f.deps.Editor = returns("hunter2")

	res, err := Create(context.Background(), f.deps, CreateOptions{Name: "bank"})
	require.NoError(t, err)
	assert.FileExists(t, res.Path)
	assert.False(t, res.Sync.OK())
	assert.True(t, res.Sync.Committed)
	assert.False(t, res.Sync.Pushed)
	assert.Equal(t, []string{"git add .", "git commit -m Sync vault", "git pull --rebase", "git push"}, git.Lines())
}
