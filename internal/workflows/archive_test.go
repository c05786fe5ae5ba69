package workflows

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
)

func TestArchiveAndUnarchive(t *testing.T) {
	f := newFixture(t)
	f.create(t, "mail/example.com", "p@ss")
	ctx := context.Background()

	res, err := Archive(ctx, f.deps, ArchiveOptions{Name: "mail/example.com"})
	require.NoError(t, err)
	assert.Equal(t, "mail/example.com", res.Name)
	assert.Equal(t, f.path("mail", ".example.com.rage"), res.To)
	assert.FileExists(t, res.To)

	_, err = Show(ctx, f.deps, ShowOptions{Name: "mail/example.com"})
	assert.True(t, errors.Is(err, kerrors.ErrNotFound))

	_, err = Archive(ctx, f.deps, ArchiveOptions{Name: "mail/example.com"})
	assert.True(t, errors.Is(err, kerrors.ErrAlreadyArchived))
	_, err = Archive(ctx, f.deps, ArchiveOptions{Name: "mail/.example.com"})
	assert.True(t, errors.Is(err, kerrors.ErrAlreadyArchived))

	restored, err := Unarchive(ctx, f.deps, ArchiveOptions{Name: "mail/example.com"})
	require.NoError(t, err)
	assert.Equal(t, f.path("mail", "example.com.rage"), restored.To)

	shown, err := Show(ctx, f.deps, ShowOptions{Name: "mail/example.com"})
	require.NoError(t, err)
	assert.Equal(t, "p@ss", shown.Text)

	_, err = Unarchive(ctx, f.deps, ArchiveOptions{Name: "mail/example.com"})
	assert.True(t, errors.Is(err, kerrors.ErrNotArchived))

	assert.Equal(t, 1, f.syncer.calls, "archive and restore do not sync")
}

func TestUnarchiveByDottedName(t *testing.T) {
	f := newFixture(t)
	f.create(t, "bank", "x")
	ctx := context.Background()

	_, err := Archive(ctx, f.deps, ArchiveOptions{Name: "bank.rage"})
	require.NoError(t, err)

	res, err := Unarchive(ctx, f.deps, ArchiveOptions{Name: ".bank"})
	require.NoError(t, err)
	assert.Equal(t, "bank", res.Name)
	assert.FileExists(t, f.path("bank.rage"))
}

func TestArchiveDirectory(t *testing.T) {
	f := newFixture(t)
	f.create(t, "old/a", "1")
	f.create(t, "old/b", "2")
	ctx := context.Background()

	_, err := Archive(ctx, f.deps, ArchiveOptions{Name: "old"})
	assert.True(t, errors.Is(err, kerrors.ErrNotFound), "file mode looks for old.rage")

	res, err := Archive(ctx, f.deps, ArchiveOptions{Name: "old", Dir: true})
	require.NoError(t, err)
	assert.DirExists(t, f.path(".old"))
	assert.True(t, res.Dir)

	list, err := List(ctx, f.deps, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list.Tree.Children)

	_, err = Unarchive(ctx, f.deps, ArchiveOptions{Name: "old", Dir: true})
	require.NoError(t, err)
	assert.DirExists(t, f.path("old"))
}

func TestArchiveTypeMismatch(t *testing.T) {
	f := newFixture(t)
	f.create(t, "bank", "x")
	require.NoError(t, os.MkdirAll(f.path("cards.rage"), 0700))
	ctx := context.Background()

	_, err := Archive(ctx, f.deps, ArchiveOptions{Name: "bank.rage", Dir: true})
	assert.True(t, errors.Is(err, kerrors.ErrTypeMismatch))

	_, err = Archive(ctx, f.deps, ArchiveOptions{Name: "cards"})
	assert.True(t, errors.Is(err, kerrors.ErrTypeMismatch))
}

func TestArchiveNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := Archive(context.Background(), f.deps, ArchiveOptions{Name: "ghost"})
	assert.True(t, errors.Is(err, kerrors.ErrNotFound))

	_, err = Unarchive(context.Background(), f.deps, ArchiveOptions{Name: "ghost"})
	assert.True(t, errors.Is(err, kerrors.ErrNotFound))
}

func TestArchiveRefusesToClobber(t *testing.T) {
	f := newFixture(t)
	f.create(t, "bank", "x")
	require.NoError(t, os.WriteFile(f.path(".bank.rage"), []byte("rage:x\nolder"), 0600))

	_, err := Archive(context.Background(), f.deps, ArchiveOptions{Name: "bank"})
	assert.True(t, errors.Is(err, kerrors.ErrAlreadyExists))
	assert.FileExists(t, f.path("bank.rage"))
}
