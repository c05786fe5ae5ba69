package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
)

func TestRemovePrunesEmptyParents(t *testing.T) {
	f := newFixture(t)
	f.create(t, "work/mail/example.com", "a")
	f.create(t, "work/vpn", "b")

	res, err := Remove(context.Background(), f.deps, RemoveOptions{Name: "work/mail/example.com"})
	require.NoError(t, err)
	assert.NoFileExists(t, res.Path)
	assert.Equal(t, []string{f.path("work", "mail")}, res.PrunedDirs)
	assert.DirExists(t, f.path("work"))
	assert.DirExists(t, f.deps.Config.VaultRoot)
	assert.Equal(t, 3, f.syncer.calls)

	_, err = Show(context.Background(), f.deps, ShowOptions{Name: "work/mail/example.com"})
	assert.True(t, errors.Is(err, kerrors.ErrNotFound))
}

func TestRemoveNeverPrunesVaultRoot(t *testing.T) {
	f := newFixture(t)
	f.create(t, "only", "a")

	res, err := Remove(context.Background(), f.deps, RemoveOptions{Name: "only"})
	require.NoError(t, err)
	assert.Empty(t, res.PrunedDirs)
	assert.DirExists(t, f.deps.Config.VaultRoot)
}

func TestRemoveNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := Remove(context.Background(), f.deps, RemoveOptions{Name: "missing"})
	assert.True(t, errors.Is(err, kerrors.ErrNotFound))
	assert.Equal(t, 0, f.syncer.calls)
}
