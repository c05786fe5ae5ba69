package workflows

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/passman/internal/bootstrap"
	"github.com/PolarWolf314/passman/internal/completion"
	"github.com/PolarWolf314/passman/internal/git"
	"github.com/PolarWolf314/passman/internal/runner/runnertest"
)

type answers struct {
	confirms []bool
	inputs   []string
}

func (a *answers) Confirm(string, bool) (bool, error) {
	v := a.confirms[0]
	a.confirms = a.confirms[1:]
	return v, nil
}

func (a *answers) Input(string) (string, error) {
	v := a.inputs[0]
	a.inputs = a.inputs[1:]
	return v, nil
}

type keepKeys struct{}

func (keepKeys) Generate(context.Context, string, string) (string, error) {
	return testRecipient, nil
}

type noCompletion struct{}

func (noCompletion) Install() (*completion.Result, error) { return &completion.Result{}, nil }

func TestInitRecordsRemote(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.deps.Config.SecretKeyPath))
	require.NoError(t, os.Remove(f.deps.Config.PublicKeyPath()))

	gitRunner := runnertest.New()
	var states []bootstrap.State

	res, err := Init(context.Background(), f.deps, InitOptions{
		Prompter:     &answers{confirms: []bool{true}, inputs: []string{"https://example.com/vault.git"}},
		Keys:         keepKeys{},
		Repo:         git.Open(f.deps.Config.VaultRoot, gitRunner),
		Completion:   noCompletion{},
		OnTransition: func(_, to bootstrap.State) { states = append(states, to) },
	})
	require.NoError(t, err)
	assert.Equal(t, bootstrap.Pushed, res.State)
	assert.True(t, res.KeysGenerated)
	assert.Equal(t, bootstrap.Pushed, states[len(states)-1])

	entries, err := f.deps.Audit.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "init", entries[0].Operation)
	assert.Equal(t, "https://example.com/vault.git", entries[0].Remote)
	require.NotNil(t, entries[0].Synced)
	assert.True(t, *entries[0].Synced)
}
