package completion

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstaller(t *testing.T) *Installer {
	t.Helper()
	return &Installer{
		Program:   "passman",
		Generator: &cobra.Command{Use: "passman"},
		ConfigDir: filepath.Join(t.TempDir(), "config"),
		HomeDir:   t.TempDir(),
	}
}

func TestInstallWritesScriptAndSourceLine(t *testing.T) {
	inst := newInstaller(t)

	res, err := inst.Install()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(inst.ConfigDir, "bash", "completions", "passman.bash"), res.ScriptPath)
	assert.True(t, res.SourceAdded)

	script, err := os.ReadFile(res.ScriptPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(script), Marker+"\n"))
	assert.Contains(t, string(script), "__start_passman")

	bashrc, err := os.ReadFile(filepath.Join(inst.HomeDir, ".bashrc"))
	require.NoError(t, err)
	assert.Contains(t, string(bashrc), "source "+res.ScriptPath)
}

func TestInstallIsIdempotent(t *testing.T) {
	inst := newInstaller(t)
	bashrcPath := filepath.Join(inst.HomeDir, ".bashrc")
	require.NoError(t, os.WriteFile(bashrcPath, []byte("export PATH=$PATH:~/bin\n"), 0644))

	_, err := inst.Install()
	require.NoError(t, err)
	res, err := inst.Install()
	require.NoError(t, err)
	assert.False(t, res.SourceAdded)

	bashrc, err := os.ReadFile(bashrcPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(bashrc), "source "+res.ScriptPath))
	assert.True(t, strings.HasPrefix(string(bashrc), "export PATH"))
}

type failingGenerator struct{}

func (failingGenerator) GenBashCompletionV2(io.Writer, bool) error {
	return errors.New("boom")
}

func TestInstallGeneratorFailure(t *testing.T) {
	inst := newInstaller(t)
	inst.Generator = failingGenerator{}

	_, err := inst.Install()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate completion script")

	_, statErr := os.Stat(filepath.Join(inst.HomeDir, ".bashrc"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstallUnwritableConfigDir(t *testing.T) {
	inst := newInstaller(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	inst.ConfigDir = blocker

	_, err := inst.Install()
	assert.Error(t, err)
}
