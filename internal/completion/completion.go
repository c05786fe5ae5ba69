// Package completion installs the bash completion script and makes sure
// ~/.bashrc sources it.
package completion

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Marker is the first line of every installed script.
const Marker = "# passman bash completion"

// Generator writes a bash completion script. *cobra.Command satisfies it.
type Generator interface {
	GenBashCompletionV2(w io.Writer, includeDesc bool) error
}

// Installer writes the completion script below ConfigDir and appends a
// source line to HomeDir/.bashrc when one is missing.
type Installer struct {
	Program   string
	Generator Generator

	// ConfigDir defaults to os.UserConfigDir and HomeDir to os.UserHomeDir.
	ConfigDir string
	HomeDir   string
}

// Result describes what Install changed.
type Result struct {
	ScriptPath string
	BashrcPath string

	// SourceAdded is true when the source line was appended this time.
	SourceAdded bool
}

// ScriptPath returns <config_dir>/bash/completions/<program>.bash.
func (i *Installer) ScriptPath() (string, error) {
	dir := i.ConfigDir
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to find config directory: %w", err)
		}
	}
	return filepath.Join(dir, "bash", "completions", i.Program+".bash"), nil
}

// Install regenerates the script and wires it into ~/.bashrc.
func (i *Installer) Install() (*Result, error) {
	scriptPath, err := i.ScriptPath()
	if err != nil {
		return nil, err
	}

	var script bytes.Buffer
	script.WriteString(Marker + "\n")
	if err := i.Generator.GenBashCompletionV2(&script, true); err != nil {
		return nil, fmt.Errorf("failed to generate completion script: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(scriptPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(scriptPath), err)
	}
	// #nosec G306 -- completion scripts are not secret.
	if err := os.WriteFile(scriptPath, script.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write completion script: %w", err)
	}

	home := i.HomeDir
	if home == "" {
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to find home directory: %w", err)
		}
	}
	bashrc := filepath.Join(home, ".bashrc")

	added, err := ensureSourced(bashrc, scriptPath)
	if err != nil {
		return nil, err
	}
	return &Result{ScriptPath: scriptPath, BashrcPath: bashrc, SourceAdded: added}, nil
}

func ensureSourced(bashrc, scriptPath string) (bool, error) {
	sourceLine := "source " + scriptPath

	f, err := os.Open(bashrc)
	switch {
	case err == nil:
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == sourceLine {
				f.Close()
				return false, nil
			}
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read %s: %w", bashrc, err)
		}
	case !os.IsNotExist(err):
		return false, fmt.Errorf("failed to open %s: %w", bashrc, err)
	}

	out, err := os.OpenFile(bashrc, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", bashrc, err)
	}
	defer out.Close()

	if _, err := fmt.Fprintf(out, "\n# Added by passman\n%s\n", sourceLine); err != nil {
		return false, fmt.Errorf("failed to update %s: %w", bashrc, err)
	}
	return true, nil
}
