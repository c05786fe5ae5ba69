// Package cmd contains testing utilities shared between integration tests.
// This file provides a scripted vault environment: a temporary data
// directory, fake rage and git executables and a fake editor.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	logger "github.com/PolarWolf314/passman/internal/logging"
	"github.com/PolarWolf314/passman/internal/runner"
	"github.com/PolarWolf314/passman/internal/runner/runnertest"
)

// testRecipient is a syntactically valid age recipient.
const testRecipient = "age1qpzry9x8gf2tvdw0s3jn54khce6mua7lqpzry9x8gf2tvdw0s3jn5"

// testVault is an isolated passman environment.
type testVault struct {
	t *testing.T

	// BaseDir holds keys, settings and the vault.
	BaseDir string
	Home    string
	Config  string

	Runner *runnertest.Fake

	// EditorText is what the fake editor saves.
	EditorText string
}

// setupTestVault points passman at temporary directories and replaces
// every external program with a fake. The installed tools are rage,
// rage-keygen and git.
func setupTestVault(t *testing.T) *testVault {
	t.Helper()

	root := t.TempDir()
	v := &testVault{
		t:       t,
		BaseDir: filepath.Join(root, "data"),
		Home:    filepath.Join(root, "home"),
		Config:  filepath.Join(root, "config"),
		Runner:  runnertest.New(),
	}
	for _, dir := range []string{v.Home, v.Config} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	v.Runner.On("rage -r", v.encrypt)
	v.Runner.On("rage -d", v.decrypt)
	v.Runner.On("rage-keygen -o", v.keygen)
	v.Runner.On("rage-keygen -y", func(runner.Command) (*runner.Result, error) {
		return &runner.Result{Stdout: []byte(testRecipient + "\n")}, nil
	})
	v.Runner.On("fake-editor", v.edit)
	v.Runner.On("git init", func(c runner.Command) (*runner.Result, error) {
		return &runner.Result{}, os.MkdirAll(filepath.Join(c.Dir, ".git"), 0755)
	})

	ResetGlobalState()
	SetRunner(v.Runner)
	SetLookPath(func(name string) (string, error) {
		switch name {
		case "rage", "rage-keygen", "git":
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	})
	SetEnv(map[string]string{
		"PASSMAN_DIR": v.BaseDir,
		"HOME":        v.Home,
		"EDITOR":      "fake-editor",
	})
	SetLogger(logger.Logger{})
	completionConfigDir = v.Config
	completionHomeDir = v.Home

	t.Cleanup(ResetGlobalState)
	return v
}

// seedKeys writes a rage identity and public key, as init would.
func (v *testVault) seedKeys() {
	v.t.Helper()
	if err := os.MkdirAll(filepath.Join(v.BaseDir, "vault"), 0700); err != nil {
		v.t.Fatalf("Failed to create vault: %v", err)
	}
	v.writeFile(filepath.Join(v.BaseDir, "private.rage"), "AGE-SECRET-KEY-1TEST\n")
	v.writeFile(filepath.Join(v.BaseDir, "public.key"), testRecipient+"\n")
}

// entryPath returns the on-disk path of a rage entry.
func (v *testVault) entryPath(name string) string {
	return filepath.Join(v.BaseDir, "vault", filepath.FromSlash(name)+".rage")
}

// run executes passman with args and stdin, returning combined output.
func (v *testVault) run(input string, args ...string) (string, error) {
	resetCommandState()
	SetStdin(strings.NewReader(input))
	return captureOutput(func() error {
		RootCmd.SetArgs(args)
		return RootCmd.Execute()
	})
}

func (v *testVault) writeFile(path, content string) {
	v.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		v.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		v.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// encrypt stands in for `rage -r <recipient> -o <output>`. The ciphertext
// is a header line naming the recipient followed by the plaintext.
func (v *testVault) encrypt(c runner.Command) (*runner.Result, error) {
	out := c.Args[3]
	data := append([]byte("rage:"+c.Args[1]+"\n"), c.Stdin...)
	if err := os.WriteFile(out, data, 0600); err != nil {
		return &runner.Result{ExitCode: 1, Stderr: []byte(err.Error())}, nil
	}
	return &runner.Result{}, nil
}

// decrypt stands in for `rage -d -i <identity> <input>`.
func (v *testVault) decrypt(c runner.Command) (*runner.Result, error) {
	data, err := os.ReadFile(c.Args[3])
	if err != nil {
		return &runner.Result{ExitCode: 1, Stderr: []byte(err.Error())}, nil
	}
	_, plaintext, ok := bytes.Cut(data, []byte("\n"))
	if !ok {
		return &runner.Result{ExitCode: 1, Stderr: []byte("no header")}, nil
	}
	return &runner.Result{Stdout: plaintext}, nil
}

func (v *testVault) keygen(c runner.Command) (*runner.Result, error) {
	if err := os.WriteFile(c.Args[1], []byte("AGE-SECRET-KEY-1TEST\n"), 0600); err != nil {
		return &runner.Result{ExitCode: 1, Stderr: []byte(err.Error())}, nil
	}
	return &runner.Result{}, nil
}

// edit saves EditorText over the file named by the last argument.
func (v *testVault) edit(c runner.Command) (*runner.Result, error) {
	path := c.Args[len(c.Args)-1]
	if err := os.WriteFile(path, []byte(v.EditorText), 0600); err != nil {
		return &runner.Result{ExitCode: 1}, nil
	}
	return &runner.Result{}, nil
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	for _, r := range []io.Reader{stdoutReader, stderrReader} {
		go func(r io.Reader) {
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, r); err != nil {
				log.Fatalf("Failed to run copy command: %s", err)
			}
			outputChan <- buf.String()
		}(r)
	}

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output; the two streams may arrive in either order.
	first := <-outputChan
	second := <-outputChan

	return first + second, err
}

// mustContain fails the test when output lacks any of want.
func mustContain(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("Expected %q in output:\n%s", w, output)
		}
	}
}

// readEntry returns the plaintext of a fake-encrypted entry.
func (v *testVault) readEntry(name string) string {
	v.t.Helper()
	data, err := os.ReadFile(v.entryPath(name))
	if err != nil {
		v.t.Fatalf("Failed to read entry %s: %v", name, err)
	}
	_, plaintext, _ := bytes.Cut(data, []byte("\n"))
	return string(plaintext)
}
