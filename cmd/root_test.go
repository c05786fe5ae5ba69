package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{"already exists", fmt.Errorf("%w: bank", kerrors.ErrAlreadyExists), "--force"},
		{"already archived", fmt.Errorf("%w: bank", kerrors.ErrAlreadyArchived), "passman restore"},
		{"not found", fmt.Errorf("%w: bank", kerrors.ErrNotFound), "passman list"},
		{"not initialized", fmt.Errorf("%w: vault missing (run `passman init` first)", kerrors.ErrNotFound), ""},
		{"other", errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			if !strings.Contains(got, tt.err.Error()) {
				t.Errorf("Expected the error text in %q", got)
			}
			lines := strings.Split(got, "\n")
			if tt.hint == "" {
				if len(lines) != 1 {
					t.Errorf("Expected no hint, got %q", got)
				}
				return
			}
			if len(lines) != 2 || !strings.Contains(lines[1], tt.hint) {
				t.Errorf("Expected hint %q, got %q", tt.hint, got)
			}
		})
	}
}

func TestShowConfig(t *testing.T) {
	v := setupTestVault(t)
	v.seedKeys()

	output, err := v.run("", "show", "--config")
	if err != nil {
		t.Fatalf("show --config failed: %v\nOutput: %s", err, output)
	}

	var report struct {
		Config struct {
			VaultRoot       string `toml:"vault_root"`
			CryptoExtension string `toml:"crypto_extension"`
			Editor          string `toml:"editor"`
		} `toml:"config"`
		Tools map[string]string `toml:"tools"`
		Git   struct {
			Repository bool `toml:"repository"`
		} `toml:"git"`
	}
	if _, err := toml.Decode(output, &report); err != nil {
		t.Fatalf("Output is not TOML: %v\n%s", err, output)
	}
	if report.Config.CryptoExtension != "rage" {
		t.Errorf("crypto_extension = %q, want rage", report.Config.CryptoExtension)
	}
	if report.Config.Editor != "fake-editor" {
		t.Errorf("editor = %q, want fake-editor", report.Config.Editor)
	}
	if !strings.HasSuffix(report.Config.VaultRoot, "vault") {
		t.Errorf("vault_root = %q", report.Config.VaultRoot)
	}
	if report.Tools["rage"] != "/usr/bin/rage" {
		t.Errorf("Expected rage in tools, got %v", report.Tools)
	}
	if report.Git.Repository {
		t.Error("Vault should not be a repository")
	}
}

func TestUnknownArgs(t *testing.T) {
	v := setupTestVault(t)

	if _, err := v.run("", "show"); err == nil {
		t.Error("show without a name should fail")
	}
	if _, err := v.run("", "show", "a", "--config"); err == nil {
		t.Error("show --config with a name should fail")
	}
}
