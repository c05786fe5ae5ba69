package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
)

const (
	// AppName names the data directory under XDG_DATA_HOME.
	AppName = "passman"

	// DefaultPublicKeyFilename is used when PASSMAN_PUBLIC_KEY is unset.
	DefaultPublicKeyFilename = "public.key"

	// DefaultEditor is used when EDITOR is unset.
	DefaultEditor = "vi"
)

// Config is the runtime configuration of a single invocation. It is built
// once by Load and passed by value; WithExtension derives the final value
// once the backend is known.
type Config struct {
	// BaseDir holds the vault, the key files and the settings file.
	BaseDir string

	// VaultRoot is <BaseDir>/vault, the git working tree.
	VaultRoot string

	// SecretKeyPath is <BaseDir>/private.<CryptoExtension>.
	SecretKeyPath string

	// CryptoExtension is the entry suffix and backend name ("age" or "rage").
	// Empty until a backend has been chosen.
	CryptoExtension string

	PublicKeyFilename string
	Editor            string

	SettingsPath string
	AuditLogPath string
}

// Load builds the configuration from the process environment.
func Load() (Config, error) {
	return LoadWithEnv(nil)
}

// LoadWithEnv builds the configuration from vars instead of the process
// environment. Precedence: environment, then <base_dir>/config.toml, then
// defaults.
func LoadWithEnv(vars map[string]string) (Config, error) {
	e, err := parseEnv(vars)
	if err != nil {
		return Config{}, err
	}

	baseDir, err := resolveBaseDir(e)
	if err != nil {
		return Config{}, err
	}
	settingsPath := filepath.Join(baseDir, "config.toml")

	fileSettings, err := LoadSettings(settingsPath)
	if err != nil {
		return Config{}, err
	}

	settings := Settings{
		CryptoExtension:   normalizeExtension(e.Backend),
		PublicKeyFilename: e.PublicKeyFilename,
		Editor:            e.Editor,
	}
	if err := mergo.Merge(&settings, fileSettings); err != nil {
		return Config{}, fmt.Errorf("error merging settings: %w", err)
	}
	if err := mergo.Merge(&settings, Settings{
		PublicKeyFilename: DefaultPublicKeyFilename,
		Editor:            DefaultEditor,
	}); err != nil {
		return Config{}, fmt.Errorf("error applying defaults: %w", err)
	}

	cfg := Config{
		BaseDir:           baseDir,
		VaultRoot:         filepath.Join(baseDir, "vault"),
		PublicKeyFilename: settings.PublicKeyFilename,
		Editor:            settings.Editor,
		SettingsPath:      settingsPath,
		AuditLogPath:      filepath.Join(baseDir, "audit.jsonl"),
	}
	return cfg.WithExtension(normalizeExtension(settings.CryptoExtension)), nil
}

func resolveBaseDir(e *environment) (string, error) {
	if e.BaseDir != "" {
		return filepath.Clean(e.BaseDir), nil
	}

	dataHome := e.DataHome
	if dataHome == "" {
		home := e.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("error getting home directory: %w", err)
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName), nil
}

// WithExtension returns a copy of c using ext as the crypto extension.
func (c Config) WithExtension(ext string) Config {
	ext = normalizeExtension(ext)
	c.CryptoExtension = ext
	if ext == "" {
		c.SecretKeyPath = ""
	} else {
		c.SecretKeyPath = filepath.Join(c.BaseDir, "private."+ext)
	}
	return c
}

// PublicKeyPath returns the location of the recipient file.
func (c Config) PublicKeyPath() string {
	if filepath.IsAbs(c.PublicKeyFilename) {
		return c.PublicKeyFilename
	}
	return filepath.Join(c.BaseDir, c.PublicKeyFilename)
}

// EnsureLayout creates the base and vault directories.
func EnsureLayout(c Config) error {
	if err := os.MkdirAll(c.VaultRoot, 0700); err != nil {
		return fmt.Errorf("failed to create vault directory %s: %w", c.VaultRoot, err)
	}
	return nil
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
