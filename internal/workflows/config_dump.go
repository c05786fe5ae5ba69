package workflows

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/BurntSushi/toml"

	"github.com/PolarWolf314/passman/internal/git"
	"github.com/PolarWolf314/passman/internal/runner"
)

// EnvVars are the variables reported by DumpConfig.
var EnvVars = []string{"PASSMAN_DIR", "XDG_DATA_HOME", "EDITOR", "PASSMAN_PUBLIC_KEY", "PASSMAN_BACKEND", "NO_COLOR"}

// Tools are the executables reported by DumpConfig.
var Tools = []string{"age", "age-keygen", "rage", "rage-keygen", "git"}

// ConfigReport describes the runtime configuration.
type ConfigReport struct {
	Config      ConfigSection     `toml:"config"`
	Environment map[string]string `toml:"environment"`
	Tools       map[string]string `toml:"tools"`
	Git         GitSection        `toml:"git"`
}

// ConfigSection mirrors configs.Config.
type ConfigSection struct {
	BaseDir         string `toml:"base_dir"`
	VaultRoot       string `toml:"vault_root"`
	SecretKey       string `toml:"secret_key"`
	PublicKey       string `toml:"public_key"`
	CryptoExtension string `toml:"crypto_extension"`
	Editor          string `toml:"editor"`
	SettingsFile    string `toml:"settings_file"`
	AuditLog        string `toml:"audit_log"`
}

// GitSection reports the state of the vault repository.
type GitSection struct {
	Repository bool   `toml:"repository"`
	Origin     string `toml:"origin,omitempty"`
}

// DumpConfigOptions configures the config dump.
type DumpConfigOptions struct {
	// Runner is used to query the origin URL.
	Runner runner.Runner

	// LookPath defaults to exec.LookPath and Getenv to os.Getenv.
	LookPath runner.LookPathFunc
	Getenv   func(string) string
}

// DumpConfig reports the configuration, relevant environment variables,
// tool locations and the vault's origin remote.
func DumpConfig(ctx context.Context, d *Deps, opts DumpConfigOptions) (*ConfigReport, error) {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := d.Config
	report := &ConfigReport{
		Config: ConfigSection{
			BaseDir:         cfg.BaseDir,
			VaultRoot:       cfg.VaultRoot,
			SecretKey:       cfg.SecretKeyPath,
			PublicKey:       cfg.PublicKeyPath(),
			CryptoExtension: cfg.CryptoExtension,
			Editor:          cfg.Editor,
			SettingsFile:    cfg.SettingsPath,
			AuditLog:        cfg.AuditLogPath,
		},
		Environment: map[string]string{},
		Tools:       map[string]string{},
	}

	for _, name := range EnvVars {
		if v := getenv(name); v != "" {
			report.Environment[name] = v
		}
	}

	for _, tool := range Tools {
		path, err := lookPath(tool)
		if err != nil {
			path = "not found"
		}
		report.Tools[tool] = path
	}

	repo := git.Open(cfg.VaultRoot, opts.Runner)
	report.Git.Repository = repo.Exists()
	if report.Git.Repository && opts.Runner != nil {
		if url, err := repo.RemoteURL(ctx, git.DefaultRemote); err == nil {
			report.Git.Origin = url
		} else {
			d.Log.Debugf("No %s remote: %v", git.DefaultRemote, err)
		}
	}

	return report, nil
}

// TOML encodes the report.
func (r *ConfigReport) TOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
