package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/audit"
	"github.com/PolarWolf314/passman/internal/configs"
	"github.com/PolarWolf314/passman/internal/crypto"
	"github.com/PolarWolf314/passman/internal/editor"
	"github.com/PolarWolf314/passman/internal/gitsync"
	"github.com/PolarWolf314/passman/internal/prompt"
	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/vault"
	"github.com/PolarWolf314/passman/internal/workflows"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
// Never run a spinner across an editor or a prompt.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// loadRawConfig reads the configuration as recorded. CryptoExtension is
// empty when no backend has been chosen yet.
func loadRawConfig() (configs.Config, *crypto.Registry, error) {
	cfg, err := configs.LoadWithEnv(envVars)
	if err != nil {
		return configs.Config{}, nil, err
	}
	reg := crypto.NewRegistry(procRunner, cfg.CryptoExtension)
	reg.LookPath = lookPath
	return cfg, reg, nil
}

// existingIdentity returns the extension of the first identity file found
// in the base directory, or "".
func existingIdentity(cfg configs.Config, reg *crypto.Registry) string {
	for _, ext := range reg.Extensions() {
		if _, err := os.Stat(cfg.WithExtension(ext).SecretKeyPath); err == nil {
			return ext
		}
	}
	return ""
}

// loadConfig settles the crypto extension for commands that only read or
// move existing entries: the recorded choice, else the backend whose
// identity file exists, else the default. It never prompts.
func loadConfig() (configs.Config, *crypto.Registry, error) {
	cfg, reg, err := loadRawConfig()
	if err != nil {
		return configs.Config{}, nil, err
	}
	if cfg.CryptoExtension == "" {
		ext := existingIdentity(cfg, reg)
		if ext == "" {
			ext = crypto.DefaultExtension
		}
		Logger.Debugf("No backend recorded, using %s", ext)
		cfg = cfg.WithExtension(ext)
		reg.SetFallback(ext)
	}
	return cfg, reg, nil
}

// chooseBackend settles the backend for commands that create entries or
// keys. preferred wins when known; otherwise detection may ask the
// operator. A new choice is recorded in the settings file so the question
// is asked once.
func chooseBackend(cfg configs.Config, reg *crypto.Registry, p *prompt.Prompter, preferred string) (configs.Config, error) {
	backend, err := reg.Choose(preferred, p)
	if err != nil {
		return cfg, err
	}

	if backend.Extension() != cfg.CryptoExtension {
		if err := configs.RecordBackend(cfg, backend.Extension()); err != nil {
			Logger.Warnf("Failed to record backend choice: %v", err)
		} else {
			Logger.Infof("Recorded %s as the encryption backend in %s", backend.Name(), cfg.SettingsPath)
		}
	}
	reg.SetFallback(backend.Extension())
	return cfg.WithExtension(backend.Extension()), nil
}

// newDeps wires the workflow collaborators for one invocation.
func newDeps(cmd *cobra.Command, cfg configs.Config, reg *crypto.Registry) (*workflows.Deps, *prompt.Prompter) {
	p := prompt.New(stdin, cmd.OutOrStdout())
	return &workflows.Deps{
		Config:   cfg,
		Backends: reg,
		Editor:   newEditor(cfg),
		Secrets:  p,
		Syncer:   gitsync.New(procRunner, Logger),
		Audit:    audit.New(cfg.AuditLogPath),
		Log:      Logger,
	}, p
}

func newEditor(cfg configs.Config) editor.Editor {
	return &editor.Exec{Program: cfg.Editor, Runner: procRunner}
}

// loadDeps is loadConfig followed by newDeps.
func loadDeps(cmd *cobra.Command) (*workflows.Deps, error) {
	cfg, reg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	deps, _ := newDeps(cmd, cfg, reg)
	return deps, nil
}

// syncNote describes a sync outcome for the success line. Failed steps
// are reported as warnings; the change itself is already saved.
func syncNote(o gitsync.Outcome) string {
	switch {
	case o.Skipped:
		return ""
	case o.OK():
		return " " + ui.Muted.Sprint("synced")
	}
	for _, f := range o.Failures {
		Logger.Infof("git %s failed: %v", f.Step, f.Err)
	}
	Logger.WarnfUser("%s; it will be retried on the next change", o.Summary())
	return " " + ui.Warning.Sprint("(not synced)")
}

// completeEntries offers entry names for positional arguments.
func completeEntries(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, reg, err := loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names, err := vault.Names(cfg.VaultRoot, reg.Extensions(), false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, toComplete) {
			out = append(out, n)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
