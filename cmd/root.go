package cmd

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
	logger "github.com/PolarWolf314/passman/internal/logging"
	"github.com/PolarWolf314/passman/internal/runner"
	"github.com/PolarWolf314/passman/internal/ui"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// Process collaborators. Tests swap them through the setters below.
	procRunner runner.Runner       = runner.Exec{}
	lookPath   runner.LookPathFunc = exec.LookPath
	stdin      io.Reader           = os.Stdin
	envVars    map[string]string

	RootCmd = &cobra.Command{
		Use:   "passman",
		Short: "A personal secrets vault backed by age and git",
		Long: `passman keeps every secret in its own file, encrypted to your public key
with age or rage, and mirrors the vault to a git remote after every change.

Run 'passman init' once to create a keypair, the vault repository and an
optional remote.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
		},
	}
)

func init() {
	RootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(newCmd)
	RootCmd.AddCommand(showCmd)
	RootCmd.AddCommand(editCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(archiveCmd)
	RootCmd.AddCommand(restoreCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(findCmd)
	RootCmd.AddCommand(logCmd)
}

// normalizeFlagName accepts --snake_case spellings of every flag.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// getenv reads from the test environment when one is set.
func getenv(key string) string {
	if envVars != nil {
		return envVars[key]
	}
	return os.Getenv(key)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// FormatError renders a command failure as the single line printed before
// exiting, followed by a hint where one helps.
func FormatError(err error) string {
	msg := ui.Error.Sprint("✗") + " " + err.Error()

	switch {
	case errors.Is(err, kerrors.ErrAlreadyExists):
		msg += "\n" + ui.Info.Sprint("→") + " Use " + ui.Code.Sprint("--force") + " to overwrite it"
	case errors.Is(err, kerrors.ErrAlreadyArchived):
		msg += "\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("passman restore") + " to bring it back"
	case errors.Is(err, kerrors.ErrNotFound) && !strings.Contains(err.Error(), "passman init"):
		msg += "\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("passman list") + " to see existing entries"
	}
	return msg
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	procRunner = runner.Exec{}
	lookPath = exec.LookPath
	stdin = os.Stdin
	envVars = nil
	completionConfigDir = ""
	completionHomeDir = ""
	resetCommandState()
}

// resetCommandState clears every command's flag variables.
func resetCommandState() {
	resetNewCommandState()
	resetShowCommandState()
	resetListCommandState()
	resetArchiveCommandState()
	resetLogCommandState()
}

// SetRunner replaces the process runner for testing.
func SetRunner(r runner.Runner) {
	procRunner = r
}

// SetLookPath replaces the $PATH lookup for testing.
func SetLookPath(f runner.LookPathFunc) {
	lookPath = f
}

// SetStdin replaces the prompt input for testing.
func SetStdin(r io.Reader) {
	stdin = r
}

// SetEnv replaces the process environment for testing. nil restores it.
func SetEnv(vars map[string]string) {
	envVars = vars
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
