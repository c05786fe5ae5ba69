package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/workflows"
)

var (
	newPrompt bool
	newEcho   bool
	newForce  bool
)

func init() {
	newCmd.Flags().BoolVarP(&newPrompt, "prompt", "p", false, "read a single line instead of opening the editor")
	newCmd.Flags().BoolVarP(&newEcho, "echo", "e", false, "show the secret while typing (with --prompt)")
	newCmd.Flags().BoolVarP(&newForce, "force", "f", false, "overwrite an existing entry")
}

// resetNewCommandState resets the new command's global state for testing.
func resetNewCommandState() {
	newPrompt = false
	newEcho = false
	newForce = false
}

var newCmd = &cobra.Command{
	Use:     "new <name>",
	Aliases: []string{"insert", "add"},
	Short:   "Create a new entry",
	Long: `Creates an encrypted entry. The secret is written in $EDITOR, or typed on a
single line with --prompt. Parent directories are created as needed.

Examples:
  passman new mail/example.com           # Open the editor
  passman new wifi --prompt              # Type the secret, hidden
  passman new bank --prompt --force      # Replace an existing entry`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting new command")

	cfg, reg, err := loadRawConfig()
	if err != nil {
		return err
	}
	deps, p := newDeps(cmd, cfg, reg)

	preferred := cfg.CryptoExtension
	if preferred == "" {
		preferred = existingIdentity(cfg, reg)
	}
	if deps.Config, err = chooseBackend(cfg, reg, p, preferred); err != nil {
		return err
	}

	result, err := workflows.Create(cmd.Context(), deps, workflows.CreateOptions{
		Name:   args[0],
		Force:  newForce,
		Prompt: newPrompt,
		Echo:   newEcho,
	})
	if err != nil {
		return err
	}

	verb := "stored"
	if result.Replaced {
		verb = "replaced"
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" Entry "+ui.Entry.Sprint(result.Name)+" "+verb+syncNote(result.Sync))
	return nil
}
