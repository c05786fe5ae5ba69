package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/workflows"
)

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete an entry",
	Long: `Deletes an entry and any directories left empty by its removal, then
syncs the vault.

Examples:
  passman remove mail/old.example.com`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeEntries,
	RunE:              runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting remove command")

	deps, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	spinner, cleanup := startSpinner("Removing...", verbose)
	result, err := workflows.Remove(cmd.Context(), deps, workflows.RemoveOptions{Name: args[0]})
	spinner.FinalMSG = ""
	cleanup()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Entry %s removed%s\n",
		ui.Success.Sprint("✓"), ui.Entry.Sprint(result.Name), syncNote(result.Sync))
	for _, dir := range result.PrunedDirs {
		Logger.Infof("Removed empty directory %s", dir)
	}
	return nil
}
