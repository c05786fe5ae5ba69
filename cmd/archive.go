package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/workflows"
)

var (
	archiveDir bool
	restoreDir bool
)

func init() {
	archiveCmd.Flags().BoolVar(&archiveDir, "dir", false, "archive a whole directory")
	restoreCmd.Flags().BoolVar(&restoreDir, "dir", false, "restore a whole directory")
}

// resetArchiveCommandState resets the archive and restore commands' global state for testing.
func resetArchiveCommandState() {
	archiveDir = false
	restoreDir = false
}

var archiveCmd = &cobra.Command{
	Use:   "archive <name>",
	Short: "Hide an entry or directory without deleting it",
	Long: `Archives an entry by renaming it with a leading dot. Archived entries are
left out of list and find unless --all is given.

The rename is not synced on its own; it is pushed with the next change.

Examples:
  passman archive mail/old.example.com
  passman archive --dir work/previous-job`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeEntries,
	RunE:              runArchive,
}

var restoreCmd = &cobra.Command{
	Use:     "restore <name>",
	Aliases: []string{"unarchive"},
	Short:   "Bring back an archived entry or directory",
	Long: `Restores an archived entry. Name it with or without its leading dot.

Examples:
  passman restore mail/old.example.com
  passman restore --dir work/.previous-job`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func runArchive(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting archive command")

	deps, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	result, err := workflows.Archive(cmd.Context(), deps, workflows.ArchiveOptions{
		Name: args[0],
		Dir:  archiveDir,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s archived\n",
		ui.Success.Sprint("✓"), kindOf(result.Dir), ui.Entry.Sprint(result.Name))
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting restore command")

	deps, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	result, err := workflows.Unarchive(cmd.Context(), deps, workflows.ArchiveOptions{
		Name: args[0],
		Dir:  restoreDir,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s restored\n",
		ui.Success.Sprint("✓"), kindOf(result.Dir), ui.Entry.Sprint(result.Name))
	return nil
}

func kindOf(dir bool) string {
	if dir {
		return "Directory"
	}
	return "Entry"
}
