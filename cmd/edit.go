package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/workflows"
)

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit an entry in $EDITOR",
	Long: `Decrypts an entry into a temporary file, opens it in your editor and
re-encrypts the saved result over the same entry.

Leaving the file empty aborts the edit; the entry is not changed.

Examples:
  passman edit mail/example.com`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeEntries,
	RunE:              runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting edit command")

	deps, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	result, err := workflows.Edit(cmd.Context(), deps, workflows.EditOptions{Name: args[0]})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Entry %s updated%s\n",
		ui.Success.Sprint("✓"), ui.Entry.Sprint(result.Name), syncNote(result.Sync))
	return nil
}
