package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/vault"
	"github.com/PolarWolf314/passman/internal/workflows"
)

var (
	listAll bool
	findAll bool
)

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include archived entries")
	findCmd.Flags().BoolVarP(&findAll, "all", "a", false, "include archived entries")
}

// resetListCommandState resets the list and find commands' global state for testing.
func resetListCommandState() {
	listAll = false
	findAll = false
}

var listCmd = &cobra.Command{
	Use:     "list [path]",
	Aliases: []string{"ls"},
	Short:   "Show the vault as a tree",
	Long: `Prints the vault, or a directory inside it, as a tree of entry names.

Examples:
  passman list
  passman list mail
  passman list --all   # Include archived entries`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeEntries,
	RunE:              runList,
}

var findCmd = &cobra.Command{
	Use:   "find <pattern>",
	Short: "Search entry names",
	Long: `Prints every entry whose name matches pattern. A pattern with glob
characters is matched as a glob where ** spans directories; anything else
is matched as a substring.

Examples:
  passman find example
  passman find 'mail/**'
  passman find '*/github.com'`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func runList(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting list command")

	deps, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	opts := workflows.ListOptions{IncludeArchived: listAll}
	if len(args) == 1 {
		opts.Path = args[0]
	}

	result, err := workflows.List(cmd.Context(), deps, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Tree == nil {
		fmt.Fprintln(out, result.Entry)
		return nil
	}
	return vault.RenderStyled(out, result.Header, result.Tree, ui.Tree.Sprint)
}

func runFind(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting find command")

	deps, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	result, err := workflows.Find(cmd.Context(), deps, workflows.FindOptions{
		Pattern:         args[0],
		IncludeArchived: findAll,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Matches) == 0 {
		fmt.Fprintf(out, "%s No entries match %s\n", ui.Info.Sprint("ℹ"), ui.Code.Sprint(args[0]))
		return nil
	}
	for _, name := range result.Matches {
		fmt.Fprintln(out, name)
	}
	return nil
}
