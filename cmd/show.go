package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/qr"
	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/workflows"
)

var (
	showLine   int
	showQR     bool
	showConfig bool
)

func init() {
	showCmd.Flags().IntVarP(&showLine, "line", "l", 0, "print only this line (1-based)")
	showCmd.Flags().BoolVarP(&showQR, "qr", "q", false, "render the output as a QR code")
	showCmd.Flags().BoolVar(&showConfig, "config", false, "print the runtime configuration as TOML instead")
}

// resetShowCommandState resets the show command's global state for testing.
func resetShowCommandState() {
	showLine = 0
	showQR = false
	showConfig = false
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Decrypt and print an entry",
	Long: `Decrypts an entry and prints it.

Examples:
  passman show mail/example.com            # Whole entry
  passman show mail/example.com --line 2   # Second line only
  passman show wifi --qr                   # As a QR code
  passman show --config                    # Runtime configuration`,
	Args: func(cmd *cobra.Command, args []string) error {
		if showConfig {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	ValidArgsFunction: completeEntries,
	RunE:              runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting show command")

	deps, err := loadDeps(cmd)
	if err != nil {
		return err
	}

	if showConfig {
		return printConfig(cmd, deps)
	}

	spinner, cleanup := startSpinner("Decrypting...", verbose)
	result, err := workflows.Show(cmd.Context(), deps, workflows.ShowOptions{
		Name: args[0],
		Line: showLine,
	})
	spinner.FinalMSG = ""
	cleanup()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showQR {
		return qr.Render(out, result.Text)
	}
	fmt.Fprint(out, ui.EnsureNewline(result.Text))
	return nil
}

func printConfig(cmd *cobra.Command, deps *workflows.Deps) error {
	report, err := workflows.DumpConfig(cmd.Context(), deps, workflows.DumpConfigOptions{
		Runner:   procRunner,
		LookPath: lookPath,
		Getenv:   getenv,
	})
	if err != nil {
		return err
	}
	data, err := report.TOML()
	if err != nil {
		return Logger.ErrorfAndReturn("failed to encode configuration: %v", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
