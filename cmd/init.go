package cmd

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/passman/internal/bootstrap"
	"github.com/PolarWolf314/passman/internal/completion"
	"github.com/PolarWolf314/passman/internal/git"
	"github.com/PolarWolf314/passman/internal/keys"
	"github.com/PolarWolf314/passman/internal/ui"
	"github.com/PolarWolf314/passman/internal/workflows"
)

// completionConfigDir and completionHomeDir override the install location
// for testing. Empty means the user's directories.
var (
	completionConfigDir string
	completionHomeDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the keypair, the vault repository and an optional remote",
	Long: `Sets up passman:

  1. Generates a keypair with rage-keygen or age-keygen. Existing keys are
     only replaced after confirmation.
  2. Offers to turn the vault into a git repository on branch main with an
     empty initial commit.
  3. Asks for a remote URL, adds it as origin and pushes. A rejected push
     can be retried after pulling with rebase.
  4. Installs bash completion and sources it from ~/.bashrc.

An existing vault repository is left alone.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting init command")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	figure.NewColorFigure("passman", "", "cyan", true).Print()
	fmt.Fprintln(out)

	cfg, reg, err := loadRawConfig()
	if err != nil {
		return err
	}
	deps, p := newDeps(cmd, cfg, reg)

	preferred := cfg.CryptoExtension
	if preferred == "" {
		preferred = existingIdentity(cfg, reg)
	}
	deps.Config, err = chooseBackend(cfg, reg, p, preferred)
	if err != nil {
		return err
	}

	generator := keys.NewGenerator(procRunner)
	generator.LookPath = lookPath

	result, err := workflows.Init(cmd.Context(), deps, workflows.InitOptions{
		Prompter: p,
		Keys:     generator,
		Repo:     git.Open(deps.Config.VaultRoot, procRunner),
		Completion: &completion.Installer{
			Program:   RootCmd.Name(),
			Generator: RootCmd,
			ConfigDir: completionConfigDir,
			HomeDir:   completionHomeDir,
		},
		OnTransition: func(_, to bootstrap.State) {
			Logger.Infof("Bootstrap state: %s", to)
		},
	})
	if err != nil {
		return err
	}

	printInitResult(cmd, deps.Config.SecretKeyPath, result)
	return nil
}

func printInitResult(cmd *cobra.Command, secretPath string, result *bootstrap.Result) {
	out := cmd.OutOrStdout()

	if result.KeysGenerated {
		fmt.Fprintln(out, ui.Success.Sprint("✓")+" Keypair generated")
		fmt.Fprintln(out, "  "+ui.Info.Sprint("→")+" Private: "+ui.Path.Sprint(secretPath))
	} else {
		fmt.Fprintln(out, ui.Info.Sprint("ℹ")+" Keeping existing keys")
	}
	if result.PublicKey != "" {
		fmt.Fprintln(out, "  "+ui.Info.Sprint("→")+" Public:  "+ui.Code.Sprint(result.PublicKey))
	}

	switch {
	case result.RepoSkipped:
		fmt.Fprintln(out, ui.Info.Sprint("ℹ")+" Vault repository already exists")
	case result.State == bootstrap.NoRepo && result.Failure == nil:
		fmt.Fprintln(out, ui.Info.Sprint("ℹ")+" Vault is not under version control")
	case result.State == bootstrap.Committed:
		fmt.Fprintln(out, ui.Success.Sprint("✓")+" Vault repository created without a remote")
	case result.State == bootstrap.Pushed:
		fmt.Fprintln(out, ui.Success.Sprint("✓")+" Vault pushed to "+ui.Path.Sprint(result.Remote))
	case result.State == bootstrap.PushedAfterRebase:
		fmt.Fprintln(out, ui.Success.Sprint("✓")+" Vault pushed to "+ui.Path.Sprint(result.Remote)+" after rebasing")
	}
	if result.Failure != nil {
		fmt.Fprintln(out, ui.Warning.Sprint("⚠")+" Repository setup stopped at "+result.State.String()+": "+result.Failure.Error())
	}

	if result.Completion != nil {
		fmt.Fprintln(out, ui.Success.Sprint("✓")+" Bash completion installed to "+ui.Path.Sprint(result.Completion.ScriptPath))
		if result.Completion.SourceAdded {
			fmt.Fprintln(out, "  "+ui.Info.Sprint("→")+" Run "+ui.Code.Sprint("source ~/.bashrc")+" or restart your shell to activate")
		}
	}
}
