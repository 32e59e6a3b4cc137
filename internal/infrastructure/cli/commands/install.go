package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/shellsage/internal/app"
	"github.com/doeshing/shellsage/internal/domain"
)

// NewInstallCommand creates the installation command for shell integration
func NewInstallCommand(container *app.Container) *cobra.Command {
	var (
		shellFlag string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the shell hook that analyzes failed commands",
		Long: `Install the shellsage hook for bash or zsh.

This command will:
1. Detect your current shell (or use --shell)
2. Write the hook script to ~/.shellsage/shell/
3. Add a source line to ~/.zshrc or ~/.bashrc

After a command fails in a new shell, the hook runs shellsage analyze.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ShellIntegrator == nil {
				return errors.New(ErrShellInstallerUnavailable)
			}
			result, err := container.ShellIntegrator.Install(shellFlag, force)
			if err != nil {
				return err
			}
			printInstallResult(cmd.OutOrStdout(), result, true)
			return nil
		},
	}

	cmd.Flags().StringVar(&shellFlag, "shell", "", "Shell type (zsh, bash). Auto-detected if not specified")
	cmd.Flags().BoolVar(&force, "force", false, "Rewrite the rc file line even if present")
	return cmd
}

// NewUninstallCommand removes the rc file line added by install.
func NewUninstallCommand(container *app.Container) *cobra.Command {
	var shellFlag string

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the shell hook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ShellIntegrator == nil {
				return errors.New(ErrShellInstallerUnavailable)
			}
			result, err := container.ShellIntegrator.Uninstall(shellFlag)
			if err != nil {
				return err
			}
			printInstallResult(cmd.OutOrStdout(), result, false)
			return nil
		},
	}

	cmd.Flags().StringVar(&shellFlag, "shell", "", "Shell type (zsh, bash). Auto-detected if not specified")
	return cmd
}

func printInstallResult(out io.Writer, result domain.ShellInstallResult, install bool) {
	if install {
		if result.ScriptUpdated {
			fmt.Fprintf(out, "✓ Wrote hook script: %s\n", result.ScriptPath)
		}
		if result.RCUpdated {
			fmt.Fprintf(out, "✓ Added hook to %s\n", result.RCFile)
		} else {
			fmt.Fprintf(out, "Hook already present in %s\n", result.RCFile)
		}
		fmt.Fprintf(out, "\nTo activate, run:\n  source %s\n", result.RCFile)
		return
	}
	if result.RCUpdated {
		fmt.Fprintf(out, "✓ Removed hook from %s\n", result.RCFile)
	} else {
		fmt.Fprintf(out, "No hook found in %s\n", result.RCFile)
	}
}
