package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/shellsage/internal/app"
)

// NewAnalyzeCommand creates the analyze command used by the shell hooks.
func NewAnalyzeCommand(container *app.Container) *cobra.Command {
	var (
		opts     RunOptions
		command  string
		exitCode int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a command that already failed",
		Long: `Analyze a command that failed in your shell. The command is run again
with its output captured so the error text can be recovered.

The installed shell hooks call this automatically after a failed command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if command == "" {
				return fmt.Errorf("--command is required")
			}
			svc := container.AnalysisService
			if svc == nil {
				return errors.New(ErrAnalysisUnavailable)
			}
			svc.ModelOverride = opts.Model
			svc.CopyFix = opts.CopyFix
			return svc.AutoAnalyze(cmd.Context(), command, exitCode)
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "The command line that failed")
	cmd.Flags().IntVar(&exitCode, "exit-code", 1, "Exit code reported by the shell")
	opts.Bind(cmd)
	return cmd
}
