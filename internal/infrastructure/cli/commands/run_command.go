package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/shellsage/internal/app"
)

// ExitError carries the exit code of a command that ran but failed. The
// process exits with Code and prints nothing further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// RunOptions are the per-invocation overrides shared by run and analyze.
type RunOptions struct {
	Model   string
	CopyFix bool
}

// Bind registers the override flags on cmd.
func (o *RunOptions) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().BoolVarP(&o.CopyFix, "copy", "c", false, "Copy the recommended fix to the clipboard")
}

// NewRunCommand creates the run command.
func NewRunCommand(container *app.Container) *cobra.Command {
	var opts RunOptions

	cmd := &cobra.Command{
		Use:   "run -- <command...>",
		Short: "Run a command and analyze it if it fails",
		Long: `Run a command through your shell with the terminal attached.
When it exits non-zero, shellsage gathers context about the failure and
prints an analysis. The process exits with the command's exit code.

Example:
  shellsage run -- ls /nonexistent
  shellsage run -m offline -- make test`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunInteractive(cmd, container, opts, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	opts.Bind(cmd)
	return cmd
}

// RunInteractive runs args and converts a failing exit into an ExitError.
func RunInteractive(cmd *cobra.Command, container *app.Container, opts RunOptions, args []string) error {
	svc := container.AnalysisService
	if svc == nil {
		return errors.New(ErrAnalysisUnavailable)
	}
	svc.ModelOverride = opts.Model
	svc.CopyFix = opts.CopyFix

	code, err := svc.RunInteractive(cmd.Context(), args)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
