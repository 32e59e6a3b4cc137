package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/shellsage/internal/app"
	"github.com/doeshing/shellsage/internal/ports"
)

// NewGuardrailCommand creates the guardrail command
func NewGuardrailCommand(container *app.Container) *cobra.Command {
	guardrailCmd := &cobra.Command{
		Use:   "guardrail",
		Short: "Inspect how suggested fixes are screened",
	}
	guardrailCmd.AddCommand(&cobra.Command{
		Use:   "check <command...>",
		Short: "Evaluate a command against the guardrail rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCommand(cmd.OutOrStdout(), container.SecurityService, strings.Join(args, " "))
		},
	})
	return guardrailCmd
}

func checkCommand(out io.Writer, guardrail ports.SecurityService, command string) error {
	if guardrail == nil {
		return fmt.Errorf("guardrail unavailable")
	}
	risk, err := guardrail.Evaluate(command)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Risk: %s (%s)\n", strings.ToUpper(string(risk.Level)), risk.Action)
	for _, reason := range risk.Reasons {
		fmt.Fprintf(out, " - %s\n", reason)
	}
	return nil
}
