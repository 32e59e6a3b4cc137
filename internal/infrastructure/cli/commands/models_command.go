package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/shellsage/internal/app"
	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/infrastructure/ai"
)

// NewModelsCommand creates the models command
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect configured reasoning backends",
	}
	modelsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			listModels(cmd.OutOrStdout(), container.Config, lookupEnv)
			return nil
		},
	})
	return modelsCmd
}

// listModels prints each model with its resolved backend and key status.
func listModels(out io.Writer, cfg domain.Config, getenv func(string) string) {
	defaultModel, _ := cfg.DefaultModelDefinition()
	for _, model := range cfg.Models {
		marker := " "
		if model.Name == defaultModel.Name {
			marker = "*"
		}
		key := "no key needed"
		if envVar := ai.KeyEnvVar(model); model.RequiresAPIKey() && envVar != "" {
			switch {
			case getenv(envVar) == "":
				key = envVar + " missing"
			default:
				key = envVar + " set"
			}
		}
		fmt.Fprintf(out, "%s %s | %s | %s | %s\n", marker, model.Name, ai.ResolveKind(model), model.ModelID, key)
	}
}
