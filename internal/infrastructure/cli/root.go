package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/shellsage/internal/app"
	"github.com/doeshing/shellsage/internal/infrastructure/cli/commands"
	"github.com/doeshing/shellsage/internal/pkg/logger"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. Arguments that do not name a
// subcommand are run as a command line, as with "shellsage run".
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose, app.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	if err != nil {
		return nil, err
	}
	container.AnalysisService.Presenter = NewPresenter(os.Stdout, os.Stderr, opts.Verbose)
	container.AnalysisService.Clipboard = NewClipboard()

	var (
		runOpts commands.RunOptions
		debug   bool
	)
	root := &cobra.Command{
		Use:   "shellsage [command...]",
		Short: "shellsage - explains why shell commands fail",
		Long: `shellsage runs shell commands and, when one fails, gathers context about
the failure and asks a reasoning backend for a structured explanation and fix.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug && !opts.Verbose {
				enableDebug(container)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return commands.RunInteractive(cmd, container, runOpts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", opts.Verbose, "dump the context bundle and log verbosely")
	root.Flags().SetInterspersed(false)
	runOpts.Bind(root)

	root.AddCommand(commands.NewRunCommand(container))
	root.AddCommand(commands.NewAnalyzeCommand(container))
	root.AddCommand(commands.NewInstallCommand(container))
	root.AddCommand(commands.NewUninstallCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewCacheCommand(container))
	root.AddCommand(commands.NewModelsCommand(container))
	root.AddCommand(commands.NewGuardrailCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}

// enableDebug switches a container built without verbose mode over to it
// once flags are parsed.
func enableDebug(c *app.Container) {
	log := logger.NewForCLI(true)
	c.Logger = log
	c.AnalysisService.Logger = log
	c.AnalysisService.Debug = true
	c.AnalysisService.Presenter = NewPresenter(os.Stdout, os.Stderr, true)
}
