// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The analysis pipeline only ever talks to these
// interfaces, so the shell, the reasoning backends, the terminal and the local
// stores can all be replaced in tests.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Provider, ContextCollector)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/shellsage/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.shellsage/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CommandRunner executes a full command line through the user's shell.
// A non-zero exit is reported in the result, never as an error; an error
// means the command could not be started at all.
type CommandRunner interface {
	// Run attaches the caller's terminal to the command.
	Run(ctx context.Context, command string) (domain.ExecutionResult, error)
	// Capture re-runs the command with stdout and stderr captured.
	Capture(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// ContextCollector gathers the diagnostic fragments for a failing command.
// It never fails: a fragment that cannot be gathered is left empty.
type ContextCollector interface {
	Collect(ctx context.Context, cfg domain.Config, command string) domain.ContextFragments
}

// ProviderFactory builds reasoning provider instances based on model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// Provider is the boundary to a remote (or local) reasoning service.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Analyze(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest carries the assembled bundle to the reasoning service.
type ProviderRequest struct {
	Bundle domain.ContextBundle
	Model  domain.ModelDefinition
}

// ProviderResponse is the free-form text returned by the reasoning service.
type ProviderResponse struct {
	Raw string
}

// SecurityService screens suggested fix commands.
type SecurityService interface {
	Evaluate(command string) (domain.RiskAssessment, error)
}

// AnalysisRepository persists the log of completed analyses.
type AnalysisRepository interface {
	Save(domain.AnalysisRecord) error
	Records(limit int) ([]domain.AnalysisRecord, error)
	Clear() error
	Path() string
}

// CacheRepository stores raw reasoning responses.
type CacheRepository interface {
	// Key derives the entry key for one failure analysed by one model.
	Key(command, errorOutput, model string) string
	Get(key string) (domain.CacheEntry, bool, error)
	Set(domain.CacheEntry) error
	Clear() error
	Dir() string
}

// Presenter writes pipeline progress and results to the terminal.
type Presenter interface {
	Analyzing()
	DebugDump(domain.ContextBundle)
	Show(domain.Analysis)
	Failure(error)
}

// Clipboard provides cross-platform clipboard integration for copying fixes.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// ShellIntegrator manages shell hooks (bash, zsh) that report failed commands.
type ShellIntegrator interface {
	Install(shell string, force bool) (domain.ShellInstallResult, error)
	Uninstall(shell string) (domain.ShellInstallResult, error)
	Status(shell string) domain.ShellStatus
	DetectShell() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
