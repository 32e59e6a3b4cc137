package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	appconfig "github.com/doeshing/shellsage/internal/application/config"
	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// contextTools are the read-only programs the context collector shells out to.
var contextTools = []string{"man", "git", "ps", "ss"}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ShellIntegrator ports.ShellIntegrator
	SecurityService ports.SecurityService
	Analyses        ports.AnalysisRepository
	// KeyEnvVar names the variable holding a model's API key.
	KeyEnvVar func(domain.ModelDefinition) string
	Getenv    func(string) string
	LookPath  func(string) (string, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format version %s, %d models", cfg.ConfigFormatVersion, len(cfg.Models))))
	}

	checks = append(checks, s.modelCheck(cfg))

	switch {
	case !cfg.Security.Enabled:
		checks = append(checks, warn("Guardrail", "disabled in config"))
	case s.SecurityService == nil:
		checks = append(checks, warn("Guardrail", "security service not initialized"))
	default:
		if _, err := s.SecurityService.Evaluate("ls"); err != nil {
			checks = append(checks, fail("Guardrail", err.Error()))
		} else {
			checks = append(checks, ok("Guardrail", "rules loaded"))
		}
	}

	checks = append(checks, s.toolsCheck())

	if s.Analyses != nil && cfg.History.Enabled {
		if _, err := s.Analyses.Records(1); err != nil {
			checks = append(checks, warn("Analysis log", err.Error()))
		} else {
			checks = append(checks, ok("Analysis log", s.Analyses.Path()))
		}
	}

	if s.ShellIntegrator != nil {
		status := s.ShellIntegrator.Status("")
		switch {
		case status.Error != "":
			checks = append(checks, warn("Shell integration", status.Error))
		case status.ScriptExists && status.LinePresent:
			checks = append(checks, ok("Shell integration", fmt.Sprintf("%s ready", status.Shell)))
		default:
			checks = append(checks, warn("Shell integration", "not installed; run shellsage install"))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) modelCheck(cfg domain.Config) domain.HealthCheck {
	model, err := cfg.DefaultModelDefinition()
	if err != nil {
		return fail("Default model", err.Error())
	}
	envVar := model.AuthEnvVar
	if s.KeyEnvVar != nil {
		envVar = s.KeyEnvVar(model)
	}
	if !model.RequiresAPIKey() || envVar == "" {
		return ok("Default model", fmt.Sprintf("%s (no API key needed)", model.Name))
	}
	if s.getenv(envVar) == "" {
		return fail("Default model", fmt.Sprintf("%s: %s is not set", model.Name, envVar))
	}
	return ok("Default model", fmt.Sprintf("%s (%s set)", model.Name, envVar))
}

func (s *Service) toolsCheck() domain.HealthCheck {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	var missing []string
	for _, tool := range contextTools {
		if _, err := lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return warn("Context tools", "missing: "+strings.Join(missing, ", "))
	}
	return ok("Context tools", strings.Join(contextTools, ", "))
}

func (s *Service) getenv(key string) string {
	if s.Getenv != nil {
		return s.Getenv(key)
	}
	return os.Getenv(key)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
