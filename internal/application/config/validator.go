package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/shellsage/internal/domain"
)

var knownProviders = map[domain.ProviderKind]struct{}{
	domain.ProviderKindUnknown:   {},
	domain.ProviderKindOpenAI:    {},
	domain.ProviderKindDeepSeek:  {},
	domain.ProviderKindOllama:    {},
	domain.ProviderKindAnthropic: {},
	domain.ProviderKindGemini:    {},
	domain.ProviderKindHeuristic: {},
}

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if len(cfg.Models) == 0 {
		return errors.New("at least one model must be configured")
	}
	if err := validateModels(cfg.Models); err != nil {
		return err
	}
	if cfg.Preferences.DefaultModel != "" {
		if _, ok := cfg.FindModelByName(cfg.Preferences.DefaultModel); !ok {
			return fmt.Errorf("default model %s not found in models list", cfg.Preferences.DefaultModel)
		}
	}
	if cfg.Preferences.TimeoutSeconds < 0 {
		return fmt.Errorf("preferences.timeout must be >= 0")
	}
	if err := validateContext(cfg.Context); err != nil {
		return err
	}
	if err := validateSecurity(cfg.Security); err != nil {
		return err
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	return validateHistory(cfg.History)
}

func validateModels(models []domain.ModelDefinition) error {
	seen := make(map[string]struct{}, len(models))
	for i, model := range models {
		if model.Name == "" {
			return fmt.Errorf("models[%d].name must be set", i)
		}
		if _, dup := seen[model.Name]; dup {
			return fmt.Errorf("model %s declared twice", model.Name)
		}
		seen[model.Name] = struct{}{}
		kind := domain.ProviderKind(strings.ToLower(string(model.Provider)))
		if _, ok := knownProviders[kind]; !ok {
			return fmt.Errorf("model %s: unknown provider %q", model.Name, model.Provider)
		}
		if model.MaxTokens < 0 {
			return fmt.Errorf("model %s: max_tokens must be >= 0", model.Name)
		}
	}
	return nil
}

func validateContext(ctx domain.ContextSettings) error {
	switch strings.ToLower(ctx.IncludeGit) {
	case "", domain.GitModeAuto, domain.GitModeAlways, domain.GitModeNever:
	default:
		return fmt.Errorf("context.include_git must be auto|always|never, got %s", ctx.IncludeGit)
	}
	if ctx.CommandTimeout != "" {
		d, err := time.ParseDuration(ctx.CommandTimeout)
		if err != nil {
			return fmt.Errorf("context.command_timeout invalid: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("context.command_timeout must be positive")
		}
	}
	return nil
}

func validateSecurity(sec domain.SecuritySettings) error {
	if sec.Enabled && sec.RulesFile == "" {
		return fmt.Errorf("security.rules_file must be set")
	}
	return nil
}

func validateCache(cache domain.CacheSettings) error {
	if !cache.Enabled {
		return nil
	}
	ttl := cache.TTL
	if ttl == "" {
		ttl = domain.DefaultCacheTTL.String()
	}
	if _, err := time.ParseDuration(ttl); err != nil {
		return fmt.Errorf("cache.ttl invalid: %w", err)
	}
	if cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be > 0")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	if history.Enabled && history.Path == "" {
		return fmt.Errorf("history.path must be set")
	}
	return nil
}
