package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/shellsage/internal/domain"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from provider")

// ErrMissingAPIKey is returned when the configured key variable is unset.
var ErrMissingAPIKey = errors.New("missing API key")

var defaultKeyEnv = map[domain.ProviderKind]string{
	domain.ProviderKindOpenAI:    "OPENAI_API_KEY",
	domain.ProviderKindDeepSeek:  "DEEPSEEK_API_KEY",
	domain.ProviderKindAnthropic: "ANTHROPIC_API_KEY",
	domain.ProviderKindGemini:    "GEMINI_API_KEY",
}

var defaultEndpoints = map[domain.ProviderKind]string{
	domain.ProviderKindOpenAI:    "https://api.openai.com/v1",
	domain.ProviderKindDeepSeek:  "https://api.deepseek.com",
	domain.ProviderKindOllama:    "http://localhost:11434/v1",
	domain.ProviderKindAnthropic: "https://api.anthropic.com/v1/messages",
}

// KeyEnvVar returns the environment variable holding the model's API key.
func KeyEnvVar(model domain.ModelDefinition) string {
	if model.AuthEnvVar != "" {
		return model.AuthEnvVar
	}
	return defaultKeyEnv[ResolveKind(model)]
}

func apiKey(kind domain.ProviderKind, model domain.ModelDefinition, getenv func(string) string) (string, error) {
	if model.AuthEnvVar != "" {
		if value := getenv(model.AuthEnvVar); value != "" {
			return value, nil
		}
	}
	fallback := defaultKeyEnv[kind]
	if fallback != "" {
		if value := getenv(fallback); value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: set %s", ErrMissingAPIKey, defaultString(model.AuthEnvVar, fallback))
}

func endpointFor(kind domain.ProviderKind, model domain.ModelDefinition) string {
	return defaultString(model.Endpoint, defaultEndpoints[kind])
}

func finalize(name, content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%s: %w", name, ErrEmptyResponse)
	}
	return content, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
