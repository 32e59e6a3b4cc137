package ai

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// Factory builds providers from model definitions.
type Factory struct {
	httpClient *http.Client
	getenv     func(string) string
}

// NewFactory returns a factory reading API keys from the process environment.
// Deadlines come from the caller's context.
func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{},
		getenv:     os.Getenv,
	}
}

// WithHTTPClient swaps the client used by every provider.
func (f *Factory) WithHTTPClient(client *http.Client) *Factory {
	clone := *f
	clone.httpClient = client
	return &clone
}

// WithGetenv swaps the environment lookup used for API keys.
func (f *Factory) WithGetenv(getenv func(string) string) *Factory {
	clone := *f
	clone.getenv = getenv
	return &clone
}

// ForModel implements ports.ProviderFactory.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	kind := ResolveKind(model)

	switch kind {
	case domain.ProviderKindOpenAI, domain.ProviderKindDeepSeek, domain.ProviderKindOllama:
		return newChatProvider(kind, model, f.httpClient, f.getenv), nil
	case domain.ProviderKindAnthropic:
		return newHTTPProvider(string(kind), model, f.httpClient, f.getenv, anthropicAdapter()), nil
	case domain.ProviderKindGemini:
		return newGeminiProvider(model, f.httpClient, f.getenv), nil
	case domain.ProviderKindHeuristic:
		return newHeuristicProvider(model), nil
	default:
		return nil, fmt.Errorf("unsupported provider kind: %q", kind)
	}
}

// ResolveKind returns the declared provider or infers it from the endpoint
// and model name.
func ResolveKind(model domain.ModelDefinition) domain.ProviderKind {
	if model.Provider != domain.ProviderKindUnknown {
		return domain.ProviderKind(strings.ToLower(string(model.Provider)))
	}
	return inferProviderKind(model.Endpoint, model.Name)
}

func inferProviderKind(endpoint string, name string) domain.ProviderKind {
	nameLower := strings.ToLower(name)

	switch {
	case strings.Contains(endpoint, "anthropic.com"):
		return domain.ProviderKindAnthropic
	case strings.Contains(endpoint, "deepseek.com"), strings.Contains(nameLower, "deepseek"):
		return domain.ProviderKindDeepSeek
	case strings.Contains(endpoint, "openai.com"):
		return domain.ProviderKindOpenAI
	case strings.Contains(endpoint, "googleapis.com"), strings.Contains(nameLower, "gemini"):
		return domain.ProviderKindGemini
	case strings.Contains(nameLower, "ollama"), strings.Contains(endpoint, "11434"), strings.Contains(endpoint, "localhost"):
		return domain.ProviderKindOllama
	case endpoint == "":
		return domain.ProviderKindHeuristic
	default:
		return domain.ProviderKindOpenAI
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
