// Package domain defines core entities and value objects for shellsage.
//
// The domain layer is independent of infrastructure concerns: it holds the
// session history, the execution result of a command, the context bundle
// assembled after a failure and the parsed analysis rendered back to the user.
package domain

// ProviderKind selects the reasoning backend adapter.
type ProviderKind string

const (
	ProviderKindUnknown   ProviderKind = ""
	ProviderKindOpenAI    ProviderKind = "openai"
	ProviderKindDeepSeek  ProviderKind = "deepseek"
	ProviderKindOllama    ProviderKind = "ollama"
	ProviderKindAnthropic ProviderKind = "anthropic"
	ProviderKindGemini    ProviderKind = "gemini"
	ProviderKindHeuristic ProviderKind = "heuristic"
)

// ModelDefinition describes a reasoning backend declared in the config file.
type ModelDefinition struct {
	Name       string          `yaml:"name"`
	Provider   ProviderKind    `yaml:"provider,omitempty"`
	Endpoint   string          `yaml:"endpoint,omitempty"`
	AuthEnvVar string          `yaml:"auth_env_var,omitempty"`
	ModelID    string          `yaml:"model_id"`
	MaxTokens  int             `yaml:"max_tokens,omitempty"`
	Prompt     []PromptMessage `yaml:"prompt,omitempty"`
}

// PromptMessage follows the role/content pair required by most chat APIs.
type PromptMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// RequiresAPIKey reports whether the backend needs credentials from the environment.
func (m ModelDefinition) RequiresAPIKey() bool {
	switch m.Provider {
	case ProviderKindOllama, ProviderKindHeuristic:
		return false
	default:
		return true
	}
}
