package ai

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// chatProvider talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, DeepSeek, Ollama).
type chatProvider struct {
	kind       domain.ProviderKind
	model      domain.ModelDefinition
	httpClient *http.Client
	getenv     func(string) string
}

func newChatProvider(kind domain.ProviderKind, model domain.ModelDefinition, client *http.Client, getenv func(string) string) ports.Provider {
	return &chatProvider{kind: kind, model: model, httpClient: client, getenv: getenv}
}

func (p *chatProvider) Name() string {
	return string(p.kind)
}

func (p *chatProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *chatProvider) Analyze(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	key := "ollama"
	if p.kind != domain.ProviderKindOllama {
		var err error
		if key, err = apiKey(p.kind, p.model, p.getenv); err != nil {
			return ports.ProviderResponse{}, err
		}
	}

	messages, err := renderPromptMessages(p.model, req.Bundle)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = endpointFor(p.kind, p.model)
	if p.httpClient != nil {
		cfg.HTTPClient = p.httpClient
	}
	client := openai.NewClientWithConfig(cfg)

	chat := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		chat = append(chat, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model.ModelID,
		Messages:  chat,
		MaxTokens: defaultInt(p.model.MaxTokens, domain.DefaultMaxTokens),
	})
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("%s: %w", p.kind, err)
	}
	if len(resp.Choices) == 0 {
		return ports.ProviderResponse{}, fmt.Errorf("%s: %w", p.kind, ErrEmptyResponse)
	}

	raw, err := finalize(string(p.kind), resp.Choices[0].Message.Content)
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	return ports.ProviderResponse{Raw: raw}, nil
}
