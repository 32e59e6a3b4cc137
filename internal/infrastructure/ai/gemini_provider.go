package ai

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

type geminiProvider struct {
	model      domain.ModelDefinition
	httpClient *http.Client
	getenv     func(string) string
}

func newGeminiProvider(model domain.ModelDefinition, client *http.Client, getenv func(string) string) ports.Provider {
	return &geminiProvider{model: model, httpClient: client, getenv: getenv}
}

func (p *geminiProvider) Name() string {
	return string(domain.ProviderKindGemini)
}

func (p *geminiProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *geminiProvider) Analyze(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	key, err := apiKey(domain.ProviderKindGemini, p.model, p.getenv)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	messages, err := renderPromptMessages(p.model, req.Bundle)
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	systemPrompt, chat := splitSystemPrompt(messages)

	clientCfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.model.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.model.Endpoint}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("gemini: create client: %w", err)
	}

	contents := make([]*genai.Content, 0, len(chat))
	for _, msg := range chat {
		var role genai.Role = genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(defaultInt(p.model.MaxTokens, domain.DefaultMaxTokens)),
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, defaultString(p.model.ModelID, "gemini-2.0-flash"), contents, config)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("gemini: %w", err)
	}
	raw, err := finalize(p.Name(), resp.Text())
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	return ports.ProviderResponse{Raw: raw}, nil
}
