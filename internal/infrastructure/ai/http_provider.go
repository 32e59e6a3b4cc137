package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// httpProvider is a hand-rolled JSON-over-HTTP client for APIs without an
// SDK in the dependency set.
type httpProvider struct {
	name       string
	model      domain.ModelDefinition
	httpClient *http.Client
	getenv     func(string) string
	adapter    providerAdapter
}

type providerAdapter struct {
	kind          domain.ProviderKind
	buildRequest  func(domain.ModelDefinition, []domain.PromptMessage) ([]byte, error)
	parseResponse func([]byte) (string, error)
	setHeaders    func(*http.Request, string)
}

func newHTTPProvider(name string, model domain.ModelDefinition, client *http.Client, getenv func(string) string, adapter providerAdapter) ports.Provider {
	return &httpProvider{
		name:       name,
		model:      model,
		httpClient: client,
		getenv:     getenv,
		adapter:    adapter,
	}
}

func (p *httpProvider) Name() string {
	return p.name
}

func (p *httpProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *httpProvider) Analyze(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	key, err := apiKey(p.adapter.kind, p.model, p.getenv)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	messages, err := renderPromptMessages(p.model, req.Bundle)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	requestBody, err := p.adapter.buildRequest(p.model, messages)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	endpoint := endpointFor(p.adapter.kind, p.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	httpReq.Header.Set("content-type", "application/json")
	p.adapter.setHeaders(httpReq, key)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("%s: %w", p.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	if resp.StatusCode >= 400 {
		return ports.ProviderResponse{}, fmt.Errorf("%s: %s", p.name, resp.Status)
	}

	content, err := p.adapter.parseResponse(body)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("%s: decode response: %w", p.name, err)
	}
	raw, err := finalize(p.name, content)
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	return ports.ProviderResponse{Raw: raw}, nil
}

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		kind:          domain.ProviderKindAnthropic,
		buildRequest:  buildAnthropicRequest,
		parseResponse: parseAnthropicResponse,
		setHeaders:    setAnthropicHeaders,
	}
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Thinking string `json:"thinking,omitempty"`
}

func buildAnthropicRequest(model domain.ModelDefinition, messages []domain.PromptMessage) ([]byte, error) {
	systemPrompt, chat := splitSystemPrompt(messages)

	chatMessages := make([]anthropicMessage, 0, len(chat))
	for _, msg := range chat {
		chatMessages = append(chatMessages, anthropicMessage{
			Role:    msg.Role,
			Content: []anthropicContent{{Type: "text", Text: msg.Content}},
		})
	}

	request := map[string]interface{}{
		"model":      defaultString(model.ModelID, "claude-3-5-sonnet-20240620"),
		"max_tokens": defaultInt(model.MaxTokens, domain.DefaultMaxTokens),
		"messages":   chatMessages,
	}
	if systemPrompt != "" {
		request["system"] = systemPrompt
	}
	return json.Marshal(request)
}

// parseAnthropicResponse joins the text blocks; extended-thinking blocks are
// wrapped in think markers so they surface as thoughts.
func parseAnthropicResponse(body []byte) (string, error) {
	var response struct {
		Content []anthropicContent `json:"content"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range response.Content {
		switch block.Type {
		case "thinking":
			b.WriteString("<think>" + block.Thinking + "</think>\n")
		case "text":
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

func setAnthropicHeaders(req *http.Request, key string) {
	req.Header.Set("x-api-key", key)
	req.Header.Set("anthropic-version", "2023-06-01")
}
