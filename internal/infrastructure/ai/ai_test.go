package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shellsage/internal/application/response"
	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func sampleBundle() domain.ContextBundle {
	return domain.ContextBundle{
		Command:          "ls /nonexistent",
		ErrorOutput:      "ls: cannot access '/nonexistent': No such file or directory",
		WorkingDirectory: "/tmp",
		ExitCode:         2,
		History:          []string{"ls /nonexistent"},
		ManExcerpt:       domain.ManualUnavailable,
	}
}

func TestResolveKind(t *testing.T) {
	tests := []struct {
		model domain.ModelDefinition
		want  domain.ProviderKind
	}{
		{domain.ModelDefinition{Provider: "Gemini"}, domain.ProviderKindGemini},
		{domain.ModelDefinition{Endpoint: "https://api.anthropic.com/v1/messages"}, domain.ProviderKindAnthropic},
		{domain.ModelDefinition{Endpoint: "https://api.deepseek.com"}, domain.ProviderKindDeepSeek},
		{domain.ModelDefinition{Endpoint: "https://api.openai.com/v1"}, domain.ProviderKindOpenAI},
		{domain.ModelDefinition{Endpoint: "http://localhost:11434/v1"}, domain.ProviderKindOllama},
		{domain.ModelDefinition{Name: "offline"}, domain.ProviderKindHeuristic},
		{domain.ModelDefinition{Endpoint: "https://llm.internal.example/v1"}, domain.ProviderKindOpenAI},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveKind(tt.model), "model %+v", tt.model)
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	_, err := NewFactory().ForModel(domain.ModelDefinition{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestRenderPromptMessagesDefault(t *testing.T) {
	messages, err := renderPromptMessages(domain.ModelDefinition{}, sampleBundle())
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "🔍 Root Cause:")
	assert.Contains(t, messages[0].Content, "<think>")
	assert.Equal(t, "user", messages[1].Role)
	assert.Contains(t, messages[1].Content, `The command "ls /nonexistent" exited with status 2`)
	assert.Contains(t, messages[1].Content, "error_output:")
	assert.Contains(t, messages[1].Content, "No such file or directory")
}

func TestRenderPromptMessagesAddsUserMessage(t *testing.T) {
	model := domain.ModelDefinition{Prompt: []domain.PromptMessage{{Role: "System", Content: "Diagnose {{.BaseCommand}}"}}}

	messages, err := renderPromptMessages(model, sampleBundle())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Diagnose ls", messages[0].Content)
	assert.Equal(t, "user", messages[1].Role)
	assert.Contains(t, messages[1].Content, "command: ls /nonexistent")
}

func TestRenderPromptMessagesBadTemplate(t *testing.T) {
	model := domain.ModelDefinition{Prompt: []domain.PromptMessage{{Role: "user", Content: "{{.Missing"}}}
	_, err := renderPromptMessages(model, sampleBundle())
	assert.Error(t, err)
}

func TestChatProviderAgainstServer(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  🔍 Root Cause: missing dir  "},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	model := domain.ModelDefinition{Name: "ds", Provider: domain.ProviderKindDeepSeek, Endpoint: server.URL, ModelID: "deepseek-reasoner", MaxTokens: 256}
	provider, err := NewFactory().WithGetenv(envOf(map[string]string{"DEEPSEEK_API_KEY": "sk-test"})).ForModel(model)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", provider.Name())

	resp, err := provider.Analyze(context.Background(), ports.ProviderRequest{Bundle: sampleBundle(), Model: model})
	require.NoError(t, err)
	assert.Equal(t, "🔍 Root Cause: missing dir", resp.Raw)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "deepseek-reasoner", got.Model)
	assert.Equal(t, 256, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestChatProviderEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"   "}}]}`)
	}))
	defer server.Close()

	model := domain.ModelDefinition{Provider: domain.ProviderKindOllama, Endpoint: server.URL, ModelID: "llama3"}
	provider, err := NewFactory().WithGetenv(envOf(nil)).ForModel(model)
	require.NoError(t, err)

	_, err = provider.Analyze(context.Background(), ports.ProviderRequest{Bundle: sampleBundle()})
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestChatProviderMissingKey(t *testing.T) {
	model := domain.ModelDefinition{Provider: domain.ProviderKindOpenAI, AuthEnvVar: "MY_KEY"}
	provider, err := NewFactory().WithGetenv(envOf(nil)).ForModel(model)
	require.NoError(t, err)

	_, err = provider.Analyze(context.Background(), ports.ProviderRequest{Bundle: sampleBundle()})
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "MY_KEY")
}

func TestAnthropicProviderAgainstServer(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = io.WriteString(w, `{"content":[{"type":"thinking","thinking":"check path"},{"type":"text","text":"🔍 Root Cause: no dir"}]}`)
	}))
	defer server.Close()

	model := domain.ModelDefinition{Provider: domain.ProviderKindAnthropic, Endpoint: server.URL, AuthEnvVar: "CLAUDE_KEY"}
	provider, err := NewFactory().WithGetenv(envOf(map[string]string{"CLAUDE_KEY": "key-1"})).ForModel(model)
	require.NoError(t, err)

	resp, err := provider.Analyze(context.Background(), ports.ProviderRequest{Bundle: sampleBundle()})
	require.NoError(t, err)
	assert.Equal(t, "<think>check path</think>\n🔍 Root Cause: no dir", resp.Raw)
	assert.Contains(t, got["system"], "Root Cause")
	assert.EqualValues(t, domain.DefaultMaxTokens, got["max_tokens"])
}

func TestAnthropicProviderHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	model := domain.ModelDefinition{Provider: domain.ProviderKindAnthropic, Endpoint: server.URL}
	provider, err := NewFactory().WithGetenv(envOf(map[string]string{"ANTHROPIC_API_KEY": "k"})).ForModel(model)
	require.NoError(t, err)

	_, err = provider.Analyze(context.Background(), ports.ProviderRequest{Bundle: sampleBundle()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGeminiProviderMissingKey(t *testing.T) {
	provider, err := NewFactory().WithGetenv(envOf(nil)).ForModel(domain.ModelDefinition{Provider: domain.ProviderKindGemini})
	require.NoError(t, err)

	_, err = provider.Analyze(context.Background(), ports.ProviderRequest{Bundle: sampleBundle()})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeminiProviderAgainstServer(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"🔍 Root Cause: no dir"}]}}]}`)
	}))
	defer server.Close()

	model := domain.ModelDefinition{
		Provider: domain.ProviderKindGemini,
		Endpoint: server.URL + "/",
		ModelID:  "gemini-test",
		Prompt: []domain.PromptMessage{
			{Role: "system", Content: "explain failures"},
			{Role: "user", Content: "what broke in {{.Command}}?"},
			{Role: "assistant", Content: "send the output"},
			{Role: "user", Content: "{{.ErrorOutput}}"},
		},
	}
	provider, err := NewFactory().WithGetenv(envOf(map[string]string{"GEMINI_API_KEY": "g"})).ForModel(model)
	require.NoError(t, err)

	resp, err := provider.Analyze(context.Background(), ports.ProviderRequest{Bundle: sampleBundle()})
	require.NoError(t, err)
	assert.Equal(t, "🔍 Root Cause: no dir", resp.Raw)
	assert.Contains(t, body, `"role":"model"`)
	assert.Contains(t, body, "what broke in ls /nonexistent?")
	assert.Contains(t, body, "explain failures")
}

func TestHeuristicProviderOutputParses(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		output    string
		wantCause string
		wantFix   string
	}{
		{
			name:      "missing path",
			command:   "ls /nonexistent/dir",
			output:    "ls: cannot access '/nonexistent/dir': No such file or directory",
			wantCause: "`/nonexistent/dir`",
			wantFix:   "ls -la /nonexistent",
		},
		{
			name:      "unknown command",
			command:   "gti status",
			output:    "bash: gti: command not found",
			wantCause: "`gti`",
			wantFix:   "command -v gti",
		},
		{
			name:      "permission",
			command:   "./run.sh",
			output:    "bash: ./run.sh: Permission denied",
			wantCause: "not allowed",
			wantFix:   "ls -l .",
		},
	}
	provider := newHeuristicProvider(domain.ModelDefinition{Name: "offline"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := domain.ContextBundle{Command: tt.command, ErrorOutput: tt.output, ExitCode: 1}
			resp, err := provider.Analyze(context.Background(), ports.ProviderRequest{Bundle: bundle})
			require.NoError(t, err)

			parsed := response.Parse(resp.Raw)
			require.Len(t, parsed.Thoughts, 1)
			require.NotNil(t, parsed.Cause)
			assert.Contains(t, *parsed.Cause, tt.wantCause)
			require.NotNil(t, parsed.Fix)
			assert.True(t, strings.HasPrefix(*parsed.Fix, tt.wantFix), "fix %q", *parsed.Fix)
		})
	}
}

func TestHeuristicProviderFallback(t *testing.T) {
	provider := newHeuristicProvider(domain.ModelDefinition{})
	resp, err := provider.Analyze(context.Background(), ports.ProviderRequest{Bundle: domain.ContextBundle{Command: "make", ExitCode: 2, ErrorOutput: "make: *** [all] Error 2"}})
	require.NoError(t, err)

	parsed := response.Parse(resp.Raw)
	require.NotNil(t, parsed.Cause)
	assert.Contains(t, *parsed.Cause, "status 2")
	assert.Nil(t, parsed.Fix)
	assert.Nil(t, parsed.Risk)
}
