package ai

import (
	"bytes"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/shellsage/internal/domain"
)

// renderPromptMessages expands model prompt templates with the bundle and
// ensures a user message exists.
func renderPromptMessages(model domain.ModelDefinition, bundle domain.ContextBundle) ([]domain.PromptMessage, error) {
	data, err := buildTemplateData(bundle)
	if err != nil {
		return nil, err
	}
	messages := model.Prompt
	if len(messages) == 0 {
		messages = defaultTemplateMessages()
	}

	rendered := make([]domain.PromptMessage, 0, len(messages)+1)
	for _, msg := range messages {
		content, err := executeTemplate(msg.Content, data)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, domain.PromptMessage{
			Role:    strings.ToLower(msg.Role),
			Content: strings.TrimSpace(content),
		})
	}

	if !hasUserMessage(rendered) {
		rendered = append(rendered, domain.PromptMessage{
			Role:    "user",
			Content: strings.TrimSpace(data.Context),
		})
	}
	return rendered, nil
}

type templateData struct {
	Command     string
	ExitCode    int
	ErrorOutput string
	WorkingDir  string
	BaseCommand string
	Context     string
}

func buildTemplateData(bundle domain.ContextBundle) (templateData, error) {
	serialized, err := yaml.Marshal(bundle)
	if err != nil {
		return templateData{}, err
	}
	return templateData{
		Command:     bundle.Command,
		ExitCode:    bundle.ExitCode,
		ErrorOutput: bundle.ErrorOutput,
		WorkingDir:  bundle.WorkingDirectory,
		BaseCommand: bundle.BaseCommand(),
		Context:     string(serialized),
	}, nil
}

func executeTemplate(raw string, data templateData) (string, error) {
	tmpl, err := template.New("prompt").Parse(raw)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func hasUserMessage(messages []domain.PromptMessage) bool {
	for _, msg := range messages {
		if msg.Role == "user" {
			return true
		}
	}
	return false
}

func splitSystemPrompt(messages []domain.PromptMessage) (string, []domain.PromptMessage) {
	var systemLines []string
	var chat []domain.PromptMessage
	for _, msg := range messages {
		if msg.Role == "system" {
			systemLines = append(systemLines, msg.Content)
			continue
		}
		chat = append(chat, msg)
	}
	return strings.TrimSpace(strings.Join(systemLines, "\n")), chat
}

// DefaultSystemPrompt is sent when a model declares no prompt of its own.
const DefaultSystemPrompt = `You are a senior systems engineer diagnosing a failed shell command.
Think step by step inside <think></think> tags before answering.
Then answer using exactly these labels, each starting a new line:

🔍 Root Cause: one or two sentences on why the command failed
🛠️ Fix: a single corrected command wrapped in backticks
📚 Technical Explanation: how the underlying tool behaves and why the fix works
⚠️ Potential Risks: side effects of running the fix
🔒 Prevention Tip: how to avoid the failure next time

Base the answer only on the context you are given. Do not invent files or output.`

func defaultTemplateMessages() []domain.PromptMessage {
	return []domain.PromptMessage{
		{Role: "system", Content: DefaultSystemPrompt},
		{
			Role: "user",
			Content: `The command "{{.Command}}" exited with status {{.ExitCode}} in {{.WorkingDir}}.

Diagnostic context:
{{.Context}}`,
		},
	}
}
