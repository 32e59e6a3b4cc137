package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// heuristicProvider recognises a handful of common failures offline and
// answers in the same labeled format as the remote services.
type heuristicProvider struct {
	model domain.ModelDefinition
}

func newHeuristicProvider(model domain.ModelDefinition) ports.Provider {
	return &heuristicProvider{model: model}
}

func (p *heuristicProvider) Name() string {
	return string(domain.ProviderKindHeuristic)
}

func (p *heuristicProvider) Model() domain.ModelDefinition {
	return p.model
}

type diagnosis struct {
	thought     string
	cause       string
	fix         string
	explanation string
	risk        string
	prevention  string
}

type rule struct {
	pattern *regexp.Regexp
	build   func(bundle domain.ContextBundle, match []string) diagnosis
}

var heuristicRules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)command not found`),
		build: func(b domain.ContextBundle, _ []string) diagnosis {
			name := b.BaseCommand()
			return diagnosis{
				thought:     fmt.Sprintf("The shell could not resolve %q on PATH.", name),
				cause:       fmt.Sprintf("`%s` is not installed or not on your PATH.", name),
				fix:         fmt.Sprintf("command -v %s || echo \"install %s with your package manager\"", name, name),
				explanation: "The shell searches each directory listed in PATH for an executable with that name and reports status 127 when none matches.",
				risk:        "Installing packages from untrusted sources can compromise the system.",
				prevention:  "Check the spelling of the command and keep PATH consistent across shells.",
			}
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)(?:cannot access|cannot open|can't open)?\s*'?([^':\s]+)'?:?\s*No such file or directory`),
		build: func(b domain.ContextBundle, m []string) diagnosis {
			target := strings.Trim(m[1], "'\"")
			if target == "" {
				target = lastArg(b.Command)
			}
			return diagnosis{
				thought:     fmt.Sprintf("The path %q does not exist relative to %s.", target, b.WorkingDirectory),
				cause:       fmt.Sprintf("The path `%s` does not exist.", target),
				fix:         fmt.Sprintf("ls -la %s", parentDir(target)),
				explanation: "The kernel returned ENOENT while resolving the path, so the program could not open it.",
				risk:        "None; listing a directory is read-only.",
				prevention:  "Use tab completion to confirm paths before running commands on them.",
			}
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)permission denied`),
		build: func(b domain.ContextBundle, _ []string) diagnosis {
			return diagnosis{
				thought:     "The process lacked the permission bits or ownership needed for the operation.",
				cause:       "The current user is not allowed to perform this operation.",
				fix:         fmt.Sprintf("ls -l %s", defaultString(lastArg(b.Command), ".")),
				explanation: "The kernel returned EACCES after checking the file mode bits against your user and groups.",
				risk:        "Re-running with sudo or chmod 777 can expose files to other users.",
				prevention:  "Grant the narrowest permission needed, for example chmod u+x for scripts you own.",
			}
		},
	},
}

func (p *heuristicProvider) Analyze(_ context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	bundle := req.Bundle
	for _, r := range heuristicRules {
		if match := r.pattern.FindStringSubmatch(bundle.ErrorOutput); match != nil {
			return ports.ProviderResponse{Raw: r.build(bundle, match).format()}, nil
		}
	}
	d := diagnosis{
		thought:     "No offline rule matched this error output.",
		cause:       fmt.Sprintf("`%s` exited with status %d.", bundle.Command, bundle.ExitCode),
		explanation: "Configure a remote model for a detailed analysis; the offline analyser only recognises common failures.",
	}
	return ports.ProviderResponse{Raw: d.format()}, nil
}

func (d diagnosis) format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<think>%s</think>\n", d.thought)
	fmt.Fprintf(&b, "🔍 Root Cause: %s\n", d.cause)
	if d.fix != "" {
		fmt.Fprintf(&b, "🛠️ Fix: `%s`\n", d.fix)
	}
	fmt.Fprintf(&b, "📚 Technical Explanation: %s\n", d.explanation)
	if d.risk != "" {
		fmt.Fprintf(&b, "⚠️ Potential Risks: %s\n", d.risk)
	}
	if d.prevention != "" {
		fmt.Fprintf(&b, "🔒 Prevention Tip: %s\n", d.prevention)
	}
	return b.String()
}

func lastArg(command string) string {
	fields := strings.Fields(command)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}

func parentDir(path string) string {
	idx := strings.LastIndex(path, "/")
	switch {
	case idx < 0:
		return "."
	case idx == 0:
		return "/"
	default:
		return path[:idx]
	}
}
