package domain

import "strings"

// ManualUnavailable is returned in place of a manual excerpt when no manual
// page could be read.
const ManualUnavailable = "No manual entry available"

// Context collection bounds.
const (
	MaxProcessLines   = 10
	MaxContextFiles   = 10
	MaxContextDirs    = 5
	MaxNetworkLines   = 5
	MaxManLines       = 10
	MaxRelevantFiles  = 3
	MaxHistoryEntries = DefaultSessionHistoryCapacity
)

// ContextBundle is the complete diagnostic payload sent to the reasoning
// provider for one failure. It is built once and not modified afterwards.
type ContextBundle struct {
	Command          string            `yaml:"command" json:"command"`
	ErrorOutput      string            `yaml:"error_output" json:"error_output"`
	WorkingDirectory string            `yaml:"cwd" json:"cwd"`
	ExitCode         int               `yaml:"exit_code" json:"exit_code"`
	History          []string          `yaml:"history" json:"history"`
	RelevantFiles    []string          `yaml:"relevant_files" json:"relevant_files"`
	ManExcerpt       string            `yaml:"man_excerpt" json:"man_excerpt"`
	EnvVars          map[string]string `yaml:"env_vars" json:"env_vars"`
	ProcessTree      []string          `yaml:"process_tree" json:"process_tree"`
	FileContext      FileContext       `yaml:"file_context" json:"file_context"`
	NetworkState     []string          `yaml:"network_state" json:"network_state"`
	GitStatus        *string           `yaml:"git_status,omitempty" json:"git_status,omitempty"`
	GitRemotes       *string           `yaml:"git_remotes,omitempty" json:"git_remotes,omitempty"`
}

// HasManual reports whether the bundle carries a real manual excerpt.
func (b ContextBundle) HasManual() bool {
	excerpt := strings.TrimSpace(b.ManExcerpt)
	return excerpt != "" && !strings.Contains(excerpt, ManualUnavailable)
}

// BaseCommand returns the first whitespace separated token of the command.
func (b ContextBundle) BaseCommand() string {
	return FirstToken(b.Command)
}

// FileContext lists the working directory, non-recursively.
type FileContext struct {
	Files []string `yaml:"files" json:"files"`
	Dirs  []string `yaml:"dirs" json:"dirs"`
}

// GitContext holds raw version-control output.
type GitContext struct {
	Status  string
	Remotes string
}

// ContextFragments is everything the collector gathered for one failure.
// Every field is best-effort and may be empty.
type ContextFragments struct {
	EnvVars      map[string]string
	ProcessTree  []string
	FileContext  FileContext
	NetworkState []string
	Git          *GitContext
	ManExcerpt   string
}

// FirstToken returns the first whitespace separated token of line.
func FirstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
