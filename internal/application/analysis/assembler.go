package analysis

import (
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/doeshing/shellsage/internal/domain"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// fileTouchingCommands name the programs whose last argument is usually a file.
var fileTouchingCommands = map[string]struct{}{
	"touch": {}, "mkdir": {}, "cp": {}, "mv": {},
	"vim": {}, "vi": {}, "nano": {}, "nvim": {}, "code": {}, "emacs": {},
}

// Assembler merges an execution result, collected fragments and the session
// history into the bundle sent for analysis. It performs no I/O.
type Assembler struct{}

// NewAssembler returns an Assembler.
func NewAssembler() Assembler {
	return Assembler{}
}

// Assemble builds the bundle for one failed command.
func (Assembler) Assemble(result domain.ExecutionResult, frags domain.ContextFragments, history []string, cwd string) domain.ContextBundle {
	manExcerpt := frags.ManExcerpt
	if strings.TrimSpace(manExcerpt) == "" {
		manExcerpt = domain.ManualUnavailable
	}
	bundle := domain.ContextBundle{
		Command:          result.Command,
		ErrorOutput:      SanitizeOutput(result.Stderr, result.Stdout),
		WorkingDirectory: cwd,
		ExitCode:         result.ExitCode,
		History:          boundedCopy(history, domain.MaxHistoryEntries),
		RelevantFiles:    RelevantFiles(history),
		ManExcerpt:       manExcerpt,
		EnvVars:          frags.EnvVars,
		ProcessTree:      nonNil(frags.ProcessTree),
		FileContext:      frags.FileContext,
		NetworkState:     nonNil(frags.NetworkState),
	}
	if bundle.EnvVars == nil {
		bundle.EnvVars = map[string]string{}
	}
	bundle.FileContext.Files = nonNil(bundle.FileContext.Files)
	bundle.FileContext.Dirs = nonNil(bundle.FileContext.Dirs)
	if frags.Git != nil {
		status, remotes := frags.Git.Status, frags.Git.Remotes
		bundle.GitStatus = &status
		bundle.GitRemotes = &remotes
	}
	return bundle
}

// SanitizeOutput joins stderr and stdout, removes terminal escape sequences
// and trims surrounding whitespace. Applying it to its own output is a no-op.
func SanitizeOutput(stderr, stdout []byte) string {
	var b strings.Builder
	b.Write(stderr)
	if len(stdout) > 0 {
		b.WriteString("\n")
		b.Write(stdout)
	}
	return strings.TrimSpace(ansiPattern.ReplaceAllString(b.String(), ""))
}

// RelevantFiles scans history newest first, skipping the most recent entry
// (the command that just failed), and returns the last argument of up to
// three file-touching commands.
func RelevantFiles(history []string) []string {
	files := []string{}
	if len(history) < 2 {
		return files
	}
	for i := len(history) - 2; i >= 0; i-- {
		fields := commandFields(history[i])
		if len(fields) == 0 {
			continue
		}
		if _, ok := fileTouchingCommands[fields[0]]; !ok {
			continue
		}
		files = append(files, fields[len(fields)-1])
		if len(files) >= domain.MaxRelevantFiles {
			break
		}
	}
	return files
}

// commandFields splits the first simple command of line into words, honouring
// shell quoting. Lines that do not parse fall back to whitespace splitting.
func commandFields(line string) []string {
	var call *syntax.CallExpr
	err := syntax.NewParser().Stmts(strings.NewReader(line), func(stmt *syntax.Stmt) bool {
		call, _ = stmt.Cmd.(*syntax.CallExpr)
		return false
	})
	if err != nil || call == nil || len(call.Args) == 0 {
		return strings.Fields(line)
	}
	fields := make([]string, 0, len(call.Args))
	for _, word := range call.Args {
		fields = append(fields, wordText(word))
	}
	return fields
}

func wordText(word *syntax.Word) string {
	var b strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			b.WriteString(p.Value)
		case *syntax.SglQuoted:
			b.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				if lit, ok := inner.(*syntax.Lit); ok {
					b.WriteString(lit.Value)
				} else {
					_ = syntax.NewPrinter().Print(&b, inner)
				}
			}
		default:
			_ = syntax.NewPrinter().Print(&b, part)
		}
	}
	return b.String()
}

func boundedCopy(items []string, limit int) []string {
	if len(items) > limit {
		items = items[len(items)-limit:]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
