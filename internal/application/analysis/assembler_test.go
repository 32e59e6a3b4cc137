package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shellsage/internal/domain"
)

func TestSanitizeOutput(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		stdout string
		want   string
	}{
		{name: "stderr only", stderr: "boom\n", want: "boom"},
		{name: "stderr then stdout", stderr: "err", stdout: "out", want: "err\nout"},
		{name: "stdout only", stdout: "out\n", want: "out"},
		{name: "strips colour", stderr: "\x1b[31mred\x1b[0m text", want: "red text"},
		{name: "strips cursor movement", stderr: "\x1b[2K\x1b[1Gdone", want: "done"},
		{name: "empty", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeOutput([]byte(tt.stderr), []byte(tt.stdout)))
		})
	}
}

func TestSanitizeOutputIdempotent(t *testing.T) {
	inputs := []string{
		"  \x1b[1;31merror:\x1b[0m missing file \n",
		"plain",
		"\x1b[38;5;196mx\x1b[m\n\n",
	}
	for _, in := range inputs {
		once := SanitizeOutput([]byte(in), nil)
		twice := SanitizeOutput([]byte(once), nil)
		assert.Equal(t, once, twice, "input %q", in)
		assert.NotContains(t, once, "\x1b")
	}
}

func TestRelevantFiles(t *testing.T) {
	history := []string{
		"touch a.txt",
		"ls",
		"vim notes.md",
		`cp src "my file.txt"`,
		"mkdir build",
		"nano config.yaml",
		"vim failing.txt",
	}

	files := RelevantFiles(history)
	assert.Equal(t, []string{"config.yaml", "build", "my file.txt"}, files)
}

func TestRelevantFilesExcludesCurrentCommand(t *testing.T) {
	assert.Empty(t, RelevantFiles([]string{"touch only.txt"}))
	assert.Empty(t, RelevantFiles(nil))
	assert.Equal(t, []string{"x"}, RelevantFiles([]string{"mv a x", "cat x"}))
}

func TestRelevantFilesUnparseableLineFallsBack(t *testing.T) {
	history := []string{`vim "unterminated`, "ls"}
	assert.Equal(t, []string{`"unterminated`}, RelevantFiles(history))
}

func TestAssembleNonexistentPath(t *testing.T) {
	result := domain.ExecutionResult{
		Command:  "ls /nonexistent",
		ExitCode: 2,
		Stderr:   []byte("ls: cannot access '/nonexistent': No such file or directory\n"),
	}
	frags := domain.ContextFragments{
		EnvVars:    map[string]string{"PATH": "/bin"},
		ManExcerpt: "NAME\nls - list directory contents",
	}
	history := []string{"cd /tmp", "ls /nonexistent"}

	bundle := NewAssembler().Assemble(result, frags, history, "/tmp")
	assert.Equal(t, "ls /nonexistent", bundle.Command)
	assert.Equal(t, 2, bundle.ExitCode)
	assert.Contains(t, bundle.ErrorOutput, "No such file or directory")
	assert.Equal(t, "/tmp", bundle.WorkingDirectory)
	assert.Equal(t, history, bundle.History)
	assert.Empty(t, bundle.RelevantFiles)
	assert.True(t, bundle.HasManual())
	assert.Nil(t, bundle.GitStatus)
	assert.Nil(t, bundle.GitRemotes)
	assert.NotNil(t, bundle.ProcessTree)
	assert.NotNil(t, bundle.FileContext.Files)
}

func TestAssembleCopiesHistoryAndGit(t *testing.T) {
	history := []string{"git push"}
	frags := domain.ContextFragments{Git: &domain.GitContext{Status: " M a.go", Remotes: "origin"}}

	bundle := NewAssembler().Assemble(domain.ExecutionResult{Command: "git push", ExitCode: 1}, frags, history, "/repo")
	history[0] = "mutated"

	assert.Equal(t, []string{"git push"}, bundle.History)
	require.NotNil(t, bundle.GitStatus)
	assert.Equal(t, " M a.go", *bundle.GitStatus)
	assert.Equal(t, "origin", *bundle.GitRemotes)
	assert.Equal(t, domain.ManualUnavailable, bundle.ManExcerpt)
	assert.False(t, bundle.HasManual())
}
