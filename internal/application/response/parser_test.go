package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonical = `<think>The user ran ls on a missing path.</think>
<think>Check whether the directory exists.</think>
🔍 Root Cause: The directory /nonexistent does not exist.
🛠️ Fix: ` + "`mkdir -p /nonexistent`" + `
📚 Technical Explanation: ls exits with status 2 when an operand cannot be accessed.
⚠️ Potential Risks: Creating directories at the filesystem root needs elevated rights.
🔒 Prevention Tip: Use tab completion to confirm paths.`

func TestParseCanonicalOrder(t *testing.T) {
	parsed := Parse(canonical)

	assert.Equal(t, []string{"The user ran ls on a missing path.", "Check whether the directory exists."}, parsed.Thoughts)
	require.NotNil(t, parsed.Cause)
	assert.Equal(t, "The directory /nonexistent does not exist.", *parsed.Cause)
	require.NotNil(t, parsed.Fix)
	assert.Equal(t, "mkdir -p /nonexistent", *parsed.Fix)
	require.NotNil(t, parsed.Explanation)
	assert.Equal(t, "ls exits with status 2 when an operand cannot be accessed.", *parsed.Explanation)
	require.NotNil(t, parsed.Risk)
	assert.Equal(t, "Creating directories at the filesystem root needs elevated rights.", *parsed.Risk)
	require.NotNil(t, parsed.Prevention)
	assert.Equal(t, "Use tab completion to confirm paths.", *parsed.Prevention)
}

func TestParseAbsentSectionsAreNil(t *testing.T) {
	parsed := Parse("🔍 Root Cause: typo in the command name\n🛠️ Fix: gti status")

	require.NotNil(t, parsed.Cause)
	require.NotNil(t, parsed.Fix)
	assert.Equal(t, "gti status", *parsed.Fix)
	assert.Nil(t, parsed.Explanation)
	assert.Nil(t, parsed.Risk)
	assert.Nil(t, parsed.Prevention)
	assert.False(t, parsed.HasAdditionalInfo())
}

func TestParseWithoutThoughts(t *testing.T) {
	parsed := Parse("🔍 Root Cause: missing file\n📚 Technical Explanation: open(2) returned ENOENT")

	assert.NotNil(t, parsed.Thoughts)
	assert.Empty(t, parsed.Thoughts)
	require.NotNil(t, parsed.Cause)
	assert.Equal(t, "missing file", *parsed.Cause)
	require.NotNil(t, parsed.Explanation)
	assert.Equal(t, "open(2) returned ENOENT", *parsed.Explanation)
}

func TestParseUnclosedThinkIsLeftInText(t *testing.T) {
	parsed := Parse("<think>first</think> <think>never closed 🔍 Root Cause: x")

	assert.Equal(t, []string{"first"}, parsed.Thoughts)
	require.NotNil(t, parsed.Cause)
	assert.Equal(t, "x", *parsed.Cause)
}

func TestParseOutOfOrderLabels(t *testing.T) {
	parsed := Parse("🔒 Prevention Tip: be careful\n🔍 Root Cause: the cause")

	require.NotNil(t, parsed.Prevention)
	assert.Equal(t, "be careful", *parsed.Prevention)
	require.NotNil(t, parsed.Cause)
	assert.Equal(t, "the cause", *parsed.Cause)
}

func TestParseLabelsWithoutVariationSelector(t *testing.T) {
	parsed := Parse("🛠 Fix: chmod +x run.sh\n⚠ Potential Risks: none")

	require.NotNil(t, parsed.Fix)
	assert.Equal(t, "chmod +x run.sh", *parsed.Fix)
	require.NotNil(t, parsed.Risk)
	assert.Equal(t, "none", *parsed.Risk)
}

func TestParseEmptySectionIsNotNil(t *testing.T) {
	parsed := Parse("🔍 Root Cause:\n🛠️ Fix: ls")

	require.NotNil(t, parsed.Cause)
	assert.Equal(t, "", *parsed.Cause)
}

func TestParseNothingRecognised(t *testing.T) {
	parsed := Parse("I am not sure what happened.")
	assert.True(t, parsed.Empty())
}

func TestExtractFix(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "inline code", content: "`ls -la`", want: "ls -la"},
		{name: "double backticks", content: "``echo `date` ``", want: "echo `date`"},
		{name: "fenced with language", content: "```bash\nsudo apt install tree\n```", want: "sudo apt install tree"},
		{name: "fenced without language", content: "```\ngit pull --rebase\n```", want: "git pull --rebase"},
		{name: "single line fence", content: "```rm -f lock```", want: "rm -f lock"},
		{name: "fenced zsh tag", content: "```zsh\nsetopt extendedglob\n```", want: "setopt extendedglob"},
		{name: "single word command keeps first line", content: "```pwd\nls -la```", want: "pwd\nls -la"},
		{name: "unknown tag kept", content: "```make\nmake install\n```", want: "make\nmake install"},
		{name: "plain text keeps first line", content: "npm install\nthen rerun the build", want: "npm install"},
		{name: "unterminated fence", content: "`ls", want: "ls"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFix(tt.content))
		})
	}
}
