package executor

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportsExitCodeWithoutError(t *testing.T) {
	var out bytes.Buffer
	runner := NewLocalRunner("/bin/sh").WithStreams(strings.NewReader(""), &out, &out)

	result, err := runner.Run(context.Background(), "echo hi; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "echo hi; exit 3", result.Command)
	assert.Empty(t, result.Stdout)
	assert.Empty(t, result.Stderr)
	assert.Equal(t, "hi\n", out.String())
}

func TestCaptureSeparatesStreams(t *testing.T) {
	runner := NewLocalRunner("/bin/sh")

	result, err := runner.Capture(context.Background(), "echo out; echo err >&2; exit 2")
	require.NoError(t, err)
	assert.Equal(t, 2, result.ExitCode)
	assert.Equal(t, "out\n", string(result.Stdout))
	assert.Equal(t, "err\n", string(result.Stderr))
	assert.True(t, result.Failed())
}

func TestSignalledShellReportsShellStyleExitCode(t *testing.T) {
	runner := NewLocalRunner("/bin/sh")

	result, err := runner.Capture(context.Background(), "kill -KILL $$")
	require.NoError(t, err)
	assert.Equal(t, 137, result.ExitCode)

	result, err = runner.Capture(context.Background(), "kill -TERM $$")
	require.NoError(t, err)
	assert.Equal(t, 143, result.ExitCode)
}

func TestSpawnFailureIsAnError(t *testing.T) {
	runner := NewLocalRunner("/definitely/not/a/shell")

	_, err := runner.Capture(context.Background(), "true")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpawn)
}

func TestShellFallsBackToEnvironment(t *testing.T) {
	t.Setenv("SHELL", "/bin/bash")
	assert.Equal(t, "/bin/bash", NewLocalRunner("").Shell())

	t.Setenv("SHELL", "")
	assert.Equal(t, "/bin/sh", NewLocalRunner("").Shell())
}
