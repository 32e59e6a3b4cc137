package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// ErrSpawn marks a command that could not be started at all.
var ErrSpawn = errors.New("command could not be started")

// LocalRunner runs command lines through the host shell.
type LocalRunner struct {
	shell  string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewLocalRunner builds a runner; shell defaults to $SHELL, then /bin/sh.
func NewLocalRunner(shell string) *LocalRunner {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalRunner{
		shell:  shell,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithStreams overrides the streams attached in Run.
func (r *LocalRunner) WithStreams(stdin io.Reader, stdout, stderr io.Writer) *LocalRunner {
	clone := *r
	clone.stdin, clone.stdout, clone.stderr = stdin, stdout, stderr
	return &clone
}

// Shell returns the interpreter used for command lines.
func (r *LocalRunner) Shell() string {
	return r.shell
}

// Run implements ports.CommandRunner with the caller's streams attached, so
// interactive programs behave normally. Output is not captured.
func (r *LocalRunner) Run(ctx context.Context, command string) (domain.ExecutionResult, error) {
	c := exec.CommandContext(ctx, r.shell, "-c", command)
	c.Stdin = r.stdin
	c.Stdout = r.stdout
	c.Stderr = r.stderr
	return finish(command, c.Run(), nil, nil)
}

// Capture implements ports.CommandRunner by re-running the command with its
// output buffered. It is only used for post-hoc analysis.
func (r *LocalRunner) Capture(ctx context.Context, command string) (domain.ExecutionResult, error) {
	c := exec.CommandContext(ctx, r.shell, "-c", command)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	return finish(command, c.Run(), stdout.Bytes(), stderr.Bytes())
}

func finish(command string, err error, stdout, stderr []byte) (domain.ExecutionResult, error) {
	result := domain.ExecutionResult{
		Command: command,
		Stdout:  stdout,
		Stderr:  stderr,
	}
	if err == nil {
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode < 0 {
			result.ExitCode = signalExitCode(exitErr)
		}
		return result, nil
	}
	return result, fmt.Errorf("%w: %v", ErrSpawn, err)
}

// signalExitCode follows the shell convention of 128 plus the signal number.
func signalExitCode(exitErr *exec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return 1
}

var _ ports.CommandRunner = (*LocalRunner)(nil)
