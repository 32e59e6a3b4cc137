package domain

// ExecutionResult is what the command runner reports for one command line.
// Stdout and Stderr are empty when the streams were attached to the terminal.
type ExecutionResult struct {
	Command  string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Failed reports whether the command exited non-zero.
func (r ExecutionResult) Failed() bool {
	return r.ExitCode != 0
}
