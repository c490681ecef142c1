// Package exec provides an interface for running external commands.
package exec

import (
	"context"
	"os/exec"
)

// CommandRunner defines the interface for running external commands.
// This abstraction allows mocking command execution in tests.
type CommandRunner interface {
	// Run executes a command and returns combined stdout/stderr output.
	// The working directory is set to workDir if non-empty. A non-zero
	// exit status is returned as an error alongside the captured output.
	Run(ctx context.Context, workDir string, name string, args ...string) (output []byte, err error)
}

// Runner implements CommandRunner using os/exec.
type Runner struct{}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes a command and returns combined stdout/stderr output.
func (r *Runner) Run(ctx context.Context, workDir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}
	return cmd.CombinedOutput()
}

var _ CommandRunner = (*Runner)(nil)
