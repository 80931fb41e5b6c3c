package release

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Executor runs the publishing tool with args and returns its exit status.
// An error means the tool could not be run at all; a tool that ran and
// failed returns its non-zero status and a nil error.
type Executor interface {
	Run(ctx context.Context, args ...string) (int, error)
}

// ExecExecutor runs Tool as a child process with its output connected to
// Stdout and Stderr.
type ExecExecutor struct {
	Tool   string
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Executor.
func (e *ExecExecutor) Run(ctx context.Context, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, e.Tool, args...)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, err
	}
}
