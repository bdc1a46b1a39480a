// Package shell runs the external build tools a workspace depends on. All
// subprocess execution in the application flows through the Runner
// interface so tests can intercept commands without spawning processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/buildrig/buildrig/internal/ctxlog"
)

// Command describes a single external tool invocation.
type Command struct {
	// Argv is the program followed by its arguments. Must not be empty.
	Argv []string

	// Dir is the working directory. Empty means the process inherits ours.
	Dir string

	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string

	// Stdin feeds the child's standard input when non-nil.
	Stdin io.Reader
}

// Runner executes commands. Implementations block until the command exits
// and return an error wrapping the tool's exit status on failure.
type Runner interface {
	// Run executes cmd, streaming its output.
	Run(ctx context.Context, cmd *Command) error

	// Output executes cmd and captures its stdout, trimmed of trailing
	// whitespace.
	Output(ctx context.Context, cmd *Command) (string, error)
}

// ExecRunner is the Runner used in production. It spawns real processes
// via os/exec and streams their output to the configured writers.
type ExecRunner struct {
	// Stdout and Stderr receive the child's output streams. Nil writers
	// fall back to the process's own stdout/stderr.
	Stdout io.Writer
	Stderr io.Writer

	// DryRun logs every command without executing it.
	DryRun bool
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd *Command) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("▶️ Executing command.", "argv", cmd.Argv, "dir", cmd.Dir)

	if r.DryRun {
		logger.Info("Dry run enabled, command skipped.", "argv", cmd.Argv)
		return nil
	}

	c := r.build(ctx, cmd)
	c.Stdout = r.stdout()
	c.Stderr = r.stderr()

	if err := c.Run(); err != nil {
		return wrapRunError(cmd, err)
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, cmd *Command) (string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Capturing command output.", "argv", cmd.Argv, "dir", cmd.Dir)

	if r.DryRun {
		logger.Info("Dry run enabled, command skipped.", "argv", cmd.Argv)
		return "", nil
	}

	var stdout bytes.Buffer
	c := r.build(ctx, cmd)
	c.Stdout = &stdout
	c.Stderr = r.stderr()

	if err := c.Run(); err != nil {
		return "", wrapRunError(cmd, err)
	}
	return string(bytes.TrimSpace(stdout.Bytes())), nil
}

func (r *ExecRunner) build(ctx context.Context, cmd *Command) *exec.Cmd {
	if len(cmd.Argv) == 0 {
		panic("shell: command argv must not be empty")
	}

	c := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	return c
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func wrapRunError(cmd *Command, err error) error {
	return fmt.Errorf("command %q failed: %w", cmd.Argv[0], err)
}

// ExitStatus unwraps the exit code of a failed command. The second return
// is false when the error does not carry one, e.g. when the program could
// not be started at all.
func ExitStatus(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
