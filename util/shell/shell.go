// Package shell runs external tool commands.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/michal7kw/chipflow/logger"
)

// Runner runs external commands. The pipeline stages call tools through
// this interface so tests can substitute a fake.
type Runner interface {
	// Run executes the command, streaming stdout/stderr.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes the command and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// CmdRunner runs commands via os/exec.
type CmdRunner struct {
	Log *logger.Logger
	// Stdout and Stderr are where Run sends command output.
	// They default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the command and waits for it to exit.
func (r *CmdRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	r.debug(name, args)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Output executes the command and returns its stdout. Stderr is captured
// and included in the error on failure.
func (r *CmdRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	r.debug(name, args)

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func (r *CmdRunner) debug(name string, args []string) {
	if r.Log != nil {
		r.Log.Debug("running command", "cmd", shellquote.Join(append([]string{name}, args...)...))
	}
}

func (r *CmdRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *CmdRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
