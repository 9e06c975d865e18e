package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Logger defines the interface for debug logging.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// nopLogger is a no-op logger implementation.
type nopLogger struct{}

func (n nopLogger) Debugf(format string, args ...interface{}) {}

// Invocation describes one external call: a program, its arguments and
// an optional working directory.
type Invocation struct {
	Program string
	Args    []string
	Dir     string
}

// String renders the invocation as it would appear on a command line.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Program}, inv.Args...), " ")
}

// Runner executes invocations one at a time. There is no concurrency and
// no retry: each call is awaited to completion and the first failure is
// returned to the caller, which aborts the run.
type Runner struct {
	Builder CommandBuilder
	DryRun  bool
	Logger  Logger
}

// NewRunner creates a Runner backed by real subprocess execution.
func NewRunner(dryRun bool) *Runner {
	return &Runner{
		Builder: NewRealCommandBuilder(),
		DryRun:  dryRun,
		Logger:  nopLogger{},
	}
}

// SetLogger sets the debug logger for the runner.
func (r *Runner) SetLogger(logger Logger) {
	if logger != nil {
		r.Logger = logger
	}
}

// logger returns the configured logger, defaulting to a no-op so a
// zero-value Runner is usable.
func (r *Runner) logger() Logger {
	if r.Logger == nil {
		return nopLogger{}
	}
	return r.Logger
}

// Run executes a single invocation and returns its combined output.
// Dry runs report the command without executing anything.
func (r *Runner) Run(inv Invocation) (string, error) {
	if r.DryRun {
		return fmt.Sprintf("[DRY-RUN] Would execute: %s", inv), nil
	}

	r.logger().Debugf("Executing: %s (dir=%s)", inv, inv.Dir)

	var cmd CommandExecutor
	if inv.Dir != "" {
		cmd = r.Builder.BuildCommandInDir(inv.Dir, inv.Program, inv.Args...)
	} else {
		cmd = r.Builder.BuildCommand(inv.Program, inv.Args...)
	}

	output, err := cmd.Run()
	if err != nil {
		r.logger().Debugf("Command failed: %v, output: %s", err, output)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(output), fmt.Errorf("%s exited with status %d: %w", inv.Program, exitErr.ExitCode(), err)
		}
		return string(output), fmt.Errorf("failed to run %s: %w", inv.Program, err)
	}
	return string(output), nil
}
