// Package launch executes the external evaluation entry points
// (plotting, scoring, caching) as subprocesses.
package launch

import (
	"os/exec"
)

// CommandExecutor defines an interface for executing a prepared command.
// This abstraction enables unit testing without real subprocess execution.
type CommandExecutor interface {
	// Run executes the command and returns the combined output (stdout+stderr).
	Run() ([]byte, error)
}

// CommandBuilder defines an interface for building subprocess commands.
type CommandBuilder interface {
	// BuildCommand creates a CommandExecutor for the given program and arguments.
	BuildCommand(name string, args ...string) CommandExecutor

	// BuildCommandInDir creates a CommandExecutor that runs with the given
	// working directory. The evaluation entry points resolve relative
	// paths against the devkit root, so batch tools run them from there.
	BuildCommandInDir(dir, name string, args ...string) CommandExecutor
}

// RealCommandExecutor wraps exec.Cmd to implement CommandExecutor.
type RealCommandExecutor struct {
	cmd *exec.Cmd
}

// Run executes the command and returns combined output.
func (r *RealCommandExecutor) Run() ([]byte, error) {
	return r.cmd.CombinedOutput()
}

// RealCommandBuilder implements CommandBuilder using exec.Command.
type RealCommandBuilder struct{}

// NewRealCommandBuilder creates a new RealCommandBuilder.
func NewRealCommandBuilder() *RealCommandBuilder {
	return &RealCommandBuilder{}
}

// BuildCommand creates a CommandExecutor for the given program and arguments.
func (b *RealCommandBuilder) BuildCommand(name string, args ...string) CommandExecutor {
	return &RealCommandExecutor{cmd: exec.Command(name, args...)}
}

// BuildCommandInDir creates a CommandExecutor with a working directory.
func (b *RealCommandBuilder) BuildCommandInDir(dir, name string, args ...string) CommandExecutor {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return &RealCommandExecutor{cmd: cmd}
}

// MockCommandExecutor implements CommandExecutor for testing.
type MockCommandExecutor struct {
	// Output is the output to return from Run.
	Output []byte
	// Err is the error to return from Run.
	Err error
	// RunCalled indicates whether Run was called.
	RunCalled bool
}

// Run returns the configured output and error.
func (m *MockCommandExecutor) Run() ([]byte, error) {
	m.RunCalled = true
	return m.Output, m.Err
}

// MockCommandBuilder implements CommandBuilder for testing.
type MockCommandBuilder struct {
	// Commands records all commands that were built.
	Commands []MockBuiltCommand
	// ExecutorFactory allows creating executors dynamically based on command.
	// If nil, a default MockCommandExecutor is returned.
	ExecutorFactory func(name string, args []string) *MockCommandExecutor
}

// MockBuiltCommand records details of a built command.
type MockBuiltCommand struct {
	Name string
	Args []string
	Dir  string
}

// NewMockCommandBuilder creates a new MockCommandBuilder.
func NewMockCommandBuilder() *MockCommandBuilder {
	return &MockCommandBuilder{}
}

// BuildCommand records the command and returns a mock executor.
func (b *MockCommandBuilder) BuildCommand(name string, args ...string) CommandExecutor {
	return b.record("", name, args)
}

// BuildCommandInDir records the command with its directory.
func (b *MockCommandBuilder) BuildCommandInDir(dir, name string, args ...string) CommandExecutor {
	return b.record(dir, name, args)
}

func (b *MockCommandBuilder) record(dir, name string, args []string) CommandExecutor {
	b.Commands = append(b.Commands, MockBuiltCommand{Name: name, Args: args, Dir: dir})
	if b.ExecutorFactory != nil {
		return b.ExecutorFactory(name, args)
	}
	return &MockCommandExecutor{}
}

// LastCommand returns the most recently built command, or nil if none.
func (b *MockCommandBuilder) LastCommand() *MockBuiltCommand {
	if len(b.Commands) == 0 {
		return nil
	}
	return &b.Commands[len(b.Commands)-1]
}

// Reset clears all recorded commands.
func (b *MockCommandBuilder) Reset() {
	b.Commands = nil
	b.ExecutorFactory = nil
}
