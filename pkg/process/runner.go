package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"portablesource/pkg/log"
)

const maxLineSize = 1024 * 1024

// Command describes one external tool invocation.
type Command struct {
	// Name is the executable to run.
	Name string
	// Args are passed to the executable as is.
	Args []string
	// Dir is the working directory. Empty means the current one.
	Dir string
	// Env is appended to the parent environment.
	Env []string
	// Timeout bounds the invocation. Zero means no bound.
	Timeout time.Duration
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result is the outcome of a finished command.
type Result struct {
	ExitCode int
	// Output is stdout and stderr interleaved in arrival order.
	Output string
}

// ExitError is returned when a command could not run or exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

// Error returns the error message.
func (e *ExitError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("running %s: %v", e.Command, e.Err)
	}

	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// OutputOf returns the captured output carried by err, if any.
func OutputOf(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Output
	}

	return ""
}

// Runner runs external commands to completion.
type Runner interface {
	// Run blocks until the command exits. A non-zero exit is an *ExitError
	// alongside the populated Result.
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec and streams every output line to
// the context logger at debug level while the caller blocks.
type ExecRunner struct{}

func New() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	logger := log.GetLogger(ctx).WithField("cmd", cmd.Name)

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)

		defer cancel()
	}

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = cmd.Dir

	if len(cmd.Env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.Env...)
	}

	stdout, err := execCmd.StdoutPipe()
	if err != nil {
		return Result{ExitCode: -1}, &ExitError{Command: cmd.String(), ExitCode: -1, Err: err}
	}

	execCmd.Stderr = execCmd.Stdout

	logger.Debugf("running %s", cmd)

	if err := execCmd.Start(); err != nil {
		return Result{ExitCode: -1}, &ExitError{Command: cmd.String(), ExitCode: -1, Err: err}
	}

	var output strings.Builder

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		logger.Debug(line)
		output.WriteString(line)
		output.WriteByte('\n')
	}

	// Keep draining so the child never blocks on a full pipe.
	if err := scanner.Err(); err != nil {
		logger.WithError(err).Warn("discarding remaining output")

		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := execCmd.Wait()
	result := Result{Output: output.String()}

	if waitErr == nil {
		return result, nil
	}

	result.ExitCode = -1

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	return result, &ExitError{
		Command:  cmd.String(),
		ExitCode: result.ExitCode,
		Output:   result.Output,
		Err:      waitErr,
	}
}

// LookPath reports whether name resolves to an executable on PATH.
func LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)

	return path, err == nil
}
