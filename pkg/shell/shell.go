// Package shell runs command lines through the platform shell.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Result holds the captured output of one command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes a single command line.
// A non-nil error means the command could not be launched or exited non-zero;
// the Result still carries whatever output was captured.
type Runner interface {
	Run(ctx context.Context, line string) (Result, error)
}

// ExitError reports a non-zero exit status.
type ExitError struct {
	Line     string
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%q exited with status %d", e.Line, e.ExitCode)
}

// ExecRunner runs commands with os/exec through a shell.
type ExecRunner struct {
	// Shell is the shell binary. Defaults to DefaultShell().
	Shell string
	// Flag is the argument that introduces the command line (-c, /C).
	Flag string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
	// WaitDelay bounds how long to wait for output pipes after the process is killed.
	WaitDelay time.Duration
}

// NewExecRunner creates a runner for the platform default shell.
func NewExecRunner() *ExecRunner {
	sh, flag := DefaultShell()
	return &ExecRunner{Shell: sh, Flag: flag, WaitDelay: 5 * time.Second}
}

// DefaultShell returns the shell binary and command flag for the current OS.
func DefaultShell() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "sh", "-c"
}

// Run executes line and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, line string) (Result, error) {
	if strings.TrimSpace(line) == "" {
		return Result{}, fmt.Errorf("command line is empty")
	}

	sh, flag := r.Shell, r.Flag
	if sh == "" {
		sh, flag = DefaultShell()
	}

	cmd := exec.CommandContext(ctx, sh, flag, line)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	cmd.WaitDelay = r.WaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	if ctx.Err() != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("command cancelled: %w", ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, &ExitError{Line: line, ExitCode: result.ExitCode}
	}

	result.ExitCode = -1
	return result, fmt.Errorf("start %s: %w", sh, err)
}

// Join builds a command line from argv, separated by single spaces.
// Quoting inside individual arguments is the caller's responsibility.
func Join(argv ...string) string {
	return strings.Join(argv, " ")
}
