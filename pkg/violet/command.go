package violet

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// runCommand hands line to the shell runner and reports its output:
// stdout at log level, failures at error level, stderr at warn level.
func (s *Settings) runCommand(ctx context.Context, logger *log.Logger, line string) error {
	s.emit(logger, LevelLog, "$ "+line)

	res, err := s.Runner.Run(ctx, line)
	if out := strings.TrimRight(res.Stdout, "\r\n"); out != "" {
		s.emit(logger, LevelLog, out)
	}

	stderr := strings.TrimRight(res.Stderr, "\r\n")
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", line, ctx.Err())
		}
		keyvals := []any{"cmd", line}
		if stderr != "" {
			keyvals = append(keyvals, "stderr", stderr)
		}
		s.emit(logger, LevelError, err.Error(), keyvals...)
		return fmt.Errorf("%w: %s: %w", ErrCommandFailed, line, err)
	}

	if stderr != "" {
		s.emit(logger, LevelWarn, stderr, "cmd", line)
		if s.StderrPolicy != StderrLog {
			return fmt.Errorf("%w: %s: wrote to stderr", ErrCommandFailed, line)
		}
	}
	return nil
}

// taskLogger returns the logger whose lines are prefixed with the task name.
func (s *Settings) taskLogger(task string) *log.Logger {
	return s.Logger.WithPrefix(task)
}
