package violet

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/nibzard/violet-go/pkg/shell"
)

// StderrPolicy decides what non-empty stderr from a successful command means.
type StderrPolicy string

const (
	// StderrFail treats any stderr output as a failed command.
	StderrFail StderrPolicy = "fail"
	// StderrLog logs stderr output as a warning and carries on.
	StderrLog StderrPolicy = "log"
)

// ParseStderrPolicy parses fail|log.
func ParseStderrPolicy(name string) (StderrPolicy, error) {
	switch StderrPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case StderrFail, "":
		return StderrFail, nil
	case StderrLog, "warn":
		return StderrLog, nil
	default:
		return "", fmt.Errorf("%w: %q (expected fail|log)", ErrInvalidStderrPolicy, name)
	}
}

// Settings is the configuration shared by a Registry and every task in it.
// It is built once before any task is declared and becomes read-only when
// the registry is frozen.
type Settings struct {
	Gate         *Gate
	Logger       *log.Logger
	Runner       shell.Runner
	StderrPolicy StderrPolicy
	// FailFast cancels sibling dependencies and parallel branches on the first failure.
	FailFast bool
	// MaxParallel bounds goroutines per dependency block or parallel group. 0 means unbounded.
	MaxParallel int
	Observer    Observer

	frozen atomic.Bool
}

// Option configures Settings.
type Option func(*Settings)

// NewSettings returns settings with permissive logging to stderr,
// the platform shell, the fail stderr policy and fail-fast enabled.
func NewSettings(opts ...Option) *Settings {
	s := &Settings{
		Gate:         NewGate(DefaultLevel),
		StderrPolicy: StderrFail,
		FailFast:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	}
	if s.Runner == nil {
		s.Runner = shell.NewExecRunner()
	}
	return s
}

// WithLevel sets the initial gate threshold.
func WithLevel(level Level) Option {
	return func(s *Settings) {
		s.Gate = NewGate(level)
	}
}

// WithLogger injects the logger every line is written to.
// The gate does the filtering, so the logger should run at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(s *Settings) {
		s.Logger = logger
	}
}

// WithRunner injects the shell command runner.
func WithRunner(runner shell.Runner) Option {
	return func(s *Settings) {
		s.Runner = runner
	}
}

// WithStderrPolicy selects how stderr output from successful commands is treated.
func WithStderrPolicy(policy StderrPolicy) Option {
	return func(s *Settings) {
		s.StderrPolicy = policy
	}
}

// WithFailFast toggles cancellation of siblings on first failure.
func WithFailFast(enabled bool) Option {
	return func(s *Settings) {
		s.FailFast = enabled
	}
}

// WithMaxParallel bounds concurrency inside one dependency block or parallel group.
func WithMaxParallel(n int) Option {
	return func(s *Settings) {
		s.MaxParallel = n
	}
}

// WithObserver registers a callback for task and action events.
func WithObserver(observer Observer) Option {
	return func(s *Settings) {
		s.Observer = observer
	}
}

// SetLevel changes the gate threshold. It fails once the settings are frozen.
func (s *Settings) SetLevel(level Level) error {
	if s.frozen.Load() {
		return ErrSettingsFrozen
	}
	s.Gate.Set(level)
	return nil
}

// Freeze makes the settings read-only.
func (s *Settings) Freeze() {
	s.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (s *Settings) Frozen() bool {
	return s.frozen.Load()
}

// emit writes one line through the gate.
func (s *Settings) emit(logger *log.Logger, level Level, msg any, keyvals ...any) {
	if !s.Gate.Enabled(level) {
		return
	}
	switch level {
	case LevelError:
		logger.Error(msg, keyvals...)
	case LevelWarn:
		logger.Warn(msg, keyvals...)
	default:
		logger.Info(msg, keyvals...)
	}
}

func (s *Settings) notify(e Event) {
	if s.Observer != nil {
		s.Observer(e)
	}
}
