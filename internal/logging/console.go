// Package logging builds the console logger and writes per-run event logs.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ConsoleOptions holds configuration for console logging.
type ConsoleOptions struct {
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultConsoleOptions returns default options for console logging.
func DefaultConsoleOptions() ConsoleOptions {
	return ConsoleOptions{
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
	}
}

// NewConsole returns a charm logger writing to w. It runs at debug level:
// filtering is left to the violet log gate.
func NewConsole(w io.Writer, opts ConsoleOptions) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           log.DebugLevel,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// NewConsoleFromConfig builds a console logger from string configuration values.
func NewConsoleFromConfig(w io.Writer, format string, timestamps bool) *log.Logger {
	return NewConsole(w, ConsoleOptions{
		Formatter:       ParseFormatter(format),
		ReportTimestamp: timestamps,
	})
}

// ParseFormatter parses a formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
