package config

import (
	"errors"
	"sort"
)

// ErrInvalidConfig is returned when a loaded value fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultLogLevel     = "log"
	DefaultLogFormat    = "text"
	DefaultLogDir       = "~/.violet/logs"
	DefaultStderrPolicy = "fail"
	DefaultFailFast     = true
	DefaultUI           = UIPlain
)

// UI modes.
const (
	UIPlain = "plain"
	UITUI   = "tui"
	UIAuto  = "auto"
)

// Config holds the full configuration for violet.
type Config struct {
	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	// LogDir holds per-run event logs. Empty disables run logs.
	LogDir string `toml:"log_dir"`

	// Execution
	StderrPolicy string `toml:"stderr_policy"`
	FailFast     bool   `toml:"fail_fast"`
	MaxParallel  int    `toml:"max_parallel"`

	// Shell overrides; empty means the platform default.
	Shell     string `toml:"shell"`
	ShellFlag string `toml:"shell_flag"`

	// File is an explicit definition file. Empty means discover violet.* in ProjectRoot.
	File string `toml:"file"`

	// UI is plain, tui or auto.
	UI string `toml:"ui"`

	// ProjectRoot is the working directory; not read from files.
	ProjectRoot string `toml:"-"`
}

// Fields returns the configurable keys in alphabetical order.
func Fields() []string {
	fields := []string{
		"log_level",
		"log_format",
		"log_timestamps",
		"log_dir",
		"stderr_policy",
		"fail_fast",
		"max_parallel",
		"shell",
		"shell_flag",
		"file",
		"ui",
	}
	sort.Strings(fields)
	return fields
}

// Value returns the value of a config key for display.
func (c *Config) Value(field string) any {
	switch field {
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return c.LogTimestamps
	case "log_dir":
		return c.LogDir
	case "stderr_policy":
		return c.StderrPolicy
	case "fail_fast":
		return c.FailFast
	case "max_parallel":
		return c.MaxParallel
	case "shell":
		return c.Shell
	case "shell_flag":
		return c.ShellFlag
	case "file":
		return c.File
	case "ui":
		return c.UI
	default:
		return nil
	}
}
