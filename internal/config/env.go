package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envVars maps VIOLET_* variables to config keys.
var envVars = []struct {
	name  string
	field string
}{
	{"VIOLET_LOG_LEVEL", "log_level"},
	{"VIOLET_LOG_FORMAT", "log_format"},
	{"VIOLET_LOG_TIMESTAMPS", "log_timestamps"},
	{"VIOLET_LOG_DIR", "log_dir"},
	{"VIOLET_STDERR_POLICY", "stderr_policy"},
	{"VIOLET_FAIL_FAST", "fail_fast"},
	{"VIOLET_MAX_PARALLEL", "max_parallel"},
	{"VIOLET_SHELL", "shell"},
	{"VIOLET_SHELL_FLAG", "shell_flag"},
	{"VIOLET_FILE", "file"},
	{"VIOLET_UI", "ui"},
}

// EnvVarNames returns the environment variables that override config keys.
func EnvVarNames() []string {
	names := make([]string, len(envVars))
	for i, ev := range envVars {
		names[i] = ev.name
	}
	return names
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	for _, ev := range envVars {
		v, ok := os.LookupEnv(ev.name)
		if !ok || v == "" {
			continue
		}
		if err := cfg.set(ev.field, v); err != nil {
			return fmt.Errorf("%s: %w", ev.name, err)
		}
		sources[ev.field] = SourceEnv
	}
	return nil
}

// set assigns a string value to the field behind a config key.
func (c *Config) set(field, value string) error {
	switch field {
	case "log_level":
		c.LogLevel = value
	case "log_format":
		c.LogFormat = value
	case "log_timestamps":
		c.LogTimestamps = boolFromString(value)
	case "log_dir":
		c.LogDir = value
	case "stderr_policy":
		c.StderrPolicy = value
	case "fail_fast":
		c.FailFast = boolFromString(value)
	case "max_parallel":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: max_parallel %q is not an integer", ErrInvalidConfig, value)
		}
		c.MaxParallel = n
	case "shell":
		c.Shell = value
	case "shell_flag":
		c.ShellFlag = value
	case "file":
		c.File = value
	case "ui":
		c.UI = value
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, field)
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
