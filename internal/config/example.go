package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# violet configuration file
# User file: ~/.violet/config.toml, project file: .violet/config.toml
# Values can be overridden by VIOLET_* environment variables or CLI flags

# Log threshold: none, error, warn or log
log_level = "log"

# Log format: text, json or logfmt
log_format = "text"
log_timestamps = false

# Per-run event logs (supports ~ expansion and %VAR% on Windows)
# Set to "" to disable
log_dir = "~/.violet/logs"

# What stderr output from a successful command means: fail or log
stderr_policy = "fail"

# Cancel sibling dependencies and parallel branches on the first failure
fail_fast = true

# Bound on concurrent goroutines per dependency block or parallel group (0 = unbounded)
max_parallel = 0

# Shell used for exec actions (defaults: sh -c, cmd /C on Windows)
# shell = "bash"
# shell_flag = "-c"

# Definition file; by default violet.{toml,yaml,yml,json} is discovered
# file = "tasks/violet.toml"

# Output mode: plain, tui or auto (tui when stdout is a terminal)
ui = "plain"
`
}
