package config

import "flag"

// flagFields maps flag names to the config keys they set.
var flagFields = map[string]string{
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-dir":        "log_dir",
	"stderr":         "stderr_policy",
	"fail-fast":      "fail_fast",
	"max-parallel":   "max_parallel",
	"shell":          "shell",
	"shell-flag":     "shell_flag",
	"file":           "file",
	"f":              "file",
	"ui":             "ui",
}

// parseFlags registers the global flags on fs, seeded with the values
// loaded so far, parses args and records which flags were set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("violet", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log threshold (none|error|warn|log)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Prefix log lines with timestamps")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Run log directory (empty disables run logs)")
	fs.StringVar(&cfg.StderrPolicy, "stderr", cfg.StderrPolicy, "Stderr from a successful command: fail or log")
	fs.BoolVar(&cfg.FailFast, "fail-fast", cfg.FailFast, "Cancel sibling tasks on the first failure")
	fs.IntVar(&cfg.MaxParallel, "max-parallel", cfg.MaxParallel, "Max concurrent tasks per group (0 = unbounded)")
	fs.StringVar(&cfg.Shell, "shell", cfg.Shell, "Shell used for exec actions (default sh, cmd on windows)")
	fs.StringVar(&cfg.ShellFlag, "shell-flag", cfg.ShellFlag, "Flag passing the command line to the shell")
	fs.StringVar(&cfg.File, "file", cfg.File, "Definition file (default: violet.{toml,yaml,yml,json})")
	fs.StringVar(&cfg.File, "f", cfg.File, "Shorthand for -file")
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "Output mode (plain|tui|auto)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})
	return nil
}
