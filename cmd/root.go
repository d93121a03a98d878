// Package cmd implements the CLI command structure for violet.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/nibzard/violet-go/internal/config"
	"github.com/nibzard/violet-go/internal/definition"
	"github.com/nibzard/violet-go/internal/logging"
	"github.com/nibzard/violet-go/internal/ui"
	"github.com/nibzard/violet-go/pkg/shell"
	"github.com/nibzard/violet-go/pkg/violet"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Options connects the CLI to its environment. Zero fields fall back to the
// process working directory, standard streams and definition file discovery.
type Options struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Loader replaces definition file discovery, e.g. with a violet.DefineFunc.
	Loader definition.Loader
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}

// Run executes the violet CLI against the current process environment.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, Options{})
}

// Execute executes the violet CLI with explicit options.
func Execute(ctx context.Context, args []string, opts Options) error {
	opts = opts.withDefaults()

	// Create a flag set for global options
	fs := flag.NewFlagSet("violet", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	fs.Usage = func() {
		printUsage(fs, opts.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(opts.Dir, fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, opts.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(opts.Stdout)
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printHint(opts.Stdout)
		return nil
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]

	switch subcommand {
	case "run":
		if len(remainingArgs) == 0 {
			printHint(opts.Stdout)
			return nil
		}
		return runCommand(ctx, cfg, opts, remainingArgs)
	case "ls":
		return lsCommand(cfg, opts, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, opts, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, opts, remainingArgs)
	case "config":
		return configCommand(cws, opts, remainingArgs)
	case "version":
		return versionCommand(opts.Stdout)
	case "help":
		printUsage(fs, opts.Stdout)
		return nil
	default:
		// Anything else names a task.
		return runCommand(ctx, cfg, opts, append([]string{subcommand}, remainingArgs...))
	}
}

// runCommand declares the tasks of the definition and runs one of them.
func runCommand(ctx context.Context, cfg *config.Config, opts Options, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	name := args[0]

	define, err := loadDefinition(cfg, opts)
	if err != nil {
		return err
	}

	useTUI, err := wantTUI(cfg, opts.Stdout)
	if err != nil {
		return err
	}

	var progress *ui.Progress
	out := opts.Stdout
	if useTUI {
		progress = ui.NewProgress(opts.Stdout, opts.Stdin)
		out = progress
	}
	logger := logging.NewConsoleFromConfig(out, cfg.LogFormat, cfg.LogTimestamps)

	runID := logging.NewRunID()
	ctx = violet.WithRunID(ctx, runID)

	var observers []violet.Observer
	if cfg.LogDir != "" {
		runLog, err := logging.NewRunLogger(cfg.LogDir, cfg.ProjectRoot, runID)
		if err != nil {
			logger.Warn("run log disabled", "err", err)
		} else {
			defer func() {
				if err := runLog.Close(); err != nil {
					logger.Warn("closing run log", "err", err)
				}
			}()
			observers = append(observers, runLog.Observe)
		}
	}
	if progress != nil {
		observers = append(observers, progress.Observe)
	}

	settings, err := newSettings(cfg, logger, fanOut(observers))
	if err != nil {
		return err
	}
	registry := violet.NewRegistry(settings)
	if err := violet.Define(registry, define); err != nil {
		return fmt.Errorf("defining tasks: %w", err)
	}

	run := func(ctx context.Context) error {
		return registry.Run(ctx, name)
	}
	if progress != nil {
		return progress.Run(ctx, run)
	}
	return run(ctx)
}

// loadDefinition returns the configured loader's DefineFunc.
func loadDefinition(cfg *config.Config, opts Options) (violet.DefineFunc, error) {
	loader := opts.Loader
	if loader == nil {
		loader = &definition.FileLoader{Fs: afero.NewOsFs(), Dir: cfg.ProjectRoot, Path: cfg.File}
	}
	define, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading definition: %w", err)
	}
	return define, nil
}

// newSettings translates configuration into engine settings.
func newSettings(cfg *config.Config, logger *log.Logger, observer violet.Observer) (*violet.Settings, error) {
	level, err := violet.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	policy, err := violet.ParseStderrPolicy(cfg.StderrPolicy)
	if err != nil {
		return nil, err
	}
	return violet.NewSettings(
		violet.WithLogger(logger),
		violet.WithRunner(newRunner(cfg)),
		violet.WithLevel(level),
		violet.WithStderrPolicy(policy),
		violet.WithFailFast(cfg.FailFast),
		violet.WithMaxParallel(cfg.MaxParallel),
		violet.WithObserver(observer),
	), nil
}

func newRunner(cfg *config.Config) *shell.ExecRunner {
	runner := shell.NewExecRunner()
	if cfg.Shell != "" {
		runner.Shell = cfg.Shell
		if cfg.ShellFlag == "" {
			_, runner.Flag = shell.DefaultShell()
		}
	}
	if cfg.ShellFlag != "" {
		runner.Flag = cfg.ShellFlag
	}
	runner.Dir = cfg.ProjectRoot
	return runner
}

func wantTUI(cfg *config.Config, out io.Writer) (bool, error) {
	switch cfg.UI {
	case config.UITUI:
		if !ui.IsTTY(out) {
			return false, fmt.Errorf("tui requires a TTY")
		}
		return true, nil
	case config.UIAuto:
		return ui.IsTTY(out), nil
	default:
		return false, nil
	}
}

// fanOut combines observers; nil when there are none.
func fanOut(observers []violet.Observer) violet.Observer {
	switch len(observers) {
	case 0:
		return nil
	case 1:
		return observers[0]
	}
	return func(e violet.Event) {
		for _, o := range observers {
			o(e)
		}
	}
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "violet version %s\n", Version)
	return nil
}

func printHint(w io.Writer) {
	fmt.Fprintln(w, "No task given. Usage: violet [options] <task>")
	fmt.Fprintln(w, "Run 'violet ls' to list tasks or 'violet help' for more.")
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Violet - A minimal task runner")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  violet [options] <task>")
	fmt.Fprintln(w, "  violet [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run <task>      Run a task (needed when a task shares a command name)")
	fmt.Fprintln(w, "  ls [pattern]    List tasks, optionally filtered by glob patterns")
	fmt.Fprintln(w, "  doctor          Check the shell, config and definition file")
	fmt.Fprintln(w, "  tail            Show the latest run log")
	fmt.Fprintln(w, "  config          Show effective configuration and its sources")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -v    Show actions")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options (use with 'doctor' command):")
	fmt.Fprintln(w, "  -v    Verbose output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -raw")
	fmt.Fprintln(w, "        Print JSONL records as stored")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  "+strings.Join(config.EnvVarNames(), ", "))
}
