package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/nibzard/violet-go/internal/config"
	"github.com/nibzard/violet-go/internal/logging"
)

// tailCommand prints the latest run log.
func tailCommand(ctx context.Context, cfg *config.Config, opts Options, args []string) error {
	fs := flag.NewFlagSet("violet tail", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	raw := fs.Bool("raw", false, "Print JSONL records as stored")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if cfg.LogDir == "" {
		fmt.Fprintln(opts.Stdout, "Run logs are disabled (log_dir is empty).")
		return nil
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(opts.Stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(opts.Stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(opts.Stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(opts.Stdout)

	var w io.Writer = opts.Stdout
	if !*raw {
		w = logging.NewRecordWriter(opts.Stdout)
	}
	return logging.TailLog(ctx, w, logPath, *n, *follow)
}
