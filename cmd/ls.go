package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/nibzard/violet-go/internal/config"
	"github.com/nibzard/violet-go/internal/logging"
	"github.com/nibzard/violet-go/internal/utils"
	"github.com/nibzard/violet-go/pkg/violet"
)

// lsCommand lists declared tasks in name order, optionally filtered by
// glob patterns. Each argument may hold comma-separated patterns.
func lsCommand(cfg *config.Config, opts Options, args []string) error {
	fs := flag.NewFlagSet("violet ls", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	verbose := fs.Bool("v", false, "Show actions")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var matchers []glob.Glob
	for _, arg := range fs.Args() {
		for _, pattern := range utils.SplitAndTrim(arg, ",") {
			g, err := glob.Compile(pattern)
			if err != nil {
				return fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			matchers = append(matchers, g)
		}
	}

	define, err := loadDefinition(cfg, opts)
	if err != nil {
		return err
	}
	logger := logging.NewConsoleFromConfig(opts.Stderr, cfg.LogFormat, cfg.LogTimestamps)
	registry := violet.NewRegistry(violet.NewSettings(violet.WithLogger(logger)))
	if err := violet.Define(registry, define); err != nil {
		return fmt.Errorf("defining tasks: %w", err)
	}

	var tasks []*violet.Task
	for _, name := range registry.Names() {
		if !matchAny(matchers, name) {
			continue
		}
		if task, ok := registry.Lookup(name); ok {
			tasks = append(tasks, task)
		}
	}

	if len(tasks) == 0 {
		fmt.Fprintln(opts.Stdout, "No tasks found.")
		return nil
	}
	for _, task := range tasks {
		printTask(opts, task, *verbose)
	}
	return nil
}

func matchAny(matchers []glob.Glob, name string) bool {
	if len(matchers) == 0 {
		return true
	}
	for _, m := range matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

// printTask prints a single task.
func printTask(opts Options, task *violet.Task, verbose bool) {
	line := task.Name()
	if deps := task.Deps(); len(deps) > 0 {
		line += " <- " + strings.Join(deps, ", ")
	}
	fmt.Fprintln(opts.Stdout, line)

	if !verbose {
		return
	}
	for i, action := range task.Actions() {
		fmt.Fprintf(opts.Stdout, "  %d. %s\n", i+1, action.Describe())
	}
}
