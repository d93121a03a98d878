package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/violet-go/internal/config"
)

// configCommand prints the effective configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, opts Options, args []string) error {
	fs := flag.NewFlagSet("violet config", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(opts.Stdout, config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	fmt.Fprintf(opts.Stdout, "Project root: %s\n", cfg.ProjectRoot)
	if len(cws.Files) == 0 {
		fmt.Fprintln(opts.Stdout, "Config files: (none)")
	} else {
		fmt.Fprintln(opts.Stdout, "Config files:")
		for _, f := range cws.Files {
			fmt.Fprintf(opts.Stdout, "  %s\n", f)
		}
	}
	fmt.Fprintln(opts.Stdout)

	for _, field := range config.Fields() {
		fmt.Fprintf(opts.Stdout, "%-15s = %-20v (%s)\n", field, formatValue(cfg.Value(field)), cws.Sources[field])
	}
	return nil
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}
