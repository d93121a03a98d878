package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/afero"

	"github.com/nibzard/violet-go/internal/config"
	"github.com/nibzard/violet-go/internal/definition"
	"github.com/nibzard/violet-go/internal/utils"
	"github.com/nibzard/violet-go/internal/violetdir"
	"github.com/nibzard/violet-go/pkg/shell"
)

// doctorCommand checks the shell, the definition file and the log directory.
func doctorCommand(cfg *config.Config, opts Options, args []string) error {
	fs := flag.NewFlagSet("violet doctor", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := opts.Stdout
	fmt.Fprintln(w, "Violet Doctor")
	fmt.Fprintln(w, "=============")
	fmt.Fprintln(w)

	allOK := true

	// Check project root
	fmt.Fprintf(w, "Project root: %s\n", cfg.ProjectRoot)
	if info, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Check project config
	projectConfig := violetdir.ConfigPath(cfg.ProjectRoot)
	fmt.Fprintf(w, "Project config: %s\n", projectConfig)
	if info, err := os.Stat(projectConfig); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (optional)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Check shell
	fmt.Fprintln(w, "Shell:")
	runner := newRunner(cfg)
	if !checkBinary(w, "shell", runner.Shell, true) {
		allOK = false
	}
	if *verbose {
		fmt.Fprintf(w, "  Command: %s %s <line>\n", runner.Shell, runner.Flag)
		if def, _ := shell.DefaultShell(); def != runner.Shell {
			_ = checkBinary(w, "default shell (optional)", def, false)
		}
	}
	fmt.Fprintln(w)

	// Check definition file
	if opts.Loader != nil {
		fmt.Fprintln(w, "Definition: provided by the embedding program")
		fmt.Fprintln(w, "  ✅ OK")
	} else if !checkDefinition(w, cfg, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Check log directory
	if cfg.LogDir == "" {
		fmt.Fprintln(w, "Log directory: (disabled)")
	} else {
		fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
		if info, err := os.Stat(cfg.LogDir); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(w, "  ⚠️  Not found (will be created on run)")
			} else {
				fmt.Fprintf(w, "  ❌ Error: %v\n", err)
				allOK = false
			}
		} else if !info.IsDir() {
			fmt.Fprintln(w, "  ❌ Error: path is not a directory")
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
	}
	fmt.Fprintln(w)

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Violet may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkDefinition finds, validates and summarizes the definition file.
func checkDefinition(w io.Writer, cfg *config.Config, verbose bool) bool {
	loader := &definition.FileLoader{Fs: afero.NewOsFs(), Dir: cfg.ProjectRoot, Path: cfg.File}
	path, err := loader.Resolve()
	if err != nil {
		fmt.Fprintln(w, "Definition file:")
		if errors.Is(err, definition.ErrDefinitionNotFound) {
			fmt.Fprintf(w, "  ❌ Not found: create violet.toml (or .yaml, .yml, .json) in %s\n", cfg.ProjectRoot)
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		}
		return false
	}

	fmt.Fprintf(w, "Definition file: %s\n", path)
	f, err := definition.ReadFile(loader.Fs, path)
	if err != nil {
		if errors.Is(err, definition.ErrInvalidDefinition) {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, line := range strings.Split(err.Error(), "\n")[1:] {
				fmt.Fprintf(w, "     - %s\n", line)
			}
		} else {
			fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
		}
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")
	names := f.TaskNames()
	fmt.Fprintf(w, "  Tasks: %d\n", len(names))
	if verbose {
		for _, name := range names {
			def := f.Tasks[name]
			fmt.Fprintf(w, "    - %s (%d steps)\n", name, len(def.Steps))
		}
	}
	return true
}

func checkBinary(w io.Writer, label, binary string, required bool) bool {
	fmt.Fprintf(w, "  %s: %s\n", label, binary)
	mark := "⚠️ "
	if required {
		mark = "❌"
	}
	fail := func(format string, a ...any) bool {
		fmt.Fprintf(w, "  %s "+format+"\n", append([]any{mark}, a...)...)
		return !required
	}

	if strings.TrimSpace(binary) == "" {
		return fail("Not configured")
	}
	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() {
			return fail("Path is a directory")
		}
		if !utils.IsExecutable(binary, info) {
			return fail("Not executable")
		}
		fmt.Fprintln(w, "  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return fail("Not found: %v", err)
	}
	if info, err := os.Stat(resolved); err == nil {
		if info.IsDir() {
			return fail("Found in PATH but is a directory: %s", resolved)
		}
		if !utils.IsExecutable(resolved, info) {
			return fail("Found in PATH but not executable: %s", resolved)
		}
	}
	fmt.Fprintf(w, "  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}
