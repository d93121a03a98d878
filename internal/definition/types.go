package definition

import (
	"context"
	"fmt"
	"maps"
	"sort"

	"github.com/nibzard/violet-go/pkg/violet"
)

// File is a decoded definition file.
type File struct {
	LogLevel string             `toml:"log_level" yaml:"log_level" json:"log_level,omitempty"`
	Tasks    map[string]TaskDef `toml:"tasks" yaml:"tasks" json:"tasks"`
}

// TaskDef declares one task.
type TaskDef struct {
	Deps  []string `toml:"deps" yaml:"deps" json:"deps,omitempty"`
	Steps []Step   `toml:"steps" yaml:"steps" json:"steps,omitempty"`
}

// Step is one action of a task. Exactly one field is set.
type Step struct {
	Exec     []string       `toml:"exec" yaml:"exec" json:"exec,omitempty"`
	Parallel [][]string     `toml:"parallel" yaml:"parallel" json:"parallel,omitempty"`
	Context  map[string]any `toml:"context" yaml:"context" json:"context,omitempty"`
	Log      []any          `toml:"log" yaml:"log" json:"log,omitempty"`
	Warn     []any          `toml:"warn" yaml:"warn" json:"warn,omitempty"`
	Error    []any          `toml:"error" yaml:"error" json:"error,omitempty"`
}

// Kind names the field that is set, or "" when the step is empty or ambiguous.
func (s Step) Kind() string {
	var kinds []string
	if s.Exec != nil {
		kinds = append(kinds, "exec")
	}
	if s.Parallel != nil {
		kinds = append(kinds, "parallel")
	}
	if s.Context != nil {
		kinds = append(kinds, "context")
	}
	if s.Log != nil {
		kinds = append(kinds, "log")
	}
	if s.Warn != nil {
		kinds = append(kinds, "warn")
	}
	if s.Error != nil {
		kinds = append(kinds, "error")
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// TaskNames returns the declared task names in alphabetical order.
func (f *File) TaskNames() []string {
	names := make([]string, 0, len(f.Tasks))
	for name := range f.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Define returns a DefineFunc that declares every task in the file.
func (f *File) Define() violet.DefineFunc {
	return func(r *violet.Registry) error {
		if f.LogLevel != "" {
			if err := r.LogLevel(f.LogLevel); err != nil {
				return err
			}
		}
		for _, name := range f.TaskNames() {
			def := f.Tasks[name]
			b := r.Declare(name)
			if len(def.Deps) > 0 {
				b.Dep(def.Deps...)
			}
			for i, step := range def.Steps {
				if err := step.apply(b); err != nil {
					return fmt.Errorf("task %s: step %d: %w", name, i+1, err)
				}
			}
		}
		return nil
	}
}

func (s Step) apply(b *violet.Builder) error {
	switch s.Kind() {
	case "exec":
		b.Exec(s.Exec...)
	case "parallel":
		branches := make([]violet.Func, len(s.Parallel))
		for i, argv := range s.Parallel {
			branches[i] = b.Command(argv...)
		}
		b.Parallel(branches...)
	case "context":
		b.Run(replaceWith(s.Context))
	case "log":
		b.Log(s.Log...)
	case "warn":
		b.Warn(s.Warn...)
	case "error":
		b.Error(s.Error...)
	default:
		return ErrAmbiguousStep
	}
	return nil
}

// replaceWith returns a Func that swaps the task Context for a copy of values.
func replaceWith(values map[string]any) violet.Func {
	return func(_ context.Context, _ violet.Context) (violet.Context, error) {
		next := make(violet.Context, len(values))
		maps.Copy(next, values)
		return next, nil
	}
}
