package violet

import (
	"context"
	"fmt"
	"sync"

	"github.com/nibzard/violet-go/pkg/shell"
)

// Task is a named list of dependencies and actions.
type Task struct {
	name    string
	deps    []string
	actions []Action

	mu   sync.Mutex
	last Context
}

func newTask(name string) *Task {
	return &Task{
		name:    name,
		deps:    []string{},
		actions: []Action{},
	}
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// Deps returns a copy of the declared dependency names in call order.
func (t *Task) Deps() []string {
	deps := make([]string, len(t.deps))
	copy(deps, t.deps)
	return deps
}

// Actions returns a copy of the action list in declaration order.
func (t *Task) Actions() []Action {
	actions := make([]Action, len(t.actions))
	copy(actions, t.actions)
	return actions
}

// Context returns the final Context of the most recent completed run,
// or nil if the task has not finished a run yet.
func (t *Task) Context() Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func (t *Task) setLast(c Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = c
}

// Builder appends dependencies and actions to a declared task.
// Nothing runs until Registry.Run is called.
type Builder struct {
	task     *Task
	settings *Settings
}

// Task returns the task being built.
func (b *Builder) Task() *Task {
	return b.task
}

// Dep appends dependency names.
func (b *Builder) Dep(names ...string) *Builder {
	if len(names) == 0 {
		return b.usage("dep")
	}
	b.task.deps = append(b.task.deps, names...)
	return b
}

// Run appends one run action per function, in argument order.
func (b *Builder) Run(fns ...Func) *Builder {
	if len(fns) == 0 || hasNil(fns) {
		return b.usage("run")
	}
	for _, fn := range fns {
		b.task.actions = append(b.task.actions, Action{Kind: ActionRun, Funcs: []Func{fn}})
	}
	return b
}

// Parallel appends a single action that starts every function together.
func (b *Builder) Parallel(fns ...Func) *Builder {
	if len(fns) == 0 || hasNil(fns) {
		return b.usage("parallel")
	}
	branches := make([]Func, len(fns))
	copy(branches, fns)
	b.task.actions = append(b.task.actions, Action{Kind: ActionParallel, Funcs: branches})
	return b
}

// Exec appends a command action. argv is joined with single spaces.
func (b *Builder) Exec(argv ...string) *Builder {
	if len(argv) == 0 {
		return b.usage("exec")
	}
	b.task.actions = append(b.task.actions, Action{Kind: ActionCommand, Command: shell.Join(argv...)})
	return b
}

// Log appends a log action at log level.
func (b *Builder) Log(values ...any) *Builder {
	return b.logAt("log", LevelLog, values)
}

// Warn appends a log action at warn level.
func (b *Builder) Warn(values ...any) *Builder {
	return b.logAt("warn", LevelWarn, values)
}

// Error appends a log action at error level.
func (b *Builder) Error(values ...any) *Builder {
	return b.logAt("error", LevelError, values)
}

// Command returns a Func that runs argv as a shell command with the same
// output handling as Exec. It is meant for Parallel branches.
func (b *Builder) Command(argv ...string) Func {
	line := shell.Join(argv...)
	name := b.task.name
	settings := b.settings
	return func(ctx context.Context, _ Context) (Context, error) {
		return nil, settings.runCommand(ctx, settings.taskLogger(name), line)
	}
}

func (b *Builder) logAt(method string, level Level, values []any) *Builder {
	if len(values) == 0 {
		return b.usage(method)
	}
	vals := make([]any, len(values))
	copy(vals, values)
	b.task.actions = append(b.task.actions, Action{Kind: ActionLog, Level: level, Values: vals})
	return b
}

func (b *Builder) usage(method string) *Builder {
	logger := b.settings.taskLogger(b.task.name)
	b.settings.emit(logger, LevelWarn, fmt.Sprintf("%s() requires at least one argument", method))
	return b
}

func hasNil(fns []Func) bool {
	for _, fn := range fns {
		if fn == nil {
			return true
		}
	}
	return false
}
