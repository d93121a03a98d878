package violet

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

// Registry maps task names to tasks and runs them dependency-first.
// Tasks are declared before any run starts; the map is read-only afterwards.
type Registry struct {
	mu       sync.RWMutex
	tasks    map[string]*Task
	settings *Settings
}

// NewRegistry creates an empty registry. A nil settings uses NewSettings().
func NewRegistry(settings *Settings) *Registry {
	if settings == nil {
		settings = NewSettings()
	}
	return &Registry{
		tasks:    make(map[string]*Task),
		settings: settings,
	}
}

// Settings returns the settings shared by every task in the registry.
func (r *Registry) Settings() *Settings {
	return r.settings
}

// Declare creates an empty task under name, replacing any earlier task
// with the same name, and returns its builder.
func (r *Registry) Declare(name string) *Builder {
	task := newTask(name)

	r.mu.Lock()
	r.tasks[name] = task
	r.mu.Unlock()

	return &Builder{task: task, settings: r.settings}
}

// Lookup returns the task registered under name.
func (r *Registry) Lookup(name string) (*Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[name]
	return task, ok
}

// Names returns all task names in alphabetical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LogLevel sets the gate threshold by name (none|error|warn|log).
// It is meant to be called while definitions are loading.
func (r *Registry) LogLevel(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	return r.settings.SetLevel(level)
}

// Freeze marks the end of the declaration phase.
func (r *Registry) Freeze() {
	r.settings.Freeze()
}

// Run runs the named task after all of its dependencies.
// An unknown name is a no-op and returns nil. Events carry the run ID from
// ctx (see WithRunID), or a fresh UUID when none is set.
func (r *Registry) Run(ctx context.Context, name string) error {
	if RunID(ctx) == "" {
		ctx = WithRunID(ctx, uuid.NewString())
	}
	return r.run(ctx, name, nil)
}

func (r *Registry) run(ctx context.Context, name string, ancestry []string) error {
	task, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	if slices.Contains(ancestry, name) {
		chain := append(slices.Clone(ancestry), name)
		return fmt.Errorf("%w: %s", ErrCyclicDependency, strings.Join(chain, " -> "))
	}
	ancestry = append(ancestry[:len(ancestry):len(ancestry)], name)

	s := r.settings
	logger := s.taskLogger(name)

	if len(task.deps) > 0 {
		p := r.group(ctx)
		for _, dep := range task.deps {
			p.Go(func(ctx context.Context) error {
				return r.run(ctx, dep, ancestry)
			})
		}
		if err := p.Wait(); err != nil {
			r.notify(ctx, EventTaskFailed, name, "", err)
			return err
		}
	}

	r.notify(ctx, EventTaskStarted, name, "", nil)
	start := time.Now()

	state, err := r.execute(ctx, task, logger)
	task.setLast(state)
	if err != nil {
		r.notify(ctx, EventTaskFailed, name, "", err)
		return err
	}

	s.emit(logger, LevelLog, "finished", "elapsed", time.Since(start).Round(time.Millisecond))
	r.notify(ctx, EventTaskFinished, name, "", nil)
	return nil
}

// taskRun holds the live Context of one task run.
type taskRun struct {
	mu    sync.Mutex
	state Context
}

func (tr *taskRun) get() Context {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.state
}

// replace swaps in next unless it is nil.
func (tr *taskRun) replace(next Context) {
	if next == nil {
		return
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.state = next
}

func (r *Registry) execute(ctx context.Context, task *Task, logger *log.Logger) (Context, error) {
	run := &taskRun{state: Context{}}
	for i, action := range task.actions {
		if err := ctx.Err(); err != nil {
			return run.get(), &TaskError{Task: task.name, Action: i, Err: err}
		}
		label := action.Describe()
		r.notify(ctx, EventActionStarted, task.name, label, nil)
		if err := r.perform(ctx, logger, run, action); err != nil {
			return run.get(), &TaskError{Task: task.name, Action: i, Err: err}
		}
		r.notify(ctx, EventActionFinished, task.name, label, nil)
	}
	return run.get(), nil
}

func (r *Registry) perform(ctx context.Context, logger *log.Logger, run *taskRun, action Action) error {
	s := r.settings
	switch action.Kind {
	case ActionRun:
		next, err := r.call(ctx, logger, action.Funcs[0], run.get())
		if err != nil {
			return err
		}
		run.replace(next)
		return nil

	case ActionParallel:
		current := run.get()
		p := r.group(ctx)
		for _, fn := range action.Funcs {
			p.Go(func(ctx context.Context) error {
				next, err := r.call(ctx, logger, fn, current)
				if err != nil {
					return err
				}
				run.replace(next)
				return nil
			})
		}
		return p.Wait()

	case ActionCommand:
		return s.runCommand(ctx, logger, action.Command)

	case ActionLog:
		s.emit(logger, action.Level, renderValues(action.Values))
		return nil

	default:
		return fmt.Errorf("unknown action kind %v", action.Kind)
	}
}

// call invokes fn, turning a panic into an error.
func (r *Registry) call(ctx context.Context, logger *log.Logger, fn Func, state Context) (next Context, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.settings.emit(logger, LevelError, "recovered from panic", "panic", rec, "stack", string(debug.Stack()))
			next, err = nil, fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(ctx, state)
}

// group returns an error pool for a dependency block or a parallel action.
func (r *Registry) group(ctx context.Context) *pool.ContextPool {
	p := pool.New().WithErrors().WithContext(ctx)
	if r.settings.MaxParallel > 0 {
		p = p.WithMaxGoroutines(r.settings.MaxParallel)
	}
	if r.settings.FailFast {
		p = p.WithCancelOnError().WithFirstError()
	}
	return p
}

func (r *Registry) notify(ctx context.Context, kind EventKind, task, action string, err error) {
	r.settings.notify(Event{
		Kind:   kind,
		RunID:  RunID(ctx),
		Task:   task,
		Action: action,
		Err:    err,
		Time:   time.Now(),
	})
}

type runIDKey struct{}

// WithRunID returns a context whose runs report id in their events.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run ID stored in ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
