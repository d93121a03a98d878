package violet

import (
	"fmt"
	"strings"
)

// ActionKind tags the variant stored in an Action.
type ActionKind int

const (
	ActionRun ActionKind = iota
	ActionParallel
	ActionCommand
	ActionLog
)

func (k ActionKind) String() string {
	switch k {
	case ActionRun:
		return "run"
	case ActionParallel:
		return "parallel"
	case ActionCommand:
		return "exec"
	case ActionLog:
		return "log"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Action is one step of a task's pipeline.
type Action struct {
	Kind ActionKind
	// Funcs holds one function for ActionRun and every branch for ActionParallel.
	Funcs []Func
	// Command is the joined command line for ActionCommand.
	Command string
	// Level and Values describe an ActionLog.
	Level  Level
	Values []any
}

// Describe returns a short label used in events and logs.
func (a Action) Describe() string {
	switch a.Kind {
	case ActionParallel:
		return fmt.Sprintf("parallel(%d)", len(a.Funcs))
	case ActionCommand:
		return "exec " + a.Command
	case ActionLog:
		return a.Level.String()
	default:
		return a.Kind.String()
	}
}

// renderValues joins values with single spaces, the way console printing does.
func renderValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
