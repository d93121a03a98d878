package violet

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLevel        = errors.New("invalid log level")
	ErrInvalidStderrPolicy = errors.New("invalid stderr policy")
	ErrSettingsFrozen      = errors.New("settings are frozen once definitions are loaded")
	ErrCommandFailed       = errors.New("command failed")
	ErrCyclicDependency    = errors.New("cyclic dependency detected")
)

// TaskError tags an action failure with the task it happened in.
type TaskError struct {
	Task   string
	Action int
	Err    error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: action %d: %v", e.Task, e.Action+1, e.Err)
}

// Unwrap returns the underlying error.
func (e *TaskError) Unwrap() error {
	return e.Err
}
