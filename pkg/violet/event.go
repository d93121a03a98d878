package violet

import "time"

// EventKind identifies what happened during a run.
type EventKind string

const (
	EventTaskStarted    EventKind = "task_started"
	EventTaskFinished   EventKind = "task_finished"
	EventTaskFailed     EventKind = "task_failed"
	EventActionStarted  EventKind = "action_started"
	EventActionFinished EventKind = "action_finished"
)

// Event is delivered to the Observer as tasks progress.
// Observers are called from task goroutines and must not block.
type Event struct {
	Kind   EventKind
	RunID  string
	Task   string
	Action string
	Err    error
	Time   time.Time
}

// Observer receives run events.
type Observer func(Event)
