package violet

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Level is both a message severity and a gate threshold.
// Lower values are more severe; LevelNone as a threshold silences everything.
type Level int32

const (
	LevelNone  Level = 0
	LevelError Level = 1
	LevelWarn  Level = 2
	LevelLog   Level = 3
)

// DefaultLevel is the permissive threshold used until LogLevel is called.
const DefaultLevel = LevelLog

// String returns the configuration name of the level.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelLog:
		return "log"
	default:
		return fmt.Sprintf("level(%d)", int32(l))
	}
}

// ParseLevel parses none|error|warn|log. "warning" and "info" are accepted as aliases.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off", "silent":
		return LevelNone, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "log", "info":
		return LevelLog, nil
	default:
		return LevelNone, fmt.Errorf("%w: %q (expected none|error|warn|log)", ErrInvalidLevel, name)
	}
}

// Gate holds the process-wide minimum severity. It is safe for concurrent reads.
type Gate struct {
	threshold atomic.Int32
}

// NewGate returns a gate set to the given threshold.
func NewGate(threshold Level) *Gate {
	g := &Gate{}
	g.threshold.Store(int32(threshold))
	return g
}

// Threshold returns the current threshold.
func (g *Gate) Threshold() Level {
	return Level(g.threshold.Load())
}

// Set changes the threshold.
func (g *Gate) Set(threshold Level) {
	g.threshold.Store(int32(threshold))
}

// Enabled reports whether a message at level l passes the gate.
func (g *Gate) Enabled(l Level) bool {
	t := g.Threshold()
	return t != LevelNone && l != LevelNone && l <= t
}
