package violet

import "context"

// Context is the mutable state threaded through one run of a task.
// A fresh, empty Context is created every time the task runs.
type Context map[string]any

// Func is the unit of work behind run and parallel actions.
// Returning a non-nil Context replaces the task's Context wholesale;
// returning nil leaves it untouched.
type Func func(ctx context.Context, state Context) (Context, error)

// Value returns the value stored under key if it has type T.
func Value[T any](state Context, key string) (T, bool) {
	var zero T
	if state == nil {
		return zero, false
	}
	raw, ok := state[key]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// GetString retrieves a string value with a default.
func GetString(state Context, key string, defaultVal string) string {
	if v, ok := Value[string](state, key); ok {
		return v
	}
	return defaultVal
}

// GetBool retrieves a bool value with a default.
func GetBool(state Context, key string, defaultVal bool) bool {
	if v, ok := Value[bool](state, key); ok {
		return v
	}
	return defaultVal
}

// GetInt retrieves an integer value with a default.
// Values decoded from definition files may arrive as int64 or float64.
func GetInt(state Context, key string, defaultVal int) int {
	if state == nil {
		return defaultVal
	}
	switch v := state[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultVal
}

// With returns a copy of state with key set to value.
// Use it from a Func that wants to extend rather than replace the Context.
func (c Context) With(key string, value any) Context {
	next := make(Context, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[key] = value
	return next
}
