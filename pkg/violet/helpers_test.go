package violet

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nibzard/violet-go/pkg/shell"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeRunner records command lines and returns canned results.
type fakeRunner struct {
	mu      sync.Mutex
	lines   []string
	results map[string]fakeResult
}

type fakeResult struct {
	res shell.Result
	err error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: make(map[string]fakeResult)}
}

func (f *fakeRunner) on(line string, res shell.Result, err error) {
	f.results[line] = fakeResult{res: res, err: err}
}

func (f *fakeRunner) Run(ctx context.Context, line string) (shell.Result, error) {
	f.mu.Lock()
	f.lines = append(f.lines, line)
	r, ok := f.results[line]
	f.mu.Unlock()
	if !ok {
		return shell.Result{}, nil
	}
	return r.res, r.err
}

func (f *fakeRunner) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.lines))
	copy(out, f.lines)
	return out
}

// newTestRegistry builds a registry that logs to a buffer and runs commands through a fake.
func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *syncBuffer, *fakeRunner) {
	t.Helper()
	buf := &syncBuffer{}
	runner := newFakeRunner()
	logger := log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
	base := []Option{WithLogger(logger), WithRunner(runner)}
	settings := NewSettings(append(base, opts...)...)
	return NewRegistry(settings), buf, runner
}

// recorder collects ordered markers from concurrently running functions.
type recorder struct {
	mu    sync.Mutex
	marks []string
}

func (r *recorder) mark(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks = append(r.marks, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.marks))
	copy(out, r.marks)
	return out
}

func (r *recorder) index(s string) int {
	for i, m := range r.list() {
		if m == s {
			return i
		}
	}
	return -1
}

func marker(r *recorder, s string) Func {
	return func(ctx context.Context, state Context) (Context, error) {
		r.mark(s)
		return nil, nil
	}
}

func countLines(out, substr string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func newDiscardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
}
