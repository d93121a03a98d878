// Package ui provides optional terminal interfaces.
package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/nibzard/violet-go/pkg/violet"
)

const defaultMaxLines = 10

// Progress shows task progress in a terminal while a run executes.
// It is a violet.Observer and an io.Writer for console output.
type Progress struct {
	out io.Writer
	in  io.Reader

	msgs chan tea.Msg
	done chan struct{}
	once sync.Once

	mu      sync.Mutex
	partial []byte
}

// NewProgress returns a progress view rendering to out and reading keys from in.
func NewProgress(out io.Writer, in io.Reader) *Progress {
	return &Progress{
		out:  out,
		in:   in,
		msgs: make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
}

// Observe forwards a run event to the view.
func (p *Progress) Observe(e violet.Event) {
	p.send(eventMsg{event: e})
}

// Write splits p into lines for the output pane. A trailing partial line
// is held until its newline arrives.
func (p *Progress) Write(b []byte) (int, error) {
	p.mu.Lock()
	p.partial = append(p.partial, b...)
	var lines []string
	for {
		i := bytes.IndexByte(p.partial, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(p.partial[:i]))
		p.partial = p.partial[i+1:]
	}
	p.mu.Unlock()

	for _, line := range lines {
		p.send(lineMsg(line))
	}
	return len(b), nil
}

// Run starts the view and calls fn with a context that is cancelled when
// the user quits. It returns fn's error, or the program's error if fn succeeded.
func (p *Progress) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		err := fn(ctx)
		p.send(runDoneMsg{err: err})
		errCh <- err
	}()

	program := tea.NewProgram(
		newModel(p.msgs),
		tea.WithContext(ctx),
		tea.WithOutput(p.out),
		tea.WithInput(p.in),
	)
	_, progErr := program.Run()
	p.once.Do(func() { close(p.done) })
	cancel()

	if err := <-errCh; err != nil {
		return err
	}
	if progErr != nil && !errors.Is(progErr, tea.ErrProgramKilled) {
		return progErr
	}
	return nil
}

func (p *Progress) send(msg tea.Msg) {
	select {
	case p.msgs <- msg:
	case <-p.done:
	}
}

type eventMsg struct {
	event violet.Event
}

type lineMsg string

type runDoneMsg struct {
	err error
}

type taskState int

const (
	taskRunning taskState = iota
	taskDone
	taskFailed
)

type taskRow struct {
	name    string
	action  string
	state   taskState
	runs    int
	err     error
	started time.Time
	elapsed time.Duration
}

type model struct {
	msgs     <-chan tea.Msg
	runID    string
	rows     []*taskRow
	index    map[string]*taskRow
	lines    []string
	maxLines int
	finished bool
	quitting bool
	err      error
}

func newModel(msgs <-chan tea.Msg) *model {
	return &model{
		msgs:     msgs,
		index:    make(map[string]*taskRow),
		maxLines: defaultMaxLines,
	}
}

func (m *model) Init() tea.Cmd {
	return waitForMsg(m.msgs)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
	case eventMsg:
		m.applyEvent(msg.event)
		return m, waitForMsg(m.msgs)
	case lineMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > m.maxLines {
			m.lines = m.lines[len(m.lines)-m.maxLines:]
		}
		return m, waitForMsg(m.msgs)
	case runDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) applyEvent(e violet.Event) {
	if m.runID == "" {
		m.runID = e.RunID
	}
	row, ok := m.index[e.Task]
	if !ok {
		row = &taskRow{name: e.Task}
		m.index[e.Task] = row
		m.rows = append(m.rows, row)
	}

	switch e.Kind {
	case violet.EventTaskStarted:
		row.state = taskRunning
		row.runs++
		row.action = ""
		row.err = nil
		row.started = e.Time
	case violet.EventActionStarted:
		row.action = e.Action
	case violet.EventActionFinished:
		row.action = ""
	case violet.EventTaskFinished:
		row.state = taskDone
		row.action = ""
		row.elapsed = e.Time.Sub(row.started)
	case violet.EventTaskFailed:
		row.state = taskFailed
		row.err = e.Err
		row.elapsed = e.Time.Sub(row.started)
	}
}

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b, m.runID)

	if len(m.rows) == 0 {
		b.WriteString("  Waiting for tasks...\n\n")
	} else {
		for _, row := range m.rows {
			b.WriteString(formatRow(row))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(m.lines) > 0 {
		b.WriteString("Output\n\n")
		for _, line := range m.lines {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}

	switch {
	case m.finished && m.err != nil:
		b.WriteString("Run failed: " + m.err.Error() + "\n")
	case m.finished:
		b.WriteString("Run finished.\n")
	case m.quitting:
		b.WriteString("Stopping...\n")
	default:
		b.WriteString("q to quit\n")
	}
	return b.String()
}

func waitForMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func writeTitle(b *strings.Builder, runID string) {
	title := "violet"
	if runID != "" {
		title += " " + runID
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func formatRow(row *taskRow) string {
	icon := ">"
	switch row.state {
	case taskDone:
		icon = "x"
	case taskFailed:
		icon = "!"
	}

	line := fmt.Sprintf("  %s %s", icon, row.name)
	if row.runs > 1 {
		line += fmt.Sprintf(" (x%d)", row.runs)
	}
	switch row.state {
	case taskRunning:
		if row.action != "" {
			line += "  " + truncate(row.action, 60)
		}
	case taskDone:
		line += fmt.Sprintf("  %s", row.elapsed.Round(time.Millisecond))
	case taskFailed:
		if row.err != nil {
			line += "  " + truncate(row.err.Error(), 60)
		}
	}
	return line
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(f.Fd())
}
