package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/violet-go/pkg/violet"
)

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
		{"JSON", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"unknown", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewConsoleFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleFromConfig(&buf, "logfmt", false)

	logger.WithPrefix("build").Info("hello", "n", 1)

	got := buf.String()
	if !strings.Contains(got, "msg=hello") || !strings.Contains(got, "prefix=build") {
		t.Errorf("unexpected logfmt output %q", got)
	}
	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("console level = %v, want debug", logger.GetLevel())
	}
}

func TestNewRunLogger(t *testing.T) {
	t.Run("creates log file under project slug", func(t *testing.T) {
		baseDir := t.TempDir()
		workDir := filepath.Join(t.TempDir(), "my test project")
		if err := os.Mkdir(workDir, 0o755); err != nil {
			t.Fatal(err)
		}

		rl, err := NewRunLogger(baseDir, workDir, "run-1")
		if err != nil {
			t.Fatalf("NewRunLogger() error = %v", err)
		}
		defer rl.Close()

		if rl.RunID != "run-1" {
			t.Errorf("RunID = %q, want run-1", rl.RunID)
		}
		if filepath.Base(rl.LogPath) != "run-1.jsonl" {
			t.Errorf("LogPath = %q", rl.LogPath)
		}
		if !strings.HasPrefix(rl.Dir, baseDir) {
			t.Errorf("Dir %q not under %q", rl.Dir, baseDir)
		}
		if _, err := os.Stat(rl.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("generates run id", func(t *testing.T) {
		rl, err := NewRunLogger(t.TempDir(), t.TempDir(), "")
		if err != nil {
			t.Fatal(err)
		}
		defer rl.Close()
		if rl.RunID == "" {
			t.Error("expected generated RunID")
		}
	})

	t.Run("empty base dir", func(t *testing.T) {
		_, err := NewRunLogger("", t.TempDir(), "x")
		if !errors.Is(err, ErrNoLogDir) {
			t.Fatalf("error = %v, want ErrNoLogDir", err)
		}
	})
}

func TestRunLoggerObserve(t *testing.T) {
	rl, err := NewRunLogger(t.TempDir(), t.TempDir(), "run-2")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rl.Observe(violet.Event{Kind: violet.EventTaskStarted, RunID: "run-2", Task: "build", Time: now})
		}()
	}
	wg.Wait()
	rl.Observe(violet.Event{Kind: violet.EventTaskFailed, RunID: "run-2", Task: "build", Err: errors.New("boom"), Time: now})
	if err := rl.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(rl.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %q is not a record: %v", scanner.Text(), err)
		}
		records = append(records, rec)
	}
	if len(records) != 11 {
		t.Fatalf("got %d records, want 11", len(records))
	}
	last := records[10]
	if last.Kind != "task_failed" || last.Error != "boom" || last.Task != "build" {
		t.Errorf("last record = %+v", last)
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("run id %q: want date-time-suffix", id)
	}
	if _, err := time.Parse("20060102", parts[0]); err != nil {
		t.Errorf("first part not a date: %v", err)
	}
	if _, err := time.Parse("150405", parts[1]); err != nil {
		t.Errorf("second part not a time: %v", err)
	}
	if len(parts[2]) != 8 {
		t.Errorf("suffix %q: want 8 chars", parts[2])
	}
	if NewRunID() == id {
		t.Error("run ids should differ")
	}
}

func TestFindLogDir(t *testing.T) {
	baseDir := t.TempDir()
	workDir := t.TempDir()

	logDir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		t.Fatalf("FindLogDir() error = %v", err)
	}
	if !strings.HasPrefix(logDir, baseDir) {
		t.Errorf("log dir %q should be under %q", logDir, baseDir)
	}

	again, _ := FindLogDir(baseDir, workDir)
	if again != logDir {
		t.Errorf("FindLogDir not stable: %q vs %q", logDir, again)
	}

	if _, err := FindLogDir("", workDir); !errors.Is(err, ErrNoLogDir) {
		t.Errorf("empty base dir error = %v", err)
	}
}

func TestFindLatestLog(t *testing.T) {
	t.Run("picks newest jsonl", func(t *testing.T) {
		logDir := t.TempDir()
		old := time.Now().Add(-time.Hour)
		for i, name := range []string{"a.jsonl", "b.jsonl", "c.txt"} {
			path := filepath.Join(logDir, name)
			if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
			mtime := old.Add(time.Duration(i) * time.Minute)
			if err := os.Chtimes(path, mtime, mtime); err != nil {
				t.Fatal(err)
			}
		}
		if err := os.Mkdir(filepath.Join(logDir, "z.jsonl"), 0o755); err != nil {
			t.Fatal(err)
		}

		latest, err := FindLatestLog(logDir)
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(latest) != "b.jsonl" {
			t.Errorf("latest = %q, want b.jsonl", latest)
		}
	})

	t.Run("missing dir", func(t *testing.T) {
		latest, err := FindLatestLog(filepath.Join(t.TempDir(), "missing"))
		if err != nil || latest != "" {
			t.Errorf("FindLatestLog() = %q, %v", latest, err)
		}
	})

	t.Run("empty dir", func(t *testing.T) {
		latest, err := FindLatestLog(t.TempDir())
		if err != nil || latest != "" {
			t.Errorf("FindLatestLog() = %q, %v", latest, err)
		}
	})
}

func TestTailLog(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.jsonl")
	if err := os.WriteFile(logFile, []byte("line1\nline2\nline3\nline4\nline5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"all", 0, "line1\nline2\nline3\nline4\nline5\n"},
		{"last two", 2, "line4\nline5\n"},
		{"more than file", 10, "line1\nline2\nline3\nline4\nline5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TailLog(context.Background(), &buf, logFile, tt.n, false); err != nil {
				t.Fatalf("TailLog() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("TailLog() = %q, want %q", buf.String(), tt.want)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, filepath.Join(t.TempDir(), "nope"), 0, false); err == nil {
			t.Fatal("expected error")
		}
	})
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTailLogFollow(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping follow test on Windows due to file locking issues")
	}
	logFile := filepath.Join(t.TempDir(), "test.jsonl")
	if err := os.WriteFile(logFile, []byte("initial\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	buf := &lockedBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- TailLog(ctx, buf, logFile, 0, true)
	}()

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("appended\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), "appended") && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("TailLog() error = %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "initial") || !strings.Contains(got, "appended") {
		t.Errorf("follow output = %q", got)
	}
}

func TestRecordWriter(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	line, _ := json.Marshal(Record{Time: ts, Kind: "task_failed", Task: "build", Action: "exec go build", Error: "boom"})

	var out bytes.Buffer
	w := NewRecordWriter(&out)
	// Split the record across writes to exercise buffering.
	half := len(line) / 2
	w.Write(line[:half])
	if out.Len() != 0 {
		t.Fatalf("partial line flushed early: %q", out.String())
	}
	w.Write(append(line[half:], '\n'))
	w.Write([]byte("not json\n"))

	want := "03:04:05.000 task_failed build exec go build: boom\nnot json\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"my-project", "my-project"},
		{"my project!", "my_project"},
		{"///", "project"},
		{"", "project"},
		{".", "project"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProjectSlug(t *testing.T) {
	slug := projectSlug("/my/project")
	if !strings.HasPrefix(slug, "project-") {
		t.Errorf("slug %q should start with the directory name", slug)
	}
	if hash := slug[len("project-"):]; len(hash) != 8 {
		t.Errorf("expected 8-char hash, got %q", hash)
	}
	if projectSlug("/other/project") == slug {
		t.Error("different roots should produce different slugs")
	}
}

func TestResolveProjectRootEmpty(t *testing.T) {
	if got := resolveProjectRoot(""); got != "." {
		t.Errorf("resolveProjectRoot(\"\") = %q, want .", got)
	}
}
