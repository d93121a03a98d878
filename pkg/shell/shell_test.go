package shell

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell tests use POSIX sh")
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"single", []string{"make"}, "make"},
		{"multiple", []string{"echo", "hi"}, "echo hi"},
		{"quoted argument kept verbatim", []string{"echo", "'a b'"}, "echo 'a b'"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join(tt.argv...); got != tt.want {
				t.Errorf("Join(%v) = %q, want %q", tt.argv, got, tt.want)
			}
		})
	}
}

func TestExecRunner_Run(t *testing.T) {
	skipOnWindows(t)
	r := NewExecRunner()

	t.Run("captures stdout", func(t *testing.T) {
		res, err := r.Run(context.Background(), "echo hi")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(res.Stdout) != "hi" {
			t.Errorf("Stdout = %q, want hi", res.Stdout)
		}
		if res.ExitCode != 0 {
			t.Errorf("ExitCode = %d, want 0", res.ExitCode)
		}
	})

	t.Run("captures stderr without failing", func(t *testing.T) {
		res, err := r.Run(context.Background(), "echo oops 1>&2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(res.Stderr) != "oops" {
			t.Errorf("Stderr = %q, want oops", res.Stderr)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		res, err := r.Run(context.Background(), "exit 3")
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("expected ExitError, got %v", err)
		}
		if exitErr.ExitCode != 3 || res.ExitCode != 3 {
			t.Errorf("exit code = %d/%d, want 3", exitErr.ExitCode, res.ExitCode)
		}
	})

	t.Run("false exits non-zero", func(t *testing.T) {
		if _, err := r.Run(context.Background(), "false"); err == nil {
			t.Fatal("expected error for false")
		}
	})

	t.Run("empty line", func(t *testing.T) {
		if _, err := r.Run(context.Background(), "   "); err == nil {
			t.Fatal("expected error for empty command")
		}
	})

	t.Run("missing shell", func(t *testing.T) {
		bad := &ExecRunner{Shell: "/nonexistent/violet-shell", Flag: "-c"}
		res, err := bad.Run(context.Background(), "echo hi")
		if err == nil {
			t.Fatal("expected launch error")
		}
		if res.ExitCode != -1 {
			t.Errorf("ExitCode = %d, want -1", res.ExitCode)
		}
	})

	t.Run("env and dir", func(t *testing.T) {
		dir := t.TempDir()
		withEnv := &ExecRunner{Dir: dir, Env: []string{"VIOLET_TEST_VALUE=42"}}
		res, err := withEnv.Run(context.Background(), "echo $VIOLET_TEST_VALUE; pwd")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(res.Stdout, "42") {
			t.Errorf("expected env value in stdout, got %q", res.Stdout)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		quick := &ExecRunner{WaitDelay: 100 * time.Millisecond}
		start := time.Now()
		_, err := quick.Run(ctx, "exec sleep 5")
		if err == nil {
			t.Fatal("expected cancellation error")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if time.Since(start) > 4*time.Second {
			t.Error("command was not killed on cancellation")
		}
	})
}
