package logging

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/violet-go/pkg/violet"
)

// ErrNoLogDir is returned when run logging is requested without a base directory.
var ErrNoLogDir = errors.New("log base dir is empty")

// LogExt is the extension of run log files.
const LogExt = ".jsonl"

// Record is one line of a run log.
type Record struct {
	Time   time.Time `json:"time"`
	Kind   string    `json:"kind"`
	RunID  string    `json:"run_id"`
	Task   string    `json:"task"`
	Action string    `json:"action,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// RunLogger appends task events of one run to a JSONL file.
type RunLogger struct {
	Dir     string
	RunID   string
	LogPath string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	err  error
}

// NewRunLogger creates <baseDir>/<project-slug>/<runID>.jsonl.
// A relative baseDir is resolved against workDir.
func NewRunLogger(baseDir, workDir, runID string) (*RunLogger, error) {
	logDir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	if runID == "" {
		runID = NewRunID()
	}

	logPath := filepath.Join(logDir, runID+LogExt)
	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &RunLogger{
		Dir:     logDir,
		RunID:   runID,
		LogPath: logPath,
		file:    file,
		enc:     json.NewEncoder(file),
	}, nil
}

// Observe writes e as one JSON line. It matches violet.Observer.
// Write errors are kept and reported by Close.
func (r *RunLogger) Observe(e violet.Event) {
	rec := Record{
		Time:   e.Time,
		Kind:   string(e.Kind),
		RunID:  e.RunID,
		Task:   e.Task,
		Action: e.Action,
	}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil || r.enc == nil {
		return
	}
	r.err = r.enc.Encode(rec)
}

// Close closes the log file.
func (r *RunLogger) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	closeErr := r.file.Close()
	if r.err != nil {
		return fmt.Errorf("write run log: %w", r.err)
	}
	return closeErr
}

// NewRunID returns a sortable run ID: UTC timestamp plus a short random suffix.
func NewRunID() string {
	return fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
}

// FindLogDir returns the log directory for a work directory.
func FindLogDir(baseDir, workDir string) (string, error) {
	if baseDir == "" {
		return "", ErrNoLogDir
	}

	resolvedWorkDir := workDir
	if resolvedWorkDir == "" {
		resolvedWorkDir = "."
	}
	if abs, err := filepath.Abs(resolvedWorkDir); err == nil {
		resolvedWorkDir = abs
	}

	baseDir = resolveBaseDir(baseDir, resolvedWorkDir)
	projectRoot := resolveProjectRoot(resolvedWorkDir)
	return filepath.Join(baseDir, projectSlug(projectRoot)), nil
}

func resolveBaseDir(baseDir, workDir string) string {
	if filepath.IsAbs(baseDir) {
		return filepath.Clean(baseDir)
	}
	return filepath.Clean(filepath.Join(workDir, baseDir))
}

// resolveProjectRoot prefers the enclosing git checkout so runs from
// subdirectories share one log directory.
func resolveProjectRoot(workDir string) string {
	if workDir == "" {
		return "."
	}
	if _, err := exec.LookPath("git"); err == nil {
		cmd := exec.Command("git", "-C", workDir, "rev-parse", "--show-toplevel")
		if output, err := cmd.Output(); err == nil {
			if root := strings.TrimSpace(string(output)); root != "" {
				return root
			}
		}
	}
	return workDir
}

func projectSlug(projectRoot string) string {
	return fmt.Sprintf("%s-%s", slugify(filepath.Base(projectRoot)), hashPath(projectRoot))
}

func slugify(input string) string {
	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" || slug == "." || slug == ".." {
		return "project"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}
