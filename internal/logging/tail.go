package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FindLatestLog returns the most recently modified run log in logDir,
// or "" when there is none.
func FindLatestLog(logDir string) (string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), LogExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// Run IDs start with a timestamp, so the name breaks mtime ties.
		if latest == "" || info.ModTime().After(latestTime) ||
			(info.ModTime().Equal(latestTime) && filepath.Join(logDir, entry.Name()) > latest) {
			latestTime = info.ModTime()
			latest = filepath.Join(logDir, entry.Name())
		}
	}
	return latest, nil
}

// TailLog copies the last n lines of path to w (all lines when n <= 0).
// With follow it keeps copying new lines until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}
	if _, err := io.Copy(w, file); err != nil {
		return err
	}
	if !follow {
		return nil
	}
	return tailFollow(ctx, w, file, 100*time.Millisecond)
}

// tailSeek positions file at the start of the n-th line from the end.
func tailSeek(file *os.File, n int) error {
	const chunk = 4096

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()

	lines := 0
	offset := size
	buf := make([]byte, chunk)
	for offset > 0 {
		readSize := int64(chunk)
		if offset < readSize {
			readSize = offset
		}
		offset -= readSize
		if _, err := file.ReadAt(buf[:readSize], offset); err != nil && err != io.EOF {
			return err
		}
		for i := readSize - 1; i >= 0; i-- {
			if buf[i] != '\n' {
				continue
			}
			// A trailing newline ends the last line; it does not start a new one.
			if offset+i == size-1 {
				continue
			}
			lines++
			if lines == n {
				_, err := file.Seek(offset+i+1, io.SeekStart)
				return err
			}
		}
	}
	_, err = file.Seek(0, io.SeekStart)
	return err
}

// tailFollow polls file for appended data until ctx is done.
func tailFollow(ctx context.Context, w io.Writer, file *os.File, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := io.Copy(w, file); err != nil {
				return err
			}
		}
	}
}

// NewRecordWriter returns a writer that renders JSONL run log lines
// written to it as readable text on w. Lines that are not records pass
// through unchanged; a trailing partial line waits for its newline.
func NewRecordWriter(w io.Writer) io.Writer {
	return &recordWriter{w: w}
}

type recordWriter struct {
	w   io.Writer
	buf []byte
}

func (rw *recordWriter) Write(p []byte) (int, error) {
	rw.buf = append(rw.buf, p...)
	for {
		i := bytes.IndexByte(rw.buf, '\n')
		if i < 0 {
			break
		}
		line := rw.buf[:i]
		rw.buf = rw.buf[i+1:]
		if _, err := fmt.Fprintln(rw.w, renderLine(line)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func renderLine(line []byte) string {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil || rec.Kind == "" {
		return string(line)
	}
	return FormatRecord(rec)
}

// FormatRecord renders one record as "15:04:05.000 kind task [action][: error]".
func FormatRecord(rec Record) string {
	var b strings.Builder
	b.WriteString(rec.Time.Local().Format("15:04:05.000"))
	b.WriteString(" " + rec.Kind + " " + rec.Task)
	if rec.Action != "" {
		b.WriteString(" " + rec.Action)
	}
	if rec.Error != "" {
		b.WriteString(": " + rec.Error)
	}
	return b.String()
}
