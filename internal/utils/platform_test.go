package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWindowsExecutableExtensions(t *testing.T) {
	tests := []struct {
		name     string
		pathext  string
		wantExts []string
	}{
		{"default PATHEXT", "", []string{".com", ".exe", ".bat", ".cmd"}},
		{"custom PATHEXT", ".COM;.EXE;.PS1", []string{".com", ".exe", ".ps1"}},
		{"PATHEXT without dots", "COM;EXE;BAT", []string{".com", ".exe", ".bat"}},
		{"mixed format with spaces", ".COM; .EXE ; .BAT", []string{".com", ".exe", ".bat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PATHEXT", tt.pathext)

			got := WindowsExecutableExtensions()
			for _, ext := range tt.wantExts {
				if !got[ext] {
					t.Errorf("WindowsExecutableExtensions() missing extension %q", ext)
				}
			}
		})
	}
}

func TestIsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not used on windows")
	}
	dir := t.TempDir()

	script := filepath.Join(dir, "run.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	plain := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(plain, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"executable file", script, true},
		{"plain file", plain, false},
		{"directory", dir, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := os.Stat(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if got := IsExecutable(tt.path, info); got != tt.want {
				t.Errorf("IsExecutable(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}

	if IsExecutable(script, nil) {
		t.Error("IsExecutable with nil info should be false")
	}
}
