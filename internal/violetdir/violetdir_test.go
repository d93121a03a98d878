package violetdir

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name    string
		workDir string
		config  string
		dir     string
	}{
		{"dot", ".", filepath.Join(".violet", "config.toml"), ".violet"},
		{"empty", "", filepath.Join(".violet", "config.toml"), ".violet"},
		{"nested", filepath.Join("a", "b"), filepath.Join("a", "b", ".violet", "config.toml"), filepath.Join("a", "b", ".violet")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfigPath(tt.workDir); got != tt.config {
				t.Errorf("ConfigPath(%q) = %q, want %q", tt.workDir, got, tt.config)
			}
			if got := DirPath(tt.workDir); got != tt.dir {
				t.Errorf("DirPath(%q) = %q, want %q", tt.workDir, got, tt.dir)
			}
		})
	}
}
