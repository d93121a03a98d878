package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// WindowsExecutableExtensions returns the lowercase executable extensions
// (with leading dot) from PATHEXT, or the Windows defaults when it is unset.
func WindowsExecutableExtensions() map[string]bool {
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	exts := map[string]bool{}
	for _, ext := range SplitAndTrim(pathext, ";") {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return exts
}

// IsExecutable reports whether the file at path can be run as a shell binary.
// On Windows this is decided by extension, elsewhere by the permission bits.
func IsExecutable(path string, info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		ext := strings.ToLower(filepath.Ext(path))
		return ext != "" && WindowsExecutableExtensions()[ext]
	}
	return info.Mode().Perm()&0111 != 0
}
