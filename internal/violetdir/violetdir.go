// Package violetdir provides constants and helpers for the .violet directory layout.
package violetdir

import "path/filepath"

const (
	// Dir is the name of the violet state directory.
	Dir = ".violet"

	// DefaultConfigFile is the config file name (inside .violet).
	DefaultConfigFile = "config.toml"

	// DefinitionBase is the base name of a task definition file.
	DefinitionBase = "violet"
)

// DefinitionExtensions lists the accepted definition file extensions in lookup order.
var DefinitionExtensions = []string{".toml", ".yaml", ".yml", ".json"}

// ConfigPath returns the full path to the project config file within a work directory.
func ConfigPath(workDir string) string {
	return joinPath(workDir, DefaultConfigFile)
}

// DirPath returns the full path to the .violet directory within a work directory.
func DirPath(workDir string) string {
	if workDir == "." || workDir == "" {
		return Dir
	}
	return filepath.Join(workDir, Dir)
}

func joinPath(workDir, file string) string {
	return filepath.Join(DirPath(workDir), file)
}
