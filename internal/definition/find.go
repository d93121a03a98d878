package definition

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/nibzard/violet-go/internal/violetdir"
)

// Find returns the path of the definition file in dir. The base name is
// matched case-insensitively; extensions are tried in
// violetdir.DefinitionExtensions order.
func Find(fs afero.Fs, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", fmt.Errorf("%w in %s: %w", ErrDefinitionNotFound, dir, err)
	}

	for _, ext := range violetdir.DefinitionExtensions {
		want := violetdir.DefinitionBase + ext
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(entry.Name(), want) {
				return filepath.Join(dir, entry.Name()), nil
			}
		}
	}
	return "", fmt.Errorf("%w in %s", ErrDefinitionNotFound, dir)
}
