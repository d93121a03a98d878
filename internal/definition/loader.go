package definition

import (
	"github.com/spf13/afero"

	"github.com/nibzard/violet-go/pkg/violet"
)

// Loader produces the function that declares tasks on a registry.
type Loader interface {
	Load() (violet.DefineFunc, error)
}

var (
	_ Loader = violet.DefineFunc(nil)
	_ Loader = (*FileLoader)(nil)
)

// FileLoader loads the definition file found in Dir.
type FileLoader struct {
	Fs  afero.Fs
	Dir string
	// Path, when set, skips discovery and reads this file directly.
	Path string
}

// NewFileLoader returns a loader for dir on the OS filesystem.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Fs: afero.NewOsFs(), Dir: dir}
}

// Resolve returns the path of the file Load would read.
func (l *FileLoader) Resolve() (string, error) {
	if l.Path != "" {
		return l.Path, nil
	}
	return Find(l.fs(), l.Dir)
}

// Load finds, validates and decodes the definition file.
func (l *FileLoader) Load() (violet.DefineFunc, error) {
	path, err := l.Resolve()
	if err != nil {
		return nil, err
	}
	f, err := ReadFile(l.fs(), path)
	if err != nil {
		return nil, err
	}
	return f.Define(), nil
}

func (l *FileLoader) fs() afero.Fs {
	if l.Fs == nil {
		return afero.NewOsFs()
	}
	return l.Fs
}
