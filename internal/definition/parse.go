package definition

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format is a definition file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the format for a file name based on its extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// ReadFile reads, validates and decodes the definition file at path.
func ReadFile(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse validates data against the definition schema and decodes it.
func Parse(format Format, data []byte) (*File, error) {
	var raw map[string]any
	if err := unmarshal(format, data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}

	var f File
	if err := unmarshal(format, data, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if f.Tasks == nil {
		f.Tasks = map[string]TaskDef{}
	}
	return &f, nil
}

func unmarshal(format Format, data []byte, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
