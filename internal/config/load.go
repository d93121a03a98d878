package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/violet-go/pkg/violet"
)

// Load loads configuration for workDir from defaults, config files,
// environment and the flags in args. An empty workDir means the current
// directory. Flags are registered on fs; fs.Args() holds the rest.
func Load(workDir string, fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(workDir, fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(workDir string, fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	sources := make(map[string]ConfigSource)
	var files []string

	// 1. Defaults
	setDefaults(cfg)
	for _, field := range Fields() {
		sources[field] = SourceDefault
	}

	root, err := resolveWorkDir(workDir)
	if err != nil {
		return nil, err
	}

	// 2. User config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		files = append(files, path)
	}

	// 3. Project config file (overrides user config)
	if path := findProjectConfigFile(root); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		files = append(files, path)
	}

	// 4. Environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, err
	}

	// 5. CLI flags
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Derived values
	cfg.ProjectRoot = root
	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}

	return &ConfigWithSources{Config: cfg, Sources: sources, Files: files}, nil
}

// loadConfigFile decodes TOML from path over cfg and records which keys it set.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	for _, field := range Fields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(expandPath(workDir))
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return abs, nil
}

// finalizeConfig expands paths and validates enumerated values.
func finalizeConfig(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)
	if cfg.File != "" {
		cfg.File = expandPath(cfg.File)
		if !filepath.IsAbs(cfg.File) {
			cfg.File = filepath.Join(cfg.ProjectRoot, cfg.File)
		}
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, err := violet.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	policy, err := violet.ParseStderrPolicy(cfg.StderrPolicy)
	if err != nil {
		return fmt.Errorf("%w: stderr_policy: %w", ErrInvalidConfig, err)
	}
	cfg.StderrPolicy = string(policy)

	switch cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat)); cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: log_format %q (expected text|json|logfmt)", ErrInvalidConfig, cfg.LogFormat)
	}

	switch cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI)); cfg.UI {
	case UIPlain, UITUI, UIAuto:
	default:
		return fmt.Errorf("%w: ui %q (expected plain|tui|auto)", ErrInvalidConfig, cfg.UI)
	}

	if cfg.MaxParallel < 0 {
		return fmt.Errorf("%w: max_parallel must be >= 0, got %d", ErrInvalidConfig, cfg.MaxParallel)
	}
	return nil
}
