// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.violet/config.toml or OS-specific config directory)
// 3. Project config file (.violet/config.toml in the working directory)
// 4. Environment variables (VIOLET_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.violet/config.toml (preferred)
// - Windows: %APPDATA%\violet\config.toml
// - macOS: ~/Library/Application Support/violet/config.toml
// - Linux/BSD: $XDG_CONFIG_HOME/violet/config.toml or ~/.config/violet/config.toml
package config
