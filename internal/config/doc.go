// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.homework/homework.toml or OS-specific config directory)
// 3. Project config file (homework.toml or .homework.toml in the working directory)
// 4. Environment variables (HOMEWORK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.homework/homework.toml (preferred)
// - Windows: %APPDATA%\homework\homework.toml
// - macOS: ~/Library/Application Support/homework/homework.toml
// - Linux/BSD: $XDG_CONFIG_HOME/homework/homework.toml or ~/.config/homework/homework.toml
//
// Project-level config locations (overrides user config):
// - ./homework.toml (preferred)
// - ./.homework.toml
package config
