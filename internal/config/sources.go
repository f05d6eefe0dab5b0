package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the user config directory and file.
const appName = "homework"

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{appName + ".toml", "." + appName + ".toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.homework/homework.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, "."+appName, appName+".toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, appName, appName+".toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.StorageFile = DefaultStorageFile
	cfg.JournalFile = DefaultJournalFile
	cfg.OverbookMinutes = DefaultOverbookMinutes
	cfg.DailyLimitMinutes = DefaultDailyLimitMinutes
	cfg.DayGrouping = DefaultDayGrouping
	cfg.DefaultSort = "date"
	cfg.DefaultFilter = "all"
	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
}

// ConfigFile returns the last config file read, which is the project file
// when one exists.
func (cws *ConfigWithSources) ConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// Setting is one effective config value and where it came from.
type Setting struct {
	Key    string
	Value  any
	Source ConfigSource
}

// Settings lists every config key with its effective value.
func (cws *ConfigWithSources) Settings() []Setting {
	c := cws.Config
	values := map[string]any{
		"data_dir":            c.DataDir,
		"storage_file":        c.StorageFile,
		"journal_file":        c.JournalFile,
		"overbook_minutes":    c.OverbookMinutes,
		"daily_limit_minutes": c.DailyLimitMinutes,
		"day_grouping":        c.DayGrouping,
		"default_sort":        c.DefaultSort,
		"default_filter":      c.DefaultFilter,
		"log_level":           c.LogLevel,
		"log_format":          c.LogFormat,
		"log_timestamps":      c.LogTimestamps,
		"log_caller":          c.LogCaller,
	}
	fields := configFields()
	out := make([]Setting, 0, len(fields))
	for _, key := range fields {
		out = append(out, Setting{Key: key, Value: values[key], Source: cws.Sources[key]})
	}
	return out
}
