package config

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/homework-go/internal/logging"
	"github.com/nibzard/homework-go/internal/task"
)

// LoadWithSources loads configuration from multiple sources in priority order
// and tracks the source of each value:
// 1. Defaults
// 2. User config file (~/.homework/homework.toml or OS-specific config dir)
// 3. Project config file (homework.toml or .homework.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, cws.Sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		cws.Files = append(cws.Files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, cws.Sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		cws.Files = append(cws.Files, projectConfigFile)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, cws.Sources); err != nil {
		return nil, err
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"storage_file",
		"journal_file",
		"overbook_minutes",
		"daily_limit_minutes",
		"day_grouping",
		"default_sort",
		"default_filter",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// loadConfigFile decodes the TOML file at path over cfg and records which
// keys it set. Keys that do not map to a config field are an error.
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
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for _, key := range md.Keys() {
		if sources != nil {
			sources[key.String()] = source
		}
	}
	return nil
}

// finalizeConfig expands paths and validates enumerated values.
func finalizeConfig(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)
	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if strings.TrimSpace(cfg.StorageFile) == "" {
		cfg.StorageFile = DefaultStorageFile
	}
	if strings.TrimSpace(cfg.JournalFile) == "" {
		cfg.JournalFile = DefaultJournalFile
	}

	if cfg.OverbookMinutes <= 0 {
		return fmt.Errorf("overbook_minutes must be positive, got %d", cfg.OverbookMinutes)
	}
	if cfg.DailyLimitMinutes <= 0 {
		return fmt.Errorf("daily_limit_minutes must be positive, got %d", cfg.DailyLimitMinutes)
	}
	if cfg.DailyLimitMinutes > task.MaxMinutes {
		return fmt.Errorf("daily_limit_minutes cannot exceed %d (24 hours), got %d", task.MaxMinutes, cfg.DailyLimitMinutes)
	}

	cfg.DayGrouping = strings.ToLower(strings.TrimSpace(cfg.DayGrouping))
	switch cfg.DayGrouping {
	case "":
		cfg.DayGrouping = DefaultDayGrouping
	case GroupUTC, GroupLocal:
	default:
		return fmt.Errorf("invalid day_grouping %q, must be utc or local", cfg.DayGrouping)
	}

	mode, err := task.ParseSortMode(cfg.DefaultSort)
	if err != nil {
		return err
	}
	cfg.DefaultSort = string(mode)

	filter, err := task.ParseFilter(cfg.DefaultFilter)
	if err != nil {
		return err
	}
	cfg.DefaultFilter = string(filter)

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if _, err := logging.ParseFormatter(cfg.LogFormat); err != nil {
		return err
	}
	return nil
}
