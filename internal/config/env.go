package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envPrefix is prepended to every environment variable name.
const envPrefix = "HOMEWORK_"

// loadFromEnv overrides config from HOMEWORK_* environment variables and
// updates source tracking when sources is non-nil.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	getEnvInt := func(name string) (int, bool, error) {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			return 0, false, nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false, fmt.Errorf("%s%s: %q is not an integer", envPrefix, name, v)
		}
		return i, true, nil
	}

	stringVars := []struct {
		name   string
		field  string
		target *string
	}{
		{"DATA_DIR", "data_dir", &cfg.DataDir},
		{"STORAGE_FILE", "storage_file", &cfg.StorageFile},
		{"JOURNAL_FILE", "journal_file", &cfg.JournalFile},
		{"DAY_GROUPING", "day_grouping", &cfg.DayGrouping},
		{"SORT", "default_sort", &cfg.DefaultSort},
		{"FILTER", "default_filter", &cfg.DefaultFilter},
		{"LOG_LEVEL", "log_level", &cfg.LogLevel},
		{"LOG_FORMAT", "log_format", &cfg.LogFormat},
	}
	for _, s := range stringVars {
		if v := os.Getenv(envPrefix + s.name); v != "" {
			*s.target = v
			setEnv(s.field)
		}
	}

	if v, ok, err := getEnvInt("OVERBOOK_MINUTES"); err != nil {
		return err
	} else if ok {
		cfg.OverbookMinutes = v
		setEnv("overbook_minutes")
	}
	if v, ok, err := getEnvInt("DAILY_LIMIT_MINUTES"); err != nil {
		return err
	} else if ok {
		cfg.DailyLimitMinutes = v
		setEnv("daily_limit_minutes")
	}

	if v := os.Getenv(envPrefix + "LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv(envPrefix + "LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
	return nil
}

// boolFromString reads the usual spellings of true; everything else is false.
func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
