package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/nibzard/homework-go/internal/capacity"
	"github.com/nibzard/homework-go/internal/logging"
	"github.com/nibzard/homework-go/internal/store"
	"github.com/nibzard/homework-go/internal/task"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, in load order
}

// Day grouping modes.
const (
	GroupUTC   = "utc"
	GroupLocal = "local"
)

// Default values.
const (
	DefaultDataDir           = "~/.homework"
	DefaultStorageFile       = store.DefaultFileName
	DefaultJournalFile       = logging.DefaultJournalName
	DefaultOverbookMinutes   = capacity.DefaultThreshold
	DefaultDailyLimitMinutes = capacity.DefaultLimit
	DefaultDayGrouping       = GroupUTC
)

// Config holds the full configuration for homework.
type Config struct {
	// Paths
	DataDir     string `toml:"data_dir"`
	StorageFile string `toml:"storage_file"`
	JournalFile string `toml:"journal_file"`

	// Daily load
	OverbookMinutes   int    `toml:"overbook_minutes"`
	DailyLimitMinutes int    `toml:"daily_limit_minutes"`
	DayGrouping       string `toml:"day_grouping"`

	// List defaults
	DefaultSort   string `toml:"default_sort"`
	DefaultFilter string `toml:"default_filter"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// StoragePath returns the task file path. A relative StorageFile is taken
// relative to DataDir.
func (c *Config) StoragePath() string {
	return resolveIn(c.DataDir, c.StorageFile)
}

// JournalPath returns the activity journal path.
func (c *Config) JournalPath() string {
	return resolveIn(c.DataDir, c.JournalFile)
}

func resolveIn(dir, name string) string {
	name = expandPath(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Location returns the zone used to group due dates into days.
func (c *Config) Location() *time.Location {
	if strings.EqualFold(c.DayGrouping, GroupLocal) {
		return time.Local
	}
	return time.UTC
}

// Capacity returns the daily-load options for this config.
func (c *Config) Capacity() capacity.Options {
	return capacity.Options{
		Threshold: c.OverbookMinutes,
		Limit:     c.DailyLimitMinutes,
		Location:  c.Location(),
	}
}

// Sort returns the configured default sort mode.
func (c *Config) Sort() task.SortMode {
	m, err := task.ParseSortMode(c.DefaultSort)
	if err != nil {
		return task.SortByDate
	}
	return m
}

// Filter returns the configured default filter.
func (c *Config) Filter() task.Filter {
	f, err := task.ParseFilter(c.DefaultFilter)
	if err != nil {
		return task.FilterAll
	}
	return f
}

// Logging returns the console logging options for this config.
func (c *Config) Logging() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.LogLevel
	opts.Format = c.LogFormat
	opts.Timestamps = c.LogTimestamps
	opts.Caller = c.LogCaller
	return opts
}
