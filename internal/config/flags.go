package config

import (
	"flag"
)

// parseFlags defines the global flags on fs, parses args and applies the
// flags that were set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("homework", flag.ContinueOnError)
	}

	var (
		dataDir, storageFile, journalFile string
		dayGrouping                       string
		overbook, dailyLimit              int
		logLevel, logFormat               string
		logTimestamps, logCaller          bool
	)

	// Paths
	fs.StringVar(&dataDir, "data-dir", cfg.DataDir, "Directory holding the task file and journal")
	fs.StringVar(&storageFile, "file", cfg.StorageFile, "Task file (relative to the data directory)")
	fs.StringVar(&journalFile, "journal", cfg.JournalFile, "Activity journal file (relative to the data directory)")

	// Daily load
	fs.IntVar(&overbook, "overbook-minutes", cfg.OverbookMinutes, "Minutes per day above which a day is flagged as overbooked")
	fs.IntVar(&dailyLimit, "daily-limit", cfg.DailyLimitMinutes, "Maximum minutes that can be planned on one day")
	fs.StringVar(&dayGrouping, "day-grouping", cfg.DayGrouping, "Zone used to group due dates into days (utc|local)")

	// Logging
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"data-dir":         "data_dir",
		"file":             "storage_file",
		"journal":          "journal_file",
		"overbook-minutes": "overbook_minutes",
		"daily-limit":      "daily_limit_minutes",
		"day-grouping":     "day_grouping",
		"log-level":        "log_level",
		"log-format":       "log_format",
		"log-timestamps":   "log_timestamps",
		"log-caller":       "log_caller",
	}

	// Apply only the flags that were set
	fs.Visit(func(f *flag.Flag) {
		field, ok := flagToSource[f.Name]
		if !ok {
			return
		}
		if sources != nil {
			sources[field] = SourceFlag
		}
		switch f.Name {
		case "data-dir":
			cfg.DataDir = dataDir
		case "file":
			cfg.StorageFile = storageFile
		case "journal":
			cfg.JournalFile = journalFile
		case "overbook-minutes":
			cfg.OverbookMinutes = overbook
		case "daily-limit":
			cfg.DailyLimitMinutes = dailyLimit
		case "day-grouping":
			cfg.DayGrouping = dayGrouping
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log-caller":
			cfg.LogCaller = logCaller
		}
	})

	return nil
}
