package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Homework configuration file
# Values can be overridden by HOMEWORK_* environment variables or CLI flags

# Directory holding the task file and the activity journal (supports ~)
data_dir = "~/.homework"

# Task file, relative to data_dir unless absolute
storage_file = "tasks.json"

# Activity journal, one JSON line per change
journal_file = "history.jsonl"

# A day with more planned minutes than this is flagged as overbooked
overbook_minutes = 720

# Adding or editing a task is refused when its day would exceed this
daily_limit_minutes = 1440

# Zone used to cut due dates into days: "utc" or "local"
day_grouping = "utc"

# List defaults
default_sort = "date"     # date, priority or time
default_filter = "all"    # all, active or completed

# Logging
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
