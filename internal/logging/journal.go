package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultJournalName is the journal file kept next to the task file.
const DefaultJournalName = "history.jsonl"

// Recorder receives one entry per collection change.
type Recorder interface {
	Record(action string, keyvals ...any)
}

// Journal appends JSON lines describing every change to the collection.
type Journal struct {
	Path   string
	file   *os.File
	logger *log.Logger
}

// OpenJournal opens (or creates) the journal at path for appending.
func OpenJournal(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	logger := log.NewWithOptions(file, log.Options{
		Level:           log.InfoLevel,
		Formatter:       log.JSONFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return &Journal{Path: path, file: file, logger: logger}, nil
}

// Record writes one entry. A nil journal drops it.
func (j *Journal) Record(action string, keyvals ...any) {
	if j == nil || j.logger == nil {
		return
	}
	j.logger.Info(action, keyvals...)
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil || j.file == nil {
		return nil
	}
	return j.file.Close()
}

// LazyJournal opens the journal at Path on the first Record. Commands that
// change nothing leave no file behind.
type LazyJournal struct {
	Path    string
	journal *Journal
	err     error
}

// Record opens the journal if needed and writes one entry. An open failure
// drops the entry and is returned by Close.
func (l *LazyJournal) Record(action string, keyvals ...any) {
	if l.journal == nil && l.err == nil {
		l.journal, l.err = OpenJournal(l.Path)
	}
	l.journal.Record(action, keyvals...)
}

// Close closes the journal if it was opened.
func (l *LazyJournal) Close() error {
	if l.err != nil {
		return l.err
	}
	return l.journal.Close()
}

// Entry is one decoded journal line.
type Entry struct {
	Time   string
	Action string
	Fields map[string]any
}

// String renders the entry on one line with fields in key order.
func (e Entry) String() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(e.Time)
	b.WriteString("  ")
	b.WriteString(e.Action)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}

// ReadJournal returns the last n entries of the journal at path, oldest
// first. n <= 0 returns every entry. A missing journal has no entries.
// Lines that are not JSON objects are skipped.
func ReadJournal(path string, n int) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			continue
		}
		entries = append(entries, decodeEntry(raw))
		if n > 0 && len(entries) > n {
			entries = entries[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

func decodeEntry(raw map[string]any) Entry {
	e := Entry{Fields: make(map[string]any)}
	for k, v := range raw {
		switch k {
		case "time":
			e.Time = fmt.Sprint(v)
		case "msg":
			e.Action = fmt.Sprint(v)
		case "level", "prefix":
		default:
			e.Fields[k] = v
		}
	}
	return e
}

// TailJournal writes the last n entries to w.
func TailJournal(w io.Writer, path string, n int) error {
	entries, err := ReadJournal(path, n)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}
