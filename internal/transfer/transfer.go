// Package transfer exports task collections to JSON files and imports them
// back with a merge or replace choice.
package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nibzard/homework-go/internal/schema"
	"github.com/nibzard/homework-go/internal/store"
	"github.com/nibzard/homework-go/internal/task"
)

// DefaultExportName is the file name used when none is given.
const DefaultExportName = "tasks.json"

// Mode selects how imported tasks combine with the current collection.
type Mode string

const (
	// ModeMerge keeps the current tasks and appends imported tasks whose
	// ids are not already present.
	ModeMerge Mode = "merge"
	// ModeReplace discards the current tasks.
	ModeReplace Mode = "replace"
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeMerge, ModeReplace:
		return m, nil
	}
	return "", fmt.Errorf("invalid import mode %q, must be merge or replace", s)
}

// Export writes tasks to w in the storage format.
func Export(w io.Writer, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := store.Marshal(tasks)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ExportFile writes tasks to path, creating parent directories. An empty
// path means DefaultExportName in the working directory.
func ExportFile(path string, tasks []task.Task) (string, error) {
	if path == "" {
		path = DefaultExportName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create export dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Export(f, tasks); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

// Parse reads and validates an import document. Nothing is returned unless
// the whole document is valid; validation problems come back as
// schema.ValidationErrors.
func Parse(r io.Reader, n schema.Normalizer) ([]task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	return schema.Validate(data, n)
}

// ParseFile opens path and calls Parse.
func ParseFile(path string, n schema.Normalizer) ([]task.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	return Parse(f, n)
}

// Plan describes an import before it is applied.
type Plan struct {
	Current    []task.Task
	Incoming   []task.Task
	Fresh      []task.Task // incoming tasks whose ids are not in Current
	Duplicates []string    // incoming ids already in Current
}

// NewPlan compares incoming tasks with the current collection.
func NewPlan(current, incoming []task.Task) *Plan {
	existing := make(map[string]bool, len(current))
	for _, t := range current {
		existing[t.ID] = true
	}

	p := &Plan{
		Current:  task.Clone(current),
		Incoming: task.Clone(incoming),
	}
	for _, t := range incoming {
		if existing[t.ID] {
			p.Duplicates = append(p.Duplicates, t.ID)
			continue
		}
		p.Fresh = append(p.Fresh, t)
	}
	return p
}

// HasConflicts reports whether merge and replace would differ in which
// incoming tasks survive.
func (p *Plan) HasConflicts() bool {
	return len(p.Duplicates) > 0
}

// Apply returns the collection that results from the chosen mode.
func (p *Plan) Apply(mode Mode) ([]task.Task, error) {
	switch mode {
	case ModeReplace:
		return task.Clone(p.Incoming), nil
	case ModeMerge:
		out := make([]task.Task, 0, len(p.Current)+len(p.Fresh))
		out = append(out, p.Current...)
		out = append(out, p.Fresh...)
		return out, nil
	}
	return nil, fmt.Errorf("invalid import mode %q", mode)
}
