// Package store persists the task collection as a JSON array in a file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/homework-go/internal/schema"
	"github.com/nibzard/homework-go/internal/task"
)

// DefaultFileName is the fixed storage key the collection lives under.
const DefaultFileName = "tasks.json"

// Store loads and saves the whole task collection.
type Store interface {
	Load() ([]task.Task, error)
	Save(tasks []task.Task) error
}

// FileStore keeps the collection in a single JSON file.
type FileStore struct {
	Path       string
	Normalizer schema.Normalizer
}

// NewFileStore returns a store for dataDir/fileName. An empty fileName
// means DefaultFileName.
func NewFileStore(dataDir, fileName string) *FileStore {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &FileStore{Path: filepath.Join(dataDir, fileName)}
}

// Load reads the collection, migrating records written by older versions.
// Generated ids and creation times are written back at once so that they
// are the same on the next load. A missing file is an empty collection. A file that cannot be parsed is
// an error so that it is never silently overwritten.
func (s *FileStore) Load() ([]task.Task, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}
	if len(data) == 0 {
		return []task.Task{}, nil
	}

	tasks, generated, err := schema.Migrate(data, s.Normalizer)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.Path, err)
	}
	if generated {
		if err := s.Save(tasks); err != nil {
			return nil, fmt.Errorf("store generated ids: %w", err)
		}
	}
	return tasks, nil
}

// Save writes the collection with 2-space indentation and a trailing
// newline. The file is replaced atomically.
func (s *FileStore) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := Marshal(tasks)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close task file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}

// Marshal encodes tasks the way they are stored and exported.
func Marshal(tasks []task.Task) ([]byte, error) {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// MemoryStore keeps the collection in memory. It is used by tests and by
// dry runs.
type MemoryStore struct {
	Tasks []task.Task
	Saves int
	Err   error
}

// Load returns a copy of the stored tasks.
func (m *MemoryStore) Load() ([]task.Task, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return task.Clone(m.Tasks), nil
}

// Save replaces the stored tasks.
func (m *MemoryStore) Save(tasks []task.Task) error {
	if m.Err != nil {
		return m.Err
	}
	m.Tasks = task.Clone(tasks)
	m.Saves++
	return nil
}
