// Package schema decodes task files written by any version of the app,
// migrates legacy records, and validates imported collections.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/homework-go/internal/task"
)

// Shape tags the layout a record was written in.
type Shape int

const (
	// ShapeCurrent records use dueDate and isCompleted.
	ShapeCurrent Shape = iota
	// ShapeLegacy records carry deadline and a status string.
	ShapeLegacy
)

func (s Shape) String() string {
	if s == ShapeLegacy {
		return "legacy"
	}
	return "current"
}

// DefaultTitle is given to records that arrive without a title.
const DefaultTitle = "Untitled"

// legacyDoneStatus is the status string the first release wrote for finished tasks.
const legacyDoneStatus = "виконано"

// Fields holds the keys shared by both shapes. Nil means the key was absent.
type Fields struct {
	ID               *string        `json:"id"`
	Title            *string        `json:"title"`
	Description      *string        `json:"description"`
	Priority         *task.Priority `json:"priority"`
	DueDate          *string        `json:"dueDate"`
	EstimatedMinutes *float64       `json:"estimatedMinutes"`
	IsCompleted      *bool          `json:"isCompleted"`
	CreatedAt        *string        `json:"createdAt"`
}

// LegacyFields holds the keys only the legacy shape uses.
type LegacyFields struct {
	Deadline *string         `json:"deadline"`
	Status   json.RawMessage `json:"status"`
}

// Record is one element of a task file tagged with its shape.
type Record struct {
	Shape  Shape
	Fields Fields
	Legacy LegacyFields
}

// UnmarshalJSON decodes a record and decides its shape once.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var legacy LegacyFields
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	r.Fields = fields
	r.Legacy = legacy
	r.Shape = ShapeCurrent
	if legacy.Deadline != nil || len(legacy.Status) > 0 {
		r.Shape = ShapeLegacy
	}
	return nil
}

// Normalizer fills in values a record does not carry.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

func (n Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n Normalizer) newID() string {
	if n.NewID == nil {
		return uuid.NewString()
	}
	return n.NewID()
}

// Task converts the record into the current task shape. Legacy values are
// used only where the current key is absent.
func (r Record) Task(n Normalizer) task.Task {
	f := r.Fields
	if r.Shape == ShapeLegacy {
		if f.DueDate == nil {
			f.DueDate = r.Legacy.Deadline
		}
		if f.IsCompleted == nil {
			if done, ok := legacyDone(r.Legacy.Status); ok {
				f.IsCompleted = &done
			}
		}
	}

	t := task.Task{
		ID:       deref(f.ID),
		Title:    deref(f.Title),
		Priority: task.PriorityMedium,
	}
	if t.ID == "" {
		t.ID = n.newID()
	}
	if f.Title == nil {
		t.Title = DefaultTitle
	}
	t.Description = deref(f.Description)
	if f.Priority != nil && f.Priority.Valid() {
		t.Priority = *f.Priority
	}
	t.DueDate = deref(f.DueDate)
	if f.IsCompleted != nil {
		t.IsCompleted = *f.IsCompleted
	}
	if f.EstimatedMinutes != nil {
		t.EstimatedMinutes = clampMinutes(*f.EstimatedMinutes)
	}
	t.CreatedAt = deref(f.CreatedAt)
	if f.CreatedAt == nil {
		t.CreatedAt = task.FormatTime(n.now())
	}
	return t
}

// clampMinutes floors v into [0, task.MaxMinutes+1]. Anything over the cap
// stays over it for CheckRules.
func clampMinutes(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	m := math.Max(0, math.Floor(v))
	if m > task.MaxMinutes+1 {
		m = task.MaxMinutes + 1
	}
	return int(m)
}

// legacyDone reads a legacy status that may be a string or a boolean.
func legacyDone(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s == legacyDoneStatus || s == "true", true
	}
	return false, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Decode parses a JSON array of records.
func Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse task records: %w", err)
	}
	return records, nil
}

// Migrate decodes a stored collection and converts every record to the
// current shape. It does not enforce the import rules. generated reports
// whether any record was given a new id or creation time, which the caller
// must persist for them to stay stable.
func Migrate(data []byte, n Normalizer) (tasks []task.Task, generated bool, err error) {
	records, err := Decode(data)
	if err != nil {
		return nil, false, err
	}
	tasks = make([]task.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, r.Task(n))
		generated = generated || r.Generates()
	}
	return tasks, generated, nil
}

// Generates reports whether Task fills in an id or creation time.
func (r Record) Generates() bool {
	return r.Fields.ID == nil || *r.Fields.ID == "" || r.Fields.CreatedAt == nil
}
