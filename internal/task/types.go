// Package task defines the task record and ordering helpers.
package task

import (
	"fmt"
	"strings"
	"time"
)

// MaxMinutes is the largest estimate a single task may carry (24 hours).
const MaxMinutes = 1440

// Priority represents a task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities in ascending rank.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Rank returns 1, 2, 3 for low, medium, high and 0 for anything else.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q, must be one of: low, medium, high", s)
	}
	return p, nil
}

// Task represents a single task in the collection.
type Task struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Priority         Priority `json:"priority"`
	DueDate          string   `json:"dueDate,omitempty"`
	IsCompleted      bool     `json:"isCompleted"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
	CreatedAt        string   `json:"createdAt"`
}

// Due returns the parsed due date. ok is false when the task has no due
// date or the stored value cannot be parsed.
func (t *Task) Due() (time.Time, bool) {
	return ParseTime(t.DueDate)
}

// Created returns the parsed creation timestamp.
func (t *Task) Created() (time.Time, bool) {
	return ParseTime(t.CreatedAt)
}

// FormatTime renders a timestamp the way new records store it.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// localLayouts carry no zone and are read as local wall time.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime parses the date strings found in task files. It accepts RFC 3339
// (fractional seconds optional), zone-less date-times in local time, and bare
// dates, which are read as UTC midnight. Empty or unreadable input yields
// ok == false.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Filter selects tasks by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter parses a filter name. An empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("invalid filter %q, must be one of: all, active, completed", s)
}

// Matches reports whether t passes the filter.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.IsCompleted
	case FilterCompleted:
		return t.IsCompleted
	}
	return true
}

// Apply returns the tasks that pass the filter, preserving order.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Index returns the position of the task with the given ID, or -1.
func Index(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of tasks that does not share the backing array.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
