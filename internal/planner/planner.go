// Package planner owns the in-memory task collection and is the single entry
// point for changing it. Every successful change is saved through a
// store.Store and written to the activity journal.
package planner

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/homework-go/internal/capacity"
	"github.com/nibzard/homework-go/internal/logging"
	"github.com/nibzard/homework-go/internal/store"
	"github.com/nibzard/homework-go/internal/task"
	"github.com/nibzard/homework-go/internal/transfer"
)

// Options configures a Planner. Zero values fall back to defaults.
type Options struct {
	Capacity capacity.Options
	Journal  logging.Recorder
	Logger   *log.Logger
	Now      func() time.Time
	NewID    func() string
}

// Draft carries the user-editable fields of a task.
type Draft struct {
	Title            string
	Description      string
	Priority         task.Priority
	DueDate          string
	EstimatedMinutes int
}

// DraftOf returns the editable fields of t.
func DraftOf(t task.Task) Draft {
	return Draft{
		Title:            t.Title,
		Description:      t.Description,
		Priority:         t.Priority,
		DueDate:          t.DueDate,
		EstimatedMinutes: t.EstimatedMinutes,
	}
}

// undoEntry remembers what the last destructive change removed.
type undoEntry struct {
	action string
	index  int
	tasks  []task.Task
}

// Planner holds the task collection.
type Planner struct {
	store  store.Store
	opts   Options
	logger *log.Logger
	tasks  []task.Task
	undo   *undoEntry
}

// New loads the collection from s.
func New(s store.Store, opts Options) (*Planner, error) {
	if s == nil {
		return nil, fmt.Errorf("planner: store is nil")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	tasks, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	logger.Debug("loaded tasks", "count", len(tasks))
	return &Planner{store: s, opts: opts, logger: logger, tasks: tasks}, nil
}

// Tasks returns a copy of the collection in stored order.
func (p *Planner) Tasks() []task.Task {
	return task.Clone(p.tasks)
}

// Len returns the number of tasks.
func (p *Planner) Len() int {
	return len(p.tasks)
}

// Get returns the task with the given id.
func (p *Planner) Get(id string) (task.Task, error) {
	i := task.Index(p.tasks, id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p.tasks[i], nil
}

// Capacity returns the aggregation options in use.
func (p *Planner) Capacity() capacity.Options {
	return p.opts.Capacity
}

// Add validates d and appends a new task.
func (p *Planner) Add(d Draft) (task.Task, error) {
	d, err := p.check(d, "")
	if err != nil {
		return task.Task{}, err
	}
	t := task.Task{
		ID:               p.opts.NewID(),
		Title:            d.Title,
		Description:      d.Description,
		Priority:         d.Priority,
		DueDate:          d.DueDate,
		EstimatedMinutes: d.EstimatedMinutes,
		CreatedAt:        task.FormatTime(p.opts.Now()),
	}

	next := append(task.Clone(p.tasks), t)
	if err := p.commit(next); err != nil {
		return task.Task{}, err
	}
	p.record("add", "id", t.ID, "title", t.Title, "due", t.DueDate, "minutes", t.EstimatedMinutes)
	return t, nil
}

// Update replaces the editable fields of the task with the given id. The
// id, creation time and completion flag are kept.
func (p *Planner) Update(id string, d Draft) (task.Task, error) {
	i := task.Index(p.tasks, id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d, err := p.check(d, id)
	if err != nil {
		return task.Task{}, err
	}

	next := task.Clone(p.tasks)
	t := next[i]
	t.Title = d.Title
	t.Description = d.Description
	t.Priority = d.Priority
	t.DueDate = d.DueDate
	t.EstimatedMinutes = d.EstimatedMinutes
	next[i] = t

	if err := p.commit(next); err != nil {
		return task.Task{}, err
	}
	p.record("update", "id", t.ID, "title", t.Title, "due", t.DueDate, "minutes", t.EstimatedMinutes)
	return t, nil
}

// Toggle flips the completion flag of the task with the given id.
func (p *Planner) Toggle(id string) (task.Task, error) {
	i := task.Index(p.tasks, id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := task.Clone(p.tasks)
	next[i].IsCompleted = !next[i].IsCompleted
	if err := p.commit(next); err != nil {
		return task.Task{}, err
	}
	p.record("toggle", "id", id, "completed", next[i].IsCompleted)
	return next[i], nil
}

// Remove deletes the task with the given id. Undo puts it back at the same
// position.
func (p *Planner) Remove(id string) (task.Task, error) {
	i := task.Index(p.tasks, id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := p.tasks[i]
	next := slices.Delete(task.Clone(p.tasks), i, i+1)
	if err := p.commit(next); err != nil {
		return task.Task{}, err
	}
	p.undo = &undoEntry{action: "remove", index: i, tasks: []task.Task{removed}}
	p.record("remove", "id", id, "title", removed.Title)
	return removed, nil
}

// Clear deletes every task and returns how many were removed. Undo restores
// the whole collection.
func (p *Planner) Clear() (int, error) {
	n := len(p.tasks)
	if n == 0 {
		return 0, nil
	}
	snapshot := task.Clone(p.tasks)
	if err := p.commit([]task.Task{}); err != nil {
		return 0, err
	}
	p.undo = &undoEntry{action: "clear", tasks: snapshot}
	p.record("clear", "count", n)
	return n, nil
}

// CanUndo reports whether a remove or clear can be reverted.
func (p *Planner) CanUndo() bool {
	return p.undo != nil
}

// Undo reverts the last Remove or Clear and returns the name of the
// reverted action.
func (p *Planner) Undo() (string, error) {
	u := p.undo
	if u == nil {
		return "", ErrNothingToUndo
	}

	var next []task.Task
	switch u.action {
	case "remove":
		next = task.Clone(p.tasks)
		restored := u.tasks[0]
		if task.Index(next, restored.ID) < 0 {
			next = slices.Insert(next, min(u.index, len(next)), restored)
		}
	case "clear":
		next = task.Clone(u.tasks)
		for _, t := range p.tasks {
			if task.Index(next, t.ID) < 0 {
				next = append(next, t)
			}
		}
	}

	if err := p.commit(next); err != nil {
		return "", err
	}
	p.undo = nil
	p.record("undo", "action", u.action, "count", len(u.tasks))
	return u.action, nil
}

// Replace swaps the whole collection for tasks.
func (p *Planner) Replace(tasks []task.Task) error {
	return p.importTasks(tasks, transfer.ModeReplace)
}

// Merge appends the tasks whose ids are not already present and returns how
// many were added.
func (p *Planner) Merge(tasks []task.Task) (int, error) {
	before := len(p.tasks)
	if err := p.importTasks(tasks, transfer.ModeMerge); err != nil {
		return 0, err
	}
	return len(p.tasks) - before, nil
}

func (p *Planner) importTasks(tasks []task.Task, mode transfer.Mode) error {
	plan := transfer.NewPlan(p.tasks, tasks)
	next, err := plan.Apply(mode)
	if err != nil {
		return err
	}
	if err := p.commit(next); err != nil {
		return err
	}
	p.record(string(mode), "incoming", len(plan.Incoming), "added", len(plan.Fresh), "duplicates", len(plan.Duplicates))
	return nil
}

// check normalizes d and enforces the task and day limits. exclude names the
// task being edited so that its old estimate does not count against the day.
func (p *Planner) check(d Draft, exclude string) (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.DueDate = strings.TrimSpace(d.DueDate)

	if d.Title == "" {
		return d, ErrTitleRequired
	}
	if d.Priority == "" {
		d.Priority = task.PriorityMedium
	}
	if !d.Priority.Valid() {
		return d, fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority)
	}
	if d.EstimatedMinutes < 0 {
		return d, ErrInvalidMinutes
	}
	if d.EstimatedMinutes > task.MaxMinutes {
		return d, ErrTaskTooLong
	}
	if d.DueDate == "" {
		return d, nil
	}

	due, ok := task.ParseTime(d.DueDate)
	if !ok {
		return d, fmt.Errorf("%w: %q", ErrInvalidDueDate, d.DueDate)
	}

	others := p.tasks
	if exclude != "" {
		others = slices.DeleteFunc(task.Clone(p.tasks), func(t task.Task) bool {
			return t.ID == exclude
		})
	}
	copts := p.opts.Capacity
	day := capacity.DayKey(due, copts.Location)
	if capacity.WillExceedDailyLimit(others, day, d.EstimatedMinutes, copts) {
		return d, &DailyLimitError{
			Day:      day,
			Existing: capacity.Totals(others, copts)[day],
			Added:    d.EstimatedMinutes,
			Limit:    copts.EffectiveLimit(),
		}
	}
	return d, nil
}

// commit saves next and makes it current. On failure the collection is left
// unchanged.
func (p *Planner) commit(next []task.Task) error {
	if err := p.store.Save(next); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	p.tasks = next
	p.logger.Debug("saved tasks", "count", len(next))
	return nil
}

func (p *Planner) record(action string, keyvals ...any) {
	if p.opts.Journal != nil {
		p.opts.Journal.Record(action, keyvals...)
	}
}
