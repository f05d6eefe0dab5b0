package planner

import (
	"github.com/nibzard/homework-go/internal/capacity"
	"github.com/nibzard/homework-go/internal/task"
)

// Row is one line of the task list.
type Row struct {
	task.Task
	Day        string // due day key, empty without a readable due date
	DayMinutes int    // total planned on Day
	Overbooked bool   // Day is past the soft threshold
}

// View returns the tasks matching f ordered by mode. Day totals are taken
// over the whole collection, not only the visible rows.
func (p *Planner) View(f task.Filter, mode task.SortMode) []Row {
	copts := p.opts.Capacity
	totals := capacity.Totals(p.tasks, copts)
	threshold := copts.EffectiveThreshold()

	sorted := task.Sort(p.tasks, mode)
	rows := make([]Row, 0, len(sorted))
	for _, t := range sorted {
		if !f.Matches(t) {
			continue
		}
		row := Row{Task: t}
		if day, ok := capacity.TaskDay(t, copts); ok {
			row.Day = day
			row.DayMinutes = totals[day]
			row.Overbooked = totals[day] > threshold
		}
		rows = append(rows, row)
	}
	return rows
}

// Days returns the per-day load report for the whole collection.
func (p *Planner) Days() []capacity.DayLoad {
	return capacity.Days(p.tasks, p.opts.Capacity)
}

// Summary returns completion statistics for the whole collection.
func (p *Planner) Summary() task.Summary {
	return task.Summarize(p.tasks)
}
