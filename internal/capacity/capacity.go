// Package capacity sums estimated work per calendar day and answers the
// overbooking questions asked by the list view and the task forms.
//
// Totals are recomputed from the task collection on every call; nothing is
// cached between calls.
package capacity

import (
	"fmt"
	"sort"
	"time"

	"github.com/nibzard/homework-go/internal/task"
)

// Default thresholds, in minutes.
const (
	DefaultThreshold = 720  // soft warning: more than 12 hours planned
	DefaultLimit     = 1440 // hard cap: a day has 24 hours
)

// Options tunes the aggregation. The zero value uses the defaults and groups
// days in UTC.
type Options struct {
	Threshold int
	Limit     int
	// Location selects the zone used to cut due dates into days.
	// Nil means UTC.
	Location *time.Location
}

func (o Options) threshold() int {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

func (o Options) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// DayKey formats t as a YYYY-MM-DD key in loc (UTC when loc is nil).
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(time.DateOnly)
}

// TaskDay returns the day key of a task's due date. ok is false when the
// task has no readable due date.
func TaskDay(t task.Task, opts Options) (string, bool) {
	due, ok := t.Due()
	if !ok {
		return "", false
	}
	return DayKey(due, opts.location()), true
}

// Totals maps each day key to the sum of EstimatedMinutes of the tasks due
// that day. Tasks without a readable due date are left out.
func Totals(tasks []task.Task, opts Options) map[string]int {
	totals := make(map[string]int)
	for _, t := range tasks {
		day, ok := TaskDay(t, opts)
		if !ok {
			continue
		}
		totals[day] += t.EstimatedMinutes
	}
	return totals
}

// IsOverbooked reports whether the day's total exceeds the soft threshold.
func IsOverbooked(tasks []task.Task, day string, opts Options) bool {
	return Totals(tasks, opts)[day] > opts.threshold()
}

// WillExceedDailyLimit reports whether adding minutes to the day would push
// its total past the hard limit.
func WillExceedDailyLimit(tasks []task.Task, day string, added int, opts Options) bool {
	return Totals(tasks, opts)[day]+added > opts.limit()
}

// DayLoad is one row of the per-day report.
type DayLoad struct {
	Day        string
	Minutes    int
	Tasks      int
	Overbooked bool
}

// Days returns the per-day totals sorted by day.
func Days(tasks []task.Task, opts Options) []DayLoad {
	byDay := make(map[string]*DayLoad)
	for _, t := range tasks {
		day, ok := TaskDay(t, opts)
		if !ok {
			continue
		}
		load, exists := byDay[day]
		if !exists {
			load = &DayLoad{Day: day}
			byDay[day] = load
		}
		load.Minutes += t.EstimatedMinutes
		load.Tasks++
	}

	days := make([]DayLoad, 0, len(byDay))
	for _, load := range byDay {
		load.Overbooked = load.Minutes > opts.threshold()
		days = append(days, *load)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day < days[j].Day
	})
	return days
}

// OverbookedDays returns the set of day keys whose totals exceed the soft
// threshold.
func OverbookedDays(tasks []task.Task, opts Options) map[string]bool {
	out := make(map[string]bool)
	for day, total := range Totals(tasks, opts) {
		if total > opts.threshold() {
			out[day] = true
		}
	}
	return out
}

// EffectiveLimit returns the hard limit in force for o.
func (o Options) EffectiveLimit() int {
	return o.limit()
}

// EffectiveThreshold returns the effective soft threshold for opts.
func (o Options) EffectiveThreshold() int {
	return o.threshold()
}

// FormatMinutes renders a duration in minutes as "45m", "2h" or "2h30m".
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
