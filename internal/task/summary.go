package task

import (
	"math"
	"time"
)

// Summary holds the counts shown by the stats view.
type Summary struct {
	Total      int
	Completed  int
	Active     int
	Percent    int // completed share, rounded
	ByPriority map[Priority]int
	LatestDue  string // raw value of the latest readable due date
}

// Summarize counts tasks by completion and priority.
func Summarize(tasks []Task) Summary {
	s := Summary{
		Total: len(tasks),
		ByPriority: map[Priority]int{
			PriorityLow:    0,
			PriorityMedium: 0,
			PriorityHigh:   0,
		},
	}

	var latest time.Time
	for _, t := range tasks {
		if t.IsCompleted {
			s.Completed++
		}
		if t.Priority.Valid() {
			s.ByPriority[t.Priority]++
		}
		if due, ok := t.Due(); ok && (s.LatestDue == "" || due.After(latest)) {
			latest = due
			s.LatestDue = t.DueDate
		}
	}
	s.Active = s.Total - s.Completed
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
