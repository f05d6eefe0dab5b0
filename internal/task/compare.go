package task

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortMode selects the ordering used by Compare.
type SortMode string

const (
	SortByDate     SortMode = "date"
	SortByPriority SortMode = "priority"
	SortByTime     SortMode = "time"
)

// SortModes lists the modes in the order the list view cycles through them.
func SortModes() []SortMode {
	return []SortMode{SortByDate, SortByPriority, SortByTime}
}

// ParseSortMode parses a sort mode name. An empty string means SortByDate.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortByDate, nil
	case SortByDate, SortByPriority, SortByTime:
		return m, nil
	}
	return "", fmt.Errorf("invalid sort mode %q, must be one of: date, priority, time", s)
}

// Next returns the mode after m in SortModes, wrapping around.
func (m SortMode) Next() SortMode {
	modes := SortModes()
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return SortByDate
}

// Compare orders a and b for the given mode. It returns a negative number
// when a sorts first, a positive number when b sorts first, and zero when
// the mode does not distinguish them. Unknown modes order by priority.
//
//   - SortByDate: due date ascending; missing or unreadable dates last.
//   - SortByPriority: low, medium, high; later createdAt first on ties,
//     with an unreadable createdAt counted as the epoch.
//   - SortByTime: EstimatedMinutes descending, then due date ascending.
func Compare(a, b Task, mode SortMode) int {
	switch mode {
	case SortByTime:
		if c := cmp.Compare(b.EstimatedMinutes, a.EstimatedMinutes); c != 0 {
			return c
		}
		return compareDue(a, b)
	case SortByDate:
		return compareDue(a, b)
	}
	if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
		return c
	}
	return cmp.Compare(createdMillis(b), createdMillis(a))
}

// compareDue treats an absent due date as positive infinity.
func compareDue(a, b Task) int {
	da, okA := a.Due()
	db, okB := b.Due()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return da.Compare(db)
}

func createdMillis(t Task) int64 {
	c, ok := t.Created()
	if !ok {
		return 0
	}
	return c.UnixMilli()
}

// Sort returns a stably sorted copy of tasks.
func Sort(tasks []Task, mode SortMode) []Task {
	out := Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		return Compare(a, b, mode)
	})
	return out
}
