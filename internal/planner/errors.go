package planner

import (
	"errors"
	"fmt"

	"github.com/nibzard/homework-go/internal/task"
)

// Sentinel errors returned by planner operations.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("priority must be one of: low, medium, high")
	ErrInvalidDueDate  = errors.New("due date is not a valid date")
	ErrInvalidMinutes  = errors.New("estimated minutes cannot be negative")
	ErrTaskTooLong     = fmt.Errorf("a single task cannot take more than %d minutes", task.MaxMinutes)
	ErrDailyLimit      = errors.New("daily limit exceeded")
	ErrNotFound        = errors.New("task not found")
	ErrNothingToUndo   = errors.New("nothing to undo")
)

// DailyLimitError reports a task that would push its due day past the hard
// limit. It matches ErrDailyLimit with errors.Is.
type DailyLimitError struct {
	Day      string
	Existing int
	Added    int
	Limit    int
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("%s already has %d minutes planned; adding %d would exceed the %d-minute daily limit",
		e.Day, e.Existing, e.Added, e.Limit)
}

// Is reports whether target is ErrDailyLimit.
func (e *DailyLimitError) Is(target error) bool {
	return target == ErrDailyLimit
}

// Remaining returns how many minutes can still be planned on the day.
func (e *DailyLimitError) Remaining() int {
	if r := e.Limit - e.Existing; r > 0 {
		return r
	}
	return 0
}
