package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/homework-go/internal/planner"
	"github.com/nibzard/homework-go/internal/store"
	"github.com/nibzard/homework-go/internal/task"
)

func newTestModel(t *testing.T, tasks ...task.Task) (*tuiModel, *store.MemoryStore) {
	t.Helper()
	ms := &store.MemoryStore{Tasks: tasks}
	p, err := planner.New(ms, planner.Options{})
	if err != nil {
		t.Fatalf("planner.New: %v", err)
	}
	return newTUIModel(p, WithNoticeDelay(time.Millisecond)), ms
}

func press(m *tuiModel, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "a", Title: "Essay", Priority: task.PriorityHigh, DueDate: "2025-11-10T09:00:00Z", EstimatedMinutes: 500},
		{ID: "b", Title: "Lab report", Priority: task.PriorityLow, DueDate: "2025-11-10T15:00:00Z", EstimatedMinutes: 300},
		{ID: "c", Title: "Reading", Priority: task.PriorityMedium, DueDate: "2025-11-09", EstimatedMinutes: 45, IsCompleted: true},
	}
}

func rowIDs(m *tuiModel) string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.ID
	}
	return strings.Join(ids, ",")
}

func TestSortCycle(t *testing.T) {
	m, _ := newTestModel(t, sampleTasks()...)
	if rowIDs(m) != "c,a,b" {
		t.Fatalf("date order = %s", rowIDs(m))
	}

	if cmd := press(m, "s"); cmd == nil {
		t.Error("sorting should show a notice")
	}
	if m.mode != task.SortByPriority || rowIDs(m) != "b,c,a" {
		t.Errorf("priority order = %s (mode %s)", rowIDs(m), m.mode)
	}
	press(m, "s")
	if m.mode != task.SortByTime || rowIDs(m) != "a,b,c" {
		t.Errorf("time order = %s (mode %s)", rowIDs(m), m.mode)
	}
	press(m, "s")
	if m.mode != task.SortByDate {
		t.Errorf("mode should wrap to date, got %s", m.mode)
	}
}

func TestFilterKeys(t *testing.T) {
	m, _ := newTestModel(t, sampleTasks()...)

	press(m, "1")
	if m.filter != task.FilterActive || rowIDs(m) != "a,b" {
		t.Errorf("active rows = %s", rowIDs(m))
	}
	press(m, "2")
	if m.filter != task.FilterCompleted || rowIDs(m) != "c" {
		t.Errorf("completed rows = %s", rowIDs(m))
	}
	press(m, "0")
	if m.filter != task.FilterAll || len(m.rows) != 3 {
		t.Errorf("all rows = %s", rowIDs(m))
	}
}

func TestToggleAndCursor(t *testing.T) {
	m, ms := newTestModel(t, sampleTasks()...)

	press(m, "down")
	press(m, "down")
	press(m, "down")
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	press(m, "up")
	press(m, " ")
	if !ms.Tasks[0].IsCompleted {
		t.Error("space should complete the selected task")
	}
	if !strings.Contains(m.notice, "Completed: Essay") {
		t.Errorf("notice = %q", m.notice)
	}

	press(m, "1")
	if m.cursor != 0 {
		t.Errorf("cursor should clamp after filtering, got %d", m.cursor)
	}
}

func TestDeleteConfirmAndUndo(t *testing.T) {
	m, ms := newTestModel(t, sampleTasks()...)
	press(m, "down") // a

	press(m, "d")
	if m.pending == nil || m.pending.id != "a" {
		t.Fatalf("expected pending delete of a, got %+v", m.pending)
	}
	if !strings.Contains(m.View(), `Delete "Essay"? (y/n)`) {
		t.Error("confirmation prompt not shown")
	}

	press(m, "n")
	if m.pending != nil || len(ms.Tasks) != 3 {
		t.Error("n should cancel without deleting")
	}

	press(m, "d")
	press(m, "y")
	if len(ms.Tasks) != 2 || task.Index(ms.Tasks, "a") >= 0 {
		t.Fatalf("a should be deleted, stored=%v", ms.Tasks)
	}

	if !strings.Contains(m.View(), "u to undo | q to quit") {
		t.Error("footer should offer undo after a delete")
	}

	press(m, "u")
	if strings.Contains(m.View(), "u to undo | q to quit") {
		t.Error("footer should drop the undo hint once nothing is left to undo")
	}
	if len(ms.Tasks) != 3 || ms.Tasks[0].ID != "a" {
		t.Errorf("undo should restore a at index 0, stored=%v", ms.Tasks)
	}
	if m.notice != "Undid remove" {
		t.Errorf("notice = %q", m.notice)
	}

	press(m, "u")
	if m.noticeErr || m.notice != planner.ErrNothingToUndo.Error() {
		t.Errorf("second undo notice = %q (err=%v)", m.notice, m.noticeErr)
	}
}

func TestClearAll(t *testing.T) {
	m, ms := newTestModel(t, sampleTasks()...)
	press(m, "C")
	if !strings.Contains(m.View(), "Delete all 3 tasks? (y/n)") {
		t.Error("clear confirmation not shown")
	}
	press(m, "y")
	if len(ms.Tasks) != 0 || len(m.rows) != 0 {
		t.Error("all tasks should be gone")
	}
	if !strings.Contains(m.View(), "No tasks.") {
		t.Error("empty list message missing")
	}
	press(m, "u")
	if len(ms.Tasks) != 3 {
		t.Errorf("undo clear restored %d tasks", len(ms.Tasks))
	}

	empty, _ := newTestModel(t)
	press(empty, "C")
	if empty.pending != nil {
		t.Error("clearing an empty list should not ask")
	}
}

func TestNoticeExpires(t *testing.T) {
	m, _ := newTestModel(t, sampleTasks()...)
	press(m, "s")
	first := m.noticeSeq
	press(m, "s")

	m.Update(clearNoticeMsg{seq: first})
	if m.notice == "" {
		t.Error("a stale timer must not clear a newer notice")
	}
	m.Update(clearNoticeMsg{seq: m.noticeSeq})
	if m.notice != "" {
		t.Errorf("notice should be cleared, got %q", m.notice)
	}
}

func TestViewShowsOverbookedDays(t *testing.T) {
	m, _ := newTestModel(t, sampleTasks()...)
	view := m.View()

	for _, want := range []string{
		"Homework",
		"Total: 3  Active: 2  Done: 1  (33%)",
		"Overbooked days",
		"2025-11-10: 13h20m planned across 2 tasks",
		"! day at 13h20m",
		"Sort: date  Filter: all",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "2025-11-09:") {
		t.Error("2025-11-09 is not overbooked")
	}
}

func TestHelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help screen not shown")
	}
	press(m, "h")
	if m.showHelp {
		t.Error("h should toggle help off")
	}

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestFormatRow(t *testing.T) {
	row := planner.Row{
		Task: task.Task{ID: "x", Title: "Essay", Priority: task.PriorityHigh, DueDate: "2025-11-10T09:00:00Z", EstimatedMinutes: 90},
		Day:  "2025-11-10",
	}
	got := formatRow(row)
	for _, want := range []string{"[ ]", "Essay", "due 2025-11-10", "1h30m"} {
		if !strings.Contains(got, want) {
			t.Errorf("row %q missing %q", got, want)
		}
	}

	row.DueDate = "someday"
	row.Day = ""
	if !strings.Contains(formatRow(row), "due someday") {
		t.Error("unreadable due dates are shown as stored")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}
