// Package ui provides the interactive terminal task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/homework-go/internal/capacity"
	"github.com/nibzard/homework-go/internal/planner"
	"github.com/nibzard/homework-go/internal/task"
)

// DefaultNoticeDelay is how long a notice stays on screen.
const DefaultNoticeDelay = 4 * time.Second

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	mode        task.SortMode
	filter      task.Filter
	noticeDelay time.Duration
}

// WithSort sets the initial sort mode.
func WithSort(mode task.SortMode) TUIOption {
	return func(c *tuiConfig) {
		c.mode = mode
	}
}

// WithFilter sets the initial filter.
func WithFilter(f task.Filter) TUIOption {
	return func(c *tuiConfig) {
		c.filter = f
	}
}

// WithNoticeDelay sets how long notices stay visible.
func WithNoticeDelay(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		c.noticeDelay = d
	}
}

// RunTUI starts the task list on the terminal.
func RunTUI(ctx context.Context, p *planner.Planner, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(newTUIModel(p, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// pendingAction is a destructive key press waiting for confirmation.
type pendingAction struct {
	kind  string // "remove" or "clear"
	id    string
	title string
}

type tuiModel struct {
	planner     *planner.Planner
	mode        task.SortMode
	filter      task.Filter
	rows        []planner.Row
	days        []capacity.DayLoad
	summary     task.Summary
	cursor      int
	pending     *pendingAction
	notice      string
	noticeErr   bool
	noticeSeq   int
	noticeDelay time.Duration
	showHelp    bool
}

type clearNoticeMsg struct {
	seq int
}

func newTUIModel(p *planner.Planner, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{
		mode:        task.SortByDate,
		filter:      task.FilterAll,
		noticeDelay: DefaultNoticeDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	m := &tuiModel{
		planner:     p,
		mode:        c.mode,
		filter:      c.filter,
		noticeDelay: c.noticeDelay,
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.pending != nil {
			return m, m.confirm(msg.String())
		}
		return m, m.handleKey(msg.String())
	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
	}
	return m, nil
}

func (m *tuiModel) handleKey(key string) tea.Cmd {
	switch key {
	case "ctrl+c", "q":
		return tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "s":
		m.mode = m.mode.Next()
		m.refresh()
		return m.setNotice("Sorted by "+string(m.mode), false)
	case "0":
		m.setFilter(task.FilterAll)
	case "1":
		m.setFilter(task.FilterActive)
	case "2":
		m.setFilter(task.FilterCompleted)
	case " ", "enter", "x":
		row, ok := m.selected()
		if !ok {
			return nil
		}
		t, err := m.planner.Toggle(row.ID)
		if err != nil {
			return m.setNotice(err.Error(), true)
		}
		m.refresh()
		if t.IsCompleted {
			return m.setNotice("Completed: "+t.Title, false)
		}
		return m.setNotice("Reopened: "+t.Title, false)
	case "d", "delete":
		row, ok := m.selected()
		if !ok {
			return nil
		}
		m.pending = &pendingAction{kind: "remove", id: row.ID, title: row.Title}
	case "C":
		if m.planner.Len() == 0 {
			return m.setNotice("Nothing to clear", false)
		}
		m.pending = &pendingAction{kind: "clear"}
	case "u":
		action, err := m.planner.Undo()
		if err != nil {
			return m.setNotice(err.Error(), !errors.Is(err, planner.ErrNothingToUndo))
		}
		m.refresh()
		return m.setNotice("Undid "+action, false)
	}
	return nil
}

// confirm resolves a pending destructive action. Only y confirms.
func (m *tuiModel) confirm(key string) tea.Cmd {
	p := m.pending
	m.pending = nil
	if key != "y" && key != "Y" {
		return m.setNotice("Cancelled", false)
	}

	switch p.kind {
	case "remove":
		if _, err := m.planner.Remove(p.id); err != nil {
			return m.setNotice(err.Error(), true)
		}
		m.refresh()
		return m.setNotice("Deleted "+p.title+" (u to undo)", false)
	case "clear":
		n, err := m.planner.Clear()
		if err != nil {
			return m.setNotice(err.Error(), true)
		}
		m.refresh()
		return m.setNotice(fmt.Sprintf("Cleared %d tasks (u to undo)", n), false)
	}
	return nil
}

func (m *tuiModel) setFilter(f task.Filter) {
	m.filter = f
	m.refresh()
}

// setNotice shows text and schedules its removal.
func (m *tuiModel) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeErr = isErr
	seq := m.noticeSeq
	return tea.Tick(m.noticeDelay, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (m *tuiModel) selected() (planner.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return planner.Row{}, false
	}
	return m.rows[m.cursor], true
}

// refresh rebuilds the visible rows and keeps the cursor in range.
func (m *tuiModel) refresh() {
	m.rows = m.planner.View(m.filter, m.mode)
	m.days = m.planner.Days()
	m.summary = m.planner.Summary()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.planner.CanUndo())
		return b.String()
	}

	writeOverview(&b, m.summary)
	writeOverbooked(&b, m.days)
	b.WriteString(fmt.Sprintf("Sort: %s  Filter: %s\n\n", m.mode, m.filter))
	writeRows(&b, m.rows, m.cursor)

	switch {
	case m.pending != nil && m.pending.kind == "remove":
		b.WriteString(warnStyle.Render(fmt.Sprintf("Delete %q? (y/n)", m.pending.title)) + "\n\n")
	case m.pending != nil:
		b.WriteString(warnStyle.Render(fmt.Sprintf("Delete all %d tasks? (y/n)", m.summary.Total)) + "\n\n")
	case m.notice != "":
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice) + "\n\n")
	}

	writeFooter(&b, m.planner.CanUndo())
	return b.String()
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
