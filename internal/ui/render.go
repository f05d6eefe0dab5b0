package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/homework-go/internal/capacity"
	"github.com/nibzard/homework-go/internal/planner"
	"github.com/nibzard/homework-go/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	warnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	priorityStyle = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

func writeTitle(b *strings.Builder) {
	title := "Homework"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, s task.Summary) {
	b.WriteString(fmt.Sprintf("  Total: %d  Active: %d  Done: %d  (%d%%)\n\n",
		s.Total, s.Active, s.Completed, s.Percent))
}

// writeOverbooked lists every day past the soft threshold.
func writeOverbooked(b *strings.Builder, days []capacity.DayLoad) {
	var lines []string
	for _, d := range days {
		if d.Overbooked {
			lines = append(lines, fmt.Sprintf("  %s: %s planned across %d tasks",
				d.Day, capacity.FormatMinutes(d.Minutes), d.Tasks))
		}
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString(warnStyle.Render("Overbooked days") + "\n")
	for _, line := range lines {
		b.WriteString(warnStyle.Render(line) + "\n")
	}
	b.WriteString("\n")
}

func writeRows(b *strings.Builder, rows []planner.Row, cursor int) {
	if len(rows) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	for i, row := range rows {
		prefix := "  "
		if i == cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix + formatRow(row) + "\n")
	}
	b.WriteString("\n")
}

// formatRow renders one task as a single line.
func formatRow(row planner.Row) string {
	check := "[ ]"
	if row.IsCompleted {
		check = "[x]"
	}

	prio := string(row.Priority)
	if style, ok := priorityStyle[row.Priority]; ok {
		prio = style.Render(fmt.Sprintf("%-6s", prio))
	}

	title := row.Title
	if row.IsCompleted {
		title = doneStyle.Render(title)
	}

	parts := []string{check, prio, title}
	if row.DueDate != "" {
		due := row.DueDate
		if row.Day != "" {
			due = row.Day
		}
		parts = append(parts, "due "+due)
	}
	if row.EstimatedMinutes > 0 {
		parts = append(parts, capacity.FormatMinutes(row.EstimatedMinutes))
	}
	line := strings.Join(parts, "  ")
	if row.Overbooked {
		line += "  " + warnStyle.Render("! day at "+capacity.FormatMinutes(row.DayMinutes))
	}
	return line
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c        Quit\n")
	b.WriteString("  up/k, down/j     Move\n")
	b.WriteString("  space, enter, x  Toggle completed\n")
	b.WriteString("  d, delete        Delete task (asks first)\n")
	b.WriteString("  C                Delete all tasks (asks first)\n")
	b.WriteString("  u                Undo last delete\n")
	b.WriteString("  s                Cycle sort: date, priority, time\n")
	b.WriteString("  0                Show all\n")
	b.WriteString("  1                Show active\n")
	b.WriteString("  2                Show completed\n")
	b.WriteString("  h, ?             Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, canUndo bool) {
	if canUndo {
		b.WriteString("Press h for help | u to undo | q to quit\n")
		return
	}
	b.WriteString("Press h for help | q to quit\n")
}
