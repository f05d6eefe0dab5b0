package cmd

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/homework-go/internal/capacity"
	"github.com/nibzard/homework-go/internal/planner"
	"github.com/nibzard/homework-go/internal/task"
)

// shortIDLen is how many id characters the list shows.
const shortIDLen = 8

// listCommand prints the tasks in the chosen order.
func (a *app) listCommand(args []string) error {
	fs := flag.NewFlagSet("homework list", flag.ContinueOnError)
	sortFlag := fs.String("sort", string(a.cfg.Sort()), "Sort mode (date|priority|time)")
	filterFlag := fs.String("filter", string(a.cfg.Filter()), "Filter (all|active|completed)")
	verbose := fs.Bool("v", false, "Show ids and descriptions in full")

	remaining, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		*filterFlag = remaining[0]
	}

	mode, err := task.ParseSortMode(*sortFlag)
	if err != nil {
		return err
	}
	filter, err := task.ParseFilter(*filterFlag)
	if err != nil {
		return err
	}

	p, closeJournal, err := a.openPlanner()
	if err != nil {
		return err
	}
	defer closeJournal()

	rows := p.View(filter, mode)
	if len(rows) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}
	for _, row := range rows {
		printRow(row, *verbose)
	}
	return nil
}

// addCommand creates a task from the title and flags.
func (a *app) addCommand(args []string) error {
	fs := flag.NewFlagSet("homework add", flag.ContinueOnError)
	desc := fs.String("desc", "", "Description")
	priority := fs.String("priority", string(task.PriorityMedium), "Priority (low|medium|high)")
	due := fs.String("due", "", "Due date")
	minutes := fs.Int("minutes", 0, "Estimated minutes")

	remaining, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	title := strings.Join(remaining, " ")

	p, closeJournal, err := a.openPlanner()
	if err != nil {
		return err
	}
	defer closeJournal()

	t, err := p.Add(planner.Draft{
		Title:            title,
		Description:      *desc,
		Priority:         task.Priority(*priority),
		DueDate:          *due,
		EstimatedMinutes: *minutes,
	})
	if err != nil {
		return explainLimit(err)
	}
	fmt.Printf("Added %s: %s\n", shortID(t.ID), t.Title)
	warnOverbooked(p, t)
	return nil
}

// editCommand changes the fields named by flags and keeps the rest.
func (a *app) editCommand(args []string) error {
	fs := flag.NewFlagSet("homework edit", flag.ContinueOnError)
	title := fs.String("title", "", "Title")
	desc := fs.String("desc", "", "Description")
	priority := fs.String("priority", "", "Priority (low|medium|high)")
	due := fs.String("due", "", "Due date")
	clearDue := fs.Bool("clear-due", false, "Remove the due date")
	minutes := fs.Int("minutes", 0, "Estimated minutes")

	remaining, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) != 1 {
		return fmt.Errorf("usage: homework edit <id> [options]")
	}

	p, closeJournal, err := a.openPlanner()
	if err != nil {
		return err
	}
	defer closeJournal()

	current, err := resolveTask(p, remaining[0])
	if err != nil {
		return err
	}

	d := planner.DraftOf(current)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			d.Title = *title
		case "desc":
			d.Description = *desc
		case "priority":
			d.Priority = task.Priority(*priority)
		case "due":
			d.DueDate = *due
		case "minutes":
			d.EstimatedMinutes = *minutes
		}
	})
	if *clearDue {
		d.DueDate = ""
	}

	t, err := p.Update(current.ID, d)
	if err != nil {
		return explainLimit(err)
	}
	fmt.Printf("Updated %s: %s\n", shortID(t.ID), t.Title)
	warnOverbooked(p, t)
	return nil
}

// doneCommand flips the completion flag of one task.
func (a *app) doneCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: homework done <id>")
	}
	p, closeJournal, err := a.openPlanner()
	if err != nil {
		return err
	}
	defer closeJournal()

	current, err := resolveTask(p, args[0])
	if err != nil {
		return err
	}
	t, err := p.Toggle(current.ID)
	if err != nil {
		return err
	}
	if t.IsCompleted {
		fmt.Printf("Completed: %s\n", t.Title)
	} else {
		fmt.Printf("Reopened: %s\n", t.Title)
	}
	return nil
}

// removeCommand deletes one task.
func (a *app) removeCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: homework rm <id>")
	}
	p, closeJournal, err := a.openPlanner()
	if err != nil {
		return err
	}
	defer closeJournal()

	current, err := resolveTask(p, args[0])
	if err != nil {
		return err
	}
	t, err := p.Remove(current.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %s: %s\n", shortID(t.ID), t.Title)
	return nil
}

// clearCommand deletes every task. It refuses without --yes.
func (a *app) clearCommand(args []string) error {
	fs := flag.NewFlagSet("homework clear", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Confirm deleting every task")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	p, closeJournal, err := a.openPlanner()
	if err != nil {
		return err
	}
	defer closeJournal()

	if p.Len() == 0 {
		fmt.Println("Nothing to clear.")
		return nil
	}
	if !*yes {
		return fmt.Errorf("refusing to delete %d tasks without --yes", p.Len())
	}
	n, err := p.Clear()
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d tasks.\n", n)
	return nil
}

// resolveTask finds a task by full id or by a unique id prefix.
func resolveTask(p *planner.Planner, ref string) (task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return task.Task{}, fmt.Errorf("empty task id")
	}
	if t, err := p.Get(ref); err == nil {
		return t, nil
	}

	var matches []task.Task
	for _, t := range p.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, fmt.Errorf("%w: %s", planner.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	}
	ids := make([]string, len(matches))
	for i, t := range matches {
		ids[i] = t.ID
	}
	return task.Task{}, fmt.Errorf("id prefix %q is ambiguous: %s", ref, strings.Join(ids, ", "))
}

// explainLimit adds the remaining room to a daily limit error.
func explainLimit(err error) error {
	var limitErr *planner.DailyLimitError
	if errors.As(err, &limitErr) {
		return fmt.Errorf("%w (%s still free that day)", err, capacity.FormatMinutes(limitErr.Remaining()))
	}
	return err
}

// warnOverbooked tells the user when t's day is past the soft threshold.
func warnOverbooked(p *planner.Planner, t task.Task) {
	day, ok := capacity.TaskDay(t, p.Capacity())
	if !ok {
		return
	}
	for _, d := range p.Days() {
		if d.Day == day && d.Overbooked {
			fmt.Printf("Warning: %s is overbooked (%s planned)\n", day, capacity.FormatMinutes(d.Minutes))
			return
		}
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// printRow prints a single task line.
func printRow(row planner.Row, verbose bool) {
	check := "[ ]"
	if row.IsCompleted {
		check = "[x]"
	}
	id := shortID(row.ID)
	if verbose {
		id = row.ID
	}

	line := fmt.Sprintf("  %s %s (%s) %s", check, id, row.Priority, row.Title)
	if row.DueDate != "" {
		due := row.DueDate
		if row.Day != "" {
			due = row.Day
		}
		line += "  due " + due
	}
	if row.EstimatedMinutes > 0 {
		line += "  " + capacity.FormatMinutes(row.EstimatedMinutes)
	}
	if row.Overbooked {
		line += "  ! day at " + capacity.FormatMinutes(row.DayMinutes)
	}
	fmt.Println(line)

	if verbose && row.Description != "" {
		fmt.Printf("      %s\n", row.Description)
	}
}
