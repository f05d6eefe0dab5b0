package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/homework-go/internal/capacity"
	"github.com/nibzard/homework-go/internal/logging"
	"github.com/nibzard/homework-go/internal/task"
)

// statsCommand prints completion counts.
func (a *app) statsCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	p, closeJournal, err := a.openPlanner()
	if err != nil {
		return err
	}
	defer closeJournal()

	s := p.Summary()
	fmt.Printf("Total:     %d\n", s.Total)
	fmt.Printf("Active:    %d\n", s.Active)
	fmt.Printf("Completed: %d (%d%%)\n", s.Completed, s.Percent)
	fmt.Println()
	fmt.Println("By priority:")
	for _, prio := range task.Priorities() {
		fmt.Printf("  %-6s %d\n", prio, s.ByPriority[prio])
	}
	if s.LatestDue != "" {
		fmt.Println()
		fmt.Printf("Latest due: %s\n", s.LatestDue)
	}
	return nil
}

// loadCommand prints planned minutes per day.
func (a *app) loadCommand(args []string) error {
	fs := flag.NewFlagSet("homework load", flag.ContinueOnError)
	day := fs.String("day", "", "Show a single day (YYYY-MM-DD)")
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

	opts := p.Capacity()
	days := p.Days()
	if *day != "" {
		var picked []capacity.DayLoad
		for _, d := range days {
			if d.Day == *day {
				picked = append(picked, d)
			}
		}
		if len(picked) == 0 {
			fmt.Printf("%s: nothing planned (%s free)\n", *day, capacity.FormatMinutes(opts.EffectiveLimit()))
			return nil
		}
		days = picked
	}
	if len(days) == 0 {
		fmt.Println("No tasks with due dates.")
		return nil
	}

	fmt.Printf("Overbooked above %s, limit %s per day\n\n",
		capacity.FormatMinutes(opts.EffectiveThreshold()), capacity.FormatMinutes(opts.EffectiveLimit()))
	for _, d := range days {
		mark := ""
		if d.Overbooked {
			mark = "  overbooked"
		}
		fmt.Printf("  %s  %6s  %d tasks%s\n", d.Day, capacity.FormatMinutes(d.Minutes), d.Tasks, mark)
	}
	return nil
}

// historyCommand prints the most recent journal entries.
func (a *app) historyCommand(args []string) error {
	fs := flag.NewFlagSet("homework history", flag.ContinueOnError)
	n := fs.Int("n", 20, "Number of entries to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *n < 0 {
		return fmt.Errorf("-n must not be negative")
	}
	return logging.TailJournal(os.Stdout, a.cfg.JournalPath(), *n)
}
