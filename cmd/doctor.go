package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/homework-go/internal/capacity"
	"github.com/nibzard/homework-go/internal/config"
	"github.com/nibzard/homework-go/internal/logging"
	"github.com/nibzard/homework-go/internal/schema"
	"github.com/nibzard/homework-go/internal/ui"
)

// doctorCommand checks the configuration and the files it points at.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("homework doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Println("Homework Doctor")
	fmt.Println("===============")
	fmt.Println()

	allOK := true

	fmt.Println("Config:")
	if len(a.sources.Files) == 0 {
		fmt.Println("  ✅ No config file (using defaults)")
	}
	for _, f := range a.sources.Files {
		fmt.Printf("  ✅ Read %s\n", f)
	}
	opts := a.cfg.Capacity()
	if opts.EffectiveThreshold() > opts.EffectiveLimit() {
		fmt.Printf("  ⚠️  overbook_minutes (%d) is above daily_limit_minutes (%d); days can never show as overbooked\n",
			opts.EffectiveThreshold(), opts.EffectiveLimit())
	} else {
		fmt.Printf("  ✅ Overbooked above %s, limit %s per day (%s days)\n",
			capacity.FormatMinutes(opts.EffectiveThreshold()), capacity.FormatMinutes(opts.EffectiveLimit()), a.cfg.DayGrouping)
	}
	fmt.Println()

	fmt.Printf("Data dir: %s\n", a.cfg.DataDir)
	if info, err := os.Stat(a.cfg.DataDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("  ⚠️  Not found (created on first save)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Println("  ❌ Error: not a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	if !checkTaskFile(a.cfg, *verbose) {
		allOK = false
	}
	fmt.Println()

	journalPath := a.cfg.JournalPath()
	fmt.Printf("Journal: %s\n", journalPath)
	entries, err := logging.ReadJournal(journalPath, 0)
	switch {
	case err != nil:
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	case len(entries) == 0:
		fmt.Println("  ⚠️  Empty (nothing recorded yet)")
	default:
		fmt.Printf("  ✅ %d entries, last %s\n", len(entries), entries[len(entries)-1].Time)
	}
	fmt.Println()

	fmt.Println("Terminal:")
	if ui.IsTTY(os.Stdout) {
		fmt.Println("  ✅ stdout is a TTY (tui available)")
	} else {
		fmt.Println("  ⚠️  stdout is not a TTY (tui unavailable)")
	}
	fmt.Println()

	if !allOK {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

// checkTaskFile validates the task file against the schema.
func checkTaskFile(cfg *config.Config, verbose bool) bool {
	path := cfg.StoragePath()
	fmt.Printf("Task file: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("  ⚠️  Not found (created on first save)")
			return true
		}
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	}
	if len(data) == 0 {
		fmt.Println("  ⚠️  Empty")
		return true
	}

	tasks, err := schema.Validate(data, schema.Normalizer{})
	if err != nil {
		if issues, ok := schema.AsValidationErrors(err); ok {
			fmt.Println("  ❌ Validation failed:")
			for _, issue := range issues {
				fmt.Printf("     - %v\n", issue)
			}
		} else {
			fmt.Printf("  ❌ Load error: %v\n", err)
		}
		return false
	}
	fmt.Println("  ✅ Valid")

	over := capacity.OverbookedDays(tasks, cfg.Capacity())
	if len(over) > 0 {
		fmt.Printf("  ⚠️  %d overbooked days (see homework load)\n", len(over))
	}
	if verbose {
		fmt.Printf("  Tasks: %d\n", len(tasks))
		for _, t := range tasks {
			check := " "
			if t.IsCompleted {
				check = "x"
			}
			fmt.Printf("    - [%s] %s: %s\n", check, t.ID, t.Title)
		}
	}
	return true
}
