package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/homework-go/internal/config"
	"github.com/nibzard/homework-go/internal/schema"
	"github.com/nibzard/homework-go/internal/task"
	"github.com/nibzard/homework-go/internal/ui"
)

// configCommand prints an example config, the effective values with where
// each came from, or the task file schema.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("homework config", flag.ContinueOnError)
	showSources := fs.Bool("sources", false, "Show effective values and their sources")
	showSchema := fs.Bool("schema", false, "Print the JSON Schema import files are checked against")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *showSchema {
		_, err := os.Stdout.Write(schema.Source())
		return err
	}
	if !*showSources {
		fmt.Print(config.ExampleConfig())
		return nil
	}
	for _, f := range a.sources.Files {
		fmt.Printf("# read %s\n", f)
	}
	for _, s := range a.sources.Settings() {
		fmt.Printf("%-20s = %-24v # %s\n", s.Key, s.Value, s.Source)
	}
	return nil
}

// tuiCommand launches the interactive list.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("homework tui", flag.ContinueOnError)
	sortFlag := fs.String("sort", string(a.cfg.Sort()), "Initial sort mode (date|priority|time)")
	filterFlag := fs.String("filter", string(a.cfg.Filter()), "Initial filter (all|active|completed)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
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

	return ui.RunTUI(ctx, p, ui.WithSort(mode), ui.WithFilter(filter))
}
