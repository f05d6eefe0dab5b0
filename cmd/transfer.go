package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/homework-go/internal/schema"
	"github.com/nibzard/homework-go/internal/task"
	"github.com/nibzard/homework-go/internal/transfer"
)

// exportCommand writes the collection to a file, or stdout for "-".
func (a *app) exportCommand(args []string) error {
	fs := flag.NewFlagSet("homework export", flag.ContinueOnError)
	filterFlag := fs.String("filter", string(task.FilterAll), "Export only matching tasks (all|active|completed)")
	remaining, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
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

	tasks := filter.Apply(p.Tasks())
	if len(remaining) == 1 && remaining[0] == "-" {
		return transfer.Export(os.Stdout, tasks)
	}

	path := ""
	if len(remaining) == 1 {
		path = remaining[0]
	}
	written, err := transfer.ExportFile(path, tasks)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d tasks to %s\n", len(tasks), written)
	return nil
}

// importCommand reads a collection from a file, or stdin for "-". When the
// current collection is not empty one of --merge or --replace is required.
func (a *app) importCommand(args []string) error {
	fs := flag.NewFlagSet("homework import", flag.ContinueOnError)
	merge := fs.Bool("merge", false, "Keep current tasks and add new ids")
	replace := fs.Bool("replace", false, "Replace all current tasks")
	dryRun := fs.Bool("dry-run", false, "Validate and report without saving")
	remaining, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) != 1 {
		return fmt.Errorf("usage: homework import <file> [--merge|--replace] [--dry-run]")
	}
	if *merge && *replace {
		return fmt.Errorf("--merge and --replace are mutually exclusive")
	}

	var incoming []task.Task
	if remaining[0] == "-" {
		incoming, err = transfer.Parse(os.Stdin, schema.Normalizer{})
	} else {
		incoming, err = transfer.ParseFile(remaining[0], schema.Normalizer{})
	}
	if err != nil {
		if issues, ok := schema.AsValidationErrors(err); ok {
			fmt.Println("Import rejected:")
			for _, issue := range issues {
				fmt.Printf("  - %v\n", issue)
			}
			return errors.New("import file is not valid, nothing was changed")
		}
		return err
	}

	p, closeJournal, err := a.openPlanner()
	if err != nil {
		return err
	}
	defer closeJournal()

	mode := transfer.ModeReplace
	switch {
	case *merge:
		mode = transfer.ModeMerge
	case *replace:
	case p.Len() > 0:
		return fmt.Errorf("%d tasks already exist; pass --merge or --replace", p.Len())
	}

	plan := transfer.NewPlan(p.Tasks(), incoming)
	if *dryRun {
		printPlan(plan, mode)
		return nil
	}

	switch mode {
	case transfer.ModeMerge:
		added, err := p.Merge(incoming)
		if err != nil {
			return err
		}
		fmt.Printf("Merged %d of %d tasks (%d already present)\n", added, len(incoming), len(plan.Duplicates))
	default:
		if err := p.Replace(incoming); err != nil {
			return err
		}
		fmt.Printf("Imported %d tasks, replacing %d\n", len(incoming), len(plan.Current))
	}
	return nil
}

func printPlan(plan *transfer.Plan, mode transfer.Mode) {
	fmt.Printf("Dry run (%s): %d tasks in file, %d current\n", mode, len(plan.Incoming), len(plan.Current))
	switch mode {
	case transfer.ModeMerge:
		fmt.Printf("  would add %d tasks\n", len(plan.Fresh))
		if !plan.HasConflicts() {
			fmt.Println("  no ids already present")
		}
		for _, id := range plan.Duplicates {
			fmt.Printf("  would skip %s (already present)\n", id)
		}
	default:
		fmt.Printf("  would replace %d tasks with %d\n", len(plan.Current), len(plan.Incoming))
	}
}
