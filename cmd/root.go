// Package cmd implements the CLI command structure for homework.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/homework-go/internal/config"
	"github.com/nibzard/homework-go/internal/logging"
	"github.com/nibzard/homework-go/internal/planner"
	"github.com/nibzard/homework-go/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
}

// Run executes the homework CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("homework", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger, err := logging.New(os.Stderr, cws.Config.Logging())
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a := &app{cfg: cws.Config, sources: cws, logger: logger}
	logger.Debug("config loaded", "data_dir", a.cfg.DataDir, "files", cws.Files)

	// Determine the subcommand; list is the default
	subcommand := "list"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "edit":
		return a.editCommand(remainingArgs)
	case "done", "toggle":
		return a.doneCommand(remainingArgs)
	case "rm", "remove":
		return a.removeCommand(remainingArgs)
	case "clear":
		return a.clearCommand(remainingArgs)
	case "stats":
		return a.statsCommand(remainingArgs)
	case "load":
		return a.loadCommand(remainingArgs)
	case "export":
		return a.exportCommand(remainingArgs)
	case "import":
		return a.importCommand(remainingArgs)
	case "history":
		return a.historyCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openPlanner loads the collection. The journal is only created once a
// change is recorded; the returned function closes it.
func (a *app) openPlanner() (*planner.Planner, func() error, error) {
	journal := &logging.LazyJournal{Path: a.cfg.JournalPath()}
	p, err := planner.New(&store.FileStore{Path: a.cfg.StoragePath()}, planner.Options{
		Capacity: a.cfg.Capacity(),
		Journal:  journal,
		Logger:   a.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	closeJournal := func() error {
		err := journal.Close()
		if err != nil {
			a.logger.Warn("journal not written", "path", journal.Path, "err", err)
		}
		return err
	}
	return p, closeJournal, nil
}

// parseArgs parses subcommand flags. Flags and positional arguments may be
// mixed; everything that is not a flag is returned in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("homework version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Homework - plan tasks without overbooking your days")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  homework [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list             List tasks (default command)")
	fmt.Fprintln(w, "  add <title>      Add a task")
	fmt.Fprintln(w, "  edit <id>        Change a task")
	fmt.Fprintln(w, "  done <id>        Toggle a task between active and completed")
	fmt.Fprintln(w, "  rm <id>          Delete a task")
	fmt.Fprintln(w, "  clear --yes      Delete every task")
	fmt.Fprintln(w, "  stats            Show completion statistics")
	fmt.Fprintln(w, "  load             Show planned minutes per day")
	fmt.Fprintln(w, "  export [file]    Write tasks to a JSON file (- for stdout)")
	fmt.Fprintln(w, "  import <file>    Read tasks from a JSON file")
	fmt.Fprintln(w, "  history          Show recent changes")
	fmt.Fprintln(w, "  tui              Launch terminal UI")
	fmt.Fprintln(w, "  doctor           Check config, task file and journal")
	fmt.Fprintln(w, "  config           Print an example config (--sources, --schema)")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options:")
	fmt.Fprintln(w, "  -sort string")
	fmt.Fprintln(w, "        Sort mode (date|priority|time)")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Filter (all|active|completed)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add/Edit Options:")
	fmt.Fprintln(w, "  -title string        Title (edit only)")
	fmt.Fprintln(w, "  -desc string         Description")
	fmt.Fprintln(w, "  -priority string     Priority (low|medium|high)")
	fmt.Fprintln(w, "  -due string          Due date (YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC 3339)")
	fmt.Fprintln(w, "  -minutes int         Estimated minutes (0-1440)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Import Options:")
	fmt.Fprintln(w, "  -merge               Keep current tasks and add new ids")
	fmt.Fprintln(w, "  -replace             Replace all current tasks")
	fmt.Fprintln(w, "  -dry-run             Validate and report without saving")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "History Options:")
	fmt.Fprintln(w, "  -n int               Number of entries to show (0 = all)")
}
