// Package cmd implements the CLI command structure for tasktrack.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mkovac/tasktrack/internal/config"
	"github.com/mkovac/tasktrack/internal/logging"
	"github.com/mkovac/tasktrack/internal/task"
	"github.com/mkovac/tasktrack/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the tasktrack CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasktrack", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
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

	logger := logging.NewFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)

	// Determine the subcommand
	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, os.Stdout)
		return nil
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]

	// Execute the subcommand
	switch subcommand {
	case "add":
		return addCommand(cfg, logger, remainingArgs)
	case "update":
		return updateCommand(cfg, logger, remainingArgs)
	case "delete":
		return deleteCommand(cfg, logger, remainingArgs)
	case "mark":
		return markCommand(cfg, logger, remainingArgs)
	case "list":
		return listCommand(cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return &ArgumentError{Msg: fmt.Sprintf("unknown command: %s", subcommand)}
	}
}

// addCommand creates a new task from the remaining arguments.
func addCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) == 0 {
		return usageError("add requires a description")
	}
	description := strings.Join(args, " ")

	store := task.NewStore(cfg.TasksFile)
	collection, err := store.Load()
	if err != nil {
		return err
	}

	created, err := store.Add(collection, description)
	if err != nil {
		return err
	}
	logger.Debug("saved tasks", "path", store.Path(), "tasks", len(collection.Tasks))

	fmt.Printf("Added task %d: %s\n", created.ID, created.Description)
	return nil
}

// updateCommand replaces a task's description.
func updateCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) < 2 {
		return usageError("update requires an id and a description")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	description := strings.Join(args[1:], " ")

	store := task.NewStore(cfg.TasksFile)
	collection, err := store.Load()
	if err != nil {
		return err
	}

	updated, err := store.Update(collection, id, description)
	if err != nil {
		return err
	}
	logger.Debug("saved tasks", "path", store.Path(), "tasks", len(collection.Tasks))

	fmt.Printf("Updated task %d: %s\n", updated.ID, updated.Description)
	return nil
}

// deleteCommand removes a task.
func deleteCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 1 {
		return usageError("delete requires exactly one id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store := task.NewStore(cfg.TasksFile)
	collection, err := store.Load()
	if err != nil {
		return err
	}

	removed, err := store.Delete(collection, id)
	if err != nil {
		return err
	}
	logger.Debug("saved tasks", "path", store.Path(), "tasks", len(collection.Tasks))

	fmt.Printf("Deleted task %d: %s\n", removed.ID, removed.Description)
	return nil
}

// markCommand sets a task's status.
func markCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 2 {
		return usageError("mark requires an id and a status")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, err := task.ParseStatus(args[1])
	if err != nil {
		return err
	}

	store := task.NewStore(cfg.TasksFile)
	collection, err := store.Load()
	if err != nil {
		return err
	}

	updated, err := store.SetStatus(collection, id, status)
	if err != nil {
		return err
	}
	logger.Debug("saved tasks", "path", store.Path(), "tasks", len(collection.Tasks))

	fmt.Printf("Marked task %d as %s\n", updated.ID, updated.Status)
	return nil
}

// listCommand prints tasks in insertion order, optionally filtered
// by status.
func listCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasktrack list", flag.ContinueOnError)
	statusFilter := fs.String("status", "", "Filter by status (todo|in-progress|done)")
	verbose := fs.Bool("v", false, "Show timestamps")

	if err := fs.Parse(args); err != nil {
		return &ArgumentError{Msg: err.Error()}
	}

	remaining := fs.Args()
	if len(remaining) >= 1 && *statusFilter == "" {
		*statusFilter = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) > 0 {
		return usageError(fmt.Sprintf("unexpected arguments: %v", remaining))
	}

	var filter task.Status
	if *statusFilter != "" {
		parsed, err := task.ParseStatus(*statusFilter)
		if err != nil {
			return err
		}
		filter = parsed
	}

	store := task.NewStore(cfg.TasksFile)
	collection, err := store.Load()
	if err != nil {
		return err
	}

	printTaskList(collection.List(filter), *verbose)
	return nil
}

// tuiCommand launches the terminal viewer.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return usageError(fmt.Sprintf("unexpected arguments: %v", args[1:]))
	}
	path := cfg.TasksFile
	if len(args) == 1 {
		path = args[0]
	}
	return ui.RunTUI(ctx, path)
}

// initCommand creates the tasks file, schema file, and an example
// config file in the working directory. Existing files are left alone.
func initCommand(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return usageError(fmt.Sprintf("unexpected arguments: %v", args))
	}

	store := task.NewStore(cfg.TasksFile)
	if err := store.Ensure(); err != nil {
		return err
	}
	fmt.Printf("Tasks file: %s\n", cfg.TasksFile)

	if _, err := os.Stat(cfg.SchemaFile); os.IsNotExist(err) {
		if err := os.WriteFile(cfg.SchemaFile, []byte(task.Schema), 0644); err != nil {
			return fmt.Errorf("writing schema file: %w", err)
		}
	}
	fmt.Printf("Schema file: %s\n", cfg.SchemaFile)

	configPath := "tasktrack.toml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(config.ExampleConfig()), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	fmt.Printf("Config file: %s\n", configPath)

	return nil
}

// doctorCommand checks the config, tasks file, and schema file.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasktrack doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return &ArgumentError{Msg: err.Error()}
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return usageError(fmt.Sprintf("unexpected arguments: %v", remaining[1:]))
	}
	tasksPath := cfg.TasksFile
	if len(remaining) == 1 {
		tasksPath = remaining[0]
	}

	fmt.Println("Tasktrack Doctor")
	fmt.Println("================")
	fmt.Println()

	allOK := true

	// Check working directory
	fmt.Printf("Working directory: %s\n", cfg.WorkDir)
	if _, err := os.Stat(cfg.WorkDir); err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	// Check tasks file
	fmt.Printf("Tasks file: %s\n", tasksPath)
	info, err := os.Stat(tasksPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on first command)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
		store := task.NewStore(tasksPath)
		collection, loadErr := store.Load()
		if loadErr != nil {
			fmt.Printf("  ❌ Load error: %v\n", loadErr)
			allOK = false
		} else {
			result := collection.Validate(task.ValidationOptions{SchemaPath: cfg.SchemaFile})
			for _, w := range result.Warnings {
				fmt.Printf("  ⚠️  %s\n", w)
			}
			if result.Valid {
				fmt.Println("  ✅ Valid")
			} else {
				fmt.Println("  ❌ Validation failed:")
				for _, e := range result.Errors {
					fmt.Printf("     - %v\n", e)
				}
				allOK = false
			}
			if *verbose {
				fmt.Printf("  Tasks: %d\n", len(collection.Tasks))
				for _, t := range collection.Tasks {
					fmt.Printf("    - [%s] %d: %s\n", t.Status, t.ID, t.Description)
				}
			}
		}
	}
	fmt.Println()

	// Check schema file
	fmt.Printf("Schema file: %s\n", cfg.SchemaFile)
	if info, err := os.Stat(cfg.SchemaFile); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (run 'tasktrack init' to create it)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Tasktrack may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("tasktrack version %s\n", Version)
	return nil
}

// parseID converts an id token to an integer. Unparseable tokens are
// an argument error and never reach the task store.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, &ArgumentError{Msg: fmt.Sprintf("invalid task id %q", arg)}
	}
	return id, nil
}

// usageError reports a missing or malformed argument along with a
// usage hint on stderr.
func usageError(msg string) error {
	fmt.Fprintf(os.Stderr, "%s\n\nRun 'tasktrack help' for usage.\n", msg)
	return &ArgumentError{Msg: msg}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasktrack - A file-backed personal task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasktrack [options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description...>        Add a new task")
	fmt.Fprintln(w, "  update <id> <description...> Replace a task's description")
	fmt.Fprintln(w, "  delete <id>                 Delete a task")
	fmt.Fprintln(w, "  mark <id> <status>          Set a task's status (todo|in-progress|done)")
	fmt.Fprintln(w, "  list [status]               List tasks, optionally filtered by status")
	fmt.Fprintln(w, "  tui [file]                  Launch the terminal viewer")
	fmt.Fprintln(w, "  doctor [file]               Check config, tasks file, and schema validity")
	fmt.Fprintln(w, "  init                        Create tasks file, schema, and example config")
	fmt.Fprintln(w, "  version                     Show version information")
	fmt.Fprintln(w, "  help                        Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (use with 'list' command):")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (todo|in-progress|done)")
	fmt.Fprintln(w, "  -v    Show timestamps")
}

// printTaskList prints a list of tasks in insertion order.
func printTaskList(tasks []task.Task, verbose bool) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}
	for _, t := range tasks {
		printTask(t, verbose)
	}
}

// printTask prints a single task.
func printTask(t task.Task, verbose bool) {
	statusIcon := "❓"
	switch t.Status {
	case task.StatusTodo:
		statusIcon = "📝"
	case task.StatusInProgress:
		statusIcon = "🔄"
	case task.StatusDone:
		statusIcon = "✅"
	}

	fmt.Printf("  %s [%d] %s (%s)\n", statusIcon, t.ID, t.Description, t.Status)

	if verbose {
		fmt.Printf("      Created: %s\n", t.CreatedAt.Format(task.TimeLayout))
		fmt.Printf("      Updated: %s\n", t.UpdatedAt.Format(task.TimeLayout))
	}
}
