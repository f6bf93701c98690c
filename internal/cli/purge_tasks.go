package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/taskmanager/internal/config"
	"github.com/mrlokans/taskmanager/internal/database"
	"github.com/mrlokans/taskmanager/internal/database/tasks"
)

// PurgeTasksCommand permanently removes tasks soft-deleted before a cutoff.
type PurgeTasksCommand struct {
	DatabasePath string
	Retention    time.Duration
	Verbose      bool

	now func() time.Time
}

func NewPurgeTasksCommand() *PurgeTasksCommand {
	return &PurgeTasksCommand{now: time.Now}
}

func (cmd *PurgeTasksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("purge-tasks", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the SQLite database file")
	fs.DurationVar(&cmd.Retention, "retention", 720*time.Hour, "Purge tasks deleted longer ago than this")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s purge-tasks [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Permanently remove soft-deleted tasks older than the retention window.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Purge tasks deleted more than a week ago:\n")
		fmt.Fprintf(os.Stderr, "  %s purge-tasks -retention 168h\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Retention < 0 {
		return fmt.Errorf("retention must not be negative")
	}

	return nil
}

func (cmd *PurgeTasksCommand) Run() error {
	fmt.Println("Purge Deleted Tasks")
	fmt.Println("===================")

	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database not found: %s", cmd.DatabasePath)
	}

	open := database.NewQuietDatabase
	if cmd.Verbose {
		open = database.NewDatabase
	}
	db, err := open(config.Database{Driver: config.DatabaseDriverSQLite, Path: cmd.DatabasePath})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	now := time.Now
	if cmd.now != nil {
		now = cmd.now
	}
	before := now().Add(-cmd.Retention)

	deleted, err := tasks.NewRepository(db.DB).PurgeDeletedTasks(before)
	if err != nil {
		return fmt.Errorf("failed to purge tasks: %w", err)
	}

	fmt.Printf("Removed %d task(s) deleted before %s\n", deleted, before.Format(time.RFC3339))
	return nil
}
