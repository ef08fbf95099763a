package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbadia/go-sb-metrics/internal/storage"
)

var dropForce bool

// dropCmd deletes one match, or the whole database with --all.
var dropCmd = &cobra.Command{
	Use:   "drop [match-id]",
	Short: "Delete a stored match, or the whole database",
	Long: `Delete one match and all its features, possessions and labels.
With --all and no match id, permanently delete the database file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

var dropAll bool

func init() {
	dropCmd.Flags().BoolVar(&dropAll, "all", false, "delete the whole database file")
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropAll {
		if len(args) > 0 {
			return fmt.Errorf("--all takes no match id")
		}
		return dropDatabase()
	}
	if len(args) == 0 {
		return fmt.Errorf("match id required (or --all to delete the database)")
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := db.DropMatch(args[0]); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(os.Stdout, "Match %s is not stored, nothing to drop.\n", args[0])
			return nil
		}
		return err
	}
	fmt.Fprintf(os.Stdout, "Dropped match %s.\n", args[0])
	return nil
}

func dropDatabase() error {
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}
