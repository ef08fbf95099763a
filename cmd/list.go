package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbadia/go-sb-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'sbmetrics ingest <match.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-10s  %7s  %6s  %s\n",
		"MATCH", "TEAM", "SEASON", "EVENTS", "POSS", "COMPUTED")
	fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-10s  %7s  %6s  %s\n",
		"────────────", "────────────────────", "──────────", "───────", "──────", "────────────────────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-10s  %7d  %6d  %s\n",
			m.MatchID, m.TeamName, m.Season, m.EventCount, m.Possessions, m.ComputedAt)
	}
	return nil
}
