package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbadia/go-sb-metrics/internal/report"
	"github.com/jbadia/go-sb-metrics/internal/storage"
)

var showPlayers bool

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show the stored feature set of a match",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showPlayers, "players", false, "also show per-player features")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return showMatch(db, args[0])
}

func showMatch(db *storage.Store, matchID string) error {
	summary, err := db.GetMatch(matchID)
	if err != nil {
		return err
	}
	report.PrintMatchSummary(os.Stdout, *summary)

	features, err := db.GetFeatures(matchID)
	if err != nil {
		return err
	}
	report.PrintFeatureTable(os.Stdout, features)

	if showPlayers {
		players, err := db.GetPlayerFeatures(matchID)
		if err != nil {
			return err
		}
		if len(players) > 0 {
			fmt.Fprintf(os.Stdout, "\n--- Player Features ---\n\n")
			report.PrintPlayerFeatureTable(os.Stdout, players)
		}
	}
	return nil
}
