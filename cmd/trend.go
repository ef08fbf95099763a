package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbadia/go-sb-metrics/internal/report"
	"github.com/jbadia/go-sb-metrics/internal/storage"
)

var trendCmd = &cobra.Command{
	Use:   "trend <feature-name>",
	Short: "Show one feature's value across all stored matches",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	name := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	points, err := db.FeatureTrend(name)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Println("no matches found")
		return nil
	}
	report.PrintTrendTable(os.Stdout, name, points)
	return nil
}
