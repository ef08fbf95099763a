package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbadia/go-sb-metrics/internal/report"
	"github.com/jbadia/go-sb-metrics/internal/storage"
)

var possessionsCmd = &cobra.Command{
	Use:   "possessions <match-id>",
	Short: "Show the possession segments and bypass labels of a match",
	Args:  cobra.ExactArgs(1),
	RunE:  runPossessions,
}

func runPossessions(cmd *cobra.Command, args []string) error {
	matchID := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summary, err := db.GetMatch(matchID)
	if err != nil {
		return err
	}
	report.PrintMatchSummary(os.Stdout, *summary)

	poss, err := db.GetPossessions(matchID)
	if err != nil {
		return err
	}
	labels, err := db.GetLabels(matchID)
	if err != nil {
		return err
	}
	report.PrintPossessionTable(os.Stdout, poss, labels)

	bypassed := 0
	for _, l := range labels {
		if l.Bypass {
			bypassed++
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d possession(s), %d labeled, %d bypassed\n",
		len(poss), len(labels), bypassed)
	return nil
}
