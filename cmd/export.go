package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jbadia/go-sb-metrics/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored features, possessions and labels as CSV files",
	Long: `Write features.csv, possessions.csv and labels.csv for all stored
matches. features.csv is the training dataset: one row per match with
one column per feature in computation order. An empty cell means the
metric is unknown for that match, which is distinct from 0. labels.csv
holds one row per opponent possession.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := os.MkdirAll(exportOut, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := exportFeaturesCSV(db); err != nil {
		return err
	}
	if err := exportPossessionsCSV(db); err != nil {
		return err
	}
	return exportLabelsCSV(db)
}

// exportFeaturesCSV pivots the stored rows into one wide row per match.
// Column order follows the per-match storage order, which is the fixed
// module computation order.
func exportFeaturesCSV(db *storage.Store) error {
	rows, err := db.ExportFeatures()
	if err != nil {
		return err
	}

	var matchOrder, nameOrder []string
	seenName := make(map[string]bool)
	cells := make(map[string]map[string]string)
	for _, f := range rows {
		if _, ok := cells[f.MatchID]; !ok {
			cells[f.MatchID] = make(map[string]string)
			matchOrder = append(matchOrder, f.MatchID)
		}
		if !seenName[f.Name] {
			seenName[f.Name] = true
			nameOrder = append(nameOrder, f.Name)
		}
		cell := csvNum(f.Value)
		if f.Value == nil && f.TextValue != nil {
			cell = *f.TextValue
		}
		cells[f.MatchID][f.Name] = cell
	}

	records := [][]string{append([]string{"match_id"}, nameOrder...)}
	for _, id := range matchOrder {
		rec := make([]string, 0, len(nameOrder)+1)
		rec = append(rec, id)
		for _, name := range nameOrder {
			rec = append(rec, cells[id][name])
		}
		records = append(records, rec)
	}
	return writeCSV(filepath.Join(exportOut, "features.csv"), records)
}

func exportPossessionsCSV(db *storage.Store) error {
	poss, err := db.ExportPossessions()
	if err != nil {
		return err
	}
	records := [][]string{{
		"match_id", "poss_id", "team_name", "start_seconds", "end_seconds",
		"start_x", "start_y", "end_x", "end_y", "event_count",
	}}
	for _, p := range poss {
		records = append(records, []string{
			p.MatchID,
			strconv.Itoa(p.ID),
			p.TeamName,
			strconv.FormatFloat(p.StartTime.Seconds(), 'f', 3, 64),
			strconv.FormatFloat(p.EndTime.Seconds(), 'f', 3, 64),
			csvNum(p.StartX), csvNum(p.StartY), csvNum(p.EndX), csvNum(p.EndY),
			strconv.Itoa(p.EventCount),
		})
	}
	return writeCSV(filepath.Join(exportOut, "possessions.csv"), records)
}

func exportLabelsCSV(db *storage.Store) error {
	labels, err := db.ExportLabels()
	if err != nil {
		return err
	}
	records := [][]string{{"match_id", "poss_id", "team_name", "bypass"}}
	for _, l := range labels {
		bypass := "0"
		if l.Bypass {
			bypass = "1"
		}
		records = append(records, []string{
			l.MatchID, strconv.Itoa(l.PossessionID), l.TeamName, bypass,
		})
	}
	return writeCSV(filepath.Join(exportOut, "labels.csv"), records)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d rows)\n", path, len(records)-1)
	return nil
}

// csvNum renders an optional number; unknown stays empty, never 0.
func csvNum(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
