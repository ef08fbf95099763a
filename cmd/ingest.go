package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbadia/go-sb-metrics/internal/aggregator"
	"github.com/jbadia/go-sb-metrics/internal/config"
	"github.com/jbadia/go-sb-metrics/internal/model"
	"github.com/jbadia/go-sb-metrics/internal/parser"
	"github.com/jbadia/go-sb-metrics/internal/report"
	"github.com/jbadia/go-sb-metrics/internal/storage"
)

var (
	ingestTeam   string
	ingestSeason string
	ingestForce  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <match.json | directory>",
	Short: "Parse match event files, compute metrics and store them",
	Long: `Parse one StatsBomb-style match event JSON file, or every .json file in a
directory, compute the midfield feature set for the configured team and
store the results. A match whose file content is unchanged is skipped
unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTeam, "team", "", "evaluated team name (overrides config)")
	ingestCmd.Flags().StringVar(&ingestSeason, "season", "", "season label (overrides config)")
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "recompute even when the match is already stored")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ingestTeam != "" {
		cfg.Dataset.TeamName = ingestTeam
	}
	if ingestSeason != "" {
		cfg.Dataset.Season = ingestSeason
	}
	if cfg.Dataset.TeamName == "" {
		return fmt.Errorf("no team configured: set dataset.team_name or pass --team")
	}
	if _, err := cfg.ResolveTeam(cfg.Dataset.TeamName); err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return ingestDir(db, path, cfg)
	}
	return ingestFile(db, path, cfg)
}

func ingestFile(db *storage.Store, path string, cfg *config.Config) error {
	m, err := parser.LoadMatch(path)
	if err != nil {
		return fmt.Errorf("parse match: %w", err)
	}

	if !ingestForce {
		exists, err := db.MatchExists(m.MatchID, m.SourceHash)
		if err != nil {
			return err
		}
		if exists {
			fmt.Fprintf(os.Stdout, "Match %s already stored, showing cached results.\n", m.MatchID)
			return showMatch(db, m.MatchID)
		}
	}

	res, err := aggregator.ComputeMatch(m, cfg)
	if err != nil {
		return fmt.Errorf("compute match: %w", err)
	}
	if err := db.SaveMatch(res, cfg.Dataset.Season); err != nil {
		return fmt.Errorf("store match: %w", err)
	}

	printResult(res, cfg.Dataset.Season)
	return nil
}

func ingestDir(db *storage.Store, dir string, cfg *config.Config) error {
	results, err := aggregator.ComputeDataset(dir, cfg)
	if err != nil {
		return err
	}
	stored := 0
	for _, res := range results {
		if !ingestForce {
			exists, err := db.MatchExists(res.MatchID, res.SourceHash)
			if err != nil {
				return err
			}
			if exists {
				fmt.Fprintf(os.Stdout, "Match %s already stored, skipping.\n", res.MatchID)
				continue
			}
		}
		if err := db.SaveMatch(res, cfg.Dataset.Season); err != nil {
			return fmt.Errorf("store match %s: %w", res.MatchID, err)
		}
		stored++
	}
	fmt.Fprintf(os.Stdout, "Stored %d of %d match(es).\n", stored, len(results))
	return nil
}

func printResult(res *aggregator.MatchResult, season string) {
	report.PrintMatchSummary(os.Stdout, model.MatchSummary{
		MatchID:     res.MatchID,
		SourceHash:  res.SourceHash,
		TeamID:      res.TeamID,
		TeamName:    res.TeamName,
		Season:      season,
		EventCount:  res.EventCount,
		Possessions: len(res.Possessions),
	})
	report.PrintModuleTable(os.Stdout, res.Modules)
	fmt.Fprintf(os.Stdout, "\n--- Key Features ---\n\n")
	report.PrintKeyFeatures(os.Stdout, res)
}
