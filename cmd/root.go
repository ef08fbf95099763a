package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jbadia/go-sb-metrics/internal/config"
)

var (
	dbPath  string
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "sbmetrics",
	Short: "Soccer match-event midfield metrics tool",
	Long:  "Ingest StatsBomb-style match event JSON and compute midfield defensive metrics.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".sbmetrics", "metrics.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(possessionsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(sqlCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// loadConfig reads the config file given by --config (defaults apply
// when the flag is empty).
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
