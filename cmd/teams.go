package cmd

import (
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the configured team table",
	Long: `Print the closed set of team names the ingest command accepts, with
their ids. Extend it via the teams section of the config file.`,
	Args: cobra.NoArgs,
	RunE: runTeams,
}

func runTeams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Teams))
	for name := range cfg.Teams {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("TEAM", "ID")
	for _, name := range names {
		table.Append(name, strconv.Itoa(cfg.Teams[name]))
	}
	table.Render()
	return nil
}
