// Package report renders stored match results as console tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/jbadia/go-sb-metrics/internal/aggregator"
	"github.com/jbadia/go-sb-metrics/internal/model"
	"github.com/jbadia/go-sb-metrics/internal/storage"
)

// keyFeatures is the headline subset printed after an ingest.
var keyFeatures = []string{
	"midfield_interceptions_total",
	"midfield_recoveries_total",
	"midfield_duels_total",
	"midfield_pressure_events_total",
	"progressive_passes_allowed_midfield",
	"bypass_attempts_total",
	"bypass_prevention_rate",
	"midfield_strength_index",
	"bypass_risk_score",
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// fmtNum renders an optional numeric value; unknown stays "—", never 0.
func fmtNum(v *float64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

// PrintMatchSummary prints a one-line summary header for a match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	hash := s.SourceHash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	fmt.Fprintf(w, "\nMatch: %s  |  Team: %s (%d)  |  Season: %s  |  Events: %d  |  Possessions: %d  |  Hash: %s\n\n",
		s.MatchID, s.TeamName, s.TeamID, s.Season, s.EventCount, s.Possessions, hash)
}

// PrintModuleTable prints one row per feature module with its outcome.
func PrintModuleTable(w io.Writer, mods []aggregator.ModuleResult) {
	table := newTable(w)
	table.Header("MODULE", "FEATURES", "STATUS")
	for _, m := range mods {
		status := "ok"
		count := m.Values.Len()
		if m.Err != nil {
			status = "failed: " + m.Err.Error()
			count = 0
		}
		table.Append(m.Name, strconv.Itoa(count), status)
	}
	table.Render()
}

// PrintKeyFeatures prints the headline feature subset of a fresh result.
func PrintKeyFeatures(w io.Writer, res *aggregator.MatchResult) {
	table := newTable(w)
	table.Header("FEATURE", "VALUE")
	for _, name := range keyFeatures {
		val, ok := res.Feature(name)
		if !ok {
			table.Append(name, "—")
			continue
		}
		table.Append(name, fmtNum(val.Num))
	}
	table.Render()
}

// PrintFeatureTable prints all stored scalar features of a match.
func PrintFeatureTable(w io.Writer, rows []storage.FeatureRow) {
	table := newTable(w)
	table.Header("MODULE", "FEATURE", "VALUE")
	for _, f := range rows {
		val := fmtNum(f.Value)
		if f.Value == nil && f.TextValue != nil {
			val = *f.TextValue
			if val == "" {
				val = "—"
			}
		}
		table.Append(f.Module, f.Name, val)
	}
	table.Render()
}

// PrintPlayerFeatureTable prints per-player feature rows.
func PrintPlayerFeatureTable(w io.Writer, rows []storage.PlayerFeatureRow) {
	table := newTable(w)
	table.Header("FEATURE", "PLAYER", "VALUE")
	for _, f := range rows {
		table.Append(f.Name, strconv.Itoa(f.PlayerID), strconv.FormatFloat(f.Value, 'f', 3, 64))
	}
	table.Render()
}

// PrintPossessionTable prints possession segments with their bypass
// labels. Labels are matched by possession id; segments without a label
// show "—".
func PrintPossessionTable(w io.Writer, poss []model.Possession, labels []model.Label) {
	byID := make(map[int]bool, len(labels))
	for _, l := range labels {
		byID[l.PossessionID] = l.Bypass
	}

	table := newTable(w)
	table.Header("ID", "TEAM", "START", "END", "EVENTS", "START_X", "END_X", "BYPASS")
	for _, p := range poss {
		bypass := "—"
		if b, ok := byID[p.ID]; ok {
			bypass = "no"
			if b {
				bypass = "yes"
			}
		}
		table.Append(
			strconv.Itoa(p.ID),
			p.TeamName,
			fmt.Sprintf("%.1fs", p.StartTime.Seconds()),
			fmt.Sprintf("%.1fs", p.EndTime.Seconds()),
			strconv.Itoa(p.EventCount),
			fmtNum(p.StartX),
			fmtNum(p.EndX),
			bypass,
		)
	}
	table.Render()
}

// PrintTrendTable prints one feature's value across all matches.
func PrintTrendTable(w io.Writer, name string, points []storage.TrendPoint) {
	table := newTable(w)
	table.Header("MATCH", name)
	for _, p := range points {
		table.Append(p.MatchID, fmtNum(p.Value))
	}
	table.Render()
}
