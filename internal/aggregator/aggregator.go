// Package aggregator drives the per-match pipeline: segment possessions,
// label them, and run every feature module in order. Module failures are
// reported and skipped; a match only fails as a whole when its events
// cannot be segmented.
package aggregator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jbadia/go-sb-metrics/internal/config"
	"github.com/jbadia/go-sb-metrics/internal/features"
	"github.com/jbadia/go-sb-metrics/internal/labels"
	"github.com/jbadia/go-sb-metrics/internal/model"
	"github.com/jbadia/go-sb-metrics/internal/parser"
	"github.com/jbadia/go-sb-metrics/internal/possession"
)

// ModuleResult is the outcome of one feature module for one match.
type ModuleResult struct {
	Name   string
	Values features.Values
	Err    error
}

// MatchResult is everything the pipeline derives from one match file.
type MatchResult struct {
	MatchID    string
	SourceHash string
	TeamID     int
	TeamName   string
	EventCount int

	Possessions []model.Possession
	Labels      []model.Label
	Modules     []ModuleResult
}

// Feature looks a computed feature up across all module results.
func (r *MatchResult) Feature(name string) (features.Value, bool) {
	for _, m := range r.Modules {
		if m.Err != nil {
			continue
		}
		if val, ok := m.Values.Get(name); ok {
			return val, true
		}
	}
	return features.Value{}, false
}

// ComputeMatch runs the full pipeline for one parsed match.
func ComputeMatch(m *parser.Match, cfg *config.Config) (*MatchResult, error) {
	teamID, err := cfg.ResolveTeam(cfg.Dataset.TeamName)
	if err != nil {
		return nil, err
	}

	segs, groups, err := possession.Split(m.Events)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", m.MatchID, err)
	}

	res := &MatchResult{
		MatchID:     m.MatchID,
		SourceHash:  m.SourceHash,
		TeamID:      teamID,
		TeamName:    cfg.Dataset.TeamName,
		EventCount:  len(m.Events),
		Possessions: segs,
		Labels:      labels.Bypass(segs, groups, cfg.Bypass, cfg.Pitch.FinalThirdX),
	}

	ctx := &features.Context{
		Events:   m.Events,
		TeamID:   teamID,
		TeamName: cfg.Dataset.TeamName,
		Cfg:      cfg,
	}

	// Phase one feeds the merged numeric map that phase two consumes.
	prior := make(map[string]float64)
	for _, mod := range features.Modules() {
		if mod.PhaseTwo {
			continue
		}
		res.Modules = append(res.Modules, runModule(mod, ctx, m.MatchID, prior))
	}
	ctx.Prior = prior
	for _, mod := range features.Modules() {
		if !mod.PhaseTwo {
			continue
		}
		res.Modules = append(res.Modules, runModule(mod, ctx, m.MatchID, prior))
	}
	return res, nil
}

func runModule(mod features.Module, ctx *features.Context, matchID string, prior map[string]float64) ModuleResult {
	vals, err := mod.Compute(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: match %s: module %s failed: %v\n", matchID, mod.Name, err)
		return ModuleResult{Name: mod.Name, Err: err}
	}
	for _, name := range vals.Names() {
		if val, ok := vals.Get(name); ok && val.Num != nil {
			prior[name] = *val.Num
		}
	}
	return ModuleResult{Name: mod.Name, Values: vals}
}

// ComputeDataset parses and computes every .json match file in dir.
// Unreadable or uncomputable matches are reported and skipped; the run
// fails when no match succeeds, including a directory with no match
// files at all.
func ComputeDataset(dir string, cfg *config.Config) ([]*MatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read match dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no match files in %s", dir)
	}

	var results []*MatchResult
	for _, path := range paths {
		m, err := parser.LoadMatch(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", filepath.Base(path), err)
			continue
		}
		res, err := ComputeMatch(m, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", filepath.Base(path), err)
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no match in %s could be processed", dir)
	}
	return results, nil
}
