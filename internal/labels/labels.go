// Package labels computes the per-possession bypass outcome used as the
// training target: did the possessing side reach the final third quickly
// and with few passes?
package labels

import (
	"time"

	"github.com/jbadia/go-sb-metrics/internal/config"
	"github.com/jbadia/go-sb-metrics/internal/model"
)

// Bypass labels every possession segment. A segment is bypass=1 when,
// within the time budget measured from its first event, some event with
// a known x reaches finalThirdX while the cumulative pass count (passes
// seen so far in the window, the reaching event included) stays within
// the pass budget. Segments with no qualifying event are bypass=0.
//
// possessions and groups must be aligned as returned by possession.Split.
func Bypass(possessions []model.Possession, groups [][]*model.Event, cfg config.BypassConfig, finalThirdX float64) []model.Label {
	budget := time.Duration(cfg.TimeSeconds * float64(time.Second))

	out := make([]model.Label, 0, len(possessions))
	for i, p := range possessions {
		out = append(out, model.Label{
			MatchID:      p.MatchID,
			PossessionID: p.ID,
			TeamName:     p.TeamName,
			Bypass:       reached(groups[i], budget, cfg.MaxPasses, finalThirdX),
		})
	}
	return out
}

func reached(group []*model.Event, budget time.Duration, maxPasses int, finalThirdX float64) bool {
	if len(group) == 0 {
		return false
	}
	t0 := group[0].Timestamp
	passes := 0
	for _, ev := range group {
		if ev.Timestamp > t0+budget {
			break
		}
		if ev.TypeName == "Pass" {
			passes++
		}
		if passes > maxPasses {
			break
		}
		if ev.X != nil && *ev.X >= finalThirdX {
			return true
		}
	}
	return false
}
