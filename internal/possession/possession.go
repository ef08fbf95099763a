// Package possession reconstructs possession segments from a normalized
// event stream.
//
// Boundary rule: a new segment starts whenever the in-possession team
// name changes or the period changes. The restart-triggered variant
// (segment break on dead-ball events) is deliberately not implemented;
// this rule is the one the label pipeline consumes and it keeps the
// partition invariant trivial: every event lands in exactly one segment.
package possession

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jbadia/go-sb-metrics/internal/model"
)

// ErrMissingField reports an input stream that violates the segmenter's
// precondition. This is a configuration error, not a data quality issue:
// a correctly normalized stream always carries the possession team.
var ErrMissingField = errors.New("possession: required field missing")

// Build partitions events into possession segments, one slice entry per
// contiguous run. Events may span multiple matches; segment ids restart
// at 1 per match. The input slice is not modified.
func Build(events []model.Event) ([]model.Possession, error) {
	segs, _, err := Split(events)
	return segs, err
}

// Split is Build plus the per-segment event groups, aligned by index.
// The label pipeline needs the grouped events, not just the summaries.
func Split(events []model.Event) ([]model.Possession, [][]*model.Event, error) {
	for i := range events {
		if events[i].PossessionTeamName == nil {
			return nil, nil, fmt.Errorf("%w: possession_team.name absent at event index %d of match %s",
				ErrMissingField, events[i].Index, events[i].MatchID)
		}
	}

	sorted := make([]*model.Event, len(events))
	for i := range events {
		sorted[i] = &events[i]
	}
	// Equal timestamps resolve by original event index so first/last
	// location aggregates are deterministic.
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.Index < b.Index
	})

	var out []model.Possession
	var groups [][]*model.Event
	curPeriod := 0
	for _, ev := range sorted {
		var cur *model.Possession
		if len(out) > 0 {
			cur = &out[len(out)-1]
		}
		newMatch := cur == nil || cur.MatchID != ev.MatchID
		boundary := newMatch ||
			cur.TeamName != *ev.PossessionTeamName ||
			curPeriod != ev.Period

		if boundary {
			id := 1
			if !newMatch {
				id = cur.ID + 1
			}
			out = append(out, model.Possession{
				MatchID:   ev.MatchID,
				ID:        id,
				TeamName:  *ev.PossessionTeamName,
				TeamID:    ev.PossessionTeamID,
				StartTime: ev.Timestamp,
				EndTime:   ev.Timestamp,
			})
			groups = append(groups, nil)
			cur = &out[len(out)-1]
			curPeriod = ev.Period
		}

		groups[len(groups)-1] = append(groups[len(groups)-1], ev)
		cur.EndTime = ev.Timestamp
		cur.EventCount++
		if ev.X != nil {
			if cur.StartX == nil {
				cur.StartX = ev.X
			}
			cur.EndX = ev.X
		}
		if ev.Y != nil {
			if cur.StartY == nil {
				cur.StartY = ev.Y
			}
			cur.EndY = ev.Y
		}
	}
	return out, groups, nil
}
