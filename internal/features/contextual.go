package features

import (
	"sort"
	"time"
)

// computeContextual records match-state context around the midfield
// activity. Score differential and home/away need match metadata the
// event stream does not carry, so they stay unknown.
func computeContextual(ctx *Context) (Values, error) {
	zone := ctx.zoneEvents()

	var v Values
	v.Set("score_differential", Unknown())

	var minutes []float64
	for _, ev := range zone {
		minutes = append(minutes, float64(ev.Minute))
	}
	v.Set("match_minute", Value{Num: mean(minutes)})

	var period *float64
	if len(zone) > 0 {
		counts := make(map[int]int)
		for _, ev := range zone {
			counts[ev.Period]++
		}
		var periods []int
		for p := range counts {
			periods = append(periods, p)
		}
		// Ties resolve to the lowest period.
		sort.Ints(periods)
		best := periods[0]
		for _, p := range periods {
			if counts[p] > counts[best] {
				best = p
			}
		}
		period = fptr(float64(best))
	}
	v.Set("period", Value{Num: period})

	v.Set("home_away", Value{})
	v.Set("time_since_last_goal", Value{Num: timeSinceLastGoal(ctx)})

	regular, setPiece := 0, 0
	for i := range ctx.Events {
		ev := &ctx.Events[i]
		if ev.PlayPattern == nil {
			continue
		}
		switch *ev.PlayPattern {
		case "Regular Play":
			regular++
		case "From Free Kick", "From Corner", "From Throw In", "From Kick Off":
			setPiece++
		}
	}
	v.Set("play_pattern_regular", Count(regular))
	v.Set("play_pattern_set_piece", Count(setPiece))

	// Transition and counter-attack are not identifiable from the play
	// pattern taxonomy used here.
	v.Set("play_pattern_transition", Count(0))
	v.Set("play_pattern_counter_attack", Count(0))
	return v, nil
}

// timeSinceLastGoal averages, over zone events at or after the last
// goal, the elapsed time since that goal.
func timeSinceLastGoal(ctx *Context) *float64 {
	var goalTime *time.Duration
	for i := range ctx.Events {
		ev := &ctx.Events[i]
		if ev.TypeName == "Shot" && ev.OutcomeName != nil && *ev.OutcomeName == "Goal" {
			t := ev.Timestamp
			goalTime = &t
		}
	}
	if goalTime == nil {
		return nil
	}
	var diffs []float64
	for _, ev := range ctx.zoneEvents() {
		if ev.Timestamp >= *goalTime {
			diffs = append(diffs, seconds(ev.Timestamp-*goalTime))
		}
	}
	return mean(diffs)
}
