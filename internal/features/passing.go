package features

import (
	"math"

	"github.com/jbadia/go-sb-metrics/internal/model"
)

// computePassing describes the opposition's passing game inside the
// midfield band: volume, direction, length, and how often the evaluated
// team broke the passing chains.
func computePassing(ctx *Context) (Values, error) {
	var passes []*model.Event
	for _, ev := range ctx.opponentZoneEvents() {
		if ev.TypeName == "Pass" {
			passes = append(passes, ev)
		}
	}
	// Directional splits only consider passes with a complete end location.
	var ended []*model.Event
	for _, ev := range passes {
		if ev.PassEndX != nil && ev.PassEndY != nil {
			ended = append(ended, ev)
		}
	}

	var v Values
	v.Set("passes_allowed_midfield_total", Count(len(passes)))

	intercepted := 0
	completed := 0
	var lengths []float64
	long := 0
	for _, ev := range passes {
		if ev.OutcomeName != nil {
			switch *ev.OutcomeName {
			case "Incomplete", "Out", "Blocked":
				intercepted++
			case "Complete":
				completed++
			}
		}
		if ev.PassLength != nil {
			lengths = append(lengths, *ev.PassLength)
			if *ev.PassLength > 20 {
				long++
			}
		}
	}
	v.Set("passes_intercepted_midfield", Count(intercepted))

	var completion *float64
	if len(passes) > 0 {
		completion = fptr(float64(completed) / float64(len(passes)))
	}
	v.Set("pass_completion_rate_allowed_midfield", Value{Num: completion})

	forward, backward, lateral := 0, 0, 0
	l2r, r2l := 0, 0
	c2w, w2c := 0, 0
	for _, ev := range ended {
		if *ev.PassEndX > *ev.X {
			forward++
		}
		if *ev.PassEndX < *ev.X {
			backward++
		}
		if math.Abs(*ev.PassEndY-*ev.Y) > math.Abs(*ev.PassEndX-*ev.X) {
			lateral++
		}
		if *ev.PassEndY > *ev.Y {
			l2r++
		}
		if *ev.PassEndY < *ev.Y {
			r2l++
		}
		startCentral := *ev.Y >= 35 && *ev.Y <= 45
		endCentral := *ev.PassEndY >= 35 && *ev.PassEndY <= 45
		if startCentral && !endCentral {
			c2w++
		}
		if !startCentral && endCentral {
			w2c++
		}
	}
	v.Set("passes_allowed_forward", Count(forward))
	v.Set("passes_allowed_backward", Count(backward))
	v.Set("passes_allowed_lateral", Count(lateral))
	v.Set("average_pass_length_allowed", Value{Num: mean(lengths)})
	v.Set("long_passes_allowed_midfield", Count(long))

	before, consecutive, seqLen, breakRate := passChains(ctx)
	v.Set("passes_before_interception", Num(before))
	v.Set("consecutive_passes_allowed_midfield", Num(consecutive))
	v.Set("pass_sequence_length_allowed", Num(seqLen))
	v.Set("pass_chain_break_rate", Num(breakRate))

	v.Set("passes_allowed_left_to_right", Count(l2r))
	v.Set("passes_allowed_right_to_left", Count(r2l))
	v.Set("passes_allowed_center_to_wide", Count(c2w))
	v.Set("passes_allowed_wide_to_center", Count(w2c))

	d2f := 0
	for _, ev := range ended {
		if *ev.X < 40 && *ev.PassEndX > ctx.Cfg.Pitch.FinalThirdX {
			d2f++
		}
	}
	v.Set("passes_allowed_defensive_to_final", Count(d2f))
	return v, nil
}

// passChains walks each opponent possession in event order and relates
// its passes to the first interception by the evaluated team.
func passChains(ctx *Context) (before, consecutive, seqLen, breakRate float64) {
	groups := ctx.possessionEvents()
	oppPoss := ctx.opponentPossessionIDs()

	var beforeVals, consecVals, seqVals []float64
	broken := 0
	for _, poss := range oppPoss {
		var passes []*model.Event
		var firstInterception *model.Event
		for _, ev := range groups[poss] {
			if ev.TypeName == "Pass" {
				passes = append(passes, ev)
			}
			if firstInterception == nil && ev.TypeName == "Interception" && ev.TeamIs(ctx.TeamID) {
				firstInterception = ev
			}
		}

		if firstInterception != nil {
			n := 0
			for _, p := range passes {
				if p.Index < firstInterception.Index {
					n++
				}
			}
			beforeVals = append(beforeVals, float64(n))
			consecVals = append(consecVals, float64(n))
			if len(passes) > 0 && n < len(passes) {
				broken++
			}
		} else {
			consecVals = append(consecVals, float64(len(passes)))
		}
		if len(passes) > 0 {
			seqVals = append(seqVals, float64(len(passes)))
		}
	}

	if m := mean(beforeVals); m != nil {
		before = *m
	}
	if m := mean(consecVals); m != nil {
		consecutive = *m
	}
	if m := mean(seqVals); m != nil {
		seqLen = *m
	}
	breakRate = ratio(float64(broken), float64(len(oppPoss)))
	return before, consecutive, seqLen, breakRate
}
