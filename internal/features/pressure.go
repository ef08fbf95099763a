package features

import "github.com/jbadia/go-sb-metrics/internal/model"

// computePressureTempo measures how quickly and how hard opponents are
// pressured while in midfield possession.
func computePressureTempo(ctx *Context) (Values, error) {
	oppZone := ctx.opponentZoneEvents()
	var pressured []*model.Event
	for _, ev := range oppZone {
		if ev.UnderPressure {
			pressured = append(pressured, ev)
		}
	}
	starts := ctx.possessionStarts()
	groups := ctx.possessionEvents()

	var v Values
	v.Set("midfield_pressure_events_total", Count(len(pressured)))
	v.Set("midfield_pressure_rate", Num(ratio(float64(len(pressured)), ctx.matchMinutes())))

	in5s, in10s := 0, 0
	firstByPoss := make(map[int]*model.Event)
	for _, ev := range pressured {
		t0, ok := starts[ev.Possession]
		if !ok {
			continue
		}
		d := seconds(ev.Timestamp - t0)
		if d <= 5 {
			in5s++
		}
		if d <= 10 {
			in10s++
		}
		if f, seen := firstByPoss[ev.Possession]; !seen || ev.Timestamp < f.Timestamp {
			firstByPoss[ev.Possession] = ev
		}
	}
	v.Set("midfield_pressure_in_first_5s", Count(in5s))
	v.Set("midfield_pressure_in_first_10s", Count(in10s))

	var firstDelays []float64
	for poss, ev := range firstByPoss {
		firstDelays = append(firstDelays, seconds(ev.Timestamp-starts[poss]))
	}
	v.Set("midfield_time_to_first_pressure", Value{Num: mean(firstDelays)})

	left, center, right := 0, 0, 0
	for _, ev := range pressured {
		if ev.Y == nil {
			continue
		}
		switch {
		case *ev.Y < 26.67:
			left++
		case *ev.Y <= 53.33:
			center++
		default:
			right++
		}
	}
	v.Set("midfield_pressure_zone_left", Count(left))
	v.Set("midfield_pressure_zone_center", Count(center))
	v.Set("midfield_pressure_zone_right", Count(right))

	onPasses, onReceipts := 0, 0
	for _, ev := range pressured {
		switch ev.TypeName {
		case "Pass":
			onPasses++
		case "Ball Receipt*":
			onReceipts++
		}
	}
	v.Set("midfield_pressure_on_passes", Count(onPasses))
	v.Set("midfield_pressure_on_receipts", Count(onReceipts))

	v.Set("midfield_reaction_time", Value{Num: reactionTime(ctx, oppZone)})
	v.Set("midfield_pressing_intensity", Num(pressingIntensity(ctx, groups)))

	immediate := 0
	for _, ev := range pressured {
		if t0, ok := starts[ev.Possession]; ok && seconds(ev.Timestamp-t0) <= 2 {
			immediate++
		}
	}
	v.Set("midfield_immediate_pressure_rate", Num(ratio(float64(immediate), float64(len(oppZone)))))

	v.Set("midfield_pressure_persistence", Value{Num: pressurePersistence(ctx, groups)})
	return v, nil
}

// reactionTime averages, per opponent zone event, the delay to the next
// defensive action by the evaluated team anywhere in the zone.
func reactionTime(ctx *Context, oppZone []*model.Event) *float64 {
	defensive := ctx.teamZoneDefensive()
	var delays []float64
	for _, opp := range oppZone {
		best := -1.0
		for _, da := range defensive {
			if da.Timestamp > opp.Timestamp {
				d := seconds(da.Timestamp - opp.Timestamp)
				if best < 0 || d < best {
					best = d
				}
			}
		}
		if best >= 0 {
			delays = append(delays, best)
		}
	}
	return mean(delays)
}

// pressingIntensity averages events-per-second over the first ten
// seconds of each opponent possession.
func pressingIntensity(ctx *Context, groups map[int][]*model.Event) float64 {
	var intensities []float64
	for _, poss := range ctx.opponentPossessionIDs() {
		g := groups[poss]
		if len(g) == 0 {
			continue
		}
		t0 := g[0].Timestamp
		n := 0
		last := t0
		for _, ev := range g {
			if seconds(ev.Timestamp-t0) <= 10 {
				n++
				last = ev.Timestamp
			}
		}
		if d := seconds(last - t0); n > 0 && d > 0 {
			intensities = append(intensities, float64(n)/d)
		}
	}
	if m := mean(intensities); m != nil {
		return *m
	}
	return 0
}

// pressurePersistence averages the first-to-last pressured-event span per
// opponent possession, over possessions with more than one pressured
// zone event.
func pressurePersistence(ctx *Context, groups map[int][]*model.Event) *float64 {
	xmin, xmax := ctx.zone()
	var spans []float64
	for _, poss := range ctx.opponentPossessionIDs() {
		var pressures []*model.Event
		for _, ev := range groups[poss] {
			if ev.OpponentPossession(ctx.TeamID) && ev.InXBand(xmin, xmax) && ev.UnderPressure {
				pressures = append(pressures, ev)
			}
		}
		if len(pressures) > 1 {
			spans = append(spans, seconds(pressures[len(pressures)-1].Timestamp-pressures[0].Timestamp))
		}
	}
	return mean(spans)
}
