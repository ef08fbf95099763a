package features

// computeTemporal summarizes when in the match the midfield band sees
// action: clock statistics of zone events, per-half volumes, and early
// and late defensive work by the evaluated team.
func computeTemporal(ctx *Context) (Values, error) {
	zone := ctx.zoneEvents()

	var minutes []float64
	firstHalf, secondHalf := 0, 0
	for _, ev := range zone {
		minutes = append(minutes, float64(ev.Minute))
		switch ev.Period {
		case 1:
			firstHalf++
		case 2:
			secondHalf++
		}
	}

	var v Values
	v.Set("midfield_events_minute_mean", Value{Num: mean(minutes)})
	v.Set("midfield_events_minute_min", Value{Num: minOf(minutes)})
	v.Set("midfield_events_minute_max", Value{Num: maxOf(minutes)})
	v.Set("midfield_events_minute_std", Value{Num: sampleStd(minutes)})
	v.Set("midfield_events_first_half", Count(firstHalf))
	v.Set("midfield_events_second_half", Count(secondHalf))
	v.Set("midfield_events_per_minute", Num(ratio(float64(len(zone)), ctx.matchMinutes())))

	early, late := 0, 0
	for _, ev := range ctx.teamZoneDefensive() {
		if ev.Minute < 15 {
			early++
		}
		if ev.Minute > 75 {
			late++
		}
	}
	v.Set("early_defensive_actions_midfield", Count(early))
	v.Set("late_defensive_actions_midfield", Count(late))
	return v, nil
}
