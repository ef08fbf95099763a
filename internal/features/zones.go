package features

import "github.com/jbadia/go-sb-metrics/internal/model"

// computeZoneSpecific measures traffic across the two midfield borders
// and full defensive-third-to-final-third bypasses. Unlike the other
// pass/carry modules these filters are not restricted to events starting
// inside the band; the crossing itself is the subject.
func computeZoneSpecific(ctx *Context) (Values, error) {
	var oppPasses, oppCarries []*model.Event
	for i := range ctx.Events {
		ev := &ctx.Events[i]
		if !ev.OpponentPossession(ctx.TeamID) {
			continue
		}
		switch ev.TypeName {
		case "Pass":
			if ev.X != nil && ev.PassEndX != nil {
				oppPasses = append(oppPasses, ev)
			}
		case "Carry":
			if ev.X != nil && ev.CarryEndX != nil {
				oppCarries = append(oppCarries, ev)
			}
		}
	}
	xmin, xmax := ctx.zone()

	entryPasses, entryCarries := 0, 0
	exitPasses, exitCarries := 0, 0
	for _, ev := range oppPasses {
		if *ev.X < xmin && *ev.PassEndX >= xmin {
			entryPasses++
		}
		if *ev.X >= xmin && *ev.X <= xmax && *ev.PassEndX > xmax {
			exitPasses++
		}
	}
	for _, ev := range oppCarries {
		if *ev.X < xmin && *ev.CarryEndX >= xmin {
			entryCarries++
		}
		if *ev.X >= xmin && *ev.X <= xmax && *ev.CarryEndX > xmax {
			exitCarries++
		}
	}

	entryInterceptions := interceptionsInBand(ctx, xmin-2, xmin+2)
	exitInterceptions := interceptionsInBand(ctx, xmax-2, xmax+2)

	var v Values
	v.Set("defensive_to_midfield_passes_allowed", Count(entryPasses))
	v.Set("defensive_to_midfield_carries_allowed", Count(entryCarries))
	entryRate := ratio(float64(entryInterceptions), float64(entryPasses+entryCarries))
	v.Set("defensive_to_midfield_prevention_rate", Num(entryRate))
	v.Set("defensive_to_midfield_interception_rate", Num(entryRate))

	v.Set("midfield_to_final_passes_allowed", Count(exitPasses))
	v.Set("midfield_to_final_carries_allowed", Count(exitCarries))
	exitRate := ratio(float64(exitInterceptions), float64(exitPasses+exitCarries))
	v.Set("midfield_to_final_prevention_rate", Num(exitRate))
	v.Set("midfield_to_final_interception_rate", Num(exitRate))

	groups := ctx.possessionEvents()
	oppPoss := ctx.opponentPossessionIDs()
	attempts := 0
	for _, poss := range oppPoss {
		g := groups[poss]
		first := g[0]
		if first.X == nil || *first.X >= xmin {
			continue
		}
		for _, ev := range g {
			if ev.X != nil && *ev.X > xmax {
				attempts++
				break
			}
		}
	}
	v.Set("bypass_attempts_total", Count(attempts))

	prevention := 0.0
	if len(oppPoss) > 0 {
		prevention = 1 - float64(attempts)/float64(len(oppPoss))
	}
	v.Set("bypass_prevention_rate", Num(prevention))
	return v, nil
}

// interceptionsInBand counts team interceptions inside a narrow x band
// around a zone border.
func interceptionsInBand(ctx *Context, lo, hi float64) int {
	n := 0
	for i := range ctx.Events {
		ev := &ctx.Events[i]
		if ev.TypeName == "Interception" && ev.TeamIs(ctx.TeamID) && ev.InXBand(lo, hi) {
			n++
		}
	}
	return n
}
