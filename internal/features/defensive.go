package features

import (
	"strings"
	"time"

	"github.com/jbadia/go-sb-metrics/internal/model"
)

// computeDefensiveActions covers interceptions, ball recoveries and
// duels won by the evaluated team inside the midfield band.
func computeDefensiveActions(ctx *Context) (Values, error) {
	var interceptions, recoveries, duels []*model.Event
	for _, ev := range ctx.teamZoneEvents() {
		switch ev.TypeName {
		case "Interception":
			interceptions = append(interceptions, ev)
		case "Ball Recovery":
			recoveries = append(recoveries, ev)
		case "Duel":
			duels = append(duels, ev)
		}
	}

	var v Values
	v.Set("midfield_interceptions_total", Count(len(interceptions)))
	v.Set("midfield_interceptions_per_possession",
		Num(ratio(float64(len(interceptions)), float64(len(ctx.opponentPossessionIDs())))))

	success := 0
	central, wide := 0, 0
	for _, ev := range interceptions {
		if ev.InterceptionOutcome != nil && *ev.InterceptionOutcome == "Success In Play" {
			success++
		}
		if ev.Y != nil {
			if *ev.Y >= 30 && *ev.Y <= 50 {
				central++
			} else {
				wide++
			}
		}
	}
	v.Set("midfield_interception_success_rate", Num(ratio(float64(success), float64(len(interceptions)))))
	v.Set("midfield_interceptions_central", Count(central))
	v.Set("midfield_interceptions_wide", Count(wide))
	v.Set("midfield_interceptions_progressive", Count(progressiveIntercepted(ctx, interceptions)))
	v.Set("midfield_interception_time_to_event", Value{Num: timeToFirst(ctx, interceptions)})

	v.Set("midfield_recoveries_total", Count(len(recoveries)))
	v.Set("midfield_recovery_rate", Num(ratio(float64(len(recoveries)), ctx.matchMinutes())))

	clean := 0
	for _, ev := range recoveries {
		if !ev.RecoveryFailure {
			clean++
		}
	}
	v.Set("midfield_recovery_success_rate", Num(ratio(float64(clean), float64(len(recoveries)))))
	v.Set("midfield_recoveries_after_pressure", Count(afterPressure(ctx, recoveries)))

	var recX, recY []float64
	for _, ev := range recoveries {
		if ev.X != nil {
			recX = append(recX, *ev.X)
		}
		if ev.Y != nil {
			recY = append(recY, *ev.Y)
		}
	}
	v.Set("midfield_recovery_locations_x", Value{Num: mean(recX)})
	v.Set("midfield_recovery_locations_y", Value{Num: mean(recY)})
	v.Set("midfield_recovery_time_to_event", Value{Num: timeToFirst(ctx, recoveries)})

	v.Set("midfield_duels_total", Count(len(duels)))

	won, aerialWon, groundWon, pressured := 0, 0, 0, 0
	var duelX, duelY []float64
	for _, ev := range duels {
		isWon := ev.DuelOutcome != nil && strings.Contains(*ev.DuelOutcome, "Won")
		if isWon {
			won++
		}
		if ev.DuelType != nil && strings.Contains(*ev.DuelType, "Aerial") && isWon {
			aerialWon++
		}
		if ev.DuelType != nil && strings.Contains(*ev.DuelType, "Ground") && isWon {
			groundWon++
		}
		if ev.UnderPressure {
			pressured++
		}
		if ev.X != nil {
			duelX = append(duelX, *ev.X)
		}
		if ev.Y != nil {
			duelY = append(duelY, *ev.Y)
		}
	}
	v.Set("midfield_duel_win_rate", Num(ratio(float64(won), float64(len(duels)))))
	v.Set("midfield_aerial_duels_won", Count(aerialWon))
	v.Set("midfield_ground_duels_won", Count(groundWon))
	v.Set("midfield_duels_under_pressure", Count(pressured))
	v.Set("midfield_duel_locations_x_mean", Value{Num: mean(duelX)})
	v.Set("midfield_duel_locations_x_std", Value{Num: sampleStd(duelX)})
	v.Set("midfield_duel_locations_y_mean", Value{Num: mean(duelY)})
	v.Set("midfield_duel_locations_y_std", Value{Num: sampleStd(duelY)})
	return v, nil
}

// progressiveIntercepted counts distinct progressive passes linked to an
// interception through related event ids.
func progressiveIntercepted(ctx *Context, interceptions []*model.Event) int {
	byID := make(map[string]*model.Event, len(ctx.Events))
	for i := range ctx.Events {
		if ctx.Events[i].EventID != "" {
			byID[ctx.Events[i].EventID] = &ctx.Events[i]
		}
	}
	intercepted := make(map[string]bool)
	for _, ic := range interceptions {
		for _, rel := range ic.RelatedEvents {
			p, ok := byID[rel]
			if ok && p.TypeName == "Pass" && isProgressivePass(p) {
				intercepted[p.EventID] = true
			}
		}
	}
	return len(intercepted)
}

// timeToFirst averages, over possessions containing at least one of the
// given actions, the delay from possession start to the first action.
func timeToFirst(ctx *Context, actions []*model.Event) *float64 {
	if len(actions) == 0 {
		return nil
	}
	first := make(map[int]time.Duration)
	for _, ev := range actions {
		if t, ok := first[ev.Possession]; !ok || ev.Timestamp < t {
			first[ev.Possession] = ev.Timestamp
		}
	}
	starts := ctx.possessionStarts()
	var diffs []float64
	for poss, t := range first {
		if t0, ok := starts[poss]; ok {
			diffs = append(diffs, seconds(t-t0))
		}
	}
	return mean(diffs)
}

// afterPressure counts actions preceded in the same possession by a
// pressure event inside the midfield band.
func afterPressure(ctx *Context, actions []*model.Event) int {
	xmin, xmax := ctx.zone()
	n := 0
	for _, act := range actions {
		for i := range ctx.Events {
			ev := &ctx.Events[i]
			if ev.Possession == act.Possession &&
				ev.TypeName == "Pressure" &&
				ev.Timestamp < act.Timestamp &&
				ev.InXBand(xmin, xmax) {
				n++
				break
			}
		}
	}
	return n
}
