package features

import "strings"

// computePlayerTactical breaks midfield defensive work down by player
// and adds formation context. Zone coverage expands into one per-player
// map for each coordinate statistic; players with a single located event
// carry no deviation entry.
func computePlayerTactical(ctx *Context) (Values, error) {
	teamZone := ctx.teamZoneEvents()

	interceptions := make(map[int]float64)
	recoveries := make(map[int]float64)
	pressures := make(map[int]float64)
	duels := make(map[int]float64)
	duelsWon := make(map[int]float64)
	players := make(map[int]bool)

	for _, ev := range teamZone {
		if ev.PlayerID == nil {
			continue
		}
		pid := *ev.PlayerID
		players[pid] = true
		switch ev.TypeName {
		case "Interception":
			interceptions[pid]++
		case "Ball Recovery":
			recoveries[pid]++
		case "Pressure":
			pressures[pid]++
		case "Duel":
			duels[pid]++
			if ev.DuelOutcome != nil && strings.Contains(*ev.DuelOutcome, "Won") {
				duelsWon[pid]++
			}
		}
	}

	winRates := make(map[int]float64)
	for pid, n := range duels {
		winRates[pid] = duelsWon[pid] / n
	}

	var v Values
	v.Set("midfielder_interceptions_per_player", Value{PerPlayer: interceptions})
	v.Set("midfielder_recoveries_per_player", Value{PerPlayer: recoveries})
	v.Set("midfielder_pressures_per_player", Value{PerPlayer: pressures})
	v.Set("midfielder_duel_win_rate_per_player", Value{PerPlayer: winRates})

	xMean := make(map[int]float64)
	xStd := make(map[int]float64)
	yMean := make(map[int]float64)
	yStd := make(map[int]float64)
	for pid := range players {
		var xs, ys []float64
		for _, ev := range teamZone {
			if ev.PlayerID == nil || *ev.PlayerID != pid {
				continue
			}
			if ev.X != nil {
				xs = append(xs, *ev.X)
			}
			if ev.Y != nil {
				ys = append(ys, *ev.Y)
			}
		}
		if m := mean(xs); m != nil {
			xMean[pid] = *m
		}
		if s := sampleStd(xs); s != nil {
			xStd[pid] = *s
		}
		if m := mean(ys); m != nil {
			yMean[pid] = *m
		}
		if s := sampleStd(ys); s != nil {
			yStd[pid] = *s
		}
	}
	v.Set("midfielder_zone_coverage_x_mean", Value{PerPlayer: xMean})
	v.Set("midfielder_zone_coverage_x_std", Value{PerPlayer: xStd})
	v.Set("midfielder_zone_coverage_y_mean", Value{PerPlayer: yMean})
	v.Set("midfielder_zone_coverage_y_std", Value{PerPlayer: yStd})

	v.Set("formation_type", Value{Num: formationType(ctx)})
	v.Set("midfield_player_count", Count(len(players)))

	var xs, ys []float64
	for _, ev := range teamZone {
		if ev.X != nil {
			xs = append(xs, *ev.X)
		}
		if ev.Y != nil {
			ys = append(ys, *ev.Y)
		}
	}
	v.Set("midfield_width_utilization", Value{Num: sampleStd(ys)})
	v.Set("midfield_depth_utilization", Value{Num: mean(xs)})
	return v, nil
}

// formationType is the formation from the team's first Starting XI event.
func formationType(ctx *Context) *float64 {
	for i := range ctx.Events {
		ev := &ctx.Events[i]
		if ev.TypeName == "Starting XI" && ev.TeamIs(ctx.TeamID) {
			if ev.Formation != nil {
				return fptr(float64(*ev.Formation))
			}
			return nil
		}
	}
	return nil
}
