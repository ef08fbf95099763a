package features

import (
	"strings"

	"github.com/jbadia/go-sb-metrics/internal/model"
)

// computeRecoveryTransition covers the moments possession flips: winning
// the ball back in midfield, counter-pressing after losses, and how fast
// recoveries turn into attacks.
func computeRecoveryTransition(ctx *Context) (Values, error) {
	var recoveries []*model.Event
	for _, ev := range ctx.teamZoneEvents() {
		if ev.TypeName == "Ball Recovery" {
			recoveries = append(recoveries, ev)
		}
	}
	groups := ctx.possessionEvents()

	var v Values

	transition := 0
	for _, rec := range recoveries {
		for i := range ctx.Events {
			ev := &ctx.Events[i]
			if ev.OpponentPossession(ctx.TeamID) &&
				ev.Timestamp < rec.Timestamp &&
				seconds(rec.Timestamp-ev.Timestamp) <= 3 {
				transition++
				break
			}
		}
	}
	v.Set("midfield_transition_recoveries", Count(transition))
	v.Set("midfield_counter_press_events", Count(counterPress(ctx, groups)))
	v.Set("midfield_transition_to_attack", Value{Num: transitionToAttack(ctx, recoveries)})

	var recX []float64
	for _, rec := range recoveries {
		recX = append(recX, *rec.X)
	}
	v.Set("midfield_recovery_location_quality", Value{Num: mean(recX)})

	xmin, xmax := ctx.zone()
	won := 0
	for _, g := range groups {
		first := g[0]
		if first.InXBand(xmin, xmax) && first.PossessionTeamIs(ctx.TeamID) {
			won++
		}
	}
	v.Set("possession_won_midfield", Count(won))

	lost := 0
	for _, ev := range ctx.zoneEvents() {
		if ev.PossessionTeamIs(ctx.TeamID) {
			switch ev.TypeName {
			case "Dispossessed", "Miscontrol", "Error":
				lost++
			}
		}
	}
	v.Set("possession_lost_midfield", Count(lost))

	duels, duelsWon := 0, 0
	for _, ev := range ctx.zoneEvents() {
		if ev.TypeName != "Duel" {
			continue
		}
		duels++
		if ev.TeamIs(ctx.TeamID) && ev.DuelOutcome != nil && strings.Contains(*ev.DuelOutcome, "Won") {
			duelsWon++
		}
	}
	v.Set("midfield_possession_win_rate", Num(ratio(float64(duelsWon), float64(duels))))

	oppPoss := ctx.opponentPossessionIDs()
	turnovers := 0
	for _, poss := range oppPoss {
		g := groups[poss]
		last := g[len(g)-1]
		if last.TeamIs(ctx.TeamID) {
			switch last.TypeName {
			case "Interception", "Ball Recovery", "Duel":
				turnovers++
			}
		}
	}
	v.Set("midfield_turnover_rate", Num(ratio(float64(turnovers), float64(len(oppPoss)))))
	return v, nil
}

// counterPress counts team defensive actions (pressure included) within
// five seconds of the first loss event in each of the team's own
// possessions.
func counterPress(ctx *Context, groups map[int][]*model.Event) int {
	teamPoss := make(map[int]bool)
	for i := range ctx.Events {
		if ctx.Events[i].PossessionTeamIs(ctx.TeamID) {
			teamPoss[ctx.Events[i].Possession] = true
		}
	}

	total := 0
	for poss := range teamPoss {
		var loss *model.Event
		for _, ev := range groups[poss] {
			isLossType := ev.TypeName == "Dispossessed" || ev.TypeName == "Miscontrol" || ev.TypeName == "Error"
			if ev.OpponentPossession(ctx.TeamID) || isLossType {
				loss = ev
				break
			}
		}
		if loss == nil {
			continue
		}
		for i := range ctx.Events {
			ev := &ctx.Events[i]
			if !ev.TeamIs(ctx.TeamID) {
				continue
			}
			switch ev.TypeName {
			case "Interception", "Duel", "Ball Recovery", "Pressure", "Block":
			default:
				continue
			}
			if ev.Timestamp >= loss.Timestamp && seconds(ev.Timestamp-loss.Timestamp) <= 5 {
				total++
			}
		}
	}
	return total
}

// transitionToAttack averages the delay from each midfield recovery to
// the team's next attacking action.
func transitionToAttack(ctx *Context, recoveries []*model.Event) *float64 {
	var delays []float64
	for _, rec := range recoveries {
		var best *model.Event
		for i := range ctx.Events {
			ev := &ctx.Events[i]
			if !ev.TeamIs(ctx.TeamID) || ev.Timestamp <= rec.Timestamp {
				continue
			}
			switch ev.TypeName {
			case "Pass", "Shot", "Carry", "Dribble":
				if best == nil || ev.Timestamp < best.Timestamp {
					best = ev
				}
			}
		}
		if best != nil {
			delays = append(delays, seconds(best.Timestamp-rec.Timestamp))
		}
	}
	return mean(delays)
}
