package features

import (
	"math"

	"github.com/jbadia/go-sb-metrics/internal/model"
)

// computeCarrying describes opponent ball carries through the midfield
// band and how often the evaluated team cut them short.
func computeCarrying(ctx *Context) (Values, error) {
	var carries []*model.Event
	for _, ev := range ctx.opponentZoneEvents() {
		if ev.TypeName == "Carry" {
			carries = append(carries, ev)
		}
	}
	var ended []*model.Event
	for _, ev := range carries {
		if ev.CarryEndX != nil && ev.CarryEndY != nil {
			ended = append(ended, ev)
		}
	}

	var v Values
	v.Set("carries_allowed_midfield_total", Count(len(carries)))
	v.Set("carries_interrupted_midfield", Count(carriesInterrupted(ctx, carries)))

	var dists []float64
	for _, ev := range ended {
		dists = append(dists, math.Hypot(*ev.CarryEndX-*ev.X, *ev.CarryEndY-*ev.Y))
	}
	v.Set("carry_distance_allowed", Value{Num: mean(dists)})

	entering, exiting, through := 0, 0, 0
	forward, lateral := 0, 0
	central, wide := 0, 0
	var progressions []float64
	for _, ev := range ended {
		if *ev.X < 40 && *ev.CarryEndX >= 40 {
			entering++
		}
		if *ev.X <= 80 && *ev.CarryEndX > 80 {
			exiting++
		}
		if *ev.X < 40 && *ev.CarryEndX > 80 {
			through++
		}
		progressions = append(progressions, *ev.CarryEndX-*ev.X)
		if *ev.CarryEndX > *ev.X {
			forward++
		}
		if math.Abs(*ev.CarryEndY-*ev.Y) > math.Abs(*ev.CarryEndX-*ev.X) {
			lateral++
		}
		if ev.Y != nil && *ev.Y >= 35 && *ev.Y <= 45 {
			central++
		} else if ev.Y != nil {
			wide++
		}
	}
	v.Set("carries_entering_midfield", Count(entering))
	v.Set("carries_exiting_midfield", Count(exiting))
	v.Set("carries_through_midfield", Count(through))
	v.Set("carry_progression_allowed", Value{Num: mean(progressions)})
	v.Set("carries_forward_allowed", Count(forward))
	v.Set("carries_lateral_allowed", Count(lateral))
	v.Set("carries_central_lane", Count(central))
	v.Set("carries_wide_areas", Count(wide))
	return v, nil
}

// carriesInterrupted counts carries followed by a team defensive action
// within two seconds.
func carriesInterrupted(ctx *Context, carries []*model.Event) int {
	var defensive []*model.Event
	for i := range ctx.Events {
		ev := &ctx.Events[i]
		if ev.TeamIs(ctx.TeamID) && ev.IsDefensiveAction() {
			defensive = append(defensive, ev)
		}
	}

	interrupted := 0
	for _, carry := range carries {
		for _, da := range defensive {
			if da.Timestamp >= carry.Timestamp && seconds(da.Timestamp-carry.Timestamp) <= 2 {
				interrupted++
				break
			}
		}
	}
	return interrupted
}
