package features

import "github.com/jbadia/go-sb-metrics/internal/model"

// computeAccessControl measures how freely the opposition moves the ball
// through the midfield band: progressive passes, through balls and
// switches of play allowed, with how often each kind broke down.
func computeAccessControl(ctx *Context) (Values, error) {
	var passes []*model.Event
	for _, ev := range ctx.opponentZoneEvents() {
		if ev.TypeName == "Pass" {
			passes = append(passes, ev)
		}
	}

	var progressive, through, switches []*model.Event
	for _, ev := range passes {
		if isProgressivePass(ev) {
			progressive = append(progressive, ev)
		}
		if ev.PassThroughBall {
			through = append(through, ev)
		}
		if ev.PassSwitch {
			switches = append(switches, ev)
		}
	}

	var v Values
	v.Set("progressive_passes_allowed_midfield", Count(len(progressive)))
	v.Set("progressive_pass_prevention_rate", Num(incompleteShare(progressive)))

	central, wide := 0, 0
	var progDist, progAngle []float64
	for _, ev := range progressive {
		if ev.Y != nil {
			if *ev.Y >= 35 && *ev.Y <= 45 {
				central++
			} else {
				wide++
			}
		}
		if ev.PassLength != nil {
			progDist = append(progDist, *ev.PassLength)
		}
		if ev.PassAngle != nil {
			progAngle = append(progAngle, *ev.PassAngle)
		}
	}
	v.Set("progressive_passes_central_lane", Count(central))
	v.Set("progressive_passes_wide", Count(wide))
	v.Set("progressive_pass_distance_allowed", Value{Num: mean(progDist)})
	v.Set("progressive_pass_angle_allowed", Value{Num: mean(progAngle)})

	v.Set("through_balls_allowed_midfield", Count(len(through)))
	v.Set("through_ball_prevention_rate", Num(incompleteShare(through)))
	final := 0
	for _, ev := range through {
		if ev.PassEndX != nil && *ev.PassEndX > ctx.Cfg.Pitch.FinalThirdX {
			final++
		}
	}
	v.Set("through_balls_ending_final_third", Count(final))

	v.Set("switches_allowed_midfield", Count(len(switches)))
	v.Set("switch_prevention_rate", Num(incompleteShare(switches)))
	var switchDist []float64
	for _, ev := range switches {
		if ev.PassLength != nil {
			switchDist = append(switchDist, *ev.PassLength)
		}
	}
	v.Set("switch_distance_allowed", Value{Num: mean(switchDist)})
	return v, nil
}

// incompleteShare is the fraction of passes whose outcome is Incomplete,
// 0 when the set is empty.
func incompleteShare(passes []*model.Event) float64 {
	broken := 0
	for _, ev := range passes {
		if ev.OutcomeName != nil && *ev.OutcomeName == "Incomplete" {
			broken++
		}
	}
	return ratio(float64(broken), float64(len(passes)))
}
