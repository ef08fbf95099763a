package features

import "strings"

// computeComposite blends phase-one outputs and a few recomputed base
// rates into summary indicators. Runs in phase two: ctx.Prior holds the
// merged numeric feature map of the earlier modules.
func computeComposite(ctx *Context) (Values, error) {
	var v Values
	v.Set("midfield_strength_index", Num(strengthIndex(ctx)))
	v.Set("bypass_risk_score", Num(bypassRiskScore(ctx)))
	v.Set("bypass_risk_factors", Text(strings.Join(bypassRiskFactors(ctx), ",")))
	v.Set("defensive_action_efficiency", Num(actionEfficiency(ctx)))
	v.Set("pressure_to_interception_ratio", Num(pressureToInterception(ctx)))

	var recX []float64
	for _, ev := range ctx.teamZoneEvents() {
		if ev.TypeName == "Ball Recovery" {
			recX = append(recX, *ev.X)
		}
	}
	v.Set("recovery_quality_score", Value{Num: mean(recX)})
	return v, nil
}

// normalize scales a value into [0, 1] against fixed bounds. Equal
// bounds collapse to the midpoint.
func normalize(value, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	n := (value - min) / (max - min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func strengthIndex(ctx *Context) float64 {
	oppPoss := float64(len(ctx.opponentPossessionIDs()))

	interceptions, recoveries := 0, 0
	for _, ev := range ctx.teamZoneEvents() {
		switch ev.TypeName {
		case "Interception":
			interceptions++
		case "Ball Recovery":
			recoveries++
		}
	}
	interceptionRate := ratio(float64(interceptions), oppPoss)

	// Whole minutes only here; the per-module recovery rate keeps the
	// seconds fraction.
	matchMinutes := 90.0
	if len(ctx.Events) > 0 {
		maxMin := 0
		for i := range ctx.Events {
			if ctx.Events[i].Minute > maxMin {
				maxMin = ctx.Events[i].Minute
			}
		}
		matchMinutes = float64(maxMin)
	}
	recoveryRate := ratio(float64(recoveries), matchMinutes)

	oppZone := ctx.opponentZoneEvents()
	pressured := 0
	for _, ev := range oppZone {
		if ev.UnderPressure {
			pressured++
		}
	}
	pressureIntensity := ratio(float64(pressured), float64(len(oppZone))) * 100

	bypassAttempts := ctx.Prior["bypass_attempts_total"]
	bypassPrevention := 1.0
	if oppPoss > 0 {
		bypassPrevention = 1 - bypassAttempts/oppPoss
	}

	// Shape over all located team zone events, not just defensive types.
	compactness := 1.0
	var xs, ys []float64
	for _, ev := range ctx.teamZoneEvents() {
		if ev.HasLocation() {
			xs = append(xs, *ev.X)
			ys = append(ys, *ev.Y)
		}
	}
	if len(xs) > 0 {
		width := *maxOf(ys) - *minOf(ys)
		depth := *maxOf(xs) - *minOf(xs)
		if depth > 0 {
			compactness = width / depth
		}
	}

	return 0.25*normalize(interceptionRate, 0, 1) +
		0.25*normalize(recoveryRate, 0, 5) +
		0.20*normalize(pressureIntensity, 0, 100) +
		0.20*bypassPrevention +
		0.10*(1-normalize(compactness, 0, 2))
}

func bypassRiskScore(ctx *Context) float64 {
	dangerous := ctx.Prior["progressive_passes_allowed_midfield"] +
		ctx.Prior["through_balls_allowed_midfield"] +
		ctx.Prior["carries_through_midfield"]
	risk := ratio(dangerous, float64(len(ctx.opponentPossessionIDs())))
	return normalize(risk, 0, 10)
}

func bypassRiskFactors(ctx *Context) []string {
	oppPoss := float64(len(ctx.opponentPossessionIDs()))
	bypassPrevention := 1.0
	if oppPoss > 0 {
		bypassPrevention = 1 - ctx.Prior["bypass_attempts_total"]/oppPoss
	}

	var factors []string
	if ctx.Prior["progressive_passes_allowed_midfield"] > 50 {
		factors = append(factors, "high_progressive_passes")
	}
	if ctx.Prior["through_balls_allowed_midfield"] > 10 {
		factors = append(factors, "high_through_balls")
	}
	if ctx.Prior["carries_through_midfield"] > 20 {
		factors = append(factors, "high_carries_through")
	}
	if bypassPrevention < 0.5 {
		factors = append(factors, "low_bypass_prevention")
	}
	return factors
}

func actionEfficiency(ctx *Context) float64 {
	successful := 0
	for _, ev := range ctx.teamZoneEvents() {
		switch ev.TypeName {
		case "Interception", "Ball Recovery":
			successful++
		case "Duel":
			if ev.DuelOutcome != nil && strings.Contains(*ev.DuelOutcome, "Won") {
				successful++
			}
		}
	}
	return ratio(float64(successful), float64(len(ctx.opponentZoneEvents()))) * 100
}

func pressureToInterception(ctx *Context) float64 {
	interceptions := 0
	for _, ev := range ctx.teamZoneEvents() {
		if ev.TypeName == "Interception" {
			interceptions++
		}
	}
	pressured := 0
	for _, ev := range ctx.opponentZoneEvents() {
		if ev.UnderPressure {
			pressured++
		}
	}
	return ratio(float64(interceptions), float64(pressured))
}
