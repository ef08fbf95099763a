package features

import (
	"math"

	"github.com/jbadia/go-sb-metrics/internal/model"
)

// computeSpatialCompactness describes the shape of the defensive block:
// width, depth, lane balance, grid coverage and clustering of the
// evaluated team's defensive actions in the midfield band.
func computeSpatialCompactness(ctx *Context) (Values, error) {
	defensive := ctx.teamZoneDefensive()

	var v Values
	width := perPossessionSpread(defensive, func(ev *model.Event) *float64 { return ev.Y })
	depth := perPossessionSpread(defensive, func(ev *model.Event) *float64 { return ev.X })
	v.Set("midfield_defensive_width", Value{Num: width})
	v.Set("midfield_defensive_depth", Value{Num: depth})

	var compactness *float64
	if width != nil && depth != nil && *depth > 0 {
		compactness = fptr(*width / *depth)
	}
	v.Set("midfield_compactness_index", Value{Num: compactness})

	central := 0
	for _, ev := range defensive {
		if ev.Y != nil && *ev.Y >= 35 && *ev.Y <= 45 {
			central++
		}
	}
	v.Set("midfield_central_concentration", Num(ratio(float64(central), float64(len(defensive)))))

	perPoss := make(map[int]int)
	for _, ev := range defensive {
		perPoss[ev.Possession]++
	}
	density := 0.0
	if len(perPoss) > 0 {
		total := 0
		for _, n := range perPoss {
			total += n
		}
		density = float64(total) / float64(len(perPoss))
	}
	v.Set("midfield_player_density", Num(density))

	left, cen, right := 0, 0, 0
	for _, ev := range defensive {
		if ev.Y == nil {
			continue
		}
		if *ev.Y < 40 {
			left++
		}
		if *ev.Y >= 35 && *ev.Y <= 45 {
			cen++
		}
		if *ev.Y > 40 {
			right++
		}
	}
	v.Set("midfield_left_zone_coverage", Count(left))
	v.Set("midfield_central_zone_coverage", Count(cen))
	v.Set("midfield_right_zone_coverage", Count(right))
	v.Set("midfield_zone_balance", Value{Num: std([]float64{float64(left), float64(cen), float64(right)})})

	v.Set("midfield_coverage_gaps_count", Count(coverageGaps(ctx, defensive)))

	var xs, ys []float64
	for _, ev := range defensive {
		if ev.X != nil {
			xs = append(xs, *ev.X)
		}
		if ev.Y != nil {
			ys = append(ys, *ev.Y)
		}
	}
	v.Set("midfield_defensive_actions_x_mean", Value{Num: mean(xs)})
	v.Set("midfield_defensive_actions_x_std", Value{Num: sampleStd(xs)})
	v.Set("midfield_defensive_actions_y_mean", Value{Num: mean(ys)})
	v.Set("midfield_defensive_actions_y_std", Value{Num: sampleStd(ys)})

	v.Set("midfield_defensive_actions_clustering", Num(clustering(defensive)))
	return v, nil
}

// perPossessionSpread averages max-min of a coordinate per possession,
// over possessions with at least one located value. Nil with no input.
func perPossessionSpread(events []*model.Event, coord func(*model.Event) *float64) *float64 {
	type rng struct{ lo, hi float64 }
	ranges := make(map[int]*rng)
	for _, ev := range events {
		c := coord(ev)
		if c == nil {
			continue
		}
		r, ok := ranges[ev.Possession]
		if !ok {
			ranges[ev.Possession] = &rng{lo: *c, hi: *c}
			continue
		}
		if *c < r.lo {
			r.lo = *c
		}
		if *c > r.hi {
			r.hi = *c
		}
	}
	var spreads []float64
	for _, r := range ranges {
		spreads = append(spreads, r.hi-r.lo)
	}
	return mean(spreads)
}

// coverageGaps bins located defensive actions into a 3x3 grid over the
// midfield band and counts cells below 5% of the mean cell count.
// Actions exactly on the far edge of the last bin fall outside the grid.
func coverageGaps(ctx *Context, defensive []*model.Event) int {
	if len(defensive) == 0 {
		return 0
	}
	xmin, xmax := ctx.zone()
	xBins := []float64{xmin, 53.33, 66.67, xmax}
	yBins := []float64{0, 26.67, 53.33, 80}

	var grid [3][3]float64
	for _, ev := range defensive {
		if ev.X == nil || ev.Y == nil {
			continue
		}
		xi, ok1 := binIndex(*ev.X, xBins)
		yi, ok2 := binIndex(*ev.Y, yBins)
		if ok1 && ok2 {
			grid[xi][yi]++
		}
	}

	total := 0.0
	for i := range grid {
		for j := range grid[i] {
			total += grid[i][j]
		}
	}
	threshold := total / 9 * 0.05
	gaps := 0
	for i := range grid {
		for j := range grid[i] {
			if grid[i][j] < threshold {
				gaps++
			}
		}
	}
	return gaps
}

func binIndex(v float64, bins []float64) (int, bool) {
	for i := 0; i < len(bins)-1; i++ {
		if v >= bins[i] && v < bins[i+1] {
			return i, true
		}
	}
	return 0, false
}

// clustering is the inverse mean nearest-neighbor distance of located
// defensive actions, 0 with fewer than two points.
func clustering(defensive []*model.Event) float64 {
	type pt struct{ x, y float64 }
	var pts []pt
	for _, ev := range defensive {
		if ev.HasLocation() {
			pts = append(pts, pt{*ev.X, *ev.Y})
		}
	}
	if len(pts) < 2 {
		return 0
	}
	var nearest []float64
	for i := range pts {
		best := math.Inf(1)
		for j := range pts {
			if i == j {
				continue
			}
			d := math.Hypot(pts[i].x-pts[j].x, pts[i].y-pts[j].y)
			if d < best {
				best = d
			}
		}
		nearest = append(nearest, best)
	}
	m := *mean(nearest)
	if m > 0 {
		return 1 / (m + 1e-6)
	}
	return 0
}
