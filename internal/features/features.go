// Package features computes the per-match midfield defensive feature
// set. Each module produces an ordered list of named values; modules run
// in a fixed order so output is deterministic. Phase-two modules see the
// merged numeric results of every phase-one module.
//
// Defaults contract: counts and rates default to 0 when their inputs are
// empty, while means, distances, angles and other shape statistics stay
// unknown (nil). A missing optional field never raises an error; the
// affected events simply drop out of the relevant filter.
package features

import (
	"math"
	"sort"
	"time"

	"github.com/jbadia/go-sb-metrics/internal/config"
	"github.com/jbadia/go-sb-metrics/internal/model"
)

// Value is one computed feature. Exactly one of the fields is set for
// scalar features; PerPlayer is set for player-keyed features.
type Value struct {
	Num       *float64
	Text      *string
	PerPlayer map[int]float64
}

// Num wraps a known numeric value.
func Num(v float64) Value { f := v; return Value{Num: &f} }

// Count wraps a known integer count.
func Count(n int) Value { return Num(float64(n)) }

// Unknown is a numeric value with no data behind it.
func Unknown() Value { return Value{} }

// Text wraps a known text value.
func Text(s string) Value { return Value{Text: &s} }

// Values is an insertion-ordered feature map.
type Values struct {
	names  []string
	byName map[string]Value
}

// Set records a feature, preserving first-insertion order.
func (v *Values) Set(name string, val Value) {
	if v.byName == nil {
		v.byName = make(map[string]Value)
	}
	if _, ok := v.byName[name]; !ok {
		v.names = append(v.names, name)
	}
	v.byName[name] = val
}

// Names returns feature names in insertion order.
func (v *Values) Names() []string { return v.names }

// Get returns a feature by name.
func (v *Values) Get(name string) (Value, bool) {
	val, ok := v.byName[name]
	return val, ok
}

// Len returns the number of features recorded.
func (v *Values) Len() int { return len(v.names) }

// Context carries the inputs a module computes from. Prior holds the
// merged numeric outputs of earlier modules and is only populated for
// phase-two modules.
type Context struct {
	Events   []model.Event
	TeamID   int
	TeamName string
	Cfg      *config.Config

	Prior map[string]float64
}

// Module is one named feature group.
type Module struct {
	Name     string
	PhaseTwo bool
	Compute  func(*Context) (Values, error)
}

// Modules returns the module registry in computation order.
func Modules() []Module {
	return []Module{
		{Name: "access_control", Compute: computeAccessControl},
		{Name: "defensive_actions", Compute: computeDefensiveActions},
		{Name: "pressure_tempo", Compute: computePressureTempo},
		{Name: "spatial_compactness", Compute: computeSpatialCompactness},
		{Name: "passing_features", Compute: computePassing},
		{Name: "carrying_features", Compute: computeCarrying},
		{Name: "recovery_transition", Compute: computeRecoveryTransition},
		{Name: "temporal_features", Compute: computeTemporal},
		{Name: "zone_specific", Compute: computeZoneSpecific},
		{Name: "player_tactical", Compute: computePlayerTactical},
		{Name: "composite_features", PhaseTwo: true, Compute: computeComposite},
		{Name: "contextual_features", PhaseTwo: true, Compute: computeContextual},
	}
}

// ---- shared filters ----

func (c *Context) zone() (xmin, xmax float64) {
	return c.Cfg.Zone.XMin, c.Cfg.Zone.XMax
}

// zoneEvents returns pointers to events with a known x inside the
// midfield band. Events without an x coordinate are excluded.
func (c *Context) zoneEvents() []*model.Event {
	xmin, xmax := c.zone()
	var out []*model.Event
	for i := range c.Events {
		if c.Events[i].InXBand(xmin, xmax) {
			out = append(out, &c.Events[i])
		}
	}
	return out
}

// opponentZoneEvents is zoneEvents restricted to spells of opponent
// possession.
func (c *Context) opponentZoneEvents() []*model.Event {
	var out []*model.Event
	for _, ev := range c.zoneEvents() {
		if ev.OpponentPossession(c.TeamID) {
			out = append(out, ev)
		}
	}
	return out
}

// teamZoneEvents is zoneEvents restricted to events acted by the
// evaluated team.
func (c *Context) teamZoneEvents() []*model.Event {
	var out []*model.Event
	for _, ev := range c.zoneEvents() {
		if ev.TeamIs(c.TeamID) {
			out = append(out, ev)
		}
	}
	return out
}

// teamZoneDefensive is teamZoneEvents restricted to the defensive action
// type set.
func (c *Context) teamZoneDefensive() []*model.Event {
	var out []*model.Event
	for _, ev := range c.teamZoneEvents() {
		if ev.IsDefensiveAction() {
			out = append(out, ev)
		}
	}
	return out
}

// opponentPossessionIDs returns the distinct source possession sequence
// ids held by the opposition, in ascending order.
func (c *Context) opponentPossessionIDs() []int {
	seen := make(map[int]bool)
	for i := range c.Events {
		if c.Events[i].OpponentPossession(c.TeamID) {
			seen[c.Events[i].Possession] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// possessionStarts maps each possession sequence id to the minimum
// timestamp over all its events.
func (c *Context) possessionStarts() map[int]time.Duration {
	starts := make(map[int]time.Duration)
	for i := range c.Events {
		ev := &c.Events[i]
		if t, ok := starts[ev.Possession]; !ok || ev.Timestamp < t {
			starts[ev.Possession] = ev.Timestamp
		}
	}
	return starts
}

// possessionEvents groups events by possession sequence id, each group
// in timestamp order.
func (c *Context) possessionEvents() map[int][]*model.Event {
	groups := make(map[int][]*model.Event)
	for i := range c.Events {
		ev := &c.Events[i]
		groups[ev.Possession] = append(groups[ev.Possession], ev)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			if g[i].Timestamp != g[j].Timestamp {
				return g[i].Timestamp < g[j].Timestamp
			}
			return g[i].Index < g[j].Index
		})
	}
	return groups
}

// matchMinutes estimates elapsed match time from the clock columns.
func (c *Context) matchMinutes() float64 {
	maxMin, maxSec := 0, 0
	for i := range c.Events {
		if c.Events[i].Minute > maxMin {
			maxMin = c.Events[i].Minute
		}
		if c.Events[i].Second > maxSec {
			maxSec = c.Events[i].Second
		}
	}
	return float64(maxMin) + float64(maxSec)/60
}

// isProgressivePass reports a zone pass longer than 10 units that gains
// at least 5 units toward the opposing goal.
func isProgressivePass(ev *model.Event) bool {
	return ev.TypeName == "Pass" &&
		ev.PassLength != nil && *ev.PassLength > 10 &&
		ev.PassEndX != nil && ev.X != nil && *ev.PassEndX > *ev.X+5
}

// ---- numeric helpers ----

func fptr(v float64) *float64 { return &v }

func mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return fptr(sum / float64(len(xs)))
}

// std is the population standard deviation; nil when empty.
func std(xs []float64) *float64 {
	m := mean(xs)
	if m == nil {
		return nil
	}
	ss := 0.0
	for _, x := range xs {
		d := x - *m
		ss += d * d
	}
	return fptr(math.Sqrt(ss / float64(len(xs))))
}

// sampleStd is the ddof-1 standard deviation; nil for fewer than two
// observations.
func sampleStd(xs []float64) *float64 {
	if len(xs) < 2 {
		return nil
	}
	m := *mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return fptr(math.Sqrt(ss / float64(len(xs)-1)))
}

func minOf(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return fptr(m)
}

func maxOf(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return fptr(m)
}

// ratio returns num/den, or 0 when den is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func seconds(d time.Duration) float64 { return d.Seconds() }
