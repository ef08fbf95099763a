package features

import (
	"math"
	"testing"
	"time"

	"github.com/jbadia/go-sb-metrics/internal/config"
	"github.com/jbadia/go-sb-metrics/internal/model"
)

// Evaluated team and opponent ids for all feature scenarios.
const (
	teamID = 220 // Real Madrid
	oppID  = 217 // Barcelona
)

func testConfig() *config.Config {
	return &config.Config{
		Zone:   config.ZoneConfig{XMin: 40, XMax: 80},
		Pitch:  config.PitchConfig{Length: 120, Width: 80, FinalThirdX: 80},
		Bypass: config.BypassConfig{TimeSeconds: 10, MaxPasses: 3},
		Teams:  map[string]int{"Real Madrid": teamID, "Barcelona": oppID},
	}
}

func testCtx(events []model.Event) *Context {
	return &Context{
		Events:   events,
		TeamID:   teamID,
		TeamName: "Real Madrid",
		Cfg:      testConfig(),
	}
}

// baseEvent builds an event acted by actingTeam during a possession held
// by possTeam.
func baseEvent(index, poss int, ts time.Duration, typeName string, actingTeam, possTeam int) model.Event {
	acting, holding := actingTeam, possTeam
	return model.Event{
		MatchID:          "m1",
		Index:            index,
		Period:           1,
		Minute:           int(ts / time.Minute),
		Second:           int(ts/time.Second) % 60,
		Timestamp:        ts,
		TypeName:         typeName,
		Possession:       poss,
		TeamID:           &acting,
		PossessionTeamID: &holding,
	}
}

func at(e model.Event, x, y float64) model.Event {
	e.X = &x
	e.Y = &y
	return e
}

// oppPass builds an opponent pass with length and end location.
func oppPass(index, poss int, ts time.Duration, x, y, endX, endY, length float64) model.Event {
	e := at(baseEvent(index, poss, ts, "Pass", oppID, oppID), x, y)
	e.PassLength = &length
	e.PassEndX = &endX
	e.PassEndY = &endY
	return e
}

func getNum(t *testing.T, v Values, name string) *float64 {
	t.Helper()
	val, ok := v.Get(name)
	if !ok {
		t.Fatalf("feature %q not computed", name)
	}
	return val.Num
}

func wantNum(t *testing.T, v Values, name string, want float64) {
	t.Helper()
	got := getNum(t, v, name)
	if got == nil {
		t.Fatalf("feature %q is unknown, want %g", name, want)
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("feature %q = %g, want %g", name, *got, want)
	}
}

func wantUnknown(t *testing.T, v Values, name string) {
	t.Helper()
	if got := getNum(t, v, name); got != nil {
		t.Errorf("feature %q = %g, want unknown", name, *got)
	}
}

// ---- progressive pass boundary ----

func TestProgressivePass_DisplacementBoundary(t *testing.T) {
	mk := func(length, x, endX float64) *model.Event {
		e := oppPass(0, 1, 0, x, 40, endX, 40, length)
		return &e
	}
	if !isProgressivePass(mk(12, 50, 56)) {
		t.Error("length 12, gain 6 must be progressive")
	}
	if isProgressivePass(mk(12, 50, 55)) {
		t.Error("gain of exactly 5 is not progressive")
	}
	if isProgressivePass(mk(10, 50, 60)) {
		t.Error("length of exactly 10 is not progressive")
	}
	if isProgressivePass(&model.Event{TypeName: "Pass"}) {
		t.Error("a pass without length or locations is never progressive")
	}
}

// ---- access control ----

func TestAccessControl_ProgressivePassesAllowed(t *testing.T) {
	p1 := oppPass(0, 1, 0, 50, 40, 62, 40, 12) // central, incomplete
	inc := "Incomplete"
	p1.OutcomeName = &inc
	p2 := oppPass(1, 1, 2*time.Second, 45, 20, 60, 25, 15) // wide, no outcome
	short := oppPass(2, 1, 4*time.Second, 50, 40, 54, 40, 6)

	v, err := computeAccessControl(testCtx([]model.Event{p1, p2, short}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "progressive_passes_allowed_midfield", 2)
	wantNum(t, v, "progressive_pass_prevention_rate", 0.5)
	wantNum(t, v, "progressive_passes_central_lane", 1)
	wantNum(t, v, "progressive_passes_wide", 1)
	wantNum(t, v, "progressive_pass_distance_allowed", 13.5)
}

func TestAccessControl_ThroughBallsAndSwitches(t *testing.T) {
	tb := oppPass(0, 1, 0, 60, 40, 85, 40, 25)
	tb.PassThroughBall = true
	sw := oppPass(1, 1, 2*time.Second, 55, 10, 70, 70, 40)
	sw.PassSwitch = true

	v, err := computeAccessControl(testCtx([]model.Event{tb, sw}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "through_balls_allowed_midfield", 1)
	wantNum(t, v, "through_balls_ending_final_third", 1)
	wantNum(t, v, "switches_allowed_midfield", 1)
	wantNum(t, v, "switch_distance_allowed", 40)
}

func TestAccessControl_EmptyMatchDefaults(t *testing.T) {
	v, err := computeAccessControl(testCtx(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Counts and rates default to 0; shape statistics stay unknown.
	wantNum(t, v, "progressive_passes_allowed_midfield", 0)
	wantNum(t, v, "progressive_pass_prevention_rate", 0)
	wantUnknown(t, v, "progressive_pass_distance_allowed")
	wantUnknown(t, v, "progressive_pass_angle_allowed")
	wantUnknown(t, v, "switch_distance_allowed")
}

func TestAccessControl_TeamPossessionExcluded(t *testing.T) {
	// Same pass, but during the evaluated team's own possession.
	own := oppPass(0, 1, 0, 50, 40, 62, 40, 12)
	own.PossessionTeamID = iptr(teamID)

	v, err := computeAccessControl(testCtx([]model.Event{own}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "progressive_passes_allowed_midfield", 0)
}

func iptr(v int) *int { return &v }

// ---- defensive actions ----

func TestDefensiveActions_Interceptions(t *testing.T) {
	sip := "Success In Play"
	lost := "Lost In Play"

	in1 := at(baseEvent(0, 1, time.Second, "Interception", teamID, oppID), 50, 40)
	in1.InterceptionOutcome = &sip
	in2 := at(baseEvent(1, 2, 30*time.Second, "Interception", teamID, oppID), 70, 10)
	in2.InterceptionOutcome = &lost
	// Outside the band: never counted.
	out := at(baseEvent(2, 2, 40*time.Second, "Interception", teamID, oppID), 20, 40)
	// No location: excluded, not coerced to x=0.
	unloc := baseEvent(3, 2, 50*time.Second, "Interception", teamID, oppID)

	v, err := computeDefensiveActions(testCtx([]model.Event{in1, in2, out, unloc}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "midfield_interceptions_total", 2)
	wantNum(t, v, "midfield_interceptions_per_possession", 1) // 2 over possessions {1, 2}
	wantNum(t, v, "midfield_interception_success_rate", 0.5)
	wantNum(t, v, "midfield_interceptions_central", 1)
	wantNum(t, v, "midfield_interceptions_wide", 1)
}

func TestDefensiveActions_Duels(t *testing.T) {
	aerialWon := "Won"
	aerialType := "Aerial Lost" // StatsBomb keeps the duel category in the type name
	groundLost := "Lost In Play"
	groundType := "Tackle"

	d1 := at(baseEvent(0, 1, time.Second, "Duel", teamID, oppID), 50, 40)
	d1.DuelOutcome = &aerialWon
	d1.DuelType = &aerialType
	d2 := at(baseEvent(1, 1, 2*time.Second, "Duel", teamID, oppID), 60, 30)
	d2.DuelOutcome = &groundLost
	d2.DuelType = &groundType
	d2.UnderPressure = true

	v, err := computeDefensiveActions(testCtx([]model.Event{d1, d2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "midfield_duels_total", 2)
	wantNum(t, v, "midfield_duel_win_rate", 0.5)
	wantNum(t, v, "midfield_aerial_duels_won", 1)
	wantNum(t, v, "midfield_ground_duels_won", 0)
	wantNum(t, v, "midfield_duels_under_pressure", 1)
	wantNum(t, v, "midfield_duel_locations_x_mean", 55)
	// ddof-1 over {50, 60}
	wantNum(t, v, "midfield_duel_locations_x_std", math.Sqrt(50))
}

func TestDefensiveActions_SingleDuelHasUnknownStd(t *testing.T) {
	d := at(baseEvent(0, 1, time.Second, "Duel", teamID, oppID), 50, 40)
	v, err := computeDefensiveActions(testCtx([]model.Event{d}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "midfield_duel_locations_x_mean", 50)
	wantUnknown(t, v, "midfield_duel_locations_x_std")
}

func TestDefensiveActions_EmptyMatchDefaults(t *testing.T) {
	v, err := computeDefensiveActions(testCtx(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "midfield_interceptions_total", 0)
	wantNum(t, v, "midfield_recovery_rate", 0)
	wantUnknown(t, v, "midfield_recovery_locations_x")
	wantUnknown(t, v, "midfield_interception_time_to_event")
}

// ---- zone specific ----

func TestZoneSpecific_BypassAttempts(t *testing.T) {
	// Possession 1 starts in the defensive third and later reaches past
	// the final-third line: an attempt. Possession 2 also reaches the
	// final third but starts in midfield, so it is not one.
	p1a := oppPass(0, 1, 0, 10, 40, 30, 40, 20)
	p1b := at(baseEvent(1, 1, 4*time.Second, "Carry", oppID, oppID), 85, 40)
	p2a := oppPass(2, 2, 20*time.Second, 50, 40, 60, 40, 10)
	p2b := at(baseEvent(3, 2, 24*time.Second, "Carry", oppID, oppID), 85, 40)

	v, err := computeZoneSpecific(testCtx([]model.Event{p1a, p1b, p2a, p2b}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "bypass_attempts_total", 1)
	wantNum(t, v, "bypass_prevention_rate", 0.5)
}

func TestZoneSpecific_UnlocatedStartIsNotAnAttempt(t *testing.T) {
	first := baseEvent(0, 1, 0, "Pass", oppID, oppID)
	deep := at(baseEvent(1, 1, 4*time.Second, "Carry", oppID, oppID), 85, 40)

	v, err := computeZoneSpecific(testCtx([]model.Event{first, deep}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "bypass_attempts_total", 0)
	wantNum(t, v, "bypass_prevention_rate", 1)
}

func TestZoneSpecific_BorderCrossings(t *testing.T) {
	entry := oppPass(0, 1, 0, 30, 40, 45, 40, 16)
	exit := oppPass(1, 1, 2*time.Second, 70, 40, 85, 40, 16)
	ic := at(baseEvent(2, 1, time.Second, "Interception", teamID, oppID), 41, 40)

	v, err := computeZoneSpecific(testCtx([]model.Event{entry, exit, ic}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "defensive_to_midfield_passes_allowed", 1)
	wantNum(t, v, "midfield_to_final_passes_allowed", 1)
	// One interception inside [38, 42] over one entry attempt.
	wantNum(t, v, "defensive_to_midfield_interception_rate", 1)
	wantNum(t, v, "midfield_to_final_interception_rate", 0)
}

func TestZoneSpecific_NoOpponentPossessions(t *testing.T) {
	v, err := computeZoneSpecific(testCtx(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNum(t, v, "bypass_attempts_total", 0)
	// No opponent possessions means nothing was prevented either.
	wantNum(t, v, "bypass_prevention_rate", 0)
}

// ---- composite ----

func TestNormalize(t *testing.T) {
	cases := []struct {
		value, min, max, want float64
	}{
		{5, 0, 10, 0.5},
		{-3, 0, 10, 0},
		{15, 0, 10, 1},
		{7, 7, 7, 0.5},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}
	for _, c := range cases {
		if got := normalize(c.value, c.min, c.max); got != c.want {
			t.Errorf("normalize(%g, %g, %g) = %g, want %g", c.value, c.min, c.max, got, c.want)
		}
	}
}

func TestComposite_StrengthIndexBounded(t *testing.T) {
	ic := at(baseEvent(0, 1, time.Second, "Interception", teamID, oppID), 50, 40)
	rec := at(baseEvent(1, 2, 30*time.Second, "Ball Recovery", teamID, oppID), 60, 30)
	press := at(baseEvent(2, 1, 2*time.Second, "Pass", oppID, oppID), 55, 40)
	press.UnderPressure = true

	ctx := testCtx([]model.Event{ic, rec, press})
	ctx.Prior = map[string]float64{"bypass_attempts_total": 1}

	v, err := computeComposite(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	idx := getNum(t, v, "midfield_strength_index")
	if idx == nil || *idx < 0 || *idx > 1 {
		t.Errorf("strength index = %v, want a value in [0, 1]", idx)
	}
	wantNum(t, v, "recovery_quality_score", 60)
}

func TestComposite_RiskFactors(t *testing.T) {
	press := at(baseEvent(0, 1, time.Second, "Pass", oppID, oppID), 55, 40)
	ctx := testCtx([]model.Event{press})
	ctx.Prior = map[string]float64{
		"progressive_passes_allowed_midfield": 60,
		"through_balls_allowed_midfield":      2,
		"carries_through_midfield":            25,
		"bypass_attempts_total":               1,
	}

	v, err := computeComposite(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok := v.Get("bypass_risk_factors")
	if !ok || val.Text == nil {
		t.Fatal("bypass_risk_factors must be a text feature")
	}
	want := "high_progressive_passes,high_carries_through,low_bypass_prevention"
	if *val.Text != want {
		t.Errorf("risk factors = %q, want %q", *val.Text, want)
	}
}

// ---- registry and determinism ----

func TestModules_PhaseTwoLast(t *testing.T) {
	mods := Modules()
	if len(mods) != 12 {
		t.Fatalf("got %d modules, want 12", len(mods))
	}
	seenPhaseTwo := false
	for _, m := range mods {
		if m.PhaseTwo {
			seenPhaseTwo = true
		} else if seenPhaseTwo {
			t.Errorf("phase-one module %s listed after a phase-two module", m.Name)
		}
	}
	if !seenPhaseTwo {
		t.Error("registry has no phase-two modules")
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	events := []model.Event{
		oppPass(0, 1, 0, 50, 40, 62, 40, 12),
		at(baseEvent(1, 1, time.Second, "Interception", teamID, oppID), 50, 40),
		at(baseEvent(2, 2, 30*time.Second, "Duel", teamID, oppID), 60, 30),
	}

	v1, err := computeDefensiveActions(testCtx(events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := computeDefensiveActions(testCtx(events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n1, n2 := v1.Names(), v2.Names()
	if len(n1) != len(n2) {
		t.Fatalf("feature counts differ: %d vs %d", len(n1), len(n2))
	}
	for i, name := range n1 {
		if n2[i] != name {
			t.Fatalf("feature order differs at %d: %s vs %s", i, name, n2[i])
		}
		a, _ := v1.Get(name)
		b, _ := v2.Get(name)
		switch {
		case a.Num == nil && b.Num == nil:
		case a.Num != nil && b.Num != nil && *a.Num == *b.Num:
		default:
			t.Errorf("feature %s differs between runs", name)
		}
	}
}

func TestValues_PreservesInsertionOrder(t *testing.T) {
	var v Values
	v.Set("b", Count(1))
	v.Set("a", Count(2))
	v.Set("b", Count(3)) // overwrite keeps the original position

	names := v.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("names = %v, want [b a]", names)
	}
	val, _ := v.Get("b")
	if val.Num == nil || *val.Num != 3 {
		t.Errorf("overwritten value = %v, want 3", val.Num)
	}
}
