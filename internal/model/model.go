package model

import "time"

// DefensiveActionTypes is the fixed set of event types counted as a
// defensive action when attributed to the evaluated team.
var DefensiveActionTypes = map[string]bool{
	"Interception":  true,
	"Ball Recovery": true,
	"Duel":          true,
	"Block":         true,
	"Clearance":     true,
}

// ---- Normalized events produced by the parser ----

// Event is one atomic match action flattened from StatsBomb-style JSON.
// Fields that the source schema may omit are pointers; nil means the
// source did not carry the value, which is distinct from zero everywhere
// downstream (zone filters must skip nil coordinates, never treat them
// as 0).
type Event struct {
	MatchID    string
	Index      int    // position in the source file; deterministic sort tiebreak
	EventID    string // source event UUID, "" if absent
	Period     int
	Minute     int
	Second     int
	Timestamp  time.Duration // elapsed clock within the period ("HH:MM:SS.mmm")
	TypeName   string
	Possession int // source-provided possession sequence id

	TeamID             *int
	TeamName           *string
	PlayerID           *int
	PlayerName         *string
	PossessionTeamID   *int
	PossessionTeamName *string

	X *float64
	Y *float64

	UnderPressure bool
	CounterPress  bool
	Duration      *float64

	// Coalesced across all *.outcome.name / *.outcome source columns.
	OutcomeName *string

	PassLength      *float64
	PassAngle       *float64
	PassEndX        *float64
	PassEndY        *float64
	PassThroughBall bool
	PassSwitch      bool

	InterceptionOutcome *string
	RecoveryFailure     bool
	DuelType            *string
	DuelOutcome         *string

	CarryEndX *float64
	CarryEndY *float64

	Formation   *int    // Starting XI tactics.formation
	PlayPattern *string // play_pattern.name

	RelatedEvents []string
}

// HasLocation reports whether both coordinates are present.
func (e *Event) HasLocation() bool { return e.X != nil && e.Y != nil }

// InXBand reports whether the event has an x coordinate inside [min, max].
// Events without a location are excluded, never coerced to zero.
func (e *Event) InXBand(min, max float64) bool {
	return e.X != nil && *e.X >= min && *e.X <= max
}

// TeamIs reports whether the acting team matches id.
func (e *Event) TeamIs(id int) bool { return e.TeamID != nil && *e.TeamID == id }

// PossessionTeamIs reports whether the team in possession matches id.
func (e *Event) PossessionTeamIs(id int) bool {
	return e.PossessionTeamID != nil && *e.PossessionTeamID == id
}

// OpponentPossession reports whether the event belongs to a spell of
// possession NOT held by the evaluated team. Events with an unknown
// possession team count as opponent, matching the `!= team_id` filter
// the feature definitions are written against.
func (e *Event) OpponentPossession(teamID int) bool {
	return e.PossessionTeamID == nil || *e.PossessionTeamID != teamID
}

// IsDefensiveAction reports whether the event type is in the fixed
// defensive-action set.
func (e *Event) IsDefensiveAction() bool { return DefensiveActionTypes[e.TypeName] }

// ---- Derived entities ----

// Possession is one maximal run of consecutive events (sorted by match,
// period, timestamp, index) sharing the in-possession team and period.
type Possession struct {
	MatchID  string
	ID       int // monotonic per match
	TeamName string
	TeamID   *int

	StartTime time.Duration
	EndTime   time.Duration

	// Coordinates of the first/last located event in the segment;
	// nil when no event in the segment carries a location.
	StartX *float64
	StartY *float64
	EndX   *float64
	EndY   *float64

	EventCount int
}

// Label is the per-opponent-possession bypass outcome.
type Label struct {
	MatchID      string
	PossessionID int
	TeamName     string
	Bypass       bool
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID     string
	SourceHash  string // sha256 of the raw match file
	TeamID      int    // evaluated team
	TeamName    string
	Season      string
	EventCount  int
	Possessions int
	ComputedAt  string // RFC 3339
}
