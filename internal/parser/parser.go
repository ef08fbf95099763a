// Package parser loads one StatsBomb-style match event file and produces
// the normalized event records every downstream stage consumes. This is
// the only place the flattening rules live: location arrays split into
// x/y, outcome objects coalesce into one outcome name, and the elapsed
// clock string parses into a duration.
package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jbadia/go-sb-metrics/internal/model"
)

// Match is one parsed match file.
type Match struct {
	MatchID    string
	SourceHash string // sha256 of the raw file bytes, used as idempotency key
	Events     []model.Event
}

type idName struct {
	ID   *int    `json:"id"`
	Name *string `json:"name"`
}

// rawEvent mirrors the subset of the StatsBomb event schema consumed
// here. Absent fields stay nil; feature code never probes beyond these.
type rawEvent struct {
	ID             string    `json:"id"`
	Period         int       `json:"period"`
	Timestamp      string    `json:"timestamp"`
	Minute         int       `json:"minute"`
	Second         int       `json:"second"`
	Type           idName    `json:"type"`
	Possession     int       `json:"possession"`
	PossessionTeam *idName   `json:"possession_team"`
	PlayPattern    *idName   `json:"play_pattern"`
	Team           *idName   `json:"team"`
	Player         *idName   `json:"player"`
	Location       []float64 `json:"location"`
	Duration       *float64  `json:"duration"`
	UnderPressure  *bool     `json:"under_pressure"`
	CounterPress   *bool     `json:"counterpress"`
	RelatedEvents  []string  `json:"related_events"`

	Pass *struct {
		Length      *float64  `json:"length"`
		Angle       *float64  `json:"angle"`
		EndLocation []float64 `json:"end_location"`
		ThroughBall *bool     `json:"through_ball"`
		Switch      *bool     `json:"switch"`
		Outcome     *idName   `json:"outcome"`
	} `json:"pass"`

	BallReceipt *struct {
		Outcome *idName `json:"outcome"`
	} `json:"ball_receipt"`

	Interception *struct {
		Outcome *idName `json:"outcome"`
	} `json:"interception"`

	BallRecovery *struct {
		RecoveryFailure *bool `json:"recovery_failure"`
	} `json:"ball_recovery"`

	Duel *struct {
		Type    *idName `json:"type"`
		Outcome *idName `json:"outcome"`
	} `json:"duel"`

	Dribble *struct {
		Outcome *idName `json:"outcome"`
	} `json:"dribble"`

	Shot *struct {
		Outcome *idName `json:"outcome"`
	} `json:"shot"`

	Goalkeeper *struct {
		Outcome *idName `json:"outcome"`
	} `json:"goalkeeper"`

	Substitution *struct {
		Outcome *idName `json:"outcome"`
	} `json:"substitution"`

	Carry *struct {
		EndLocation []float64 `json:"end_location"`
	} `json:"carry"`

	Tactics *struct {
		Formation *int `json:"formation"`
	} `json:"tactics"`
}

// LoadMatch reads and normalizes one match event file. The match id is
// the file stem; the source hash is the sha256 of the raw bytes.
func LoadMatch(path string) (*Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read match file: %w", err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	var raws []rawEvent
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode match file %s: %w", filepath.Base(path), err)
	}

	matchID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	events := make([]model.Event, 0, len(raws))
	for i, r := range raws {
		ev, err := normalize(matchID, i, r)
		if err != nil {
			return nil, fmt.Errorf("event %d in %s: %w", i, filepath.Base(path), err)
		}
		events = append(events, ev)
	}

	return &Match{MatchID: matchID, SourceHash: hash, Events: events}, nil
}

func normalize(matchID string, index int, r rawEvent) (model.Event, error) {
	ts, err := parseClock(r.Timestamp)
	if err != nil {
		return model.Event{}, err
	}

	ev := model.Event{
		MatchID:       matchID,
		Index:         index,
		EventID:       r.ID,
		Period:        r.Period,
		Minute:        r.Minute,
		Second:        r.Second,
		Timestamp:     ts,
		Possession:    r.Possession,
		UnderPressure: r.UnderPressure != nil && *r.UnderPressure,
		CounterPress:  r.CounterPress != nil && *r.CounterPress,
		Duration:      r.Duration,
		RelatedEvents: r.RelatedEvents,
		OutcomeName:   coalesceOutcome(r),
	}
	if r.Type.Name != nil {
		ev.TypeName = *r.Type.Name
	}
	if r.Team != nil {
		ev.TeamID = r.Team.ID
		ev.TeamName = r.Team.Name
	}
	if r.Player != nil {
		ev.PlayerID = r.Player.ID
		ev.PlayerName = r.Player.Name
	}
	if r.PossessionTeam != nil {
		ev.PossessionTeamID = r.PossessionTeam.ID
		ev.PossessionTeamName = r.PossessionTeam.Name
	}
	if r.PlayPattern != nil {
		ev.PlayPattern = r.PlayPattern.Name
	}

	// location → x, y. Malformed arrays degrade to nil, never zero.
	ev.X, ev.Y = splitLocation(r.Location)

	if r.Pass != nil {
		ev.PassLength = r.Pass.Length
		ev.PassAngle = r.Pass.Angle
		ev.PassEndX, ev.PassEndY = splitLocation(r.Pass.EndLocation)
		ev.PassThroughBall = r.Pass.ThroughBall != nil && *r.Pass.ThroughBall
		ev.PassSwitch = r.Pass.Switch != nil && *r.Pass.Switch
	}
	if r.Interception != nil && r.Interception.Outcome != nil {
		ev.InterceptionOutcome = r.Interception.Outcome.Name
	}
	if r.BallRecovery != nil {
		ev.RecoveryFailure = r.BallRecovery.RecoveryFailure != nil && *r.BallRecovery.RecoveryFailure
	}
	if r.Duel != nil {
		if r.Duel.Type != nil {
			ev.DuelType = r.Duel.Type.Name
		}
		if r.Duel.Outcome != nil {
			ev.DuelOutcome = r.Duel.Outcome.Name
		}
	}
	if r.Carry != nil {
		ev.CarryEndX, ev.CarryEndY = splitLocation(r.Carry.EndLocation)
	}
	if r.Tactics != nil {
		ev.Formation = r.Tactics.Formation
	}
	return ev, nil
}

// splitLocation returns the first two elements of a location array as
// x and y. A one-element array yields only x; empty or nil yields nothing.
func splitLocation(loc []float64) (x, y *float64) {
	if len(loc) > 0 {
		v := loc[0]
		x = &v
	}
	if len(loc) > 1 {
		v := loc[1]
		y = &v
	}
	return x, y
}

// coalesceOutcome takes the first non-null outcome name across the
// per-type outcome objects, scanned in a fixed schema order.
func coalesceOutcome(r rawEvent) *string {
	if r.Pass != nil && r.Pass.Outcome != nil && r.Pass.Outcome.Name != nil {
		return r.Pass.Outcome.Name
	}
	if r.BallReceipt != nil && r.BallReceipt.Outcome != nil && r.BallReceipt.Outcome.Name != nil {
		return r.BallReceipt.Outcome.Name
	}
	if r.Interception != nil && r.Interception.Outcome != nil && r.Interception.Outcome.Name != nil {
		return r.Interception.Outcome.Name
	}
	if r.Duel != nil && r.Duel.Outcome != nil && r.Duel.Outcome.Name != nil {
		return r.Duel.Outcome.Name
	}
	if r.Dribble != nil && r.Dribble.Outcome != nil && r.Dribble.Outcome.Name != nil {
		return r.Dribble.Outcome.Name
	}
	if r.Shot != nil && r.Shot.Outcome != nil && r.Shot.Outcome.Name != nil {
		return r.Shot.Outcome.Name
	}
	if r.Goalkeeper != nil && r.Goalkeeper.Outcome != nil && r.Goalkeeper.Outcome.Name != nil {
		return r.Goalkeeper.Outcome.Name
	}
	if r.Substitution != nil && r.Substitution.Outcome != nil && r.Substitution.Outcome.Name != nil {
		return r.Substitution.Outcome.Name
	}
	return nil
}

// parseClock parses the StatsBomb "HH:MM:SS.mmm" elapsed-time string.
func parseClock(s string) (time.Duration, error) {
	var h, m int
	var sec float64
	if _, err := fmt.Sscanf(s, "%d:%d:%f", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("bad timestamp %q", s)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec*float64(time.Second)), nil
}
