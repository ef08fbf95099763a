package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeMatch(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadMatch_SplitsLocationAndNames(t *testing.T) {
	body := `[
	  {"id":"ev-1","period":1,"timestamp":"00:01:30.500","minute":1,"second":30,
	   "type":{"id":30,"name":"Pass"},"possession":2,
	   "possession_team":{"id":217,"name":"Barcelona"},
	   "team":{"id":217,"name":"Barcelona"},
	   "player":{"id":5503,"name":"Lionel Messi"},
	   "location":[60.5,40.0],
	   "pass":{"length":15.2,"angle":0.4,"end_location":[75.0,42.0],"outcome":{"id":9,"name":"Incomplete"}}}
	]`
	path := writeMatch(t, "12345.json", body)

	m, err := LoadMatch(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MatchID != "12345" {
		t.Errorf("match id = %q, want %q", m.MatchID, "12345")
	}
	if len(m.SourceHash) != 64 {
		t.Errorf("source hash length = %d, want 64", len(m.SourceHash))
	}
	if len(m.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(m.Events))
	}

	ev := m.Events[0]
	if ev.TypeName != "Pass" {
		t.Errorf("type = %q, want Pass", ev.TypeName)
	}
	if ev.X == nil || *ev.X != 60.5 || ev.Y == nil || *ev.Y != 40.0 {
		t.Errorf("location not split: x=%v y=%v", ev.X, ev.Y)
	}
	if ev.PassEndX == nil || *ev.PassEndX != 75.0 || ev.PassEndY == nil || *ev.PassEndY != 42.0 {
		t.Errorf("pass end location not split: x=%v y=%v", ev.PassEndX, ev.PassEndY)
	}
	if ev.TeamID == nil || *ev.TeamID != 217 {
		t.Errorf("team id = %v, want 217", ev.TeamID)
	}
	if ev.PossessionTeamName == nil || *ev.PossessionTeamName != "Barcelona" {
		t.Errorf("possession team = %v, want Barcelona", ev.PossessionTeamName)
	}
	want := time.Minute + 500*time.Millisecond
	if ev.Timestamp != want {
		t.Errorf("timestamp = %v, want %v", ev.Timestamp, want)
	}
}

func TestLoadMatch_MissingFieldsStayNil(t *testing.T) {
	body := `[
	  {"id":"ev-1","period":1,"timestamp":"00:00:00.000","minute":0,"second":0,
	   "type":{"id":35,"name":"Starting XI"},"possession":1,
	   "possession_team":{"id":217,"name":"Barcelona"}}
	]`
	path := writeMatch(t, "m.json", body)

	m, err := LoadMatch(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev := m.Events[0]
	if ev.X != nil || ev.Y != nil {
		t.Errorf("absent location must stay nil, got x=%v y=%v", ev.X, ev.Y)
	}
	if ev.TeamID != nil || ev.PlayerID != nil {
		t.Errorf("absent team/player must stay nil")
	}
	if ev.OutcomeName != nil {
		t.Errorf("absent outcome must stay nil, got %v", *ev.OutcomeName)
	}
}

func TestLoadMatch_OneElementLocation(t *testing.T) {
	body := `[
	  {"id":"ev-1","period":1,"timestamp":"00:00:01.000","minute":0,"second":1,
	   "type":{"id":30,"name":"Pass"},"possession":1,
	   "possession_team":{"id":217,"name":"Barcelona"},
	   "location":[55.0]}
	]`
	path := writeMatch(t, "m.json", body)

	m, err := LoadMatch(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev := m.Events[0]
	if ev.X == nil || *ev.X != 55.0 {
		t.Errorf("x = %v, want 55.0", ev.X)
	}
	if ev.Y != nil {
		t.Errorf("y must stay nil for a one-element location, got %v", *ev.Y)
	}
}

func TestLoadMatch_CoalescesOutcomePerType(t *testing.T) {
	body := `[
	  {"id":"ev-1","period":1,"timestamp":"00:00:01.000","minute":0,"second":1,
	   "type":{"id":10,"name":"Interception"},"possession":1,
	   "possession_team":{"id":220,"name":"Real Madrid"},
	   "interception":{"outcome":{"id":16,"name":"Success In Play"}}},
	  {"id":"ev-2","period":1,"timestamp":"00:00:02.000","minute":0,"second":2,
	   "type":{"id":4,"name":"Duel"},"possession":1,
	   "possession_team":{"id":220,"name":"Real Madrid"},
	   "duel":{"type":{"id":11,"name":"Tackle"},"outcome":{"id":16,"name":"Won"}}}
	]`
	path := writeMatch(t, "m.json", body)

	m, err := LoadMatch(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Events[0].OutcomeName; got == nil || *got != "Success In Play" {
		t.Errorf("interception outcome = %v, want Success In Play", got)
	}
	if got := m.Events[1].OutcomeName; got == nil || *got != "Won" {
		t.Errorf("duel outcome = %v, want Won", got)
	}
	if got := m.Events[1].DuelType; got == nil || *got != "Tackle" {
		t.Errorf("duel type = %v, want Tackle", got)
	}
}

func TestLoadMatch_BadTimestamp(t *testing.T) {
	body := `[
	  {"id":"ev-1","period":1,"timestamp":"00:75:00.000","minute":0,"second":0,
	   "type":{"id":30,"name":"Pass"},"possession":1,
	   "possession_team":{"id":217,"name":"Barcelona"}}
	]`
	path := writeMatch(t, "m.json", body)

	if _, err := LoadMatch(path); err == nil {
		t.Fatal("expected error for out-of-range minutes in timestamp")
	}
}

func TestLoadMatch_MalformedJSON(t *testing.T) {
	path := writeMatch(t, "m.json", `{"not":"an array"}`)
	if _, err := LoadMatch(path); err == nil {
		t.Fatal("expected error for non-array match file")
	}
}

func TestLoadMatch_MissingFile(t *testing.T) {
	_, err := LoadMatch(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoadMatch_HashIsDeterministic(t *testing.T) {
	body := `[
	  {"id":"ev-1","period":1,"timestamp":"00:00:01.000","minute":0,"second":1,
	   "type":{"id":30,"name":"Pass"},"possession":1,
	   "possession_team":{"id":217,"name":"Barcelona"}}
	]`
	p1 := writeMatch(t, "a.json", body)
	p2 := writeMatch(t, "b.json", body)

	m1, err := LoadMatch(p1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := LoadMatch(p2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m1.SourceHash != m2.SourceHash {
		t.Errorf("same bytes must hash equal: %s vs %s", m1.SourceHash, m2.SourceHash)
	}
}
