package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jbadia/go-sb-metrics/internal/aggregator"
	"github.com/jbadia/go-sb-metrics/internal/model"
)

// ErrNotFound is returned when a requested match is not in the store.
var ErrNotFound = errors.New("match not found")

// FeatureRow is one stored scalar feature.
type FeatureRow struct {
	Module    string
	Name      string
	Value     *float64
	TextValue *string
}

// PlayerFeatureRow is one stored per-player feature value.
type PlayerFeatureRow struct {
	Name     string
	PlayerID int
	Value    float64
}

// TrendPoint is one match's value for a feature, ordered by match id.
type TrendPoint struct {
	MatchID string
	Value   *float64
}

// MatchExists reports whether a match with this id and source hash has
// already been ingested. A hash mismatch counts as absent so a changed
// source file is recomputed.
func (s *Store) MatchExists(matchID, sourceHash string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM matches WHERE match_id = ? AND source_hash = ?`,
		matchID, sourceHash,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check match %s: %w", matchID, err)
	}
	return n > 0, nil
}

// SaveMatch stores one computed match, replacing any previous version.
func (s *Store) SaveMatch(res *aggregator.MatchResult, season string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO matches
		 (match_id, source_hash, team_id, team_name, season, event_count, possession_count, computed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.MatchID, res.SourceHash, res.TeamID, res.TeamName, season,
		res.EventCount, len(res.Possessions), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", res.MatchID, err)
	}

	// A replaced match must not keep features from a failed module run.
	for _, table := range []string{"features", "player_features", "possessions", "labels"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE match_id = ?`, res.MatchID); err != nil {
			return fmt.Errorf("clear %s for %s: %w", table, res.MatchID, err)
		}
	}

	if err := insertFeatures(tx, res); err != nil {
		return err
	}
	if err := insertPossessions(tx, res); err != nil {
		return err
	}
	if err := insertLabels(tx, res); err != nil {
		return err
	}
	return tx.Commit()
}

func insertFeatures(tx *sql.Tx, res *aggregator.MatchResult) error {
	featStmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO features (match_id, module, name, value, text_value)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare feature insert: %w", err)
	}
	defer featStmt.Close()

	playerStmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO player_features (match_id, name, player_id, value)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare player feature insert: %w", err)
	}
	defer playerStmt.Close()

	for _, mod := range res.Modules {
		if mod.Err != nil {
			continue
		}
		for _, name := range mod.Values.Names() {
			val, _ := mod.Values.Get(name)
			if val.PerPlayer != nil {
				pids := make([]int, 0, len(val.PerPlayer))
				for pid := range val.PerPlayer {
					pids = append(pids, pid)
				}
				sort.Ints(pids)
				for _, pid := range pids {
					if _, err := playerStmt.Exec(res.MatchID, name, pid, val.PerPlayer[pid]); err != nil {
						return fmt.Errorf("insert player feature %s: %w", name, err)
					}
				}
				continue
			}
			if _, err := featStmt.Exec(res.MatchID, mod.Name, name, val.Num, val.Text); err != nil {
				return fmt.Errorf("insert feature %s: %w", name, err)
			}
		}
	}
	return nil
}

func insertPossessions(tx *sql.Tx, res *aggregator.MatchResult) error {
	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO possessions
		 (match_id, poss_id, team_name, team_id, start_seconds, end_seconds,
		  start_x, start_y, end_x, end_y, event_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare possession insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range res.Possessions {
		_, err := stmt.Exec(
			p.MatchID, p.ID, p.TeamName, p.TeamID,
			p.StartTime.Seconds(), p.EndTime.Seconds(),
			p.StartX, p.StartY, p.EndX, p.EndY, p.EventCount,
		)
		if err != nil {
			return fmt.Errorf("insert possession %d of %s: %w", p.ID, p.MatchID, err)
		}
	}
	return nil
}

func insertLabels(tx *sql.Tx, res *aggregator.MatchResult) error {
	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO labels (match_id, poss_id, team_name, bypass)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare label insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range res.Labels {
		if _, err := stmt.Exec(l.MatchID, l.PossessionID, l.TeamName, boolInt(l.Bypass)); err != nil {
			return fmt.Errorf("insert label %d of %s: %w", l.PossessionID, l.MatchID, err)
		}
	}
	return nil
}

// ListMatches returns summaries of all ingested matches ordered by id.
func (s *Store) ListMatches() ([]model.MatchSummary, error) {
	rows, err := s.db.Query(
		`SELECT match_id, source_hash, team_id, team_name, season,
		        event_count, possession_count, computed_at
		 FROM matches ORDER BY match_id`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var m model.MatchSummary
		if err := rows.Scan(&m.MatchID, &m.SourceHash, &m.TeamID, &m.TeamName,
			&m.Season, &m.EventCount, &m.Possessions, &m.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMatch returns one match summary, or ErrNotFound.
func (s *Store) GetMatch(matchID string) (*model.MatchSummary, error) {
	var m model.MatchSummary
	err := s.db.QueryRow(
		`SELECT match_id, source_hash, team_id, team_name, season,
		        event_count, possession_count, computed_at
		 FROM matches WHERE match_id = ?`, matchID).
		Scan(&m.MatchID, &m.SourceHash, &m.TeamID, &m.TeamName,
			&m.Season, &m.EventCount, &m.Possessions, &m.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, matchID)
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", matchID, err)
	}
	return &m, nil
}

// GetFeatures returns all scalar features of a match in storage order.
func (s *Store) GetFeatures(matchID string) ([]FeatureRow, error) {
	rows, err := s.db.Query(
		`SELECT module, name, value, text_value FROM features
		 WHERE match_id = ? ORDER BY rowid`, matchID)
	if err != nil {
		return nil, fmt.Errorf("get features for %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []FeatureRow
	for rows.Next() {
		var f FeatureRow
		if err := rows.Scan(&f.Module, &f.Name, &f.Value, &f.TextValue); err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetPlayerFeatures returns all per-player features of a match.
func (s *Store) GetPlayerFeatures(matchID string) ([]PlayerFeatureRow, error) {
	rows, err := s.db.Query(
		`SELECT name, player_id, value FROM player_features
		 WHERE match_id = ? ORDER BY name, player_id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("get player features for %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []PlayerFeatureRow
	for rows.Next() {
		var f PlayerFeatureRow
		if err := rows.Scan(&f.Name, &f.PlayerID, &f.Value); err != nil {
			return nil, fmt.Errorf("scan player feature row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetPossessions returns the stored possession segments of a match.
func (s *Store) GetPossessions(matchID string) ([]model.Possession, error) {
	rows, err := s.db.Query(
		`SELECT match_id, poss_id, team_name, team_id, start_seconds, end_seconds,
		        start_x, start_y, end_x, end_y, event_count
		 FROM possessions WHERE match_id = ? ORDER BY poss_id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("get possessions for %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []model.Possession
	for rows.Next() {
		var p model.Possession
		var startSec, endSec float64
		if err := rows.Scan(&p.MatchID, &p.ID, &p.TeamName, &p.TeamID, &startSec, &endSec,
			&p.StartX, &p.StartY, &p.EndX, &p.EndY, &p.EventCount); err != nil {
			return nil, fmt.Errorf("scan possession row: %w", err)
		}
		p.StartTime = time.Duration(startSec * float64(time.Second))
		p.EndTime = time.Duration(endSec * float64(time.Second))
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetLabels returns the stored bypass labels of a match.
func (s *Store) GetLabels(matchID string) ([]model.Label, error) {
	rows, err := s.db.Query(
		`SELECT match_id, poss_id, team_name, bypass FROM labels
		 WHERE match_id = ? ORDER BY poss_id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("get labels for %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []model.Label
	for rows.Next() {
		var l model.Label
		var bypass int
		if err := rows.Scan(&l.MatchID, &l.PossessionID, &l.TeamName, &bypass); err != nil {
			return nil, fmt.Errorf("scan label row: %w", err)
		}
		l.Bypass = bypass != 0
		out = append(out, l)
	}
	return out, rows.Err()
}

// DropMatch deletes a match and all its derived rows.
func (s *Store) DropMatch(matchID string) error {
	res, err := s.db.Exec(`DELETE FROM matches WHERE match_id = ?`, matchID)
	if err != nil {
		return fmt.Errorf("drop match %s: %w", matchID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, matchID)
	}
	return nil
}

// FeatureTrend returns one feature's value across all matches.
func (s *Store) FeatureTrend(name string) ([]TrendPoint, error) {
	rows, err := s.db.Query(
		`SELECT m.match_id, f.value
		 FROM matches m LEFT JOIN features f ON f.match_id = m.match_id AND f.name = ?
		 ORDER BY m.match_id`, name)
	if err != nil {
		return nil, fmt.Errorf("trend for %s: %w", name, err)
	}
	defer rows.Close()

	var out []TrendPoint
	for rows.Next() {
		var t TrendPoint
		if err := rows.Scan(&t.MatchID, &t.Value); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QueryRaw runs a caller-supplied query and returns column names plus
// all rows rendered as strings.
func (s *Store) QueryRaw(q string) ([]string, [][]string, error) {
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan query row: %w", err)
		}
		rec := make([]string, len(cols))
		for i, v := range raw {
			switch x := v.(type) {
			case nil:
				rec[i] = ""
			case []byte:
				rec[i] = string(x)
			default:
				rec[i] = fmt.Sprint(x)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
