package storage

import (
	"fmt"
	"time"

	"github.com/jbadia/go-sb-metrics/internal/model"
)

// ExportFeatureRow is one scalar feature across the whole store, for
// CSV export.
type ExportFeatureRow struct {
	MatchID   string
	Module    string
	Name      string
	Value     *float64
	TextValue *string
}

// ExportFeatures returns every stored scalar feature ordered by match
// then storage order.
func (s *Store) ExportFeatures() ([]ExportFeatureRow, error) {
	rows, err := s.db.Query(
		`SELECT match_id, module, name, value, text_value
		 FROM features ORDER BY match_id, rowid`)
	if err != nil {
		return nil, fmt.Errorf("export features: %w", err)
	}
	defer rows.Close()

	var out []ExportFeatureRow
	for rows.Next() {
		var f ExportFeatureRow
		if err := rows.Scan(&f.MatchID, &f.Module, &f.Name, &f.Value, &f.TextValue); err != nil {
			return nil, fmt.Errorf("scan export feature row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ExportPossessions returns every stored possession across all matches.
func (s *Store) ExportPossessions() ([]model.Possession, error) {
	rows, err := s.db.Query(
		`SELECT match_id, poss_id, team_name, team_id, start_seconds, end_seconds,
		        start_x, start_y, end_x, end_y, event_count
		 FROM possessions ORDER BY match_id, poss_id`)
	if err != nil {
		return nil, fmt.Errorf("export possessions: %w", err)
	}
	defer rows.Close()

	var out []model.Possession
	for rows.Next() {
		var p model.Possession
		var startSec, endSec float64
		if err := rows.Scan(&p.MatchID, &p.ID, &p.TeamName, &p.TeamID, &startSec, &endSec,
			&p.StartX, &p.StartY, &p.EndX, &p.EndY, &p.EventCount); err != nil {
			return nil, fmt.Errorf("scan export possession row: %w", err)
		}
		p.StartTime = time.Duration(startSec * float64(time.Second))
		p.EndTime = time.Duration(endSec * float64(time.Second))
		out = append(out, p)
	}
	return out, rows.Err()
}

// ExportLabels returns the stored bypass labels for opponent
// possessions across all matches. Every segment is labeled and stored,
// but the analyzed team's own possessions are not training rows.
func (s *Store) ExportLabels() ([]model.Label, error) {
	rows, err := s.db.Query(
		`SELECT l.match_id, l.poss_id, l.team_name, l.bypass
		 FROM labels l
		 JOIN matches m ON m.match_id = l.match_id
		 WHERE l.team_name <> m.team_name
		 ORDER BY l.match_id, l.poss_id`)
	if err != nil {
		return nil, fmt.Errorf("export labels: %w", err)
	}
	defer rows.Close()

	var out []model.Label
	for rows.Next() {
		var l model.Label
		var bypass int
		if err := rows.Scan(&l.MatchID, &l.PossessionID, &l.TeamName, &bypass); err != nil {
			return nil, fmt.Errorf("scan export label row: %w", err)
		}
		l.Bypass = bypass != 0
		out = append(out, l)
	}
	return out, rows.Err()
}
