package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-tackle-metrics/internal/model"
)

const runColumns = `run_id, kind, started_at, data_dir, weeks, out_path,
	plays_seen, plays_emitted, rows_emitted,
	nullified, unknown_play, missing_decisive, unresolved_bc, no_defenders,
	incomplete_rows, join_gap_rows, missing_labels`

// InsertRun records a run and its diagnostics. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertRun(r model.RunSummary) error {
	d := r.Diagnostics
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO runs(`+runColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.RunID, r.Kind, r.StartedAt, r.DataDir, r.Weeks, r.OutPath,
		d.PlaysSeen, d.PlaysEmitted, d.RowsEmitted,
		d.Nullified, d.UnknownPlay, d.MissingDecisiveFrame, d.UnresolvedBallCarrier, d.NoDefenders,
		d.IncompleteRows, d.JoinGapRows, d.MissingLabels,
	)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (model.RunSummary, error) {
	var r model.RunSummary
	d := &r.Diagnostics
	err := s.Scan(&r.RunID, &r.Kind, &r.StartedAt, &r.DataDir, &r.Weeks, &r.OutPath,
		&d.PlaysSeen, &d.PlaysEmitted, &d.RowsEmitted,
		&d.Nullified, &d.UnknownPlay, &d.MissingDecisiveFrame, &d.UnresolvedBallCarrier, &d.NoDefenders,
		&d.IncompleteRows, &d.JoinGapRows, &d.MissingLabels)
	return r, err
}

// ListRuns returns all recorded runs ordered by started_at desc.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRunByPrefix finds the most recent run whose id starts with prefix.
// Returns nil, nil when nothing matches.
func (db *DB) GetRunByPrefix(prefix string) (*model.RunSummary, error) {
	row := db.conn.QueryRow(`SELECT `+runColumns+` FROM runs
		WHERE run_id LIKE ? || '%' ORDER BY started_at DESC LIMIT 1`, prefix)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRun removes a run and everything recorded under it.
func (db *DB) DeleteRun(runID string) error {
	_, err := db.conn.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
	return err
}

// InsertPlayIssues bulk-inserts excluded-play diagnostics in a transaction.
func (db *DB) InsertPlayIssues(runID string, issues []model.PlayIssue) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO play_issues(run_id, game_id, play_id, kind, detail)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, is := range issues {
		if _, err := stmt.Exec(runID, is.GameID, is.PlayID, is.Kind, is.Detail); err != nil {
			return fmt.Errorf("insert play_issue %d/%d: %w", is.GameID, is.PlayID, err)
		}
	}
	return tx.Commit()
}

// GetPlayIssues returns the issues of one run, optionally filtered by kind.
func (db *DB) GetPlayIssues(runID, kind string) ([]model.PlayIssue, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, play_id, kind, detail FROM play_issues
		WHERE run_id = ? AND (? = '' OR kind = ?)
		ORDER BY game_id, play_id`, runID, kind, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayIssue
	for rows.Next() {
		var is model.PlayIssue
		if err := rows.Scan(&is.GameID, &is.PlayID, &is.Kind, &is.Detail); err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

// InsertFeatureRows bulk-inserts the defender feature table of one run.
func (db *DB) InsertFeatureRows(runID string, feats []model.DefenderFeatureRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO defender_features(
			run_id, game_id, play_id, frame_id, nfl_id, display_name, club, position,
			season, week, play_direction, event, x, y, s, dir,
			tackle_participant, bc_nfl_id, bc_pos, bc_x, bc_y, bc_s, bc_dir,
			dist_to_bc, dist_to_bc_avg, dist_rank, defender_in_front,
			sideline_dist, endzone_dist, rel_angle, rel_speed,
			is_dlineman, is_linebacker, is_secondary, is_pass, is_rush,
			is_bc_wr, is_bc_te, is_bc_rb, is_bc_qb
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range feats {
		_, err = stmt.Exec(
			runID, f.GameID, f.PlayID, f.FrameID, f.NflID, f.DisplayName, f.Club, f.Position,
			f.Season, f.Week, string(f.PlayDirection), f.Event, f.X, f.Y, f.S, f.Dir,
			boolInt(f.TackleParticipant), f.BC.NflID, f.BC.Position, f.BC.X, f.BC.Y, f.BC.S, f.BC.Dir,
			f.DistToBC, f.DistToBCAvg, f.DistRank, boolInt(f.DefenderInFront),
			f.SidelineDist, f.EndzoneDist, f.RelAngle, f.RelSpeed,
			boolInt(f.IsDLineman), boolInt(f.IsLinebacker), boolInt(f.IsSecondary),
			boolInt(f.IsPass), boolInt(f.IsRush),
			boolInt(f.IsBCWR), boolInt(f.IsBCTE), boolInt(f.IsBCRB), boolInt(f.IsBCQB),
		)
		if err != nil {
			return fmt.Errorf("insert defender_features %d/%d/%d: %w", f.GameID, f.PlayID, f.NflID, err)
		}
	}
	return tx.Commit()
}

// CountFeatureRows returns how many feature rows a run stored.
func (db *DB) CountFeatureRows(runID string) (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(1) FROM defender_features WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// InsertEvaluation records classifier metrics for one split.
func (db *DB) InsertEvaluation(runID string, ev model.Evaluation) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO evaluations(run_id, split, n, positives, accuracy, brier, log_loss)
		VALUES (?,?,?,?,?,?,?)`,
		runID, ev.Split, ev.N, ev.Positives, ev.Accuracy, ev.Brier, ev.LogLoss)
	return err
}

// GetEvaluations returns the recorded splits of one run.
func (db *DB) GetEvaluations(runID string) ([]model.Evaluation, error) {
	rows, err := db.conn.Query(`
		SELECT split, n, positives, accuracy, brier, log_loss FROM evaluations
		WHERE run_id = ? ORDER BY split DESC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Evaluation
	for rows.Next() {
		var ev model.Evaluation
		if err := rows.Scan(&ev.Split, &ev.N, &ev.Positives, &ev.Accuracy, &ev.Brier, &ev.LogLoss); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// InsertPlayerPerformance bulk-inserts per-player actual vs expected tackles.
func (db *DB) InsertPlayerPerformance(runID string, perf []model.PlayerPerformance) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_performance(run_id, nfl_id, name, position, plays, tackles, expected, diff)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range perf {
		if _, err := stmt.Exec(runID, p.NflID, p.Name, p.Position, p.Plays, p.Tackles, p.Expected, p.Diff()); err != nil {
			return fmt.Errorf("insert player_performance for %d: %w", p.NflID, err)
		}
	}
	return tx.Commit()
}

// GetPlayerPerformance returns the stored performance of one run, best first.
func (db *DB) GetPlayerPerformance(runID string) ([]model.PlayerPerformance, error) {
	rows, err := db.conn.Query(`
		SELECT nfl_id, name, position, plays, tackles, expected FROM player_performance
		WHERE run_id = ? ORDER BY diff DESC, nfl_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerPerformance
	for rows.Next() {
		var p model.PlayerPerformance
		if err := rows.Scan(&p.NflID, &p.Name, &p.Position, &p.Plays, &p.Tackles, &p.Expected); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				rec[i] = "NULL"
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
