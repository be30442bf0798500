package store

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordRun appends a finished, reset or abandoned run to the history.
func (s *Store) RecordRun(r Run) (*Run, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (session_id, mode, target_seconds, elapsed_seconds, outcome, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Mode, r.TargetSeconds, r.ElapsedSeconds, string(r.Outcome),
		r.StartedAt.UTC().Format(time.RFC3339), r.EndedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetRun(id)
}

const runColumns = `id, session_id, mode, target_seconds, elapsed_seconds, outcome, started_at, ended_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var outcome, startedAt, endedAt, createdAt string
	if err := row.Scan(&r.ID, &r.SessionID, &r.Mode, &r.TargetSeconds, &r.ElapsedSeconds, &outcome, &startedAt, &endedAt, &createdAt); err != nil {
		return r, err
	}
	r.Outcome = Outcome(outcome)
	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	r.EndedAt, _ = time.Parse(time.RFC3339, endedAt)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return r, nil
}

func (s *Store) GetRun(id int64) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return &r, nil
}

func (s *Store) ListRuns(f RunFilter) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	var args []any

	if f.Mode != "" {
		query += ` AND mode = ?`
		args = append(args, f.Mode)
	}
	if f.SessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, f.SessionID)
	}
	if f.From != nil {
		query += ` AND started_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND started_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY started_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetDailySummary totals measured seconds per UTC day and mode in [from, to).
func (s *Store) GetDailySummary(from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.Query(`
		SELECT date(started_at) AS day, mode,
		       CAST(COALESCE(SUM(elapsed_seconds), 0) AS INTEGER), COUNT(*)
		FROM runs
		WHERE started_at >= ? AND started_at < ?
		GROUP BY day, mode
		ORDER BY day, mode`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var ds DailySummary
		if err := rows.Scan(&ds.Date, &ds.Mode, &ds.TotalSeconds, &ds.RunCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}

func (s *Store) GetTodayTotal() (int64, error) {
	today := time.Now().UTC().Format("2006-01-02")
	var total sql.NullInt64
	err := s.db.QueryRow(`
		SELECT CAST(COALESCE(SUM(elapsed_seconds), 0) AS INTEGER)
		FROM runs
		WHERE date(started_at) = ?`, today,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
