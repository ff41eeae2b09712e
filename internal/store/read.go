package store

import (
	"context"
	"fmt"

	"github.com/graphspec/cyphergen/internal/batch"
)

// ReadRun retrieves a recorded run with all its results.
// Returns sql.ErrNoRows if the run ID is unknown.
func (s *Store) ReadRun(ctx context.Context, runID string) (batch.Summary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, input_dir, started_at, finished_at, total, succeeded, failed
		FROM runs
		WHERE id = ?
	`, runID)

	summary, err := scanRun(row.Scan)
	if err != nil {
		return batch.Summary{}, err
	}

	results, err := s.ReadResults(ctx, runID)
	if err != nil {
		return batch.Summary{}, err
	}
	summary.Results = results

	return summary, nil
}

// ReadResults returns the per-file results of a run in discovery order.
//
// Returns an empty slice (not nil) if the run has no results.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]batch.FileResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file, status, fingerprint, query, errors, warnings
		FROM results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []batch.FileResult
	for rows.Next() {
		var res batch.FileResult
		var errsJSON, warnJSON string
		if err := rows.Scan(&res.File, &res.Status, &res.Fingerprint, &res.Query, &errsJSON, &warnJSON); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if res.Errors, err = unmarshalStrings(errsJSON); err != nil {
			return nil, err
		}
		if res.Warnings, err = unmarshalStrings(warnJSON); err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	if results == nil {
		results = []batch.FileResult{}
	}

	return results, nil
}

// ListRuns returns every recorded run without its results, ordered
// deterministically: started_at ASC, then id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the ledger is empty.
func (s *Store) ListRuns(ctx context.Context) ([]batch.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input_dir, started_at, finished_at, total, succeeded, failed
		FROM runs
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []batch.Summary
	for rows.Next() {
		summary, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if runs == nil {
		runs = []batch.Summary{}
	}

	return runs, nil
}

// FindRunsByFingerprint returns the IDs of runs that compiled a spec
// with the given fingerprint, in recording order.
//
// Returns an empty slice (not nil) if no run matches.
func (s *Store) FindRunsByFingerprint(ctx context.Context, fingerprint string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT r.id
		FROM runs r
		JOIN results res ON res.run_id = r.id
		WHERE res.fingerprint = ?
		ORDER BY r.started_at ASC, r.id COLLATE BINARY ASC
	`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query runs by fingerprint: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run ids: %w", err)
	}

	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

// scanRun scans one runs row through the given Scan function, which
// lets a single helper serve both sql.Row and sql.Rows.
func scanRun(scan func(dest ...any) error) (batch.Summary, error) {
	var summary batch.Summary
	var started, finished string

	if err := scan(
		&summary.RunID, &summary.InputDir, &started, &finished,
		&summary.Total, &summary.Succeeded, &summary.Failed,
	); err != nil {
		return batch.Summary{}, err
	}

	var err error
	if summary.StartedAt, err = parseTime(started); err != nil {
		return batch.Summary{}, err
	}
	if summary.FinishedAt, err = parseTime(finished); err != nil {
		return batch.Summary{}, err
	}

	return summary, nil
}
