package store

import (
	"context"
	"fmt"

	"github.com/graphspec/cyphergen/internal/batch"
)

// WriteRun records a completed batch run and all its per-file results
// in a single transaction, so a crash mid-write never leaves a run row
// without its results.
//
// Uses ON CONFLICT DO NOTHING for idempotency - recording the same run
// ID twice is silently ignored, the first write wins.
func (s *Store) WriteRun(ctx context.Context, summary batch.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, input_dir, started_at, finished_at, total, succeeded, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		summary.RunID,
		summary.InputDir,
		formatTime(summary.StartedAt),
		formatTime(summary.FinishedAt),
		summary.Total,
		summary.Succeeded,
		summary.Failed,
	)
	if err != nil {
		return fmt.Errorf("write run: insert run: %w", err)
	}

	for seq, res := range summary.Results {
		errsJSON, err := marshalStrings(res.Errors)
		if err != nil {
			return fmt.Errorf("write run: result %d: %w", seq, err)
		}
		warnJSON, err := marshalStrings(res.Warnings)
		if err != nil {
			return fmt.Errorf("write run: result %d: %w", seq, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO results
			(run_id, seq, file, status, fingerprint, query, errors, warnings)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, seq) DO NOTHING
		`,
			summary.RunID,
			seq,
			res.File,
			res.Status,
			res.Fingerprint,
			res.Query,
			errsJSON,
			warnJSON,
		)
		if err != nil {
			return fmt.Errorf("write run: insert result %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}

	return nil
}
