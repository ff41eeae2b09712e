package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/graphspec/cyphergen/internal/batch"
)

// createTestStore creates a store backed by a temporary database file.
// The store is closed automatically when the test finishes.
func createTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		st.Close()
	})

	return st
}

// sampleSummary returns a two-file run with one success and one failure,
// pinned to fixed timestamps so round-trip assertions stay exact.
func sampleSummary(runID string) batch.Summary {
	return batch.Summary{
		RunID:      runID,
		InputDir:   "./queries",
		StartedAt:  time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		FinishedAt: time.Date(2025, 3, 14, 9, 26, 54, 500000000, time.UTC),
		Total:      2,
		Succeeded:  1,
		Failed:     1,
		Results: []batch.FileResult{
			{
				File:        "queries/good.json",
				Status:      batch.StatusSuccess,
				Fingerprint: "fp-good",
				Query:       "MATCH (c:Candidate)\nRETURN c",
			},
			{
				File:     "queries/bad.json",
				Status:   batch.StatusError,
				Errors:   []string{`[E106] return.fields[0]: alias "x" is not declared by any node`},
				Warnings: []string{`alias "z" is declared but not referenced by any relationship`},
			},
		},
	}
}

// emptySummary returns a run that compiled nothing.
func emptySummary(runID string, started time.Time) batch.Summary {
	return batch.Summary{
		RunID:      runID,
		InputDir:   "./queries",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}
}
