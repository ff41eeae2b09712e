package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/graphspec/cyphergen/internal/batch"
	"github.com/graphspec/cyphergen/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database    string
	Fingerprint string // optional - find runs that compiled this spec
}

// RunsList is the JSON payload for the run listing.
type RunsList struct {
	Runs  []batch.Summary `json:"runs"`
	Total int             `json:"total"`
}

// FingerprintMatches is the JSON payload for a fingerprint lookup.
type FingerprintMatches struct {
	Fingerprint string   `json:"fingerprint"`
	RunIDs      []string `json:"run_ids"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Inspect recorded conversion runs",
		Long: `List conversion runs recorded in a SQLite ledger, or show one run.

Without arguments, prints every recorded run in start order. With a
run ID, prints that run's per-file results. With --fingerprint, prints
the IDs of every run that compiled the spec with that fingerprint.

Exit codes:
  0 - Query answered (including an empty ledger)
  2 - Command error (database not found, unknown run ID, etc.)

Examples:
  cyphergen runs --db ./runs.db
  cyphergen runs --db ./runs.db 0190b5e2-51a8-7cde-8234-a1b2c3d4e5f6
  cyphergen runs --db ./runs.db --fingerprint 4f2a... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runRuns(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "list runs that compiled this spec fingerprint")

	return cmd
}

func runRuns(opts *RunsOptions, runID string, cmd *cobra.Command) error {
	ctx := context.Background()

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	switch {
	case opts.Fingerprint != "":
		return runsByFingerprint(ctx, st, formatter, opts.Fingerprint)
	case runID != "":
		return showRun(ctx, st, formatter, runID, opts.Verbose)
	default:
		return listRuns(ctx, st, formatter)
	}
}

// runsByFingerprint prints the IDs of runs that compiled a given spec.
func runsByFingerprint(ctx context.Context, st *store.Store, formatter *OutputFormatter, fingerprint string) error {
	ids, err := st.FindRunsByFingerprint(ctx, fingerprint)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query ledger", err)
	}

	if formatter.Format == "json" {
		return outputRunsJSON(formatter, FingerprintMatches{Fingerprint: fingerprint, RunIDs: ids})
	}

	if len(ids) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded for this fingerprint.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(formatter.Writer, id)
	}
	return nil
}

// showRun prints one run's per-file results.
func showRun(ctx context.Context, st *store.Store, formatter *OutputFormatter, runID string, verbose bool) error {
	summary, err := st.ReadRun(ctx, runID)
	if errors.Is(err, sql.ErrNoRows) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run %s not found", runID), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", runID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if formatter.Format == "json" {
		return outputRunsJSON(formatter, summary)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s\n", summary.RunID)
	fmt.Fprintf(w, "  Input: %s\n", summary.InputDir)
	fmt.Fprintf(w, "  Started: %s\n", summary.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  Finished: %s\n", summary.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  Files: %d total, %d succeeded, %d failed\n", summary.Total, summary.Succeeded, summary.Failed)
	fmt.Fprintln(w)

	for _, res := range summary.Results {
		if res.Status == batch.StatusSuccess {
			fmt.Fprintf(w, "✓ %s\n", res.File)
			if verbose {
				fmt.Fprintf(w, "  fingerprint %s\n", res.Fingerprint)
			}
		} else {
			fmt.Fprintf(w, "✗ %s\n", res.File)
			for _, msg := range res.Errors {
				fmt.Fprintf(w, "  %s\n", msg)
			}
		}
	}
	return nil
}

// listRuns prints every recorded run in start order.
func listRuns(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if formatter.Format == "json" {
		return outputRunsJSON(formatter, RunsList{Runs: runs, Total: len(runs)})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Recorded runs: %d\n", len(runs))
	fmt.Fprintln(w)
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %s  %d file(s), %d ok, %d failed  %s\n",
			run.RunID,
			run.StartedAt.Format(time.RFC3339),
			run.Total,
			run.Succeeded,
			run.Failed,
			run.InputDir,
		)
	}
	return nil
}

// outputRunsJSON wraps a payload in the standard response envelope.
func outputRunsJSON(formatter *OutputFormatter, data interface{}) error {
	response := CLIResponse{
		Status: "ok",
		Data:   data,
	}
	encoder := json.NewEncoder(formatter.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}
