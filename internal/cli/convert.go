package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/graphspec/cyphergen/internal/batch"
	"github.com/graphspec/cyphergen/internal/store"
)

// DefaultSpecsDir is where convert looks for spec files when no
// directory argument is given.
const DefaultSpecsDir = "./queries"

// DefaultReportFile is where convert writes the batch report when no
// --output flag is given.
const DefaultReportFile = "cypher_queries.txt"

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Output   string
	Workers  int
	Strict   bool
	Database string

	// IDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs batch.RunIDGenerator
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert [specs-dir]",
		Short: "Convert a directory of spec files to Cypher",
		Long: `Convert every spec file in a directory to Cypher queries.

Each .json, .yaml, .yml, or .cue file directly inside the directory is
compiled independently on a worker pool. A file that fails to compile is
reported and never stops its neighbors. All outcomes, query text and
error diagnostics alike, are written to a single report file.

Exit codes:
  0 - At least one file converted (all files, with --strict)
  1 - Every file failed (any file, with --strict)
  2 - Command error (directory not found, report not writable, etc.)

Examples:
  cyphergen convert
  cyphergen convert ./specs -o out/report.txt --workers 8
  cyphergen convert ./specs --strict --db ./runs.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := DefaultSpecsDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runConvert(opts, dir, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", DefaultReportFile, "report file path")
	cmd.Flags().IntVar(&opts.Workers, "workers", batch.DefaultWorkers, "concurrent compilations")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail the run if any file fails")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in a SQLite ledger at this path")

	return cmd
}

func runConvert(opts *ConvertOptions, specsDir string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Check the directory up front so an empty or missing path fails
	// with a coded error instead of an empty report.
	files, err := ResolveSpecDir(specsDir)
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot read specs directory", err)
	}
	formatter.VerboseLog("Found %d spec file(s) in %s", len(files), specsDir)

	// Setup signal handling so Ctrl-C cancels in-flight compilations.
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, cancelling run", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	runner := &batch.Runner{Workers: opts.Workers, IDs: opts.IDs}
	summary, err := runner.Run(ctx, specsDir)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return NewExitError(ExitCommandError, "conversion cancelled")
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "conversion failed", err)
	}

	if err := writeReportFile(opts.Output, summary); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot write report", err)
	}
	slog.Info("report written", "path", opts.Output)

	if opts.Database != "" {
		if err := recordRun(ctx, opts.Database, summary); err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "cannot record run", err)
		}
		slog.Info("run recorded", "db", opts.Database, "run_id", summary.RunID)
	}

	if err := outputConvertSummary(formatter, summary, opts.Output); err != nil {
		return err
	}

	// Partial failure is tolerated unless --strict is set. A run where
	// nothing converted is always a failure.
	if summary.Total > 0 && summary.Failed == summary.Total {
		return NewExitError(ExitFailure, fmt.Sprintf("all %d file(s) failed", summary.Total))
	}
	if opts.Strict && summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) failed", summary.Failed, summary.Total))
	}
	return nil
}

// writeReportFile renders the batch report to path.
func writeReportFile(path string, summary *batch.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return &LoadError{Code: ErrCodeWriteFailed, Path: path, Message: fmt.Sprintf("creating report file: %v", err)}
	}
	if err := batch.WriteReport(f, summary); err != nil {
		_ = f.Close()
		return &LoadError{Code: ErrCodeWriteFailed, Path: path, Message: fmt.Sprintf("writing report: %v", err)}
	}
	if err := f.Close(); err != nil {
		return &LoadError{Code: ErrCodeWriteFailed, Path: path, Message: fmt.Sprintf("closing report file: %v", err)}
	}
	return nil
}

// recordRun persists the run summary in the SQLite ledger at dbPath.
func recordRun(ctx context.Context, dbPath string, summary *batch.Summary) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing ledger", "error", closeErr)
		}
	}()

	return st.WriteRun(ctx, *summary)
}

// outputConvertSummary prints the run outcome in the configured format.
func outputConvertSummary(formatter *OutputFormatter, summary *batch.Summary, reportPath string) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "ok",
			Data:   summary,
			RunID:  summary.RunID,
		}
		if summary.Failed > 0 {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeGeneric,
				Message: fmt.Sprintf("%d of %d file(s) failed", summary.Failed, summary.Total),
			}
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	}

	w := formatter.Writer
	if summary.Failed == 0 {
		fmt.Fprintf(w, "✓ Converted %d file(s)\n", summary.Succeeded)
	} else {
		fmt.Fprintf(w, "✗ Converted %d of %d file(s)\n", summary.Succeeded, summary.Total)
		for _, res := range summary.Results {
			if res.Status != batch.StatusError {
				continue
			}
			fmt.Fprintf(w, "  ✗ %s: %d error(s)\n", res.File, len(res.Errors))
		}
	}
	fmt.Fprintf(w, "Report written to %s\n", reportPath)
	return nil
}
