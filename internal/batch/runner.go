package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/graphspec/cyphergen/internal/cypher"
	"github.com/graphspec/cyphergen/internal/spec"
)

// DefaultWorkers is the number of concurrent compilations per run.
const DefaultWorkers = 4

// Per-file outcome values.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// FileResult is the outcome of compiling one spec file.
//
// A SUCCESS result carries the query text and the spec fingerprint; an
// ERROR result carries at least one error message. Warnings may appear
// on either.
type FileResult struct {
	File        string   `json:"file"`
	Status      string   `json:"status"`
	Query       string   `json:"query,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Errors      []string `json:"errors,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Summary is the outcome of a whole run.
type Summary struct {
	RunID      string       `json:"run_id"`
	InputDir   string       `json:"input_dir"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Total      int          `json:"total"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Results    []FileResult `json:"results"`
}

// DiscoverUnits lists the compilable spec files directly inside dir.
//
// Only the top level is scanned; subdirectories are left alone so a
// queries directory can hold archived or work-in-progress folders.
// Files are matched by extension and returned in lexical name order,
// which keeps batch output stable across runs.
func DiscoverUnits(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read spec dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := spec.FormatForPath(entry.Name()); !ok {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// Runner compiles every spec file in a directory on a bounded worker pool.
type Runner struct {
	Workers int            // concurrent compilations; DefaultWorkers when <= 0
	IDs     RunIDGenerator // run ID source; UUIDv7Generator when nil
}

// Run discovers and compiles all spec files under dir.
//
// Each file is decoded, validated, and compiled independently. A
// failing file becomes an ERROR result and never stops its neighbors;
// only a filesystem error on discovery or a cancelled context aborts
// the run itself.
func (r *Runner) Run(ctx context.Context, dir string) (*Summary, error) {
	files, err := DiscoverUnits(dir)
	if err != nil {
		return nil, err
	}

	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	ids := r.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}

	summary := &Summary{
		RunID:     ids.Generate(),
		InputDir:  dir,
		StartedAt: time.Now().UTC(),
		Total:     len(files),
		Results:   make([]FileResult, len(files)),
	}

	slog.Info("batch run starting",
		"run_id", summary.RunID,
		"dir", dir,
		"files", len(files),
		"workers", workers,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summary.Results[i] = CompileFile(file)
			logResult(summary.Results[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range summary.Results {
		if res.Status == StatusSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	summary.FinishedAt = time.Now().UTC()

	slog.Info("batch run finished",
		"run_id", summary.RunID,
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)

	return summary, nil
}

// CompileFile decodes and compiles a single spec file.
//
// Every failure mode folds into the returned result: unreadable files,
// unknown extensions, decode errors, and compile errors all produce an
// ERROR status with at least one message.
func CompileFile(path string) FileResult {
	res := FileResult{File: path, Status: StatusError}

	format, ok := spec.FormatForPath(path)
	if !ok {
		res.Errors = []string{fmt.Sprintf("unsupported spec extension %q", filepath.Ext(path))}
		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Errors = []string{fmt.Sprintf("read spec file: %v", err)}
		return res
	}

	q, fingerprint, err := spec.Decode(data, format, filepath.Base(path))
	if err != nil {
		res.Errors = []string{err.Error()}
		return res
	}
	res.Fingerprint = fingerprint

	result, errs := cypher.Compile(q)
	res.Warnings = result.Warnings
	if len(errs) > 0 {
		res.Errors = make([]string, len(errs))
		for i, e := range errs {
			res.Errors[i] = e.Error()
		}
		return res
	}

	res.Status = StatusSuccess
	res.Query = result.Query
	return res
}

// logResult logs one file outcome at completion time. Debug level keeps
// per-file noise out of normal runs; failures are always visible.
func logResult(res FileResult) {
	if res.Status == StatusSuccess {
		slog.Debug("spec compiled",
			"file", res.File,
			"fingerprint", res.Fingerprint,
			"warnings", len(res.Warnings),
		)
		return
	}
	slog.Warn("spec failed",
		"file", res.File,
		"errors", len(res.Errors),
	)
}
