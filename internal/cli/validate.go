package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphspec/cyphergen/internal/batch"
)

// FileValidation is the per-file outcome of a validate run.
type FileValidation struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool             `json:"valid"`
	Total   int              `json:"total"`
	Invalid int              `json:"invalid"`
	Files   []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate spec files without writing output",
		Long: `Validate one spec file or a directory of spec files.

Each file goes through the full compile pipeline, identifier checks,
graph construction, pattern chaining, and clause rendering, but the
query text is discarded. Diagnostics are printed per file.

Exit codes:
  0 - Every file is valid
  1 - At least one file is invalid
  2 - Command error (path not found, no spec files, etc.)

Examples:
  cyphergen validate ./queries
  cyphergen validate ./queries/hires.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	files, err := ResolveSpecPaths(path)
	if err != nil {
		return outputValidateError(formatter, loadErrorCode(err), err.Error())
	}

	formatter.VerboseLog("Found %d spec file(s)", len(files))

	result := ValidationResult{Valid: true, Total: len(files)}
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)
		res := batch.CompileFile(file)
		fv := FileValidation{
			File:     res.File,
			Valid:    res.Status == batch.StatusSuccess,
			Errors:   res.Errors,
			Warnings: res.Warnings,
		}
		if !fv.Valid {
			result.Valid = false
			result.Invalid++
		}
		result.Files = append(result.Files, fv)
	}

	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationFailures(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ All specs valid (%d file(s))\n", result.Total)
	return nil
}

// outputValidateError outputs a command-level failure (bad path, empty dir).
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Loader failures are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationFailures outputs per-file diagnostics.
func outputValidationFailures(formatter *OutputFormatter, result ValidationResult) error {
	failMsg := fmt.Sprintf("validation failed: %d of %d file(s) invalid", result.Invalid, result.Total)

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeGeneric,
				Message: failMsg,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, failMsg)
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(formatter.Writer, "✓ %s\n", fv.File)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✗ %s\n", fv.File)
		for _, warning := range fv.Warnings {
			fmt.Fprintf(formatter.Writer, "  WARNING: %s\n", warning)
		}
		for _, msg := range fv.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", msg)
		}
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "%d of %d file(s) invalid\n", result.Invalid, result.Total)

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, failMsg)
}
