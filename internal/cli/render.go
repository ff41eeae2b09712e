package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphspec/cyphergen/internal/cypher"
)

// RenderResult is the JSON payload for a successful render.
type RenderResult struct {
	File        string   `json:"file"`
	Fingerprint string   `json:"fingerprint"`
	Query       string   `json:"query"`
	Warnings    []string `json:"warnings,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Compile one spec file and print the query",
		Long: `Compile a single spec file and print the Cypher query on stdout.

The bare query text is written to stdout so it can be piped straight
into cypher-shell; warnings go to stderr. With --format json the query
is wrapped in the standard response envelope instead.

Examples:
  cyphergen render ./queries/hires.json
  cyphergen render ./queries/hires.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runRender(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	q, fingerprint, err := LoadSpecFile(path)
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot load spec", err)
	}

	result, errs := cypher.Compile(q)
	if len(errs) > 0 {
		return outputRenderErrors(formatter, path, errs, result.Warnings)
	}

	if opts.Format == "json" {
		response := CLIResponse{
			Status: "ok",
			Data: RenderResult{
				File:        path,
				Fingerprint: fingerprint,
				Query:       result.Query,
				Warnings:    result.Warnings,
			},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(formatter.GetErrWriter(), "WARNING: %s\n", warning)
	}
	fmt.Fprintln(formatter.Writer, result.Query)
	return nil
}

// outputRenderErrors reports compile failures for a single unit.
func outputRenderErrors(formatter *OutputFormatter, path string, errs []error, warnings []string) error {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: struct {
				File     string   `json:"file"`
				Errors   []string `json:"errors"`
				Warnings []string `json:"warnings,omitempty"`
			}{File: path, Errors: messages, Warnings: warnings},
			Error: &CLIError{
				Code:    ErrCodeGeneric,
				Message: fmt.Sprintf("compilation failed with %d error(s)", len(errs)),
			},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintf(formatter.Writer, "✗ %s failed to compile\n", path)
	for _, warning := range warnings {
		fmt.Fprintf(formatter.Writer, "  WARNING: %s\n", warning)
	}
	for _, msg := range messages {
		fmt.Fprintf(formatter.Writer, "  %s\n", msg)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}
