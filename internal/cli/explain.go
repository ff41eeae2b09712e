package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphspec/cyphergen/internal/cypher"
)

// ExplainReport is the structural breakdown of one compiled spec.
type ExplainReport struct {
	File          string          `json:"file"`
	Fingerprint   string          `json:"fingerprint"`
	Components    int             `json:"components"`
	Clauses       []ExplainClause `json:"clauses"`
	Aliases       []ExplainAlias  `json:"aliases"`
	Relationships []ExplainRel    `json:"relationships,omitempty"`
	Warnings      []string        `json:"warnings,omitempty"`
}

// ExplainClause is one emitted clause line.
type ExplainClause struct {
	Keyword string `json:"keyword"`
	Body    string `json:"body"`
}

// ExplainAlias is one alias binding in emission order.
type ExplainAlias struct {
	Alias string `json:"alias"`
	Label string `json:"label"`
}

// ExplainRel is one relationship in its declared direction.
type ExplainRel struct {
	From     string `json:"from"`
	Type     string `json:"type"`
	To       string `json:"to"`
	Optional bool   `json:"optional,omitempty"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <file>",
		Short: "Show the structure of a compiled spec",
		Long: `Compile a single spec file and print its structural breakdown.

The emitted query is scanned back into clauses, alias bindings, and
relationships, so the output shows exactly what the compiler produced
and in what order: one MATCH per connected component, every alias with
its label in binding order, and every relationship with its direction
and optionality.

Examples:
  cyphergen explain ./queries/hires.json
  cyphergen explain ./queries/hires.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runExplain(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	shape, err := cypher.ParseQuery(result.Query)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot analyze query", err)
	}

	report := buildExplainReport(path, fingerprint, result.Warnings, shape)

	if opts.Format == "json" {
		response := CLIResponse{Status: "ok", Data: report}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	}

	return outputExplainText(formatter, report)
}

// buildExplainReport flattens a QueryShape into the report payload.
func buildExplainReport(path, fingerprint string, warnings []string, shape *cypher.QueryShape) ExplainReport {
	report := ExplainReport{
		File:        path,
		Fingerprint: fingerprint,
		Warnings:    warnings,
	}

	for _, clause := range shape.Clauses {
		report.Clauses = append(report.Clauses, ExplainClause{Keyword: clause.Keyword, Body: clause.Body})
		if clause.Keyword == "MATCH" {
			report.Components++
		}
	}
	for _, alias := range shape.AliasOrder {
		report.Aliases = append(report.Aliases, ExplainAlias{Alias: alias, Label: shape.Aliases[alias]})
	}
	for _, rel := range shape.Rels {
		report.Relationships = append(report.Relationships, ExplainRel{
			From:     rel.From,
			Type:     rel.Type,
			To:       rel.To,
			Optional: rel.Optional,
		})
	}
	return report
}

// outputExplainText prints the report in the batch report vocabulary.
func outputExplainText(formatter *OutputFormatter, report ExplainReport) error {
	w := formatter.Writer

	fmt.Fprintf(w, "FILE: %s\n", report.File)
	fmt.Fprintf(w, "FINGERPRINT: %s\n", report.Fingerprint)
	fmt.Fprintf(w, "COMPONENTS: %d\n", report.Components)
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}

	fmt.Fprintln(w, "CLAUSES:")
	for _, clause := range report.Clauses {
		fmt.Fprintf(w, "  %s %s\n", clause.Keyword, clause.Body)
	}

	fmt.Fprintln(w, "ALIASES:")
	for _, alias := range report.Aliases {
		fmt.Fprintf(w, "  %s: %s\n", alias.Alias, alias.Label)
	}

	if len(report.Relationships) > 0 {
		fmt.Fprintln(w, "RELATIONSHIPS:")
		for _, rel := range report.Relationships {
			suffix := ""
			if rel.Optional {
				suffix = " (optional)"
			}
			fmt.Fprintf(w, "  (%s)-[:%s]->(%s)%s\n", rel.From, rel.Type, rel.To, suffix)
		}
	}
	return nil
}
