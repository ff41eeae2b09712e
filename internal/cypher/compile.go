// Package cypher turns analyzed query specs into Cypher text: chaining
// relationship patterns into MATCH clauses, rendering filter and
// projection clauses, and assembling the final query.
package cypher

import (
	"strings"

	"github.com/graphspec/cyphergen/internal/graph"
	"github.com/graphspec/cyphergen/internal/spec"
)

// Result is the outcome of compiling one query spec.
type Result struct {
	Query    string   `json:"query,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// assembler accumulates rendered clauses and errors across stages.
type assembler struct {
	clauses []string
	errs    []error
}

// add appends a rendered clause, or records why it could not render.
func (a *assembler) add(clause string, renderErrs []RenderError) {
	if len(renderErrs) > 0 {
		for _, e := range renderErrs {
			a.errs = append(a.errs, e)
		}
		return
	}
	a.clauses = append(a.clauses, clause)
}

// Compile converts a query spec into executable Cypher text.
//
// Stages run in order: identifier validation, graph analysis, pattern
// chaining, clause rendering, assembly. All detectable errors are
// collected rather than short-circuited; a stage that depends on a
// failed upstream value is skipped, but independent stages still run so
// one pass reports everything. On any error the result carries no query
// text, never a partial query.
//
// Compilation is pure: the same spec always yields the same text.
func Compile(q *spec.QuerySpec) (*Result, []error) {
	asm := &assembler{}

	for _, e := range spec.Validate(q) {
		asm.errs = append(asm.errs, e)
	}

	result := &Result{}
	model, graphErrs := graph.Build(q.Nodes, q.Relationships)
	for _, e := range graphErrs {
		asm.errs = append(asm.errs, e)
	}
	if model != nil {
		result.Warnings = model.Warnings
		patterns, _, chainErrs := ChainPatterns(model)
		for _, e := range chainErrs {
			asm.errs = append(asm.errs, e)
		}
		for _, c := range patterns {
			asm.clauses = append(asm.clauses, c.Render())
		}
	}

	if q.Where != nil {
		asm.add(RenderWhere(q.Where))
	}
	if q.With != nil {
		asm.add(RenderWith(q.With))
	}
	asm.add(RenderReturn(q.Return))
	if len(q.OrderBy) > 0 {
		asm.add(RenderOrderBy(q.OrderBy))
	}
	if q.Limit != nil {
		asm.add(RenderLimit(*q.Limit))
	}

	if len(asm.errs) > 0 {
		return result, asm.errs
	}
	result.Query = strings.Join(asm.clauses, "\n")
	return result, nil
}
