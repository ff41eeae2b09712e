package cypher

import (
	"fmt"
	"strings"

	"github.com/graphspec/cyphergen/internal/graph"
)

// PatternClause is one MATCH or OPTIONAL MATCH clause.
type PatternClause struct {
	Optional bool
	Pattern  string
}

// Render returns the full clause line.
func (c PatternClause) Render() string {
	if c.Optional {
		return "OPTIONAL MATCH " + c.Pattern
	}
	return "MATCH " + c.Pattern
}

// ChainPatterns converts the relationship graph into pattern clauses.
//
// Each connected component of the mandatory subgraph becomes exactly one
// MATCH clause. Isolated nodes follow as bare MATCH clauses in
// declaration order. Optional relationships come last, one OPTIONAL
// MATCH each in declaration order, anchored on an alias already bound by
// an earlier clause; an optional relationship may never introduce the
// first binding of a query.
//
// The second return value lists aliases in binding order.
func ChainPatterns(m *graph.Model) ([]PatternClause, []string, []ChainError) {
	var mandatory, optional []int
	for i, r := range m.Rels {
		if r.Optional {
			optional = append(optional, i)
		} else {
			mandatory = append(mandatory, i)
		}
	}

	var clauses []PatternClause
	bound := make(map[string]bool)
	var boundOrder []string
	bind := func(alias string) {
		if !bound[alias] {
			bound[alias] = true
			boundOrder = append(boundOrder, alias)
		}
	}

	for _, component := range m.ComponentsOf(mandatory) {
		pattern, aliases := chainComponent(m, component)
		clauses = append(clauses, PatternClause{Pattern: pattern})
		for _, a := range aliases {
			bind(a)
		}
	}

	for _, alias := range m.Isolated {
		clauses = append(clauses, PatternClause{Pattern: formatNode(m, alias)})
		bind(alias)
	}

	var errs []ChainError
	for _, e := range optional {
		rel := m.Rels[e]
		var pattern string
		switch {
		case bound[rel.Node1]:
			pattern = formatNode(m, rel.Node1) + "-[:" + rel.Type + "]->" + formatNode(m, rel.Node2)
		case bound[rel.Node2]:
			pattern = formatNode(m, rel.Node2) + "<-[:" + rel.Type + "]-" + formatNode(m, rel.Node1)
		default:
			errs = append(errs, ChainError{
				Field: fmt.Sprintf("relationships[%d]", e),
				Message: fmt.Sprintf(
					"optional relationship %s between %q and %q has no previously bound alias to anchor on",
					rel.Type, rel.Node1, rel.Node2),
				Code: ErrUnanchoredOptional,
			})
			continue
		}
		clauses = append(clauses, PatternClause{Optional: true, Pattern: pattern})
		bind(rel.Node1)
		bind(rel.Node2)
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return clauses, boundOrder, nil
}

// chainComponent walks one connected component greedily and renders it
// as a single pattern. When the walk gets stuck with edges left, a new
// comma-joined segment starts at the earliest-declared unused edge that
// shares an alias with the chain so far, so every segment stays
// connected to the clause.
func chainComponent(m *graph.Model, edges []int) (string, []string) {
	used := make(map[int]bool, len(edges))
	seen := make(map[string]bool)
	var seenOrder []string

	note := func(alias string) {
		if !seen[alias] {
			seen[alias] = true
			seenOrder = append(seenOrder, alias)
		}
	}

	current := startAlias(m, edges)
	var seg strings.Builder
	var segments []string
	seg.WriteString(formatNode(m, current))
	note(current)

	remaining := len(edges)
	for remaining > 0 {
		e, ok := nextEdge(m, edges, used, current)
		if !ok {
			// Stuck at a dead end; splice a new segment at a shared alias.
			spliceAt := spliceAlias(m, edges, used, seen)
			segments = append(segments, seg.String())
			seg.Reset()
			current = spliceAt
			seg.WriteString(formatNode(m, current))
			continue
		}

		rel := m.Rels[e]
		if rel.Node1 == current {
			seg.WriteString("-[:" + rel.Type + "]->")
			current = rel.Node2
		} else {
			seg.WriteString("<-[:" + rel.Type + "]-")
			current = rel.Node1
		}
		seg.WriteString(formatNode(m, current))
		note(current)
		used[e] = true
		remaining--
	}
	segments = append(segments, seg.String())

	return strings.Join(segments, ", "), seenOrder
}

// startAlias picks the walk's starting point: the earliest-declared
// alias with degree 1 in the component, or node1 of the earliest edge
// when the component has no endpoints (a cycle).
func startAlias(m *graph.Model, edges []int) string {
	for _, e := range edges {
		for _, alias := range []string{m.Rels[e].Node1, m.Rels[e].Node2} {
			if m.Degree(alias, edges) == 1 {
				return alias
			}
		}
	}
	return m.Rels[edges[0]].Node1
}

// nextEdge finds the earliest-declared unused edge incident to the
// current alias.
func nextEdge(m *graph.Model, edges []int, used map[int]bool, current string) (int, bool) {
	for _, e := range edges {
		if used[e] {
			continue
		}
		if m.Rels[e].Node1 == current || m.Rels[e].Node2 == current {
			return e, true
		}
	}
	return 0, false
}

// spliceAlias returns the shared alias of the earliest-declared unused
// edge that touches the chain. Connectivity of the component guarantees
// such an edge exists whenever edges remain.
func spliceAlias(m *graph.Model, edges []int, used map[int]bool, seen map[string]bool) string {
	for _, e := range edges {
		if used[e] {
			continue
		}
		if seen[m.Rels[e].Node1] {
			return m.Rels[e].Node1
		}
		if seen[m.Rels[e].Node2] {
			return m.Rels[e].Node2
		}
	}
	// Unreachable for a connected component; keep the walk total anyway.
	return m.Rels[edges[0]].Node1
}

func formatNode(m *graph.Model, alias string) string {
	return "(" + alias + ":" + m.Labels[alias] + ")"
}
