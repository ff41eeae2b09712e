package cypher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/graphspec/cyphergen/internal/spec"
)

// knownOperators maps a normalized operator token to its emitted form.
// Anything else is a render error rather than raw interpolation.
var knownOperators = map[string]string{
	"=":           "=",
	"<>":          "<>",
	"<":           "<",
	"<=":          "<=",
	">":           ">",
	">=":          ">=",
	"=~":          "=~",
	"IN":          "IN",
	"CONTAINS":    "CONTAINS",
	"STARTS WITH": "STARTS WITH",
	"ENDS WITH":   "ENDS WITH",
}

// normalizeOperator uppercases keyword operators and collapses interior
// whitespace so "starts  with" and "STARTS WITH" mean the same thing.
func normalizeOperator(op string) string {
	return strings.ToUpper(strings.Join(strings.Fields(op), " "))
}

// RenderWhere renders the condition tree as a WHERE clause.
func RenderWhere(cond spec.Condition) (string, []RenderError) {
	body, errs := renderCondition(cond, "whereClause")
	if len(errs) > 0 {
		return "", errs
	}
	return "WHERE " + body, nil
}

// renderCondition walks a condition tree. AND/OR children that are
// themselves combinators of a different kind get parentheses; a NOT
// always parenthesizes its child.
func renderCondition(cond spec.Condition, path string) (string, []RenderError) {
	switch node := cond.(type) {
	case spec.Comparison:
		return renderComparison(node, path)
	case *spec.Comparison:
		return renderComparison(*node, path)
	case spec.Group:
		return renderGroup(node, path)
	case *spec.Group:
		return renderGroup(*node, path)
	default:
		return "", []RenderError{{
			Field:   path,
			Message: fmt.Sprintf("unknown condition type %T", cond),
			Code:    ErrUnknownOperator,
		}}
	}
}

func renderGroup(g spec.Group, path string) (string, []RenderError) {
	if len(g.Conditions) == 0 {
		return "", []RenderError{{
			Field:   path,
			Message: fmt.Sprintf("combinator %s has no conditions", g.Op),
			Code:    ErrEmptyGroup,
		}}
	}

	var errs []RenderError
	parts := make([]string, 0, len(g.Conditions))
	for i, child := range g.Conditions {
		childPath := fmt.Sprintf("%s.conditions[%d]", path, i)
		body, childErrs := renderCondition(child, childPath)
		if len(childErrs) > 0 {
			errs = append(errs, childErrs...)
			continue
		}
		if op, nested := groupOp(child); nested && op != g.Op {
			body = "(" + body + ")"
		}
		parts = append(parts, body)
	}
	if len(errs) > 0 {
		return "", errs
	}

	if g.Op == spec.OpNot {
		return "NOT (" + parts[0] + ")", nil
	}
	return strings.Join(parts, " "+string(g.Op)+" "), nil
}

// groupOp reports the combinator of a child condition, if it is one.
func groupOp(cond spec.Condition) (spec.BoolOp, bool) {
	switch node := cond.(type) {
	case spec.Group:
		return node.Op, true
	case *spec.Group:
		return node.Op, true
	default:
		return "", false
	}
}

func renderComparison(c spec.Comparison, path string) (string, []RenderError) {
	op, known := knownOperators[normalizeOperator(c.Operator)]
	if !known {
		return "", []RenderError{{
			Field:   path + ".operator",
			Message: fmt.Sprintf("unknown operator %q", c.Operator),
			Code:    ErrUnknownOperator,
		}}
	}

	// Null comparisons use the IS NULL idiom instead of an operator.
	if _, isNull := c.Value.(spec.Null); isNull {
		switch op {
		case "=":
			return c.Field + " IS NULL", nil
		case "<>":
			return c.Field + " IS NOT NULL", nil
		default:
			return "", []RenderError{{
				Field:   path + ".value",
				Message: fmt.Sprintf("null cannot be compared with %q; use = or <>", c.Operator),
				Code:    ErrBadNullComparison,
			}}
		}
	}

	return c.Field + " " + op + " " + renderLiteral(c.Value), nil
}

// renderLiteral renders a scalar in its Cypher textual form.
func renderLiteral(v spec.Literal) string {
	switch val := v.(type) {
	case spec.String:
		return quoteString(string(val))
	case spec.Int:
		return strconv.FormatInt(int64(val), 10)
	case spec.Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case spec.Bool:
		if val {
			return "true"
		}
		return "false"
	case spec.Null:
		return "null"
	default:
		return "null"
	}
}

// quoteString single-quotes a string literal, escaping backslashes and
// quotes so the emitted text always parses.
func quoteString(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return "'" + escaped + "'"
}

// RenderWith renders a WITH clause: plain fields first, then
// aggregations as fn(arg) AS alias, all in declaration order.
func RenderWith(w *spec.WithSpec) (string, []RenderError) {
	var errs []RenderError
	entries := make([]string, 0, len(w.Fields)+len(w.Aggregations))
	entries = append(entries, w.Fields...)

	for i, agg := range w.Aggregations {
		if strings.TrimSpace(agg.Function) == "" || strings.TrimSpace(agg.Alias) == "" {
			errs = append(errs, RenderError{
				Field:   fmt.Sprintf("with.aggregations[%d]", i),
				Message: "aggregation requires a function and an alias",
				Code:    ErrBadAggregation,
			})
			continue
		}
		entries = append(entries, fmt.Sprintf("%s(%s) AS %s", agg.Function, agg.Field, agg.Alias))
	}
	if len(errs) > 0 {
		return "", errs
	}
	if len(entries) == 0 {
		return "", []RenderError{{
			Field:   "with",
			Message: "WITH clause has no fields or aggregations",
			Code:    ErrBadAggregation,
		}}
	}
	return "WITH " + strings.Join(entries, ", "), nil
}

// RenderReturn renders the RETURN clause.
func RenderReturn(ret spec.ReturnSpec) (string, []RenderError) {
	if len(ret.Fields) == 0 {
		return "", []RenderError{{
			Field:   "return.fields",
			Message: "RETURN requires at least one field",
			Code:    ErrEmptyReturn,
		}}
	}
	if ret.Distinct {
		return "RETURN DISTINCT " + strings.Join(ret.Fields, ", "), nil
	}
	return "RETURN " + strings.Join(ret.Fields, ", "), nil
}

// RenderOrderBy renders the ORDER BY clause. Ascending is the default
// and emits no direction token.
func RenderOrderBy(entries []spec.OrderBySpec) (string, []RenderError) {
	var errs []RenderError
	parts := make([]string, 0, len(entries))
	for i, e := range entries {
		switch strings.ToUpper(strings.TrimSpace(e.Direction)) {
		case "", "ASC":
			parts = append(parts, e.Field)
		case "DESC":
			parts = append(parts, e.Field+" DESC")
		default:
			errs = append(errs, RenderError{
				Field:   fmt.Sprintf("orderBy[%d].direction", i),
				Message: fmt.Sprintf("direction %q must be ASC or DESC", e.Direction),
				Code:    ErrBadDirection,
			})
		}
	}
	if len(errs) > 0 {
		return "", errs
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// RenderLimit renders the LIMIT clause.
func RenderLimit(n int) (string, []RenderError) {
	if n <= 0 {
		return "", []RenderError{{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be a positive integer, got %d", n),
			Code:    ErrBadLimit,
		}}
	}
	return "LIMIT " + strconv.Itoa(n), nil
}
