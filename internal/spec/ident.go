package spec

import (
	"fmt"
	"regexp"
	"strings"
)

// identPattern matches a bare identifier: an alias, an aggregation name,
// or an unquoted field name.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FieldRef is a parsed alias-qualified field reference.
type FieldRef struct {
	Alias  string
	Field  string // without backticks
	Quoted bool   // the field part was backtick-quoted
}

// String renders the reference back in its canonical written form.
func (r FieldRef) String() string {
	if r.Quoted {
		return r.Alias + ".`" + r.Field + "`"
	}
	return r.Alias + "." + r.Field
}

// ParseFieldRef splits and lexically checks a reference of the form
// alias.field, where the field part is either a bare identifier or a
// backtick-quoted name. Any field name containing whitespace or other
// non-identifier characters must be backtick-quoted. Alias declaration
// is not checked here; see Validate.
func ParseFieldRef(path, ref string) (FieldRef, []ValidationError) {
	if strings.TrimSpace(ref) == "" {
		return FieldRef{}, []ValidationError{{
			Field:   path,
			Message: "field reference is empty",
			Code:    ErrEmptyFieldRef,
		}}
	}

	dot := strings.Index(ref, ".")
	if dot < 0 {
		return FieldRef{}, []ValidationError{{
			Field:   path,
			Message: fmt.Sprintf("reference %q must be qualified as alias.field", ref),
			Code:    ErrMissingQualifier,
		}}
	}

	var errs []ValidationError
	alias, field := ref[:dot], ref[dot+1:]

	if alias == "" {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("reference %q has an empty alias", ref),
			Code:    ErrInvalidAlias,
		})
	} else if !identPattern.MatchString(alias) {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("alias %q is not a valid identifier", alias),
			Code:    ErrInvalidAlias,
		})
	}

	parsed := FieldRef{Alias: alias}
	switch {
	case field == "":
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("reference %q has an empty field name", ref),
			Code:    ErrEmptyFieldName,
		})
	case strings.HasPrefix(field, "`"):
		inner, quoteErrs := parseQuotedField(path, field)
		errs = append(errs, quoteErrs...)
		parsed.Field = inner
		parsed.Quoted = true
	case identPattern.MatchString(field):
		parsed.Field = field
	case strings.ContainsAny(field, " \t"):
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("field name %q contains whitespace and must be backtick-quoted", field),
			Code:    ErrMissingBackticks,
		})
	default:
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("field name %q contains non-identifier characters and must be backtick-quoted", field),
			Code:    ErrMissingBackticks,
		})
	}

	if len(errs) > 0 {
		return FieldRef{}, errs
	}
	return parsed, nil
}

// parseQuotedField checks a backtick-quoted field part and returns the
// inner name. The quoting must be balanced and the name non-empty;
// backticks inside the name are not supported.
func parseQuotedField(path, field string) (string, []ValidationError) {
	if len(field) < 2 || !strings.HasSuffix(field, "`") {
		return "", []ValidationError{{
			Field:   path,
			Message: fmt.Sprintf("field name %q has unterminated backtick quoting", field),
			Code:    ErrUnbalancedBacktick,
		}}
	}
	inner := field[1 : len(field)-1]
	if inner == "" {
		return "", []ValidationError{{
			Field:   path,
			Message: "backtick-quoted field name is empty",
			Code:    ErrEmptyQuotedName,
		}}
	}
	if strings.Contains(inner, "`") {
		return "", []ValidationError{{
			Field:   path,
			Message: fmt.Sprintf("field name %q contains a stray backtick", field),
			Code:    ErrUnbalancedBacktick,
		}}
	}
	return inner, nil
}

// Validate checks every alias name and field reference in the spec
// against the declared alias set. It returns all errors found (does not
// fail-fast). Graph-structure checks (duplicate aliases, unknown aliases
// in relationships) belong to the graph builder, not here.
func Validate(q *QuerySpec) []ValidationError {
	var errs []ValidationError

	aliases := make(map[string]bool, len(q.Nodes))
	for i, n := range q.Nodes {
		if n.Alias != "" && !identPattern.MatchString(n.Alias) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("nodes[%d].alias", i),
				Message: fmt.Sprintf("alias %q is not a valid identifier", n.Alias),
				Code:    ErrInvalidAlias,
			})
		}
		aliases[n.Alias] = true
	}

	// Aggregation aliases become referable names for RETURN and ORDER BY.
	aggAliases := make(map[string]bool)
	if q.Where != nil {
		errs = append(errs, validateCondition(q.Where, "whereClause", aliases)...)
	}
	if q.With != nil {
		for i, f := range q.With.Fields {
			path := fmt.Sprintf("with.fields[%d]", i)
			errs = append(errs, validateQualifiedRef(path, f, aliases)...)
		}
		for i, agg := range q.With.Aggregations {
			base := fmt.Sprintf("with.aggregations[%d]", i)
			errs = append(errs, validateAggregation(base, agg, aliases)...)
			if agg.Alias != "" {
				aggAliases[agg.Alias] = true
			}
		}
	}
	for i, f := range q.Return.Fields {
		path := fmt.Sprintf("return.fields[%d]", i)
		errs = append(errs, validateProjectionRef(path, f, aliases, aggAliases)...)
	}
	for i, ob := range q.OrderBy {
		path := fmt.Sprintf("orderBy[%d].field", i)
		errs = append(errs, validateProjectionRef(path, ob.Field, aliases, aggAliases)...)
	}

	return errs
}

// validateCondition walks a condition tree collecting field errors.
func validateCondition(c Condition, path string, aliases map[string]bool) []ValidationError {
	switch node := c.(type) {
	case Comparison:
		return validateQualifiedRef(path+".field", node.Field, aliases)
	case *Comparison:
		return validateQualifiedRef(path+".field", node.Field, aliases)
	case Group:
		return validateGroup(node, path, aliases)
	case *Group:
		return validateGroup(*node, path, aliases)
	default:
		return nil
	}
}

func validateGroup(g Group, path string, aliases map[string]bool) []ValidationError {
	var errs []ValidationError
	for i, child := range g.Conditions {
		childPath := fmt.Sprintf("%s.conditions[%d]", path, i)
		errs = append(errs, validateCondition(child, childPath, aliases)...)
	}
	return errs
}

// validateQualifiedRef requires the alias.field form with a declared
// alias. Used for WHERE and WITH fields, where bare names have no
// meaning yet.
func validateQualifiedRef(path, ref string, aliases map[string]bool) []ValidationError {
	parsed, errs := ParseFieldRef(path, ref)
	if len(errs) > 0 {
		return errs
	}
	if !aliases[parsed.Alias] {
		return []ValidationError{{
			Field:   path,
			Message: fmt.Sprintf("alias %q is not declared by any node", parsed.Alias),
			Code:    ErrUnknownAlias,
		}}
	}
	return nil
}

// validateProjectionRef accepts alias.field references and also bare
// names: a declared node alias (returning the whole node) or an
// aggregation alias introduced by WITH.
func validateProjectionRef(path, ref string, aliases, aggAliases map[string]bool) []ValidationError {
	if identPattern.MatchString(ref) {
		if aliases[ref] || aggAliases[ref] {
			return nil
		}
		return []ValidationError{{
			Field:   path,
			Message: fmt.Sprintf("name %q is neither a declared alias nor an aggregation alias", ref),
			Code:    ErrUnknownAlias,
		}}
	}
	return validateQualifiedRef(path, ref, aliases)
}

// validateAggregation checks fn(arg) AS alias parts. The argument may be
// a bare declared alias (count(r)) or a qualified field reference.
func validateAggregation(base string, agg Aggregation, aliases map[string]bool) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(agg.Function) == "" {
		errs = append(errs, ValidationError{
			Field:   base + ".function",
			Message: "aggregation function is empty",
			Code:    ErrEmptyFieldRef,
		})
	}
	if agg.Alias == "" || !identPattern.MatchString(agg.Alias) {
		errs = append(errs, ValidationError{
			Field:   base + ".alias",
			Message: fmt.Sprintf("aggregation alias %q is not a valid identifier", agg.Alias),
			Code:    ErrInvalidAlias,
		})
	}

	if identPattern.MatchString(agg.Field) {
		if !aliases[agg.Field] {
			errs = append(errs, ValidationError{
				Field:   base + ".field",
				Message: fmt.Sprintf("alias %q is not declared by any node", agg.Field),
				Code:    ErrUnknownAlias,
			})
		}
		return errs
	}
	errs = append(errs, validateQualifiedRef(base+".field", agg.Field, aliases)...)
	return errs
}
