package cypher

import (
	"fmt"
	"strconv"
	"strings"
)

// QueryShape is the structural summary of an emitted query, recovered by
// scanning the compiler's own output. The scanner recognizes only the
// clause shapes this package emits; it is not a general Cypher parser.
type QueryShape struct {
	Clauses      []ClauseInfo
	Aliases      map[string]string // alias to label, first occurrence wins
	AliasOrder   []string          // binding order
	Rels         []RelInfo
	WhereText    string
	WithText     string
	ReturnFields []string
	Distinct     bool
	OrderBy      []string
	Limit        *int
}

// ClauseInfo records one clause line in emission order.
type ClauseInfo struct {
	Keyword string
	Body    string
}

// RelInfo is one relationship arrow, normalized to its declared
// direction: From is the arrow's tail regardless of how the pattern was
// written.
type RelInfo struct {
	From     string
	To       string
	Type     string
	Optional bool
}

// ParseQuery scans a rendered query back into its structural parts.
// Every declared alias and relationship of the source spec is
// recoverable from the result.
func ParseQuery(query string) (*QueryShape, error) {
	shape := &QueryShape{Aliases: make(map[string]string)}

	for _, line := range strings.Split(query, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "OPTIONAL MATCH "):
			body := line[len("OPTIONAL MATCH "):]
			shape.Clauses = append(shape.Clauses, ClauseInfo{Keyword: "OPTIONAL MATCH", Body: body})
			if err := shape.parsePattern(body, true); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "MATCH "):
			body := line[len("MATCH "):]
			shape.Clauses = append(shape.Clauses, ClauseInfo{Keyword: "MATCH", Body: body})
			if err := shape.parsePattern(body, false); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "WHERE "):
			shape.WhereText = line[len("WHERE "):]
			shape.Clauses = append(shape.Clauses, ClauseInfo{Keyword: "WHERE", Body: shape.WhereText})
		case strings.HasPrefix(line, "WITH "):
			shape.WithText = line[len("WITH "):]
			shape.Clauses = append(shape.Clauses, ClauseInfo{Keyword: "WITH", Body: shape.WithText})
		case strings.HasPrefix(line, "RETURN DISTINCT "):
			body := line[len("RETURN DISTINCT "):]
			shape.Distinct = true
			shape.ReturnFields = splitFields(body)
			shape.Clauses = append(shape.Clauses, ClauseInfo{Keyword: "RETURN", Body: body})
		case strings.HasPrefix(line, "RETURN "):
			body := line[len("RETURN "):]
			shape.ReturnFields = splitFields(body)
			shape.Clauses = append(shape.Clauses, ClauseInfo{Keyword: "RETURN", Body: body})
		case strings.HasPrefix(line, "ORDER BY "):
			body := line[len("ORDER BY "):]
			shape.OrderBy = splitFields(body)
			shape.Clauses = append(shape.Clauses, ClauseInfo{Keyword: "ORDER BY", Body: body})
		case strings.HasPrefix(line, "LIMIT "):
			body := line[len("LIMIT "):]
			n, err := strconv.Atoi(body)
			if err != nil {
				return nil, fmt.Errorf("bad LIMIT value %q: %w", body, err)
			}
			shape.Limit = &n
			shape.Clauses = append(shape.Clauses, ClauseInfo{Keyword: "LIMIT", Body: body})
		default:
			return nil, fmt.Errorf("unrecognized clause %q", line)
		}
	}

	return shape, nil
}

func (s *QueryShape) noteAlias(alias, label string) {
	if _, known := s.Aliases[alias]; !known {
		s.Aliases[alias] = label
		s.AliasOrder = append(s.AliasOrder, alias)
	}
}

// parsePattern walks a pattern body segment by segment. Each segment
// starts with a node; arrows alternate with nodes until a comma or the
// end of the body.
func (s *QueryShape) parsePattern(body string, optional bool) error {
	sc := &patternScanner{input: body}
	for {
		alias, label, err := sc.node()
		if err != nil {
			return err
		}
		s.noteAlias(alias, label)
		prev := alias

		for {
			relType, forward, more, err := sc.arrow()
			if err != nil {
				return err
			}
			if !more {
				break
			}
			alias, label, err = sc.node()
			if err != nil {
				return err
			}
			s.noteAlias(alias, label)
			if forward {
				s.Rels = append(s.Rels, RelInfo{From: prev, To: alias, Type: relType, Optional: optional})
			} else {
				s.Rels = append(s.Rels, RelInfo{From: alias, To: prev, Type: relType, Optional: optional})
			}
			prev = alias
		}

		if sc.done() {
			return nil
		}
	}
}

// patternScanner tokenizes a pattern body: node groups, relationship
// arrows, and segment commas.
type patternScanner struct {
	input string
	pos   int
}

func (sc *patternScanner) done() bool {
	return sc.pos >= len(sc.input)
}

// node consumes an (alias:Label) group.
func (sc *patternScanner) node() (alias, label string, err error) {
	if sc.done() || sc.input[sc.pos] != '(' {
		return "", "", fmt.Errorf("expected node at offset %d in %q", sc.pos, sc.input)
	}
	end := strings.IndexByte(sc.input[sc.pos:], ')')
	if end < 0 {
		return "", "", fmt.Errorf("unterminated node at offset %d in %q", sc.pos, sc.input)
	}
	inner := sc.input[sc.pos+1 : sc.pos+end]
	sc.pos += end + 1

	alias, label, found := strings.Cut(inner, ":")
	if !found || alias == "" || label == "" {
		return "", "", fmt.Errorf("node %q is not alias:Label", inner)
	}
	return alias, label, nil
}

// arrow consumes a relationship arrow or a segment comma. more is false
// when the scanner hit a comma or the end of the body.
func (sc *patternScanner) arrow() (relType string, forward, more bool, err error) {
	rest := sc.input[sc.pos:]
	switch {
	case sc.done():
		return "", false, false, nil
	case strings.HasPrefix(rest, ", "):
		sc.pos += 2
		return "", false, false, nil
	case strings.HasPrefix(rest, "-[:"):
		end := strings.Index(rest, "]->")
		if end < 0 {
			return "", false, false, fmt.Errorf("unterminated arrow at offset %d in %q", sc.pos, sc.input)
		}
		relType = rest[3:end]
		sc.pos += end + 3
		return relType, true, true, nil
	case strings.HasPrefix(rest, "<-[:"):
		end := strings.Index(rest, "]-")
		if end < 0 {
			return "", false, false, fmt.Errorf("unterminated arrow at offset %d in %q", sc.pos, sc.input)
		}
		relType = rest[4:end]
		sc.pos += end + 2
		return relType, false, true, nil
	default:
		return "", false, false, fmt.Errorf("unexpected token at offset %d in %q", sc.pos, sc.input)
	}
}

// splitFields splits a projection list on ", " while respecting
// backtick-quoted names, which may themselves contain commas.
func splitFields(s string) []string {
	var fields []string
	var sb strings.Builder
	inQuote := false
	for i := 0; i < len(s); {
		switch {
		case s[i] == '`':
			inQuote = !inQuote
			sb.WriteByte(s[i])
			i++
		case !inQuote && strings.HasPrefix(s[i:], ", "):
			fields = append(fields, sb.String())
			sb.Reset()
			i += 2
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	if sb.Len() > 0 {
		fields = append(fields, sb.String())
	}
	return fields
}
