package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Format identifies a recognized input syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatForPath maps a file name to its input format by extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".cue":
		return FormatCUE, true
	default:
		return "", false
	}
}

// Decode parses an input document and returns the spec together with the
// document fingerprint. YAML and CUE are funneled through the JSON wire
// shape so every format shares one strictness rule and one identity.
func Decode(data []byte, format Format, filename string) (*QuerySpec, string, error) {
	wire, err := wireJSON(data, format, filename)
	if err != nil {
		return nil, "", err
	}
	q, err := DecodeJSON(wire)
	if err != nil {
		return nil, "", err
	}
	fp, err := FingerprintJSON(wire)
	if err != nil {
		return nil, "", err
	}
	return q, fp, nil
}

// wireJSON converts an input document to its JSON wire form.
func wireJSON(data []byte, format Format, filename string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding YAML spec: %w", err)
		}
		wire, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("re-encoding YAML spec: %w", err)
		}
		return wire, nil
	case FormatCUE:
		ctx := cuecontext.New()
		v := ctx.CompileBytes(data, cue.Filename(filename))
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("compiling CUE spec: %w", err)
		}
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, fmt.Errorf("CUE spec is not concrete: %w", err)
		}
		wire, err := v.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("exporting CUE spec: %w", err)
		}
		return wire, nil
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

// rawSpec is the wire shape shared by all input formats. Fields whose
// decoding depends on document shape stay raw and are handled in build.
type rawSpec struct {
	Nodes         []NodeSpec         `json:"nodes"`
	Relationships []RelationshipSpec `json:"relationships"`
	Where         json.RawMessage    `json:"whereClause"`
	With          *WithSpec          `json:"with"`
	Return        *ReturnSpec        `json:"return"`
	OrderBy       json.RawMessage    `json:"orderBy"`
	Limit         *int               `json:"limit"`
}

// DecodeJSON parses a JSON document into a QuerySpec. Unknown fields are
// rejected so typos surface instead of silently dropping clauses.
func DecodeJSON(data []byte) (*QuerySpec, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()

	var raw rawSpec
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding query spec: %w", err)
	}
	return raw.build()
}

// DecodeYAML parses a YAML document into a QuerySpec.
func DecodeYAML(data []byte) (*QuerySpec, error) {
	wire, err := wireJSON(data, FormatYAML, "")
	if err != nil {
		return nil, err
	}
	return DecodeJSON(wire)
}

// DecodeCUE compiles a CUE document, requires it to be concrete, and
// decodes its JSON export. CUE here is an input syntax only; structural
// validation stays in this package.
func DecodeCUE(data []byte, filename string) (*QuerySpec, error) {
	wire, err := wireJSON(data, FormatCUE, filename)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(wire)
}

// FromRaw builds a QuerySpec from an already-decoded document, such as an
// inline spec in a scenario file.
func FromRaw(doc map[string]any) (*QuerySpec, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding raw spec: %w", err)
	}
	return DecodeJSON(data)
}

func (r *rawSpec) build() (*QuerySpec, error) {
	q := &QuerySpec{
		Nodes:         r.Nodes,
		Relationships: r.Relationships,
		With:          r.With,
		Limit:         r.Limit,
	}
	if r.Return != nil {
		q.Return = *r.Return
	}
	if present(r.Where) {
		cond, err := decodeCondition(r.Where, "whereClause")
		if err != nil {
			return nil, err
		}
		q.Where = cond
	}
	if present(r.OrderBy) {
		entries, err := decodeOrderBy(r.OrderBy)
		if err != nil {
			return nil, err
		}
		q.OrderBy = entries
	}
	return q, nil
}

// present reports whether a raw field was given a non-null value.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// conditionProbe covers both condition shapes: a combinator carries type
// and conditions, a comparison carries field, operator, and value.
type conditionProbe struct {
	Type       string            `json:"type"`
	Conditions []json.RawMessage `json:"conditions"`
	Field      string            `json:"field"`
	Operator   string            `json:"operator"`
	Value      json.RawMessage   `json:"value"`
}

// decodeCondition parses one node of the WHERE tree, distinguishing
// comparisons from combinators by shape.
func decodeCondition(data []byte, path string) (Condition, error) {
	var probe conditionProbe
	if err := strictUnmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	switch {
	case probe.Type != "":
		if probe.Field != "" || probe.Operator != "" {
			return nil, fmt.Errorf("%s: condition mixes combinator and comparison fields", path)
		}
		op := BoolOp(strings.ToUpper(probe.Type))
		if op != OpAnd && op != OpOr && op != OpNot {
			return nil, fmt.Errorf("%s: unknown combinator %q", path, probe.Type)
		}
		if len(probe.Conditions) == 0 {
			return nil, fmt.Errorf("%s: combinator %s has no conditions", path, op)
		}
		if op == OpNot && len(probe.Conditions) != 1 {
			return nil, fmt.Errorf("%s: NOT takes exactly one condition, got %d", path, len(probe.Conditions))
		}
		children := make([]Condition, len(probe.Conditions))
		for i, raw := range probe.Conditions {
			child, err := decodeCondition(raw, fmt.Sprintf("%s.conditions[%d]", path, i))
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return Group{Op: op, Conditions: children}, nil

	case probe.Field != "":
		if probe.Operator == "" {
			return nil, fmt.Errorf("%s: comparison is missing an operator", path)
		}
		value := Literal(Null{})
		if len(probe.Value) > 0 {
			v, err := DecodeLiteral(probe.Value)
			if err != nil {
				return nil, fmt.Errorf("%s.value: %w", path, err)
			}
			value = v
		}
		return Comparison{Field: probe.Field, Operator: probe.Operator, Value: value}, nil

	default:
		return nil, fmt.Errorf("%s: condition must be a comparison or a combinator", path)
	}
}

// decodeOrderBy accepts the array form and, for compatibility with older
// spec files, a single bare object normalized to a one-element list.
func decodeOrderBy(data json.RawMessage) ([]OrderBySpec, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var entries []OrderBySpec
		if err := strictUnmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("orderBy: %w", err)
		}
		return entries, nil
	case '{':
		var entry OrderBySpec
		if err := strictUnmarshal(trimmed, &entry); err != nil {
			return nil, fmt.Errorf("orderBy: %w", err)
		}
		return []OrderBySpec{entry}, nil
	default:
		return nil, fmt.Errorf("orderBy: expected an object or an array")
	}
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	return dec.Decode(v)
}
