package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Literal is a sealed interface over the scalar values a condition may
// compare against. Only Null, String, Int, Float, and Bool implement it.
// Arrays and objects are not literals: a comparison value is always a
// scalar.
type Literal interface {
	literalValue() // Sealed - only types in this package implement it.
}

// Null represents a JSON null. Equality comparisons against Null render
// with the IS NULL / IS NOT NULL idiom instead of an operator.
type Null struct{}

func (Null) literalValue() {}

// String represents a string literal.
type String string

func (String) literalValue() {}

// Int represents an integer literal. Numbers without a fraction or
// exponent decode as Int.
type Int int64

func (Int) literalValue() {}

// Float represents a floating-point literal. Any number carrying a
// fraction or exponent decodes as Float.
type Float float64

func (Float) literalValue() {}

// Bool represents a boolean literal.
type Bool bool

func (Bool) literalValue() {}

// DecodeLiteral parses a single JSON value into a Literal.
func DecodeLiteral(data []byte) (Literal, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return literalFromAny(raw)
}

// literalFromAny converts a decoded JSON value into a Literal. The
// decoder must have used json.Number so the int/float split survives.
func literalFromAny(v any) (Literal, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		if strings.ContainsAny(string(val), ".eE") {
			f, err := val.Float64()
			if err != nil {
				return nil, fmt.Errorf("number out of range: %s", val)
			}
			return Float(f), nil
		}
		i, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", val)
		}
		return Int(i), nil
	case []any:
		return nil, fmt.Errorf("condition values must be scalars, got array")
	case map[string]any:
		return nil, fmt.Errorf("condition values must be scalars, got object")
	default:
		return nil, fmt.Errorf("unsupported literal type: %T", v)
	}
}
