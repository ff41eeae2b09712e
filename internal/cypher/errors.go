package cypher

import "fmt"

// Chain error codes (E120-E129).
const (
	ErrUnanchoredOptional = "E120" // optional relationship with no bound alias
)

// Render error codes (E130-E139).
const (
	ErrUnknownOperator   = "E130" // operator token not in the known set
	ErrEmptyReturn       = "E131" // RETURN requires at least one field
	ErrBadNullComparison = "E132" // null only combines with = and <>
	ErrBadDirection      = "E133" // ORDER BY direction must be ASC or DESC
	ErrBadLimit          = "E134" // LIMIT must be a positive integer
	ErrEmptyGroup        = "E135" // combinator with no conditions
	ErrBadAggregation    = "E136" // malformed WITH entry
)

// ChainError reports a pattern that cannot be chained into clauses.
type ChainError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ChainError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// RenderError reports a clause that cannot be rendered as Cypher text.
type RenderError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e RenderError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}
