package spec

import "fmt"

// Validation error codes (E101-E109).
const (
	ErrEmptyFieldRef      = "E101" // field reference is empty
	ErrMissingQualifier   = "E102" // field reference has no alias qualifier
	ErrInvalidAlias       = "E103" // alias is not a valid identifier
	ErrMissingBackticks   = "E104" // field name needs backtick quoting
	ErrEmptyFieldName     = "E105" // field name is empty
	ErrUnknownAlias       = "E106" // alias is not declared
	ErrUnbalancedBacktick = "E107" // backtick quoting is unterminated
	ErrEmptyQuotedName    = "E108" // backtick-quoted name is empty
)

// ValidationError reports one malformed identifier or field reference.
// Field is the location within the spec document, e.g.
// "whereClause.conditions[0].field".
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}
