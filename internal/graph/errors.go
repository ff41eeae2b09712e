package graph

import "fmt"

// Graph error codes (E110-E119).
const (
	ErrUnknownAlias    = "E110" // relationship references an undeclared alias
	ErrNoRelationships = "E111" // multiple nodes but nothing to chain
	ErrDuplicateAlias  = "E112" // node alias declared twice
	ErrBlankName       = "E113" // empty label, alias, or relationship type
	ErrNoNodes         = "E114" // no nodes declared
)

// GraphError reports a structural defect in the node and relationship
// declarations. Field is the location within the spec document.
type GraphError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e GraphError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}
