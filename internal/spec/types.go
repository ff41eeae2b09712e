package spec

// NodeSpec declares a graph node with a label and a query-local alias.
// Aliases must be unique within a spec.
type NodeSpec struct {
	Label string `json:"label"`
	Alias string `json:"alias"`
}

// RelationshipSpec declares a directed edge from Node1 to Node2. The
// optional flag marks the edge for OPTIONAL MATCH rendering; it plays no
// part in connectivity. Duplicate declarations are permitted and each is
// realized exactly once.
type RelationshipSpec struct {
	Node1    string `json:"node1"`
	Node2    string `json:"node2"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

// Condition is a sealed interface over the WHERE tree. Only Comparison
// and Group implement it. The marker method pattern prevents external
// implementations and keeps the renderer's type switch exhaustive.
type Condition interface {
	conditionNode() // Sealed - only types in this package implement it.
}

// BoolOp is a boolean combinator in a condition tree.
type BoolOp string

// Boolean combinators. NOT takes exactly one child.
const (
	OpAnd BoolOp = "AND"
	OpOr  BoolOp = "OR"
	OpNot BoolOp = "NOT"
)

// Comparison is a leaf condition: field OPERATOR value.
type Comparison struct {
	Field    string
	Operator string
	Value    Literal
}

func (Comparison) conditionNode() {}

// Group combines child conditions with a boolean operator. Children may
// nest arbitrarily.
type Group struct {
	Op         BoolOp
	Conditions []Condition
}

func (Group) conditionNode() {}

// Aggregation projects fn(arg) AS alias inside a WITH clause. The
// argument may be a bare node alias (count(r)) or a field reference.
type Aggregation struct {
	Function string `json:"function"`
	Field    string `json:"field"`
	Alias    string `json:"alias"`
}

// WithSpec carries plain fields and aggregations through a WITH clause.
type WithSpec struct {
	Fields       []string      `json:"fields,omitempty"`
	Aggregations []Aggregation `json:"aggregations,omitempty"`
}

// ReturnSpec lists the projected fields of the query.
type ReturnSpec struct {
	Fields   []string `json:"fields"`
	Distinct bool     `json:"distinct,omitempty"`
}

// OrderBySpec sorts one field. Direction is ASC or DESC
// (case-insensitive); empty means ascending and emits no token.
type OrderBySpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
}

// QuerySpec is a complete declarative query description: the unit of
// conversion. Decoding from JSON, YAML, or CUE goes through Decode*;
// the wire format is owned by decode.go.
type QuerySpec struct {
	Nodes         []NodeSpec
	Relationships []RelationshipSpec
	Where         Condition
	With          *WithSpec
	Return        ReturnSpec
	OrderBy       []OrderBySpec
	Limit         *int
}
