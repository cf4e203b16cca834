package filtering

import (
	"encoding/json"
	"fmt"
)

// LogicalOperator combines the children of a logical node.
type LogicalOperator string

const (
	LogicalAnd  LogicalOperator = "and"
	LogicalOr   LogicalOperator = "or"
	LogicalNand LogicalOperator = "nand"
	LogicalNor  LogicalOperator = "nor"
	LogicalNot  LogicalOperator = "not"
)

// Field is the closed set of span attributes a condition may select.
type Field string

const (
	FieldTraceID       Field = "trace_id"
	FieldSpanID        Field = "span_id"
	FieldParentID      Field = "parent_id"
	FieldCreatedByID   Field = "created_by_id"
	FieldUpdatedByID   Field = "updated_by_id"
	FieldDeletedByID   Field = "deleted_by_id"
	FieldTraceType     Field = "trace_type"
	FieldSpanType      Field = "span_type"
	FieldStatusCode    Field = "status_code"
	FieldName          Field = "name"
	FieldStatusMessage Field = "status_message"
	FieldStartTime     Field = "start_time"
	FieldEndTime       Field = "end_time"
	FieldCreatedAt     Field = "created_at"
	FieldUpdatedAt     Field = "updated_at"
	FieldDeletedAt     Field = "deleted_at"
	FieldAttributes    Field = "attributes"
	FieldLinks         Field = "links"
	FieldReferences    Field = "references"
	FieldEvents        Field = "events"
	FieldContent       Field = "content"
)

// Operator names span five closed families plus dict membership for
// marshalled list fields.
type Operator string

const (
	// comparison
	OperatorIs    Operator = "is"
	OperatorIsNot Operator = "is_not"
	// numeric
	OperatorEq  Operator = "eq"
	OperatorNeq Operator = "neq"
	OperatorGt  Operator = "gt"
	OperatorLt  Operator = "lt"
	OperatorGte Operator = "gte"
	OperatorLte Operator = "lte"
	// string
	OperatorStartsWith Operator = "startswith"
	OperatorEndsWith   Operator = "endswith"
	OperatorContains   Operator = "contains"
	OperatorLike       Operator = "like"
	OperatorMatches    Operator = "matches"
	// list
	OperatorIn    Operator = "in"
	OperatorNotIn Operator = "not_in"
	// existence
	OperatorExists    Operator = "exists"
	OperatorNotExists Operator = "not_exists"
	// dict membership
	OperatorHas    Operator = "has"
	OperatorHasNot Operator = "has_not"
)

// ConditionOptions carries the per-operator flags: case sensitivity and
// exact matching for the string families, the "all" quantifier for lists.
type ConditionOptions struct {
	CaseSensitive bool `json:"case_sensitive,omitempty"`
	Exact         bool `json:"exact,omitempty"`
	All           bool `json:"all,omitempty"`
}

// Condition is a single field/operator/value clause. Key is an optional
// dot-path into the selected field's nested structure.
type Condition struct {
	Field    Field             `json:"field"`
	Key      string            `json:"key,omitempty"`
	Operator Operator          `json:"operator"`
	Value    interface{}       `json:"value,omitempty"`
	Options  *ConditionOptions `json:"options,omitempty"`
}

// Filtering is a logical node holding child nodes, each recursively a
// logical node or a condition.
type Filtering struct {
	Operator   LogicalOperator `json:"operator"`
	Conditions []Node          `json:"conditions"`
}

// Node is the tagged variant of the filter tree: exactly one of Logical or
// Condition is set.
type Node struct {
	Logical   *Filtering
	Condition *Condition
}

// UnmarshalJSON distinguishes the two variants by the presence of a "field"
// key.
func (n *Node) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to decode filter node: %w", err)
	}
	if _, ok := probe["field"]; ok {
		var condition Condition
		if err := json.Unmarshal(data, &condition); err != nil {
			return fmt.Errorf("failed to decode filter condition: %w", err)
		}
		n.Condition = &condition
		return nil
	}
	var logical Filtering
	if err := json.Unmarshal(data, &logical); err != nil {
		return fmt.Errorf("failed to decode logical filter node: %w", err)
	}
	n.Logical = &logical
	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.Condition != nil {
		return json.Marshal(n.Condition)
	}
	return json.Marshal(n.Logical)
}

// FilteringError is the only typed error surfaced to query callers; the
// external API layer maps it to a 4xx response.
type FilteringError struct {
	Field  string
	Reason string
}

func (e *FilteringError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid filter: %s (field %q)", e.Reason, e.Field)
	}
	return fmt.Sprintf("invalid filter: %s", e.Reason)
}

func newUnknownFieldError(field Field) *FilteringError {
	return &FilteringError{
		Field:  string(field),
		Reason: "unknown field",
	}
}
