// Package builder translates query intents into record store query descriptors.
package builder

// Query is the store-level query descriptor.
// It is a plain value: the same intent always yields the same shape.
type Query struct {
	// Fields is the ordered selection of store keys to return.
	Fields []string `json:"fields"`

	// Where conditions must all match.
	Where []Condition `json:"where,omitempty"`

	// Groups must all match; a group matches when any of its conditions does.
	Groups []WhereGroup `json:"whereGroups,omitempty"`

	// OrderBy lists sort keys in priority order.
	OrderBy []OrderBy `json:"orderBy,omitempty"`

	// Paging limits the result window. Nil means every match.
	Paging *Paging `json:"pagingInfo,omitempty"`
}

// Condition is a single-field predicate.
type Condition struct {
	Field    string   `json:"fieldName"`
	Operator Operator `json:"operator"`
	Values   []any    `json:"values"`
}

// WhereGroup combines single-field conditions with one logic operator.
type WhereGroup struct {
	Operator   LogicOperator `json:"operator"`
	Conditions []Condition   `json:"conditions"`
}

// OrderBy represents a sort key.
type OrderBy struct {
	Field     string         `json:"fieldName"`
	Direction OrderDirection `json:"sorttype"`
}

// Paging is a limit/offset window.
type Paging struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Operator represents a comparison operator.
type Operator string

const (
	// OpEqualTo matches records whose field equals the value.
	OpEqualTo Operator = "EqualTo"
	// OpContains matches records whose field contains the value as a substring.
	OpContains Operator = "Contains"
)

// LogicOperator represents a logical operator (AND/OR).
type LogicOperator string

const (
	// LogicAnd represents the AND operator.
	LogicAnd LogicOperator = "AND"
	// LogicOr represents the OR operator.
	LogicOr LogicOperator = "OR"
)

// OrderDirection represents the sort direction.
type OrderDirection string

const (
	// Asc represents ascending order.
	Asc OrderDirection = "ASC"
	// Desc represents descending order.
	Desc OrderDirection = "DESC"
)

// Value returns the condition's single operand, or nil.
func (c Condition) Value() any {
	if len(c.Values) == 0 {
		return nil
	}
	return c.Values[0]
}
