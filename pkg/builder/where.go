package builder

import (
	"fmt"

	"github.com/marshallshelly/pebble-records/pkg/schema"
)

// Eq creates an equality condition.
func Eq(field string, value any) Condition {
	return Condition{
		Field:    field,
		Operator: OpEqualTo,
		Values:   []any{value},
	}
}

// Contains creates a substring condition.
func Contains(field string, value string) Condition {
	return Condition{
		Field:    field,
		Operator: OpContains,
		Values:   []any{value},
	}
}

// AnyOf creates an OR group: a record matches if any condition matches.
func AnyOf(conditions ...Condition) WhereGroup {
	return WhereGroup{
		Operator:   LogicOr,
		Conditions: conditions,
	}
}

// checkCondition validates a condition against a schema.
func checkCondition(s *schema.Schema, cond Condition) error {
	if !s.HasStoreKey(cond.Field) {
		return fmt.Errorf("unknown field %q for %s", cond.Field, s.Table)
	}

	switch cond.Operator {
	case OpEqualTo:
		if len(cond.Values) != 1 {
			return fmt.Errorf("%s on %s requires exactly one value", cond.Operator, cond.Field)
		}
	case OpContains:
		if len(cond.Values) != 1 {
			return fmt.Errorf("%s on %s requires exactly one value", cond.Operator, cond.Field)
		}
		if _, ok := cond.Values[0].(string); !ok {
			return fmt.Errorf("%s on %s requires a string value", cond.Operator, cond.Field)
		}
	default:
		return fmt.Errorf("unknown operator: %s", cond.Operator)
	}

	return nil
}

// checkGroup validates a one-level condition group.
func checkGroup(s *schema.Schema, group WhereGroup) error {
	if len(group.Conditions) == 0 {
		return fmt.Errorf("empty %s group", group.Operator)
	}
	if group.Operator != LogicOr && group.Operator != LogicAnd {
		return fmt.Errorf("unknown logic operator: %s", group.Operator)
	}
	for _, cond := range group.Conditions {
		if err := checkCondition(s, cond); err != nil {
			return err
		}
	}
	return nil
}

func cloneConditions(conds []Condition) []Condition {
	if len(conds) == 0 {
		return nil
	}
	out := make([]Condition, len(conds))
	for i, c := range conds {
		c.Values = append([]any(nil), c.Values...)
		out[i] = c
	}
	return out
}
