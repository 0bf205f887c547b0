package memstore

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/marshallshelly/pebble-records/pkg/builder"
	"github.com/marshallshelly/pebble-records/pkg/record"
)

// matches reports whether row satisfies every condition and every group.
func matches(row record.Record, q builder.Query) bool {
	for _, c := range q.Where {
		if !test(row, c) {
			return false
		}
	}
	for _, g := range q.Groups {
		if !testGroup(row, g) {
			return false
		}
	}
	return true
}

func testGroup(row record.Record, g builder.WhereGroup) bool {
	if g.Operator != builder.LogicOr {
		for _, c := range g.Conditions {
			if !test(row, c) {
				return false
			}
		}
		return true
	}
	for _, c := range g.Conditions {
		if test(row, c) {
			return true
		}
	}
	return false
}

func test(row record.Record, c builder.Condition) bool {
	v, ok := row[c.Field]
	if !ok {
		return false
	}
	switch c.Operator {
	case builder.OpEqualTo:
		return equal(v, c.Value())
	case builder.OpContains:
		needle, _ := c.Value().(string)
		return strings.Contains(strings.ToLower(text(v)), strings.ToLower(needle))
	}
	return false
}

// equal compares numerically when both sides are numbers, textually otherwise.
func equal(a, b any) bool {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return fa == fb
		}
	}
	return text(a) == text(b)
}

func compare(a, b any) int {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	return strings.Compare(text(a), text(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case map[string]any:
		return number(n["Id"])
	}
	return 0, false
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
