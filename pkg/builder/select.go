package builder

import (
	"fmt"

	"github.com/marshallshelly/pebble-records/pkg/schema"
)

// SelectQuery accumulates a read intent for one entity schema.
type SelectQuery struct {
	schema  *schema.Schema
	columns []string
	where   []Condition
	groups  []WhereGroup
	orderBy []OrderBy
	limit   *int
	offset  *int
}

// Select starts a read against the schema's table.
// Usage: builder.Select(s).Where(builder.Eq("category_c", "Shoes")).Build()
func Select(s *schema.Schema) *SelectQuery {
	return &SelectQuery{schema: s}
}

// Columns narrows the field selection. By default every schema field is selected.
func (q *SelectQuery) Columns(keys ...string) *SelectQuery {
	q.columns = keys
	return q
}

// Where adds a condition that must match.
func (q *SelectQuery) Where(condition Condition) *SelectQuery {
	q.where = append(q.where, condition)
	return q
}

// AnyOf adds an OR group of single-field conditions.
func (q *SelectQuery) AnyOf(conditions ...Condition) *SelectQuery {
	q.groups = append(q.groups, AnyOf(conditions...))
	return q
}

// OrderBy adds an ORDER BY key.
func (q *SelectQuery) OrderBy(field string, direction OrderDirection) *SelectQuery {
	q.orderBy = append(q.orderBy, OrderBy{
		Field:     field,
		Direction: direction,
	})
	return q
}

// OrderByAsc adds an ascending sort key.
func (q *SelectQuery) OrderByAsc(field string) *SelectQuery {
	return q.OrderBy(field, Asc)
}

// OrderByDesc adds a descending sort key.
func (q *SelectQuery) OrderByDesc(field string) *SelectQuery {
	return q.OrderBy(field, Desc)
}

// Limit sets the page size.
func (q *SelectQuery) Limit(limit int) *SelectQuery {
	q.limit = &limit
	return q
}

// Offset sets the page start.
func (q *SelectQuery) Offset(offset int) *SelectQuery {
	q.offset = &offset
	return q
}

// Page sets limit and offset for a 1-based page number.
func (q *SelectQuery) Page(page, size int) *SelectQuery {
	if page < 1 {
		page = 1
	}
	return q.Limit(size).Offset((page - 1) * size)
}

// First restricts the query to the first matching record.
func (q *SelectQuery) First() *SelectQuery {
	return q.Limit(1).Offset(0)
}

// Build validates the intent and produces the query descriptor.
func (q *SelectQuery) Build() (Query, error) {
	if q.schema == nil {
		return Query{}, fmt.Errorf("schema not available")
	}

	var out Query

	if len(q.columns) == 0 {
		out.Fields = q.schema.StoreKeys()
	} else {
		for _, key := range q.columns {
			if !q.schema.HasStoreKey(key) {
				return Query{}, fmt.Errorf("unknown field %q for %s", key, q.schema.Table)
			}
		}
		out.Fields = append([]string(nil), q.columns...)
	}

	for _, cond := range q.where {
		if err := checkCondition(q.schema, cond); err != nil {
			return Query{}, fmt.Errorf("failed to build where clause: %w", err)
		}
	}
	out.Where = cloneConditions(q.where)

	for _, group := range q.groups {
		if err := checkGroup(q.schema, group); err != nil {
			return Query{}, fmt.Errorf("failed to build where group: %w", err)
		}
		out.Groups = append(out.Groups, WhereGroup{
			Operator:   group.Operator,
			Conditions: cloneConditions(group.Conditions),
		})
	}

	for _, order := range q.orderBy {
		if !q.schema.HasStoreKey(order.Field) {
			return Query{}, fmt.Errorf("unknown order field %q for %s", order.Field, q.schema.Table)
		}
		if order.Direction != Asc && order.Direction != Desc {
			return Query{}, fmt.Errorf("unknown order direction %q", order.Direction)
		}
	}
	if len(q.orderBy) > 0 {
		out.OrderBy = append([]OrderBy(nil), q.orderBy...)
	}

	if q.limit != nil || q.offset != nil {
		p := Paging{}
		if q.limit != nil {
			if *q.limit < 0 {
				return Query{}, fmt.Errorf("negative limit %d", *q.limit)
			}
			p.Limit = *q.limit
		}
		if q.offset != nil {
			if *q.offset < 0 {
				return Query{}, fmt.Errorf("negative offset %d", *q.offset)
			}
			p.Offset = *q.offset
		}
		out.Paging = &p
	}

	return out, nil
}
