package pgstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marshallshelly/pebble-records/pkg/builder"
)

// sqlBuilder accumulates positional arguments while rendering a statement.
type sqlBuilder struct {
	args []any
}

func (b *sqlBuilder) param(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// key binds a store key as a text parameter.
func (b *sqlBuilder) key(field string) string {
	return b.param(field) + "::text"
}

// buildFetch renders a query descriptor as a SELECT over the records table.
func buildFetch(table string, q builder.Query) (string, []any, error) {
	b := &sqlBuilder{}

	var sql strings.Builder
	sql.WriteString("SELECT id, data FROM ")
	sql.WriteString(RecordsTable)
	sql.WriteString(" WHERE table_name = ")
	sql.WriteString(b.param(table))

	for _, cond := range q.Where {
		condSQL, err := b.condition(cond)
		if err != nil {
			return "", nil, fmt.Errorf("failed to build WHERE clause: %w", err)
		}
		sql.WriteString(" AND ")
		sql.WriteString(condSQL)
	}

	for _, group := range q.Groups {
		groupSQL, err := b.group(group)
		if err != nil {
			return "", nil, fmt.Errorf("failed to build WHERE group: %w", err)
		}
		sql.WriteString(" AND ")
		sql.WriteString(groupSQL)
	}

	// ORDER BY clause
	sql.WriteString(" ORDER BY ")
	for _, order := range q.OrderBy {
		dir := strings.ToUpper(string(order.Direction))
		if dir != string(builder.Asc) && dir != string(builder.Desc) {
			return "", nil, fmt.Errorf("unknown order direction %q", order.Direction)
		}
		sql.WriteString(b.sortKey(order.Field))
		sql.WriteString(" ")
		sql.WriteString(dir)
		sql.WriteString(", ")
	}
	// Insertion order breaks ties, matching the store's default ordering.
	sql.WriteString("id ASC")

	// LIMIT/OFFSET
	if q.Paging != nil {
		if q.Paging.Limit < 0 || q.Paging.Offset < 0 {
			return "", nil, fmt.Errorf("negative paging %d/%d", q.Paging.Limit, q.Paging.Offset)
		}
		if q.Paging.Limit > 0 {
			sql.WriteString(" LIMIT ")
			sql.WriteString(b.param(q.Paging.Limit))
		}
		if q.Paging.Offset > 0 {
			sql.WriteString(" OFFSET ")
			sql.WriteString(b.param(q.Paging.Offset))
		}
	}

	return sql.String(), b.args, nil
}

func (b *sqlBuilder) group(g builder.WhereGroup) (string, error) {
	if len(g.Conditions) == 0 {
		return "", fmt.Errorf("empty %s group", g.Operator)
	}
	logic := string(g.Operator)
	if logic == "" {
		logic = string(builder.LogicAnd)
	}
	parts := make([]string, 0, len(g.Conditions))
	for _, cond := range g.Conditions {
		s, err := b.condition(cond)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, " "+logic+" ") + ")", nil
}

// condition renders one single-field predicate. Store keys are bound as parameters.
func (b *sqlBuilder) condition(cond builder.Condition) (string, error) {
	if len(cond.Values) != 1 {
		return "", fmt.Errorf("%s on %s requires exactly one value", cond.Operator, cond.Field)
	}
	value := cond.Values[0]

	switch cond.Operator {
	case builder.OpEqualTo:
		if cond.Field == "Id" {
			n, ok := numberText(value)
			if !ok {
				return "", fmt.Errorf("identity requires a numeric value")
			}
			id, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return "", fmt.Errorf("identity requires an integer value: %w", err)
			}
			return "id = " + b.param(id), nil
		}
		if n, ok := numberText(value); ok {
			// Lookup fields are stored as {"Id": n}; compare their identity.
			key := b.key(cond.Field)
			return fmt.Sprintf("COALESCE(data->%s->>'Id', data->>%s) = %s", key, key, b.param(n)), nil
		}
		return fmt.Sprintf("data->>%s = %s", b.key(cond.Field), b.param(text(value))), nil

	case builder.OpContains:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%s on %s requires a string value", cond.Operator, cond.Field)
		}
		return fmt.Sprintf("data->>%s ILIKE %s", b.key(cond.Field), b.param("%"+escapeLike(s)+"%")), nil

	default:
		return "", fmt.Errorf("unknown operator: %s", cond.Operator)
	}
}

func (b *sqlBuilder) sortKey(field string) string {
	if field == "Id" {
		return "id"
	}
	// jsonb ordering compares numbers numerically and strings lexically.
	return "data->" + b.key(field)
}

func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	}
	return "", false
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// escapeLike escapes LIKE wildcards so the value matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
