package pgstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

// Unique declares a store key whose values must not repeat within a table.
type Unique struct {
	Table string
	Key   string
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SchemaStatements returns the DDL that prepares the records table.
func SchemaStatements(uniques ...Unique) ([]string, error) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + RecordsTable + ` (
	id BIGSERIAL PRIMARY KEY,
	table_name TEXT NOT NULL,
	data JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS idx_` + RecordsTable + `_table ON ` + RecordsTable + ` (table_name, id)`,
	}

	for _, u := range uniques {
		if !identifier.MatchString(u.Table) || !identifier.MatchString(u.Key) {
			return nil, &runtime.ValidationError{
				Field:   "unique",
				Message: fmt.Sprintf("invalid table or key name %s.%s", u.Table, u.Key),
			}
		}
		name := strings.ToLower(fmt.Sprintf("uq_%s_%s", u.Table, u.Key))
		stmts = append(stmts, fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((data->>'%s')) WHERE table_name = '%s'`,
			name, RecordsTable, u.Key, u.Table,
		))
	}

	return stmts, nil
}

// EnsureSchema creates the records table and unique indexes if missing.
func (s *Store) EnsureSchema(ctx context.Context, uniques ...Unique) error {
	stmts, err := SchemaStatements(uniques...)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		s.trace(stmt, nil)
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return &runtime.QueryError{Query: stmt, Err: err}
		}
	}
	s.log.WithField("uniques", len(uniques)).Info("record schema ready")
	return nil
}
