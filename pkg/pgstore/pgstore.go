// Package pgstore is a PostgreSQL record store. Every record is one JSONB row
// in a shared table, keyed by store table name and a serial identity.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/marshallshelly/pebble-records/pkg/builder"
	"github.com/marshallshelly/pebble-records/pkg/record"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

// RecordsTable is the PostgreSQL table holding every record.
const RecordsTable = "pebble_records"

const (
	uniqueViolation    = "23505"
	integrityViolation = "23"
)

// Querier is the subset of pgxpool.Pool the store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements record.Store on PostgreSQL.
type Store struct {
	db   Querier
	pool *pgxpool.Pool
	log  logrus.FieldLogger
}

// New creates a Store over an existing pool or connection.
func New(db Querier, log logrus.FieldLogger) *Store {
	if log == nil {
		log = runtime.DiscardLogger()
	}
	s := &Store{db: db, log: log}
	if pool, ok := db.(*pgxpool.Pool); ok {
		s.pool = pool
	}
	return s
}

// Connect opens a pool from the configured database URL.
func Connect(ctx context.Context, cfg *runtime.Config, log logrus.FieldLogger) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection URL: %w", err)
	}

	// Apply pool configuration
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(pool, log), nil
}

// Close closes the connection pool, if the store owns one.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// FetchRecords implements record.Store.
func (s *Store) FetchRecords(ctx context.Context, table string, q builder.Query) (*record.FetchResponse, error) {
	sql, args, err := buildFetch(table, q)
	if err != nil {
		return &record.FetchResponse{Message: err.Error()}, nil
	}
	s.trace(sql, args)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &runtime.QueryError{Query: sql, Err: err}
	}
	defer rows.Close()

	data := []record.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		data = append(data, project(rec, q.Fields))
	}
	if err := rows.Err(); err != nil {
		return nil, &runtime.QueryError{Query: sql, Err: err}
	}

	return &record.FetchResponse{Success: true, Data: data}, nil
}

// GetRecordByID implements record.Store.
func (s *Store) GetRecordByID(ctx context.Context, table string, id int64, fields []string) (*record.GetResponse, error) {
	sql := "SELECT id, data FROM " + RecordsTable + " WHERE table_name = $1 AND id = $2"
	s.trace(sql, []any{table, id})

	rec, err := scanRecord(s.db.QueryRow(ctx, sql, table, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return &record.GetResponse{Success: true}, nil
	}
	if err != nil {
		return nil, &runtime.QueryError{Query: sql, Err: err}
	}

	return &record.GetResponse{Success: true, Data: project(rec, fields)}, nil
}

// CreateRecords implements record.Store. Constraint violations fail the record, not the call.
func (s *Store) CreateRecords(ctx context.Context, table string, recs []record.Record) (*record.BatchResponse, error) {
	sql := "INSERT INTO " + RecordsTable + " (table_name, data) VALUES ($1, $2) RETURNING id, data"

	resp := &record.BatchResponse{Success: true}
	for _, rec := range recs {
		doc, err := document(rec)
		if err != nil {
			resp.Results = append(resp.Results, record.Result{Message: err.Error()})
			continue
		}
		s.trace(sql, []any{table, doc})

		saved, err := scanRecord(s.db.QueryRow(ctx, sql, table, doc))
		if result, ok := rejected(err); ok {
			resp.Results = append(resp.Results, result)
			continue
		}
		if err != nil {
			return nil, &runtime.QueryError{Query: sql, Err: err}
		}
		resp.Results = append(resp.Results, record.Result{Success: true, Data: saved})
	}
	return resp, nil
}

// UpdateRecords implements record.Store. Submitted keys overwrite the stored document's keys.
func (s *Store) UpdateRecords(ctx context.Context, table string, recs []record.Record) (*record.BatchResponse, error) {
	sql := "UPDATE " + RecordsTable + " SET data = data || $3, updated_at = now() WHERE table_name = $1 AND id = $2 RETURNING id, data"

	resp := &record.BatchResponse{Success: true}
	for _, rec := range recs {
		id, ok := rec.ID()
		if !ok {
			resp.Results = append(resp.Results, record.Result{Message: "record Id is required"})
			continue
		}
		doc, err := document(rec)
		if err != nil {
			resp.Results = append(resp.Results, record.Result{Message: err.Error()})
			continue
		}
		s.trace(sql, []any{table, id, doc})

		saved, err := scanRecord(s.db.QueryRow(ctx, sql, table, id, doc))
		if errors.Is(err, pgx.ErrNoRows) {
			resp.Results = append(resp.Results, record.Result{Message: fmt.Sprintf("record %d not found", id)})
			continue
		}
		if result, ok := rejected(err); ok {
			resp.Results = append(resp.Results, result)
			continue
		}
		if err != nil {
			return nil, &runtime.QueryError{Query: sql, Err: err}
		}
		resp.Results = append(resp.Results, record.Result{Success: true, Data: saved})
	}
	return resp, nil
}

func (s *Store) trace(sql string, args []any) {
	s.log.WithFields(logrus.Fields{"sql": sql, "args": len(args)}).Trace("pgstore query")
}

// rejected turns an integrity constraint violation into a per-record failure.
// Every other error fails the call.
func rejected(err error) (record.Result, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || !strings.HasPrefix(pgErr.Code, integrityViolation) {
		return record.Result{}, false
	}
	msg := pgErr.Message
	if pgErr.Code == uniqueViolation && pgErr.ConstraintName != "" {
		msg = fmt.Sprintf("duplicate value violates %s", pgErr.ConstraintName)
	}
	errs := []string{msg}
	if pgErr.Detail != "" {
		errs = append(errs, pgErr.Detail)
	}
	return record.Result{Errors: errs, Message: pgErr.Message}, true
}

// document encodes a record as a JSONB document without its identity.
func document(rec record.Record) ([]byte, error) {
	doc := rec.Clone()
	if doc == nil {
		doc = record.Record{}
	}
	delete(doc, "Id")
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

func scanRecord(row pgx.Row) (record.Record, error) {
	var (
		id   int64
		data []byte
	)
	if err := row.Scan(&id, &data); err != nil {
		return nil, err
	}
	rec := record.Record{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", id, err)
		}
	}
	rec["Id"] = id
	return rec, nil
}

// project keeps the selected keys. The identity is always returned.
func project(rec record.Record, fields []string) record.Record {
	if len(fields) == 0 {
		return rec
	}
	out := make(record.Record, len(fields)+1)
	out["Id"] = rec["Id"]
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}
