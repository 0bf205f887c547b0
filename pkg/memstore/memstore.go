// Package memstore is an in-process record store that evaluates query descriptors.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/marshallshelly/pebble-records/pkg/builder"
	"github.com/marshallshelly/pebble-records/pkg/record"
)

const idKey = "Id"

// Store holds tables of records in memory. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
	unique map[string][]string
}

type table struct {
	nextID int64
	rows   []record.Record
}

// Option configures a Store.
type Option func(*Store)

// WithUnique rejects writes that would duplicate key within table.
func WithUnique(tableName, key string) Option {
	return func(s *Store) {
		s.unique[tableName] = append(s.unique[tableName], key)
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		tables: make(map[string]*table),
		unique: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed inserts records as-is, assigning identities. It returns the assigned Ids.
func (s *Store) Seed(tableName string, recs ...record.Record) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(tableName)
	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, t.insert(normalize(rec)))
	}
	return ids
}

// Len returns the number of records in a table.
func (s *Store) Len(tableName string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.tables[tableName]; ok {
		return len(t.rows)
	}
	return 0
}

// FetchRecords implements record.Store.
func (s *Store) FetchRecords(ctx context.Context, tableName string, q builder.Query) (*record.FetchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p := q.Paging; p != nil && (p.Limit < 0 || p.Offset < 0) {
		return &record.FetchResponse{Message: fmt.Sprintf("negative paging %d/%d", p.Limit, p.Offset)}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []record.Record
	if t, ok := s.tables[tableName]; ok {
		for _, row := range t.rows {
			if matches(row, q) {
				matched = append(matched, row)
			}
		}
	}

	if len(q.OrderBy) > 0 {
		slices.SortStableFunc(matched, func(a, b record.Record) int {
			for _, o := range q.OrderBy {
				c := compare(a[o.Field], b[o.Field])
				if o.Direction == builder.Desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}

	if q.Paging != nil {
		matched = page(matched, q.Paging.Limit, q.Paging.Offset)
	}

	data := make([]record.Record, 0, len(matched))
	for _, row := range matched {
		data = append(data, project(row, q.Fields))
	}

	return &record.FetchResponse{Success: true, Data: data}, nil
}

// GetRecordByID implements record.Store.
func (s *Store) GetRecordByID(ctx context.Context, tableName string, id int64, fields []string) (*record.GetResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[tableName]
	if !ok {
		return &record.GetResponse{Success: true}, nil
	}
	row, _ := t.find(id)
	if row == nil {
		return &record.GetResponse{Success: true}, nil
	}
	return &record.GetResponse{Success: true, Data: project(row, fields)}, nil
}

// CreateRecords implements record.Store. Each record succeeds or fails on its own.
func (s *Store) CreateRecords(ctx context.Context, tableName string, recs []record.Record) (*record.BatchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(tableName)
	resp := &record.BatchResponse{Success: true}
	for _, rec := range recs {
		rec = normalize(rec)
		delete(rec, idKey)
		if key, dup := s.duplicate(tableName, t, rec, 0); dup {
			resp.Results = append(resp.Results, record.Result{
				Errors: []string{fmt.Sprintf("duplicate value for %s", key)},
			})
			continue
		}
		id := t.insert(rec)
		row, _ := t.find(id)
		resp.Results = append(resp.Results, record.Result{Success: true, Data: row.Clone()})
	}
	return resp, nil
}

// UpdateRecords implements record.Store. Submitted fields overwrite stored ones.
func (s *Store) UpdateRecords(ctx context.Context, tableName string, recs []record.Record) (*record.BatchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(tableName)
	resp := &record.BatchResponse{Success: true}
	for _, rec := range recs {
		rec = normalize(rec)
		id, ok := rec.ID()
		if !ok {
			resp.Results = append(resp.Results, record.Result{Message: "record Id is required"})
			continue
		}
		row, i := t.find(id)
		if row == nil {
			resp.Results = append(resp.Results, record.Result{Message: fmt.Sprintf("record %d not found", id)})
			continue
		}
		if key, dup := s.duplicate(tableName, t, rec, id); dup {
			resp.Results = append(resp.Results, record.Result{
				Errors: []string{fmt.Sprintf("duplicate value for %s", key)},
			})
			continue
		}
		merged := row.Clone()
		for k, v := range rec {
			merged[k] = v
		}
		t.rows[i] = merged
		resp.Results = append(resp.Results, record.Result{Success: true, Data: merged.Clone()})
	}
	return resp, nil
}

func (s *Store) table(name string) *table {
	t, ok := s.tables[name]
	if !ok {
		t = &table{}
		s.tables[name] = t
	}
	return t
}

// duplicate reports the first unique key rec would collide on, ignoring record self.
func (s *Store) duplicate(tableName string, t *table, rec record.Record, self int64) (string, bool) {
	for _, key := range s.unique[tableName] {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		for _, row := range t.rows {
			if id, _ := row.ID(); id == self {
				continue
			}
			if equal(row[key], v) {
				return key, true
			}
		}
	}
	return "", false
}

func (t *table) insert(rec record.Record) int64 {
	t.nextID++
	row := rec.Clone()
	if row == nil {
		row = record.Record{}
	}
	row[idKey] = float64(t.nextID)
	t.rows = append(t.rows, row)
	return t.nextID
}

func (t *table) find(id int64) (record.Record, int) {
	for i, row := range t.rows {
		if rid, ok := row.ID(); ok && rid == id {
			return row, i
		}
	}
	return nil, -1
}

func page(rows []record.Record, limit, offset int) []record.Record {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// project copies the selected fields. The identity is always returned.
func project(row record.Record, fields []string) record.Record {
	if len(fields) == 0 {
		return row.Clone()
	}
	out := make(record.Record, len(fields)+1)
	out[idKey] = row[idKey]
	for _, f := range fields {
		if v, ok := row[f]; ok {
			out[f] = v
		}
	}
	return out
}

// normalize round-trips a record through JSON so stored values have wire types.
func normalize(rec record.Record) record.Record {
	if rec == nil {
		return record.Record{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return rec.Clone()
	}
	var out record.Record
	if err := json.Unmarshal(data, &out); err != nil {
		return rec.Clone()
	}
	return out
}
