// Package record defines the flat record shapes exchanged with a record store
// and the Store capability every backend implements.
package record

import (
	"context"

	"github.com/marshallshelly/pebble-records/pkg/builder"
)

// Record is one flat store record keyed by store column name.
type Record map[string]any

// ID returns the record identity, if present and numeric.
func (r Record) ID() (int64, bool) {
	switch v := r["Id"].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FetchResponse is the envelope returned by FetchRecords.
type FetchResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    []Record `json:"data,omitempty"`
}

// GetResponse is the envelope returned by GetRecordByID.
type GetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    Record `json:"data,omitempty"`
}

// BatchResponse is the envelope returned by CreateRecords and UpdateRecords.
type BatchResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Results []Result `json:"results,omitempty"`
}

// Result is the outcome for one submitted record.
type Result struct {
	Success bool     `json:"success"`
	Data    Record   `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Store is the record store capability.
//
// Implementations report store-level failures through the envelopes.
// A returned error means the call never reached the store.
type Store interface {
	FetchRecords(ctx context.Context, table string, q builder.Query) (*FetchResponse, error)
	GetRecordByID(ctx context.Context, table string, id int64, fields []string) (*GetResponse, error)
	CreateRecords(ctx context.Context, table string, records []Record) (*BatchResponse, error)
	UpdateRecords(ctx context.Context, table string, records []Record) (*BatchResponse, error)
}
