// Package repository exposes entity-shaped operations over a record store.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/marshallshelly/pebble-records/pkg/builder"
	"github.com/marshallshelly/pebble-records/pkg/mapper"
	"github.com/marshallshelly/pebble-records/pkg/record"
	"github.com/marshallshelly/pebble-records/pkg/registry"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
	"github.com/marshallshelly/pebble-records/pkg/schema"
)

// Repository reads and writes one entity type in its table.
type Repository[T any] struct {
	db       *runtime.DB
	schema   *schema.Schema
	validate *validator.Validate
	log      logrus.FieldLogger
}

// New creates a repository for T. T must carry po tags and a TableName method.
func New[T any](db *runtime.DB) (*Repository[T], error) {
	s, err := registry.For[T]()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", runtime.ErrInvalidModel, err)
	}
	return &Repository[T]{
		db:       db,
		schema:   s,
		validate: newValidator(),
		log:      db.Logger().WithField("table", s.Table),
	}, nil
}

// Schema returns the entity schema.
func (r *Repository[T]) Schema() *schema.Schema {
	return r.schema
}

// Table returns the store table name.
func (r *Repository[T]) Table() string {
	return r.schema.Table
}

// Select starts a query against the entity table.
func (r *Repository[T]) Select() *builder.SelectQuery {
	return builder.Select(r.schema)
}

// Get loads one entity by identity.
func (r *Repository[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	rec, err := r.db.Get(ctx, r.schema.Table, id, r.schema.StoreKeys())
	if err != nil {
		return zero, err
	}
	return mapper.Decode[T](r.schema, rec), nil
}

// List returns the entities matching q, or every entity when q is nil.
func (r *Repository[T]) List(ctx context.Context, q *builder.SelectQuery) ([]T, error) {
	if q == nil {
		q = r.Select()
	}
	query, err := q.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	recs, err := r.db.Fetch(ctx, r.schema.Table, query)
	if err != nil {
		return nil, err
	}
	return mapper.DecodeAll[T](r.schema, recs), nil
}

// First returns the first entity matching q. No match is ErrNotFound.
func (r *Repository[T]) First(ctx context.Context, q *builder.SelectQuery) (T, error) {
	var zero T
	if q == nil {
		q = r.Select()
	}
	list, err := r.List(ctx, q.First())
	if err != nil {
		return zero, err
	}
	if len(list) == 0 {
		return zero, fmt.Errorf("%s: %w", r.schema.Table, runtime.ErrNotFound)
	}
	return list[0], nil
}

// Create validates and stores a new entity. The returned entity carries the store-assigned Id.
func (r *Repository[T]) Create(ctx context.Context, entity T) (T, error) {
	return r.write(ctx, entity, mapper.ForCreate)
}

// Update overwrites the stored entity. Immutable fields are not sent.
func (r *Repository[T]) Update(ctx context.Context, entity T) (T, error) {
	return r.write(ctx, entity, mapper.ForUpdate)
}

// UpdateFields writes only the given store keys of entity. Stored keys that are not sent are kept.
func (r *Repository[T]) UpdateFields(ctx context.Context, entity T, keys ...string) (T, error) {
	var zero T
	if err := r.check(entity); err != nil {
		return zero, err
	}

	rec, err := mapper.Encode(r.schema, entity, mapper.ForUpdate)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s: %w", r.schema.Table, err)
	}
	pk, _ := r.schema.PrimaryKey()
	partial := record.Record{pk.StoreKey: rec[pk.StoreKey]}
	for _, key := range keys {
		v, ok := rec[key]
		if !ok {
			return zero, fmt.Errorf("%s has no mutable field %s", r.schema.Table, key)
		}
		partial[key] = v
	}

	saved, err := r.db.Update(ctx, r.schema.Table, partial)
	if err != nil {
		return zero, err
	}
	return mapper.Decode[T](r.schema, saved), nil
}

func (r *Repository[T]) write(ctx context.Context, entity T, mode mapper.Mode) (T, error) {
	var zero T
	if err := r.check(entity); err != nil {
		return zero, err
	}

	rec, err := mapper.Encode(r.schema, entity, mode)
	if err != nil {
		return zero, fmt.Errorf("failed to encode %s: %w", r.schema.Table, err)
	}

	var saved record.Record
	switch mode {
	case mapper.ForCreate:
		saved, err = r.db.Create(ctx, r.schema.Table, rec)
	default:
		saved, err = r.db.Update(ctx, r.schema.Table, rec)
	}
	if err != nil {
		return zero, err
	}
	return mapper.Decode[T](r.schema, saved), nil
}

// check runs the validate tags of an entity.
func (r *Repository[T]) check(entity any) error {
	err := r.validate.Struct(entity)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldError(fieldErrs[0])
	}
	return &runtime.ValidationError{Message: err.Error()}
}
