// Package mapper converts between flat store records and typed entities.
package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/marshallshelly/pebble-records/pkg/record"
	"github.com/marshallshelly/pebble-records/pkg/schema"
)

// ErrUnsupportedEncoding is returned when a field kind has no write path.
var ErrUnsupportedEncoding = errors.New("unsupported field encoding")

// Mode selects which fields Encode writes.
type Mode int

const (
	// Full writes every field, including the identity.
	Full Mode = iota
	// ForCreate leaves out the identity; the store assigns it.
	ForCreate
	// ForUpdate writes the identity and leaves out immutable fields.
	ForUpdate
)

// Decode builds an entity of type T from a store record.
// Missing, falsy or malformed values resolve to the field default; Decode never fails.
// T must be the schema's Go type.
func Decode[T any](s *schema.Schema, rec record.Record) T {
	var out T
	v := reflect.ValueOf(&out).Elem()
	if v.Type() != s.GoType {
		panic(fmt.Sprintf("mapper: cannot decode %s into %s", s.Table, v.Type()))
	}
	decodeInto(s, rec, v)
	return out
}

// DecodeAll decodes every record in order.
func DecodeAll[T any](s *schema.Schema, recs []record.Record) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Decode[T](s, rec))
	}
	return out
}

func decodeInto(s *schema.Schema, rec record.Record, dest reflect.Value) {
	for _, f := range s.Fields() {
		field := dest.Field(f.Index)
		raw := rec[f.StoreKey]
		if isFalsy(raw) {
			field.Set(f.DefaultValue())
			continue
		}
		val, ok := coerce(f, raw)
		if !ok {
			field.Set(f.DefaultValue())
			continue
		}
		field.Set(val)
	}
}

// Encode flattens an entity into a store record.
func Encode[T any](s *schema.Schema, entity T, mode Mode) (record.Record, error) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot encode nil %s", s.Table)
		}
		v = v.Elem()
	}
	if v.Type() != s.GoType {
		return nil, fmt.Errorf("cannot encode %s as %s", v.Type(), s.Table)
	}

	out := make(record.Record, len(s.Fields()))
	for _, f := range s.Fields() {
		switch {
		case f.PrimaryKey && mode == ForCreate:
			continue
		case f.Immutable && mode == ForUpdate:
			continue
		}

		field := v.Field(f.Index)
		if f.PrimaryKey && mode == ForUpdate && field.IsZero() {
			return nil, fmt.Errorf("cannot update %s without %s", s.Table, f.StoreKey)
		}

		val, err := encodeValue(f, field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.StoreKey, err)
		}
		out[f.StoreKey] = val
	}

	return out, nil
}

func encodeValue(f schema.Field, field reflect.Value) (any, error) {
	switch f.Kind {
	case schema.KindScalar:
		return field.String(), nil
	case schema.KindBoolean:
		return field.Bool(), nil
	case schema.KindNumber:
		return field.Interface(), nil
	case schema.KindJSON:
		return marshalJSON(field)
	case schema.KindLines:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, f.Kind)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, f.Kind)
}

// marshalJSON serializes a json field to text. Nil containers become empty documents.
func marshalJSON(field reflect.Value) (string, error) {
	switch field.Kind() {
	case reflect.Slice:
		if field.IsNil() {
			return "[]", nil
		}
	case reflect.Map:
		if field.IsNil() {
			return "{}", nil
		}
	}
	data, err := json.Marshal(field.Interface())
	if err != nil {
		return "", fmt.Errorf("failed to marshal json field: %w", err)
	}
	return string(data), nil
}
