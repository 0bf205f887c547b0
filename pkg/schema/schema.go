// Package schema describes how domain entities map onto flat store records.
package schema

import (
	"fmt"
	"reflect"
)

// Tabler is implemented by entities that live in a store table.
type Tabler interface {
	TableName() string
}

// Schema is the ordered field list for one entity type.
type Schema struct {
	// Table is the store table name (e.g. "product_c").
	Table string

	// GoType is the entity struct type.
	GoType reflect.Type

	fields  []Field
	byStore map[string]int
	byDom   map[string]int
	pk      int
}

// New builds a Schema from explicit field descriptors.
// Field GoType and Index must already be set.
func New(table string, goType reflect.Type, fields ...Field) (*Schema, error) {
	s := &Schema{
		Table:   table,
		GoType:  goType,
		fields:  make([]Field, 0, len(fields)),
		byStore: make(map[string]int, len(fields)),
		byDom:   make(map[string]int, len(fields)),
		pk:      -1,
	}
	for _, f := range fields {
		if err := s.add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) add(f Field) error {
	if f.StoreKey == "" {
		return fmt.Errorf("field %s: empty store key", f.GoField)
	}
	if _, dup := s.byStore[f.StoreKey]; dup {
		return fmt.Errorf("duplicate store key %q in %s", f.StoreKey, s.Table)
	}
	if _, dup := s.byDom[f.DomainKey]; dup {
		return fmt.Errorf("duplicate domain key %q in %s", f.DomainKey, s.Table)
	}
	if f.PrimaryKey {
		if s.pk >= 0 {
			return fmt.Errorf("multiple primary keys in %s", s.Table)
		}
		s.pk = len(s.fields)
	}
	s.byStore[f.StoreKey] = len(s.fields)
	s.byDom[f.DomainKey] = len(s.fields)
	s.fields = append(s.fields, f)
	return nil
}

// Fields returns the field descriptors in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// StoreKeys returns the field selection used for reads.
// The primary key is left out: the store always returns it.
func (s *Schema) StoreKeys() []string {
	keys := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		if f.PrimaryKey {
			continue
		}
		keys = append(keys, f.StoreKey)
	}
	return keys
}

// ByStoreKey looks up a field by its store column name.
func (s *Schema) ByStoreKey(key string) (Field, bool) {
	i, ok := s.byStore[key]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// ByDomainKey looks up a field by its domain attribute name.
func (s *Schema) ByDomainKey(key string) (Field, bool) {
	i, ok := s.byDom[key]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// HasStoreKey reports whether the schema declares the store column.
func (s *Schema) HasStoreKey(key string) bool {
	if key == IDKey {
		return true
	}
	_, ok := s.byStore[key]
	return ok
}

// PrimaryKey returns the identity field, if declared.
func (s *Schema) PrimaryKey() (Field, bool) {
	if s.pk < 0 {
		return Field{}, false
	}
	return s.fields[s.pk], true
}

// IDKey is the store column holding the record identity.
const IDKey = "Id"
