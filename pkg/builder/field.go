package builder

import (
	"github.com/marshallshelly/pebble-records/pkg/registry"
)

// Col returns the store key for a Go field name of T.
// This keeps the store key defined once, in the struct tags.
//
// Usage:
//
//	type Product struct {
//	    Category string `po:"category_c,scalar" json:"category"`
//	}
//
//	// Instead of hardcoded: Where(builder.Eq("category_c", value))
//	// Use: Where(builder.Eq(builder.Col[Product]("Category"), value))
func Col[T any](goFieldName string) string {
	s, err := registry.For[T]()
	if err != nil {
		// Unregistered models fall through; Build will reject the key.
		return goFieldName
	}

	for _, f := range s.Fields() {
		if f.GoField == goFieldName {
			return f.StoreKey
		}
	}

	return goFieldName
}
