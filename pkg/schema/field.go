package schema

import "reflect"

// Field describes one storable attribute of an entity.
type Field struct {
	// StoreKey is the column name in the record store (e.g. "first_name_c").
	StoreKey string

	// DomainKey is the attribute name on the domain side (e.g. "firstName").
	DomainKey string

	// GoField is the struct field the value is read from and written to.
	GoField string

	// GoType is the struct field's type.
	GoType reflect.Type

	// Index is the struct field index used for reflection access.
	Index int

	// Kind is the store encoding.
	Kind Kind

	// Default is substituted when the stored value is absent or falsy.
	// It always has GoType (or is nil for the zero value).
	Default any

	// PrimaryKey marks the store-assigned identity.
	PrimaryKey bool

	// Immutable fields are written on create and never on update.
	Immutable bool
}

// HasDefault reports whether the field declares a non-zero default.
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// DefaultValue returns the value substituted for an absent or falsy store value.
// Slice and map fields get an empty, non-nil container.
func (f Field) DefaultValue() reflect.Value {
	if f.Default != nil {
		return reflect.ValueOf(f.Default)
	}
	switch f.GoType.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(f.GoType, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(f.GoType)
	}
	return reflect.Zero(f.GoType)
}
