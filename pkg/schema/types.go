package schema

import (
	"fmt"
	"reflect"
	"strconv"
)

// Kind describes how a field is encoded in a flat store record.
type Kind string

const (
	// KindScalar is a plain text value.
	KindScalar Kind = "scalar"
	// KindBoolean is a true/false flag.
	KindBoolean Kind = "boolean"
	// KindNumber is an integer or decimal value.
	KindNumber Kind = "number"
	// KindJSON is a sub-document serialized as JSON text.
	KindJSON Kind = "json"
	// KindLines is an ordered list of strings stored as newline-delimited text.
	KindLines Kind = "lines"
)

// Kinds lists every supported field kind.
var Kinds = []Kind{KindScalar, KindBoolean, KindNumber, KindJSON, KindLines}

// ParseKind converts a tag option into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown field kind %q", s)
}

// Accepts reports whether a Go type can hold values of the given kind.
func Accepts(kind Kind, t reflect.Type) bool {
	switch kind {
	case KindScalar:
		return t.Kind() == reflect.String
	case KindBoolean:
		return t.Kind() == reflect.Bool
	case KindNumber:
		return isNumeric(t.Kind())
	case KindLines:
		return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String
	case KindJSON:
		switch t.Kind() {
		case reflect.Struct, reflect.Map, reflect.Slice, reflect.Interface, reflect.Ptr:
			return true
		}
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// SetNumber assigns f to a numeric reflect.Value, truncating for integer kinds.
// Negative values assigned to unsigned fields become zero.
func SetNumber(v reflect.Value, f float64) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f < 0 {
			f = 0
		}
		v.SetUint(uint64(f))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(f)
	}
}

// parseDefault converts the text of a default(...) tag option into a value of type t.
func parseDefault(kind Kind, t reflect.Type, text string) (any, error) {
	v := reflect.New(t).Elem()
	switch kind {
	case KindScalar:
		v.SetString(text)
	case KindBoolean:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, err
		}
		v.SetBool(b)
	case KindNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}
		SetNumber(v, f)
	default:
		return nil, errNoDefault(kind)
	}
	return v.Interface(), nil
}
