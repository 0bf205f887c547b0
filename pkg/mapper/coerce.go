package mapper

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/marshallshelly/pebble-records/pkg/record"
	"github.com/marshallshelly/pebble-records/pkg/schema"
)

// isFalsy reports whether a raw store value counts as absent.
func isFalsy(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case float32:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	case int32:
		return v == 0
	case json.Number:
		return v == "" || v == "0"
	}
	return false
}

// coerce converts a raw store value into a value of the field's Go type.
func coerce(f schema.Field, raw any) (reflect.Value, bool) {
	switch f.Kind {
	case schema.KindScalar:
		s, ok := toText(raw)
		if !ok {
			return reflect.Value{}, false
		}
		v := reflect.New(f.GoType).Elem()
		v.SetString(s)
		return v, true

	case schema.KindNumber:
		n, ok := toNumber(raw)
		if !ok {
			return reflect.Value{}, false
		}
		v := reflect.New(f.GoType).Elem()
		schema.SetNumber(v, n)
		return v, true

	case schema.KindBoolean:
		b, ok := toBool(raw)
		if !ok {
			return reflect.Value{}, false
		}
		v := reflect.New(f.GoType).Elem()
		v.SetBool(b)
		return v, true

	case schema.KindJSON:
		return toDocument(f.GoType, raw)

	case schema.KindLines:
		lines, ok := toLines(raw)
		if !ok || len(lines) == 0 {
			return reflect.Value{}, false
		}
		v := reflect.MakeSlice(f.GoType, len(lines), len(lines))
		for i, line := range lines {
			v.Index(i).SetString(line)
		}
		return v, true
	}
	return reflect.Value{}, false
}

func toText(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	}
	return "", false
}

func toNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case map[string]any:
		// Lookup fields come back as {"Id": n, "Name": ...}.
		return toNumber(v[schema.IDKey])
	case record.Record:
		return toNumber(v[schema.IDKey])
	}
	return 0, false
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	if n, ok := toNumber(raw); ok {
		return n != 0, true
	}
	return false, false
}

// toDocument parses a json field. Malformed text yields no value.
func toDocument(t reflect.Type, raw any) (reflect.Value, bool) {
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		// Already decoded by the transport; round-trip through JSON.
		b, err := json.Marshal(v)
		if err != nil {
			return reflect.Value{}, false
		}
		data = b
	}

	ptr := reflect.New(t)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return reflect.Value{}, false
	}
	v := ptr.Elem()
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return reflect.Value{}, false
		}
	}
	return v, true
}

// toLines splits newline-delimited text, dropping blank entries.
func toLines(raw any) ([]string, bool) {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(strings.ReplaceAll(v, "\r\n", "\n"), "\n")
	case []string:
		parts = v
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			parts = append(parts, s)
		}
	default:
		return nil, false
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}
