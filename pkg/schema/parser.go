package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

const (
	// StructTagKey is the key used in struct tags (e.g., `po:"..."`).
	StructTagKey = "po"
)

// Parser derives Schemas from struct definitions.
type Parser struct {
	mu    sync.Mutex
	cache map[reflect.Type]*Schema
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		cache: make(map[reflect.Type]*Schema),
	}
}

// Parse extracts a Schema from a Go struct type.
//
// Tag format: `po:"store_key,kind[,primaryKey][,immutable][,default(value)]"`
func (p *Parser) Parse(modelType reflect.Type) (*Schema, error) {
	// Dereference pointer types
	for modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", modelType.Kind())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.cache[modelType]; ok {
		return cached, nil
	}

	s, err := New(extractTableName(modelType), modelType)
	if err != nil {
		return nil, err
	}

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if !field.IsExported() {
			continue
		}
		tagValue := field.Tag.Get(StructTagKey)
		if tagValue == "" || tagValue == "-" {
			continue
		}
		opts, err := parseTag(tagValue)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tag for field %s: %w", field.Name, err)
		}
		f, err := createField(field, opts, i)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if err := s.add(f); err != nil {
			return nil, err
		}
	}

	if err := Validate(s); err != nil {
		return nil, fmt.Errorf("invalid schema for %s: %w", modelType.Name(), err)
	}

	p.cache[modelType] = s
	return s, nil
}

// extractTableName uses the TableName method when present,
// falling back to the snake_case struct name.
func extractTableName(modelType reflect.Type) string {
	zero := reflect.New(modelType).Elem().Interface()
	if t, ok := zero.(Tabler); ok {
		return t.TableName()
	}
	return toSnakeCase(modelType.Name())
}

func createField(field reflect.StructField, opts *TagOptions, index int) (Field, error) {
	if len(opts.Kinds) != 1 {
		return Field{}, fmt.Errorf("exactly one kind required, got %d", len(opts.Kinds))
	}
	f := Field{
		StoreKey:   opts.Name,
		DomainKey:  domainKey(field),
		GoField:    field.Name,
		GoType:     field.Type,
		Index:      index,
		Kind:       opts.Kinds[0],
		PrimaryKey: opts.Has("primaryKey"),
		Immutable:  opts.Has("immutable"),
	}
	if opts.Has("default") {
		text := opts.Get("default")
		if err := ValidateDefaultValue(f.Kind, text); err != nil {
			return Field{}, err
		}
		if !Accepts(f.Kind, f.GoType) {
			return Field{}, fmt.Errorf("Go type %s cannot hold %s values", f.GoType, f.Kind)
		}
		def, err := parseDefault(f.Kind, f.GoType, text)
		if err != nil {
			return Field{}, fmt.Errorf("invalid default %q: %w", text, err)
		}
		f.Default = def
	}
	return f, nil
}

// domainKey is the json name of the field, or its Go name.
func domainKey(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

// TagOptions represents parsed tag options.
type TagOptions struct {
	Name    string            // Store key (first element)
	Kinds   []Kind            // Kind options found
	Options map[string]string // Other options
}

// parseTag parses a struct tag value into TagOptions.
// Format: "store_key,kind,option1,option2(value)"
func parseTag(tag string) (*TagOptions, error) {
	parts := splitTag(tag)
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("empty tag value")
	}
	opts := &TagOptions{
		Name:    parts[0],
		Options: make(map[string]string),
	}
	for _, opt := range parts[1:] {
		if k, err := ParseKind(opt); err == nil {
			opts.Kinds = append(opts.Kinds, k)
			continue
		}
		// Check if option has a value: option(value)
		if idx := strings.Index(opt, "("); idx != -1 {
			if !strings.HasSuffix(opt, ")") {
				return nil, fmt.Errorf("invalid option format: %s", opt)
			}
			opts.Options[opt[:idx]] = opt[idx+1 : len(opt)-1]
			continue
		}
		switch opt {
		case "primaryKey", "immutable":
			opts.Options[opt] = ""
		default:
			return nil, fmt.Errorf("unknown option %q", opt)
		}
	}
	return opts, nil
}

// Has checks if an option exists.
func (t *TagOptions) Has(key string) bool {
	_, ok := t.Options[key]
	return ok
}

// Get returns the value of an option.
func (t *TagOptions) Get(key string) string {
	return t.Options[key]
}

// splitTag splits a tag value by commas, handling nested parentheses.
func splitTag(tag string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	for _, ch := range tag {
		switch ch {
		case '(':
			depth++
			current.WriteRune(ch)
		case ')':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}

// toSnakeCase converts a string from PascalCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, ch := range s {
		if i > 0 && ch >= 'A' && ch <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(ch)
	}
	return strings.ToLower(result.String())
}
