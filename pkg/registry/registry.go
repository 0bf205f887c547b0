// Package registry provides a central cache of entity schemas.
package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/marshallshelly/pebble-records/pkg/schema"
)

// Registry is a thread-safe registry of entity schemas.
type Registry struct {
	mu     sync.RWMutex
	parser *schema.Parser
	types  map[reflect.Type]*schema.Schema
	tables map[string]*schema.Schema
}

// NewRegistry creates a new Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		parser: schema.NewParser(),
		types:  make(map[reflect.Type]*schema.Schema),
		tables: make(map[string]*schema.Schema),
	}
}

// Register registers a model type and extracts its schema.
func (r *Registry) Register(model any) error {
	modelType := reflect.TypeOf(model)
	if modelType == nil {
		return fmt.Errorf("model must be a struct, got nil")
	}

	// Dereference pointer
	for modelType.Kind() == reflect.Pointer {
		modelType = modelType.Elem()
	}

	if modelType.Kind() != reflect.Struct {
		return fmt.Errorf("model must be a struct, got %s", modelType.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[modelType]; ok {
		return nil // Already registered
	}

	s, err := r.parser.Parse(modelType)
	if err != nil {
		return fmt.Errorf("failed to parse model %s: %w", modelType.Name(), err)
	}

	if other, ok := r.tables[s.Table]; ok && other.GoType != modelType {
		return fmt.Errorf("table %s already registered by %s", s.Table, other.GoType.Name())
	}

	r.types[modelType] = s
	r.tables[s.Table] = s

	return nil
}

// Get retrieves a Schema by Go type.
func (r *Registry) Get(modelType reflect.Type) (*schema.Schema, error) {
	// Dereference pointer
	for modelType.Kind() == reflect.Pointer {
		modelType = modelType.Elem()
	}

	r.mu.RLock()
	s, ok := r.types[modelType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("model type %s not registered", modelType.Name())
	}

	return s, nil
}

// GetByTable retrieves a Schema by store table name.
func (r *Registry) GetByTable(table string) (*schema.Schema, error) {
	r.mu.RLock()
	s, ok := r.tables[table]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("table %s not registered", table)
	}

	return s, nil
}

// GetOrRegister retrieves a Schema or registers the model if not found.
func (r *Registry) GetOrRegister(model any) (*schema.Schema, error) {
	modelType := reflect.TypeOf(model)
	if modelType == nil {
		return nil, fmt.Errorf("model must be a struct, got nil")
	}
	for modelType.Kind() == reflect.Pointer {
		modelType = modelType.Elem()
	}

	r.mu.RLock()
	s, ok := r.types[modelType]
	r.mu.RUnlock()

	if ok {
		return s, nil
	}

	if err := r.Register(model); err != nil {
		return nil, err
	}

	return r.Get(modelType)
}

// Tables returns the registered table names, sorted.
func (r *Registry) Tables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// globalRegistry is the default global registry instance.
var globalRegistry = NewRegistry()

// Register registers a model in the global registry.
func Register(model any) error {
	return globalRegistry.Register(model)
}

// GetByTable retrieves a Schema by table name from the global registry.
func GetByTable(table string) (*schema.Schema, error) {
	return globalRegistry.GetByTable(table)
}

// For returns the schema of T from the global registry, registering it on first use.
func For[T any]() (*schema.Schema, error) {
	var zero T
	return globalRegistry.GetOrRegister(zero)
}

// Tables returns the table names in the global registry.
func Tables() []string {
	return globalRegistry.Tables()
}
