package unit

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog stores content type schemas by kind, providing discovery and
// duplication safeguards.
type Catalog struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewCatalog creates an empty catalog instance.
func NewCatalog() *Catalog {
	return &Catalog{
		schemas: make(map[string]Schema),
	}
}

// Register adds a schema by its Kind. Duplicate kinds return an error.
func (c *Catalog) Register(schema Schema) error {
	kind := NormalizeKind(schema.Kind)
	if kind == "" {
		return fmt.Errorf("unit: schema kind is required")
	}
	if len(schema.Fields) == 0 {
		return fmt.Errorf("unit: schema %q declares no fields", kind)
	}
	schema.Kind = kind

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.schemas[kind]; exists {
		return fmt.Errorf("unit: schema %q already registered", kind)
	}

	c.schemas[kind] = schema
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (c *Catalog) MustRegister(schema Schema) {
	if err := c.Register(schema); err != nil {
		panic(err)
	}
}

// Get retrieves a schema by kind.
func (c *Catalog) Get(kind string) (Schema, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	schema, ok := c.schemas[NormalizeKind(kind)]
	if !ok {
		return Schema{}, fmt.Errorf("unit: schema %q not found", kind)
	}
	return schema, nil
}

// List returns a sorted list of registered kinds.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kinds := make([]string, 0, len(c.schemas))
	for kind := range c.schemas {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Schemas returns every registered schema sorted by kind.
func (c *Catalog) Schemas() []Schema {
	kinds := c.List()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Schema, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, c.schemas[kind])
	}
	return out
}

// Has reports whether a kind is registered.
func (c *Catalog) Has(kind string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.schemas[NormalizeKind(kind)]
	return ok
}

// NormalizeKind lowercases and trims a content type key.
func NormalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
