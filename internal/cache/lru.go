// Package cache provides caching utilities for schema verification.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaCache provides thread-safe LRU caching for compiled schemas.
type SchemaCache struct {
	cache *lru.Cache[string, *jsonschema.Schema]
}

// NewSchemaCache creates a new LRU cache with the specified maximum number of items.
func NewSchemaCache(maxItems int) (*SchemaCache, error) {
	c, err := lru.New[string, *jsonschema.Schema](maxItems)
	if err != nil {
		return nil, err
	}
	return &SchemaCache{cache: c}, nil
}

// Get retrieves a compiled schema by key.
// Returns the schema and true if found, nil and false otherwise.
func (c *SchemaCache) Get(key string) (*jsonschema.Schema, bool) {
	return c.cache.Get(key)
}

// Put adds or updates a compiled schema.
func (c *SchemaCache) Put(key string, schema *jsonschema.Schema) {
	c.cache.Add(key, schema)
}

// Len returns the current number of items in the cache.
func (c *SchemaCache) Len() int {
	return c.cache.Len()
}
