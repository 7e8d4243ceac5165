/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package jsonschema

import (
	"sync"

	"github.com/acronis/go-jsonschema/document"
)

// Cache compiles each distinct schema document once and hands out the same
// *Validator for every equivalent document after that. Documents are keyed
// by content fingerprint, so callers that re-decode the same schema text
// still share a compiled graph.
type Cache struct {
	opts []CompileOption

	mu       sync.Mutex
	compiled map[uint64]*Validator
}

// NewCache constructs a Cache. The options apply to every compilation it
// performs.
func NewCache(opts ...CompileOption) *Cache {
	return &Cache{
		opts:     opts,
		compiled: make(map[uint64]*Validator),
	}
}

// Compile returns the cached Validator for the schema, compiling it on the
// first sight. Safe for concurrent use.
func (c *Cache) Compile(schema any) (*Validator, error) {
	key := document.Digest(schema)
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.compiled[key]; ok {
		return v, nil
	}
	v, err := Compile(schema, c.opts...)
	if err != nil {
		return nil, err
	}
	c.compiled[key] = v
	return v, nil
}

// Len reports how many schemas the cache holds.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.compiled)
}
