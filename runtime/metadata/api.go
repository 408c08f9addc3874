package metadata

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownType is returned for type names no catalog entry matches.
var ErrUnknownType = errors.New("unknown type")

// Factory creates a fresh bound value of one registered type.
type Factory func() Instance

// Catalog maps type names to factories. It is the lookup used by tooling
// that receives a type name from the outside world (command line, HTTP).
//
// Example usage:
//
//	catalog := metadata.NewCatalog()
//	metadata.Add(catalog, func() Player { return Player{Name: "Bob"} })
//
//	inst, err := catalog.New("Player")
//	if err != nil {
//		log.Fatal(err)
//	}
//	inst.Document().Encode(os.Stdout, document.FormatJSON, 4)
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
	schemas   map[string]Schema
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		factories: make(map[string]Factory),
		schemas:   make(map[string]Schema),
	}
}

// Add registers T under its type name. newValue supplies the initial
// state of every instance; nil means the zero value. Adding a name twice
// replaces the earlier factory.
func Add[T Reflective[T]](c *Catalog, newValue func() T) {
	reg := RegistryFor[T]()
	factory := func() Instance {
		var v T
		if newValue != nil {
			v = newValue()
		}
		return Bind(&v)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[reg.typeName] = factory
	c.schemas[reg.typeName] = reg
}

// Names returns the registered type names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.factories[name]
	return ok
}

// New creates an instance of the named type.
func (c *Catalog) New(name string) (Instance, error) {
	c.mu.RLock()
	factory, ok := c.factories[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return factory(), nil
}

// Schema returns the schema of the named type.
func (c *Catalog) Schema(name string) (Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.schemas[name]
	return s, ok
}

// Types describes every registered type, sorted by name.
func (c *Catalog) Types() []TypeInfo {
	names := c.Names()
	infos := make([]TypeInfo, 0, len(names))
	for _, name := range names {
		if s, ok := c.Schema(name); ok {
			infos = append(infos, s.Describe())
		}
	}
	return infos
}

// Graph builds the nesting graph of every registered type.
func (c *Catalog) Graph() *DependencyGraph {
	names := c.Names()
	roots := make([]Schema, 0, len(names))
	for _, name := range names {
		if s, ok := c.Schema(name); ok {
			roots = append(roots, s)
		}
	}
	return BuildTypeGraph(roots...)
}

// Dependencies returns the nesting graph around the named type.
//
//   - Depth: Maximum traversal depth (0 = unlimited)
//   - Reverse: If true, finds the types that nest this one
func (c *Catalog) Dependencies(name string, opts DependencyOptions) (*DependencyGraph, error) {
	if !c.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return Dependencies(c.Graph(), name, opts)
}
