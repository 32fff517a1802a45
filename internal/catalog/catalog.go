// Package catalog maps every documented type to its output identifier.
package catalog

import (
	"errors"
	"fmt"

	"github.com/tender-barbarian/xmldocmd/internal/symtab"
)

// ErrCollision is wrapped by CollisionError.
var ErrCollision = errors.New("output identifier collision")

// CollisionError reports a type whose output identifier is already taken by
// a different fully-qualified name.
type CollisionError struct {
	ID       string
	Existing string
	Rejected string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %s already maps to %s, skipping %s", ErrCollision, e.Existing, e.ID, e.Rejected)
}

func (e *CollisionError) Unwrap() error { return ErrCollision }

// Entry pairs a type with the identifier of the page rendered for it.
type Entry struct {
	ID   string
	Type *symtab.TypeSymbol
}

// OutputID returns the deterministic identifier "{namespace}.{name}.md".
func OutputID(t *symtab.TypeSymbol) string {
	return t.Namespace + "." + t.Name + ".md"
}

// Builder collects entries during discovery. It is not safe for concurrent use.
type Builder struct {
	byName map[string]*Entry
	byID   map[string]*Entry
	order  []*Entry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		byName: make(map[string]*Entry),
		byID:   make(map[string]*Entry),
	}
}

// Register adds t under its fully-qualified name. Registering the same name
// again is a no-op that returns the existing entry.
func (b *Builder) Register(t *symtab.TypeSymbol) (*Entry, error) {
	name := t.FullName()
	if e, ok := b.byName[name]; ok {
		return e, nil
	}
	id := OutputID(t)
	if e, ok := b.byID[id]; ok {
		return nil, &CollisionError{ID: id, Existing: e.Type.FullName(), Rejected: name}
	}
	e := &Entry{ID: id, Type: t}
	b.byName[name] = e
	b.byID[id] = e
	b.order = append(b.order, e)
	return e, nil
}

// Build freezes the collected entries. The Builder must not be used afterwards.
func (b *Builder) Build() *Catalog {
	c := &Catalog{byName: b.byName, order: b.order}
	b.byName, b.byID, b.order = nil, nil, nil
	return c
}

// Catalog is the frozen registry produced by a Builder. It has no mutators,
// so it can be shared freely once built.
type Catalog struct {
	byName map[string]*Entry
	order  []*Entry
}

// Build registers every type in types and returns the frozen Catalog along
// with the collisions that were skipped.
func Build(types []*symtab.TypeSymbol) (*Catalog, []error) {
	b := NewBuilder()
	var errs []error
	for _, t := range types {
		if _, err := b.Register(t); err != nil {
			errs = append(errs, err)
		}
	}
	return b.Build(), errs
}

// Lookup returns the entry registered under a fully-qualified type name.
func (c *Catalog) Lookup(fullName string) (*Entry, bool) {
	e, ok := c.byName[fullName]
	return e, ok
}

// Entries returns all entries in registration order.
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.order)
}
