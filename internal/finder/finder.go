package finder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tender-barbarian/xmldocmd/internal/catalog"
)

// MatchMode controls how type names are compared in FindType.
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchPrefix   MatchMode = "prefix"
	MatchContains MatchMode = "contains"
)

func matchesQuery(symbolName, query string, mode MatchMode) bool {
	switch mode {
	case MatchPrefix:
		return strings.HasPrefix(symbolName, query)
	case MatchContains:
		return strings.Contains(symbolName, query)
	default:
		return symbolName == query
	}
}

// Link is the outcome of resolving one reference marker.
type Link struct {
	Text     string `json:"text"`
	Target   string `json:"target,omitempty"`
	Internal bool   `json:"internal"`
}

// Markdown renders the link, or the bracketed fallback for unresolved targets.
func (l Link) Markdown() string {
	if !l.Internal {
		return "[" + l.Text + "]"
	}
	return "[" + l.Text + "](" + l.Target + ")"
}

// Finder resolves cross-references and answers type queries against a frozen
// Catalog. It never modifies the Catalog.
type Finder struct {
	cat     *catalog.Catalog
	baseURI string
}

// New creates a Finder. baseURI must already be normalized; empty means links
// point at in-document anchors.
func New(cat *catalog.Catalog, baseURI string) *Finder {
	return &Finder{cat: cat, baseURI: baseURI}
}

// Catalog returns the catalog the Finder reads from.
func (f *Finder) Catalog() *catalog.Catalog {
	return f.cat
}

// Identifier strips a "kind:" prefix up to the first colon from a cref.
func Identifier(cref string) string {
	if _, id, ok := strings.Cut(cref, ":"); ok {
		return id
	}
	return cref
}

// Resolve maps a reference marker target to a Link. Targets naming a Catalog
// entry resolve internally; everything else falls back to the raw target.
func (f *Finder) Resolve(cref string) Link {
	id := Identifier(cref)
	if _, ok := f.cat.Lookup(id); !ok {
		return Link{Text: cref}
	}
	if f.baseURI != "" {
		return Link{Text: id, Target: f.baseURI + "/" + id, Internal: true}
	}
	return Link{Text: id, Target: "#" + id + ".md", Internal: true}
}

// FindType searches catalog entries by simple name. mode controls how name is
// compared: exact (default), prefix, or contains. Results are sorted by
// fully-qualified name.
func (f *Finder) FindType(name string, mode MatchMode) []*catalog.Entry {
	var result []*catalog.Entry
	for _, e := range f.cat.Entries() {
		if matchesQuery(e.Type.Name, name, mode) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Type.FullName() < result[j].Type.FullName()
	})
	return result
}

// GetType returns the entry registered under a fully-qualified name.
func (f *Finder) GetType(fullName string) (*catalog.Entry, bool) {
	return f.cat.Lookup(fullName)
}

// ListTypes returns all entries whose namespace starts with prefix, in
// catalog order.
func (f *Finder) ListTypes(prefix string) []*catalog.Entry {
	entries := f.cat.Entries()
	if prefix == "" {
		return entries
	}
	result := make([]*catalog.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Type.Namespace, prefix) {
			result = append(result, e)
		}
	}
	return result
}

// FindSubtypes returns the catalog entries that inherit, directly or
// transitively, from the type registered under fullName, sorted by
// fully-qualified name.
func (f *Finder) FindSubtypes(fullName string) ([]*catalog.Entry, error) {
	target, ok := f.cat.Lookup(fullName)
	if !ok {
		return nil, fmt.Errorf("type %q not found", fullName)
	}

	var result []*catalog.Entry
	for _, e := range f.cat.Entries() {
		for base := e.Type.Base; base != nil && !base.Root; base = base.Base {
			if base == target.Type {
				result = append(result, e)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Type.FullName() < result[j].Type.FullName()
	})
	return result, nil
}
