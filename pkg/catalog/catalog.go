// Package catalog holds the read-only reference lists (categories, groups)
// supplied by the CRUD layer before an import session starts. The import
// pipeline resolves free-text names against these lists but never writes to
// them.
package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Entry is one named reference item with its external identifier.
type Entry struct {
	ID   uuid.UUID
	Name string
}

// Catalog is an immutable name/ID lookup built once per import session.
type Catalog struct {
	entries []Entry
	byName  map[string]Entry // lower-cased name -> entry
}

// New builds a catalog from entries. Names are matched case-insensitively;
// on duplicate names the first entry wins.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		byName:  make(map[string]Entry, len(entries)),
	}
	copy(c.entries, entries)
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			continue
		}
		if _, ok := c.byName[key]; !ok {
			c.byName[key] = e
		}
	}
	return c
}

// Lookup returns the entry whose name matches case-insensitively.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

// Contains reports whether a name exists in the catalog.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Names returns the catalog names sorted case-insensitively. Sorting keeps
// downstream fuzzy matching deterministic when the upstream order is not.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		if strings.TrimSpace(e.Name) != "" {
			names = append(names, e.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
