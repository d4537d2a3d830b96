// Package catalog holds the application entries offered to portal users and
// the group-based visibility filter. The catalog is configuration, not data:
// it is loaded once at startup and never mutated.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Entry is one application exposed to end users. An entry is visible to a
// caller iff the caller's groups intersect RequiredGroups.
type Entry struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	URL            string   `json:"url"`
	Icon           string   `json:"icon"`
	Type           string   `json:"type"`
	Category       string   `json:"category"`
	RequiredGroups []string `json:"requiredGroups"`
}

// ErrNotFound is returned for unknown entry ids.
var ErrNotFound = errors.New("catalog: entry not found")

// Catalog is an immutable list of entries with unique ids.
type Catalog struct {
	entries []Entry
	byID    map[string]int
}

// New builds a catalog, rejecting duplicate or blank ids.
func New(entries []Entry) (*Catalog, error) {
	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: entry %d has no id", i)
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate entry id %q", id)
		}
		byID[id] = i
	}
	return &Catalog{entries: entries, byID: byID}, nil
}

// Load reads a catalog from a JSON file, or returns the built-in default when
// path is empty. A configured file replaces the default wholesale.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return New(defaultEntries())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(entries)
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Get returns the entry with the given id.
func (c *Catalog) Get(id string) (Entry, error) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return c.entries[i], nil
}

// Visible returns the entries the caller may see, in catalog order.
func (c *Catalog) Visible(callerGroups []string) []Entry {
	return Filter(c.entries, callerGroups)
}

// Filter selects the entries whose required groups intersect callerGroups.
// It is order-preserving, deterministic and performs no I/O.
func Filter(entries []Entry, callerGroups []string) []Entry {
	if len(entries) == 0 {
		return []Entry{}
	}
	groups := make(map[string]struct{}, len(callerGroups))
	for _, g := range callerGroups {
		g = strings.TrimSpace(g)
		if g != "" {
			groups[g] = struct{}{}
		}
	}

	visible := make([]Entry, 0, len(entries))
	for _, e := range entries {
		for _, required := range e.RequiredGroups {
			if _, ok := groups[required]; ok {
				visible = append(visible, e)
				break
			}
		}
	}
	return visible
}
